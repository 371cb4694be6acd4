package domain

import "time"

// Purchase is a committed inbound stock document from a supplier.
type Purchase struct {
	PurchaseID        string         `json:"purchaseID"`
	PurchaseNumber    string         `json:"purchaseNumber"`
	PurchaseDate      time.Time      `json:"purchaseDate"`
	SupplierID        string         `json:"supplierID"`
	SupplierInvoiceNo string         `json:"supplierInvoiceNo,omitempty"`
	InterState        bool           `json:"interState"`
	PaymentMode       PaymentMode    `json:"paymentMode"`
	PaymentStatus     PaymentStatus  `json:"paymentStatus"`
	Notes             string         `json:"notes,omitempty"`
	IsActive          bool           `json:"isActive"`
	Items             []PurchaseItem `json:"items"`
	DocumentTotals
	AuditFields
}

// PurchaseItem is one line of a purchase. Rate is the unit cost.
type PurchaseItem struct {
	PurchaseItemID string `json:"purchaseItemID"`
	PurchaseID     string `json:"purchaseID"`
	ProductID      string `json:"productID"`
	LineAmounts
}
