package dto

import (
	"time"

	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PurchaseItemRequest is one received line.
type PurchaseItemRequest struct {
	ProductID string           `json:"productID" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitCost  decimal.Decimal  `json:"unitCost"`
	TaxRate   *decimal.Decimal `json:"taxRate"` // defaults to the product's tax rate
}

// CreatePurchaseRequest is the command for inbound stock from a supplier.
type CreatePurchaseRequest struct {
	PurchaseDate      *time.Time            `json:"purchaseDate"`
	SupplierID        string                `json:"supplierID" binding:"required"`
	SupplierInvoiceNo string                `json:"supplierInvoiceNo" binding:"max=64"`
	InterState        *bool                 `json:"interState"`
	PaymentMode       domain.PaymentMode    `json:"paymentMode" binding:"required,oneof=CASH CARD UPI BANK_TRANSFER CHEQUE CREDIT"`
	PaymentReference  string                `json:"paymentReference" binding:"max=128"`
	Discount          decimal.Decimal       `json:"discount"`
	PaidAmount        decimal.Decimal       `json:"paidAmount"`
	Notes             string                `json:"notes" binding:"max=500"`
	Items             []PurchaseItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreatePurchaseResponse is returned after a purchase is committed.
type CreatePurchaseResponse struct {
	PurchaseID     string `json:"purchaseID"`
	PurchaseNumber string `json:"purchaseNumber"`
}
