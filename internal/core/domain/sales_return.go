package domain

import "time"

// ReturnKind tells which way the goods travel.
type ReturnKind string

const (
	// SaleReturn brings goods back from a customer (stock in).
	SaleReturn ReturnKind = "SALE_RETURN"
	// PurchaseReturn sends goods back to a supplier (stock out).
	PurchaseReturn ReturnKind = "PURCHASE_RETURN"
)

// DocumentType maps the kind to the ledger reference type.
func (k ReturnKind) DocumentType() DocumentType {
	if k == PurchaseReturn {
		return DocPurchaseReturn
	}
	return DocSaleReturn
}

// Return is a committed return against an earlier bill or purchase. Its value is net of the
// original's discount and first reduces the original's balance.
type Return struct {
	ReturnID             string       `json:"returnID"`
	ReturnNumber         string       `json:"returnNumber"`
	ReturnDate           time.Time    `json:"returnDate"`
	Kind                 ReturnKind   `json:"kind"`
	OriginalDocID        string       `json:"originalDocID"`
	OriginalDocNumber    string       `json:"originalDocNumber"`
	PartyID              *string      `json:"partyID,omitempty"`
	InterState           bool         `json:"interState"`
	Reason               string       `json:"reason,omitempty"`
	IsActive             bool         `json:"isActive"`
	Items                []ReturnItem `json:"items"`
	DocumentTotals
	AuditFields
}

// ReturnItem is one returned line. Rate and tax rate come from the original document line.
type ReturnItem struct {
	ReturnItemID string `json:"returnItemID"`
	ReturnID     string `json:"returnID"`
	ProductID    string `json:"productID"`
	LineAmounts
}
