package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType identifies the kind of document a ledger entry or payment refers to.
type DocumentType string

const (
	DocBill           DocumentType = "BILL"
	DocPurchase       DocumentType = "PURCHASE"
	DocSaleReturn     DocumentType = "SALE_RETURN"
	DocPurchaseReturn DocumentType = "PURCHASE_RETURN"
	DocOpening        DocumentType = "OPENING"
	DocAdjustment     DocumentType = "ADJUSTMENT"
)

// RefDoc points at the document that caused a stock movement.
type RefDoc struct {
	Type   DocumentType `json:"type"`
	ID     string       `json:"id"`
	Number string       `json:"number"`
}

// StockLedgerEntry is an immutable record of one stock quantity change.
// Quantity is signed: positive for inbound, negative for outbound.
type StockLedgerEntry struct {
	EntryID    string          `json:"entryID"`
	Sequence   int64           `json:"sequence"` // global append order
	ProductID  string          `json:"productID"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unitCost"`
	RefDoc     RefDoc          `json:"refDoc"`
	StockAfter decimal.Decimal `json:"stockAfter"` // running stock after this entry
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	CreatedBy  string          `json:"createdBy"`
}

// IsOutbound reports whether the entry removes stock.
func (e StockLedgerEntry) IsOutbound() bool {
	return e.Quantity.IsNegative()
}

// StockMovement is the command consumed by the inventory ledger.
type StockMovement struct {
	ProductID string
	Delta     decimal.Decimal
	UnitCost  decimal.Decimal
	RefDoc    RefDoc
	Notes     string
}
