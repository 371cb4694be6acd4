package domain

import "github.com/shopspring/decimal"

// Product is a stockable item. CurrentStock is a projection of the stock ledger and is
// only ever changed by appending a StockLedgerEntry.
type Product struct {
	ProductID     string          `json:"productID"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	HSNCode       string          `json:"hsnCode"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
	MRP           decimal.Decimal `json:"mrp"`
	TaxRate       decimal.Decimal `json:"taxRate"` // percent, e.g. 18.00
	CurrentStock  decimal.Decimal `json:"currentStock"`
	IsActive      bool            `json:"isActive"`
	AuditFields
}
