package dto

import (
	"time"

	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BillItemRequest is one requested sale line.
type BillItemRequest struct {
	ProductID string           `json:"productID" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity"`
	Rate      *decimal.Decimal `json:"rate"`    // defaults to the product's selling price
	TaxRate   *decimal.Decimal `json:"taxRate"` // defaults to the product's tax rate
}

// CreateBillRequest is the command for a sale.
type CreateBillRequest struct {
	BillDate         *time.Time         `json:"billDate"`
	CustomerID       *string            `json:"customerID"`
	InterState       *bool              `json:"interState"` // derived from state codes when nil
	PaymentMode      domain.PaymentMode `json:"paymentMode" binding:"required,oneof=CASH CARD UPI BANK_TRANSFER CHEQUE CREDIT"`
	PaymentReference string             `json:"paymentReference" binding:"max=128"`
	Discount         decimal.Decimal    `json:"discount"`
	PaidAmount       decimal.Decimal    `json:"paidAmount"`
	RedeemPoints     decimal.Decimal    `json:"redeemPoints"`
	Notes            string             `json:"notes" binding:"max=500"`
	Items            []BillItemRequest  `json:"items" binding:"required,min=1,dive"`
}

// CreateBillResponse is returned after a bill is committed.
type CreateBillResponse struct {
	BillID     string `json:"billID"`
	BillNumber string `json:"billNumber"`
}
