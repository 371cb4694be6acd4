package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus classifies how much of a document has been paid.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPartial PaymentStatus = "PARTIAL"
	PaymentPaid    PaymentStatus = "PAID"
)

// PaymentStatusFor derives the status from paid and balance amounts.
func PaymentStatusFor(paid, balance decimal.Decimal) PaymentStatus {
	switch {
	case balance.IsZero():
		return PaymentPaid
	case paid.IsPositive():
		return PaymentPartial
	default:
		return PaymentPending
	}
}

// PaymentMode is the instrument used to settle money.
type PaymentMode string

const (
	ModeCash         PaymentMode = "CASH"
	ModeCard         PaymentMode = "CARD"
	ModeUPI          PaymentMode = "UPI"
	ModeBankTransfer PaymentMode = "BANK_TRANSFER"
	ModeCheque       PaymentMode = "CHEQUE"
	ModeCredit       PaymentMode = "CREDIT"
)

// TaxBreakdown holds the GST components of an amount.
type TaxBreakdown struct {
	CGST decimal.Decimal `json:"cgst"`
	SGST decimal.Decimal `json:"sgst"`
	IGST decimal.Decimal `json:"igst"`
}

// Total returns CGST + SGST + IGST.
func (t TaxBreakdown) Total() decimal.Decimal {
	return t.CGST.Add(t.SGST).Add(t.IGST)
}

// Add sums two breakdowns component-wise.
func (t TaxBreakdown) Add(o TaxBreakdown) TaxBreakdown {
	return TaxBreakdown{CGST: t.CGST.Add(o.CGST), SGST: t.SGST.Add(o.SGST), IGST: t.IGST.Add(o.IGST)}
}

// DocumentTotals are the aggregates shared by bills, purchases and returns.
// Total == Subtotal - Discount + Tax.Total(). On bills and purchases
// Balance == Total - Paid - credit from returns, never below zero. On a return, Paid is the
// part of Total refunded because the original was already settled.
type DocumentTotals struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Tax           TaxBreakdown    `json:"tax"`
	TaxTotal      decimal.Decimal `json:"taxTotal"`
	Total         decimal.Decimal `json:"total"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	BalanceAmount decimal.Decimal `json:"balanceAmount"`
}

// LineAmounts are the computed money fields of a document line.
// LineTotal == Quantity * Rate, pre-tax.
type LineAmounts struct {
	Quantity  decimal.Decimal `json:"quantity"`
	Rate      decimal.Decimal `json:"rate"`
	TaxRate   decimal.Decimal `json:"taxRate"`
	Tax       TaxBreakdown    `json:"tax"`
	TaxAmount decimal.Decimal `json:"taxAmount"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// Bill is a committed sale.
type Bill struct {
	BillID              string          `json:"billID"`
	BillNumber          string          `json:"billNumber"`
	BillDate            time.Time       `json:"billDate"`
	CustomerID          *string         `json:"customerID,omitempty"`
	InterState          bool            `json:"interState"`
	PaymentMode         PaymentMode     `json:"paymentMode"`
	PaymentStatus       PaymentStatus   `json:"paymentStatus"`
	PointsRedeemed      decimal.Decimal `json:"pointsRedeemed"`
	PointsEarned        decimal.Decimal `json:"pointsEarned"`
	Notes               string          `json:"notes,omitempty"`
	IsActive            bool            `json:"isActive"`
	Items               []BillItem      `json:"items"`
	DocumentTotals
	AuditFields
}

// BillItem is one line of a bill.
type BillItem struct {
	BillItemID string `json:"billItemID"`
	BillID     string `json:"billID"`
	ProductID  string `json:"productID"`
	LineAmounts
}
