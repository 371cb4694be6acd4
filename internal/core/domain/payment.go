package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentTargetType is what a payment settles.
type PaymentTargetType string

const (
	TargetBill     PaymentTargetType = "BILL"
	TargetPurchase PaymentTargetType = "PURCHASE"
	// TargetAccount settles a party's outstanding balance without a document.
	TargetAccount PaymentTargetType = "ACCOUNT"
)

// PartyType returns which counterpart a document target settles against.
// Account payments carry their party type on the payment itself.
func (t PaymentTargetType) PartyType() PartyType {
	if t == TargetPurchase {
		return PartySupplier
	}
	return PartyCustomer
}

// Payment is created once per payment event and never mutated.
// Customer payments have PartyType CUSTOMER, supplier payments SUPPLIER.
type Payment struct {
	PaymentID        string            `json:"paymentID"`
	PaymentNumber    string            `json:"paymentNumber"`
	PaymentDate      time.Time         `json:"paymentDate"`
	PartyType        PartyType         `json:"partyType"`
	PartyID          *string           `json:"partyID,omitempty"`
	TargetType       PaymentTargetType `json:"targetType"`
	TargetID         string            `json:"targetID"`
	Amount           decimal.Decimal   `json:"amount"`
	Mode             PaymentMode       `json:"mode"`
	Reference        string            `json:"reference,omitempty"`
	PreviousPaid     decimal.Decimal   `json:"previousPaid"`
	CurrentPayment   decimal.Decimal   `json:"currentPayment"`
	RemainingBalance decimal.Decimal   `json:"remainingBalance"`
	IsFullPayment    bool              `json:"isFullPayment"`
	CreatedAt        time.Time         `json:"createdAt"`
	CreatedBy        string            `json:"createdBy"`
}
