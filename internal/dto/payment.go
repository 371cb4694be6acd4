package dto

import (
	"time"

	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordPaymentRequest is the command for one payment event.
// TargetType and TargetID are normally taken from the route.
type RecordPaymentRequest struct {
	TargetType  domain.PaymentTargetType `json:"targetType" binding:"required,oneof=BILL PURCHASE ACCOUNT"`
	TargetID    string                   `json:"targetID" binding:"required"`
	PartyType   domain.PartyType         `json:"partyType" binding:"omitempty,oneof=CUSTOMER SUPPLIER"` // ACCOUNT targets only
	Amount      decimal.Decimal          `json:"amount"`
	Mode        domain.PaymentMode       `json:"mode" binding:"required,oneof=CASH CARD UPI BANK_TRANSFER CHEQUE CREDIT"`
	Reference   string                   `json:"reference" binding:"max=128"`
	PaymentDate *time.Time               `json:"paymentDate"`
}

// PaymentInput is the body accepted by the payment routes.
type PaymentInput struct {
	Amount      decimal.Decimal    `json:"amount"`
	Mode        domain.PaymentMode `json:"mode" binding:"required,oneof=CASH CARD UPI BANK_TRANSFER CHEQUE CREDIT"`
	Reference   string             `json:"reference" binding:"max=128"`
	PaymentDate *time.Time         `json:"paymentDate"`
}

// ToRecordPaymentRequest attaches a target to the body.
func (in PaymentInput) ToRecordPaymentRequest(targetType domain.PaymentTargetType, targetID string, partyType domain.PartyType) RecordPaymentRequest {
	return RecordPaymentRequest{
		TargetType:  targetType,
		TargetID:    targetID,
		PartyType:   partyType,
		Amount:      in.Amount,
		Mode:        in.Mode,
		Reference:   in.Reference,
		PaymentDate: in.PaymentDate,
	}
}
