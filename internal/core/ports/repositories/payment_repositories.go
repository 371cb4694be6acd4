package repositories

import (
	"context"

	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PaymentReader defines read operations for payments
type PaymentReader interface {
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)
	// ListPaymentsByTarget returns the payments for a target, oldest first.
	ListPaymentsByTarget(ctx context.Context, targetType domain.PaymentTargetType, targetID string) ([]domain.Payment, error)
}

// PaymentTxRepository is the transactional side of payments.
type PaymentTxRepository interface {
	InsertPayment(ctx context.Context, payment domain.Payment) error
	// SumPaymentsByTarget returns the sum of committed payments for the target.
	SumPaymentsByTarget(ctx context.Context, targetType domain.PaymentTargetType, targetID string) (decimal.Decimal, error)
}
