package services

import (
	"context"

	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/dto"
)

// PaymentWriterSvc records payment events.
type PaymentWriterSvc interface {
	// RecordPayment settles part or all of a bill, a purchase or a party's outstanding
	// balance. Amounts above what is still owed are rejected.
	RecordPayment(ctx context.Context, req dto.RecordPaymentRequest, userID string) (*domain.Payment, error)
}

// PaymentReaderSvc defines read operations for payments
type PaymentReaderSvc interface {
	GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)
	ListPayments(ctx context.Context, targetType domain.PaymentTargetType, targetID string) ([]domain.Payment, error)
}

// PaymentSvcFacade combines the payment interfaces
type PaymentSvcFacade interface {
	PaymentWriterSvc
	PaymentReaderSvc
}
