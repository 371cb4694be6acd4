package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/apperrors"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	portsrepo "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/repositories"
	portssvc "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/services"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/dto"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/utils/gst"
	"github.com/shopspring/decimal"
)

// newPayment builds the immutable payment row. owed is what was still due before this payment.
func newPayment(
	number string,
	partyType domain.PartyType,
	partyID *string,
	targetType domain.PaymentTargetType,
	targetID string,
	amount decimal.Decimal,
	mode domain.PaymentMode,
	reference string,
	previousPaid, owed decimal.Decimal,
	paymentDate time.Time,
	userID string,
	now time.Time,
) domain.Payment {
	return domain.Payment{
		PaymentID:        uuid.NewString(),
		PaymentNumber:    number,
		PaymentDate:      paymentDate,
		PartyType:        partyType,
		PartyID:          partyID,
		TargetType:       targetType,
		TargetID:         targetID,
		Amount:           amount,
		Mode:             mode,
		Reference:        reference,
		PreviousPaid:     previousPaid,
		CurrentPayment:   amount,
		RemainingBalance: owed.Sub(amount),
		IsFullPayment:    amount.GreaterThanOrEqual(owed),
		CreatedAt:        now,
		CreatedBy:        userID,
	}
}

type paymentService struct {
	BaseService
	paymentRepo portsrepo.PaymentReader
	sequences   portssvc.SequenceAuthority
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// NewPaymentService creates the payment recorder.
func NewPaymentService(paymentRepo portsrepo.PaymentReader, sequences portssvc.SequenceAuthority, txManager portsrepo.TransactionManager, options ...ServiceOption) portssvc.PaymentSvcFacade {
	return &paymentService{
		BaseService: newBaseService(txManager, options...),
		paymentRepo: paymentRepo,
		sequences:   sequences,
	}
}

func (s *paymentService) RecordPayment(ctx context.Context, req dto.RecordPaymentRequest, userID string) (*domain.Payment, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	amount := req.Amount.Round(gst.MoneyPlaces)
	if err := requirePositive("amount", amount); err != nil {
		return nil, err
	}
	if req.TargetType == domain.TargetAccount && req.PartyType == "" {
		return nil, validationError("partyType is required for account payments")
	}

	now := s.now()
	paymentDate := now
	if req.PaymentDate != nil {
		paymentDate = req.PaymentDate.UTC()
	}

	var payment *domain.Payment
	err := s.runUnit(ctx, "record_payment", func(ctx context.Context, tx portsrepo.TxRepositories) error {
		var (
			recorded *domain.Payment
			err      error
		)
		switch req.TargetType {
		case domain.TargetBill:
			recorded, err = s.payBill(ctx, tx, req, amount, userID, paymentDate, now)
		case domain.TargetPurchase:
			recorded, err = s.payPurchase(ctx, tx, req, amount, userID, paymentDate, now)
		case domain.TargetAccount:
			recorded, err = s.payAccount(ctx, tx, req, amount, userID, paymentDate, now)
		default:
			err = validationError("unknown payment target %q", req.TargetType)
		}
		if err != nil {
			return err
		}
		payment = recorded
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Payment rejected",
			slog.String("target_type", string(req.TargetType)),
			slog.String("target_id", req.TargetID),
			slog.String("amount", amount.String()))
		return nil, err
	}

	s.LogInfo(ctx, "Payment recorded",
		slog.String("payment_number", payment.PaymentNumber),
		slog.String("target_id", payment.TargetID),
		slog.String("remaining_balance", payment.RemainingBalance.String()))
	return payment, nil
}

// settle validates amount against what is still owed on a document. The document balance
// already reflects returns, so it can be lower than total minus payments.
func settle(ctx context.Context, tx portsrepo.TxRepositories, targetType domain.PaymentTargetType, targetID string, totals domain.DocumentTotals, amount decimal.Decimal) (previousPaid, owed decimal.Decimal, err error) {
	previousPaid, err = tx.Payments().SumPaymentsByTarget(ctx, targetType, targetID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	owed = decimal.Min(totals.Total.Sub(previousPaid), totals.BalanceAmount)
	if !owed.IsPositive() {
		return decimal.Zero, decimal.Zero, validationError("%s %s is already fully settled", targetType, targetID)
	}
	if amount.GreaterThan(owed) {
		return decimal.Zero, decimal.Zero, validationError("payment %s exceeds remaining balance %s", amount.String(), owed.String())
	}
	return previousPaid, owed, nil
}

func (s *paymentService) payBill(ctx context.Context, tx portsrepo.TxRepositories, req dto.RecordPaymentRequest, amount decimal.Decimal, userID string, paymentDate, now time.Time) (*domain.Payment, error) {
	bill, err := tx.Bills().LockBill(ctx, req.TargetID)
	if err != nil {
		return nil, err
	}
	if !bill.IsActive {
		return nil, validationError("bill %s is cancelled", bill.BillID)
	}
	previousPaid, owed, err := settle(ctx, tx, domain.TargetBill, bill.BillID, bill.DocumentTotals, amount)
	if err != nil {
		return nil, err
	}
	number, err := s.sequences.NextNumber(ctx, tx, domain.SeriesPayment, now)
	if err != nil {
		return nil, err
	}
	if bill.CustomerID != nil {
		if _, err := tx.Parties().LockCustomer(ctx, *bill.CustomerID); err != nil {
			return nil, err
		}
	}

	payment := newPayment(number, domain.PartyCustomer, bill.CustomerID, domain.TargetBill, bill.BillID,
		amount, req.Mode, req.Reference, previousPaid, owed, paymentDate, userID, now)
	if err := tx.Payments().InsertPayment(ctx, payment); err != nil {
		return nil, err
	}

	paid := previousPaid.Add(amount)
	balance := owed.Sub(amount)
	if err := tx.Bills().UpdateBillPayment(ctx, bill.BillID, paid, balance, domain.PaymentStatusFor(paid, balance), userID, now); err != nil {
		return nil, err
	}
	if bill.CustomerID != nil {
		if _, err := tx.Parties().AdjustCustomerOutstanding(ctx, *bill.CustomerID, amount.Neg(), userID, now); err != nil {
			return nil, err
		}
	}
	return &payment, nil
}

func (s *paymentService) payPurchase(ctx context.Context, tx portsrepo.TxRepositories, req dto.RecordPaymentRequest, amount decimal.Decimal, userID string, paymentDate, now time.Time) (*domain.Payment, error) {
	purchase, err := tx.Purchases().LockPurchase(ctx, req.TargetID)
	if err != nil {
		return nil, err
	}
	if !purchase.IsActive {
		return nil, validationError("purchase %s is cancelled", purchase.PurchaseID)
	}
	previousPaid, owed, err := settle(ctx, tx, domain.TargetPurchase, purchase.PurchaseID, purchase.DocumentTotals, amount)
	if err != nil {
		return nil, err
	}
	number, err := s.sequences.NextNumber(ctx, tx, domain.SeriesPayment, now)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Parties().LockSupplier(ctx, purchase.SupplierID); err != nil {
		return nil, err
	}

	supplierID := purchase.SupplierID
	payment := newPayment(number, domain.PartySupplier, &supplierID, domain.TargetPurchase, purchase.PurchaseID,
		amount, req.Mode, req.Reference, previousPaid, owed, paymentDate, userID, now)
	if err := tx.Payments().InsertPayment(ctx, payment); err != nil {
		return nil, err
	}

	paid := previousPaid.Add(amount)
	balance := owed.Sub(amount)
	if err := tx.Purchases().UpdatePurchasePayment(ctx, purchase.PurchaseID, paid, balance, domain.PaymentStatusFor(paid, balance), userID, now); err != nil {
		return nil, err
	}
	if _, err := tx.Parties().AdjustSupplierOutstanding(ctx, purchase.SupplierID, amount.Neg(), userID, now); err != nil {
		return nil, err
	}
	return &payment, nil
}

// payAccount settles a party's outstanding balance without a document.
func (s *paymentService) payAccount(ctx context.Context, tx portsrepo.TxRepositories, req dto.RecordPaymentRequest, amount decimal.Decimal, userID string, paymentDate, now time.Time) (*domain.Payment, error) {
	number, err := s.sequences.NextNumber(ctx, tx, domain.SeriesPayment, now)
	if err != nil {
		return nil, err
	}

	var outstanding decimal.Decimal
	switch req.PartyType {
	case domain.PartyCustomer:
		customer, err := tx.Parties().LockCustomer(ctx, req.TargetID)
		if err != nil {
			return nil, err
		}
		outstanding = customer.OutstandingBalance
	case domain.PartySupplier:
		supplier, err := tx.Parties().LockSupplier(ctx, req.TargetID)
		if err != nil {
			return nil, err
		}
		outstanding = supplier.OutstandingBalance
	default:
		return nil, validationError("unknown party type %q", req.PartyType)
	}
	if amount.GreaterThan(outstanding) {
		return nil, validationError("payment %s exceeds outstanding balance %s", amount.String(), outstanding.String())
	}

	previousPaid, err := tx.Payments().SumPaymentsByTarget(ctx, domain.TargetAccount, req.TargetID)
	if err != nil {
		return nil, err
	}
	partyID := req.TargetID
	payment := newPayment(number, req.PartyType, &partyID, domain.TargetAccount, req.TargetID,
		amount, req.Mode, req.Reference, previousPaid, outstanding, paymentDate, userID, now)
	if err := tx.Payments().InsertPayment(ctx, payment); err != nil {
		return nil, err
	}

	if req.PartyType == domain.PartyCustomer {
		_, err = tx.Parties().AdjustCustomerOutstanding(ctx, req.TargetID, amount.Neg(), userID, now)
	} else {
		_, err = tx.Parties().AdjustSupplierOutstanding(ctx, req.TargetID, amount.Neg(), userID, now)
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *paymentService) GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find payment", slog.String("payment_id", paymentID))
		}
		return nil, err
	}
	return payment, nil
}

func (s *paymentService) ListPayments(ctx context.Context, targetType domain.PaymentTargetType, targetID string) ([]domain.Payment, error) {
	payments, err := s.paymentRepo.ListPaymentsByTarget(ctx, targetType, targetID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list payments", slog.String("target_id", targetID))
		return nil, err
	}
	return payments, nil
}
