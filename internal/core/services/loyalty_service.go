package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	portsrepo "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/repositories"
	portssvc "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/services"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/dto"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/platform/config"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// loyaltyLedger appends loyalty movements inside a caller's unit of work.
// The customer row must already be locked.
type loyaltyLedger struct {
	policy config.LoyaltyPolicy
}

// EarnedPoints returns the points a bill total accrues, floored to two decimals.
func (l loyaltyLedger) EarnedPoints(billTotal decimal.Decimal) decimal.Decimal {
	if !l.policy.EarnRate.IsPositive() || !billTotal.IsPositive() {
		return decimal.Zero
	}
	return billTotal.Mul(l.policy.EarnRate).RoundFloor(2)
}

// RedemptionValue converts points into a currency discount.
func (l loyaltyLedger) RedemptionValue(points decimal.Decimal) decimal.Decimal {
	return points.Mul(l.policy.PointValue).Round(2)
}

func (l loyaltyLedger) append(ctx context.Context, tx portsrepo.TxRepositories, txn domain.LoyaltyTransaction) (*domain.LoyaltyTransaction, error) {
	txn.LoyaltyTxnID = uuid.NewString()
	stored, err := tx.Loyalty().AppendLoyaltyTransaction(ctx, txn)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// earn returns nil when the amount accrues no points.
func (l loyaltyLedger) earn(ctx context.Context, tx portsrepo.TxRepositories, customerID string, billTotal decimal.Decimal, ref *domain.RefDoc, notes, userID string, now time.Time) (*domain.LoyaltyTransaction, error) {
	points := l.EarnedPoints(billTotal)
	if points.IsZero() {
		return nil, nil
	}
	var expiresAt *time.Time
	if l.policy.ExpiryDays > 0 {
		exp := now.AddDate(0, 0, l.policy.ExpiryDays)
		expiresAt = &exp
	}
	return l.append(ctx, tx, domain.LoyaltyTransaction{
		CustomerID: customerID,
		Type:       domain.LoyaltyEarn,
		Points:     points,
		RefDoc:     ref,
		ExpiresAt:  expiresAt,
		Notes:      notes,
		CreatedAt:  now,
		CreatedBy:  userID,
	})
}

func (l loyaltyLedger) redeem(ctx context.Context, tx portsrepo.TxRepositories, customerID string, points decimal.Decimal, ref *domain.RefDoc, notes, userID string, now time.Time) (*domain.LoyaltyTransaction, error) {
	return l.append(ctx, tx, domain.LoyaltyTransaction{
		CustomerID: customerID,
		Type:       domain.LoyaltyRedeem,
		Points:     points.Neg(),
		RefDoc:     ref,
		Notes:      notes,
		CreatedAt:  now,
		CreatedBy:  userID,
	})
}

// loyaltyService implements the LoyaltySvcFacade interface
type loyaltyService struct {
	BaseService
	ledger      loyaltyLedger
	partyRepo   portsrepo.CustomerReader
	loyaltyRepo portsrepo.LoyaltyReader
}

var _ portssvc.LoyaltySvcFacade = (*loyaltyService)(nil)

// NewLoyaltyService creates the loyalty points service.
func NewLoyaltyService(policy config.LoyaltyPolicy, partyRepo portsrepo.CustomerReader, loyaltyRepo portsrepo.LoyaltyReader, txManager portsrepo.TransactionManager, options ...ServiceOption) portssvc.LoyaltySvcFacade {
	return &loyaltyService{
		BaseService: newBaseService(txManager, options...),
		ledger:      loyaltyLedger{policy: policy},
		partyRepo:   partyRepo,
		loyaltyRepo: loyaltyRepo,
	}
}

func lockActiveCustomer(ctx context.Context, tx portsrepo.TxRepositories, customerID string) (*domain.Customer, error) {
	customer, err := tx.Parties().LockCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive {
		return nil, validationError("customer %s is inactive", customerID)
	}
	return customer, nil
}

func (s *loyaltyService) EarnPoints(ctx context.Context, customerID string, req dto.EarnPointsRequest, userID string) (*domain.LoyaltyTransaction, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if err := requirePositive("bill total", req.BillTotal); err != nil {
		return nil, err
	}
	if s.ledger.EarnedPoints(req.BillTotal).IsZero() {
		return nil, validationError("bill total %s earns no points", req.BillTotal.String())
	}

	now := s.now()
	var txn *domain.LoyaltyTransaction
	err := s.runUnit(ctx, "earn_points", func(ctx context.Context, tx portsrepo.TxRepositories) error {
		if _, err := lockActiveCustomer(ctx, tx, customerID); err != nil {
			return err
		}
		stored, err := s.ledger.earn(ctx, tx, customerID, req.BillTotal, nil, req.Notes, userID, now)
		if err != nil {
			return err
		}
		txn = stored
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to earn loyalty points", slog.String("customer_id", customerID))
		return nil, err
	}
	return txn, nil
}

func (s *loyaltyService) RedeemPoints(ctx context.Context, customerID string, req dto.RedeemPointsRequest, userID string) (*domain.LoyaltyTransaction, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if err := requirePositive("points", req.Points); err != nil {
		return nil, err
	}

	now := s.now()
	var txn *domain.LoyaltyTransaction
	err := s.runUnit(ctx, "redeem_points", func(ctx context.Context, tx portsrepo.TxRepositories) error {
		if _, err := lockActiveCustomer(ctx, tx, customerID); err != nil {
			return err
		}
		stored, err := s.ledger.redeem(ctx, tx, customerID, req.Points, nil, req.Notes, userID, now)
		if err != nil {
			return err
		}
		txn = stored
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Loyalty redemption rejected",
			slog.String("customer_id", customerID),
			slog.String("points", req.Points.String()))
		return nil, err
	}
	s.LogInfo(ctx, "Loyalty points redeemed",
		slog.String("customer_id", customerID),
		slog.String("balance_after", txn.BalanceAfter.String()))
	return txn, nil
}

func (s *loyaltyService) AdjustPoints(ctx context.Context, customerID string, req dto.AdjustPointsRequest, userID string) (*domain.LoyaltyTransaction, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if req.Points.IsZero() {
		return nil, validationError("adjustment points must not be zero")
	}

	now := s.now()
	var txn *domain.LoyaltyTransaction
	err := s.runUnit(ctx, "adjust_points", func(ctx context.Context, tx portsrepo.TxRepositories) error {
		if _, err := tx.Parties().LockCustomer(ctx, customerID); err != nil {
			return err
		}
		stored, err := s.ledger.append(ctx, tx, domain.LoyaltyTransaction{
			CustomerID: customerID,
			Type:       domain.LoyaltyAdjust,
			Points:     req.Points,
			Notes:      req.Reason,
			CreatedAt:  now,
			CreatedBy:  userID,
		})
		if err != nil {
			return err
		}
		txn = stored
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Loyalty adjustment rejected", slog.String("customer_id", customerID))
		return nil, err
	}
	return txn, nil
}

// ExpirePoints retires earned points whose expiry has passed. Consumption is assumed to
// draw on the oldest points first, so the amount to expire is what remains of the expired
// earnings after every redemption, earlier expiry and negative adjustment.
func (s *loyaltyService) ExpirePoints(ctx context.Context, customerID string, req dto.ExpirePointsRequest, userID string) (*domain.LoyaltyTransaction, error) {
	now := s.now()
	asOf := now
	if req.AsOf != nil {
		asOf = req.AsOf.UTC()
	}

	var txn *domain.LoyaltyTransaction
	err := s.runUnit(ctx, "expire_points", func(ctx context.Context, tx portsrepo.TxRepositories) error {
		txn = nil
		if _, err := tx.Parties().LockCustomer(ctx, customerID); err != nil {
			return err
		}
		summary, err := tx.Loyalty().SummarizeLoyalty(ctx, customerID, asOf)
		if err != nil {
			return err
		}
		toExpire := expirablePoints(summary)
		if toExpire.IsZero() {
			return nil
		}
		stored, err := s.ledger.append(ctx, tx, domain.LoyaltyTransaction{
			CustomerID: customerID,
			Type:       domain.LoyaltyExpire,
			Points:     toExpire.Neg(),
			Notes:      fmt.Sprintf("expired as of %s", asOf.Format(time.DateOnly)),
			CreatedAt:  now,
			CreatedBy:  userID,
		})
		if err != nil {
			return err
		}
		txn = stored
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to expire loyalty points", slog.String("customer_id", customerID))
		return nil, err
	}
	if txn != nil {
		s.LogInfo(ctx, "Loyalty points expired",
			slog.String("customer_id", customerID),
			slog.String("points", txn.Points.Neg().String()))
	}
	return txn, nil
}

func expirablePoints(summary domain.LoyaltySummary) decimal.Decimal {
	consumed := summary.TotalRedeemed.Add(summary.TotalExpired).Add(summary.NegativeAdjust)
	pending := decimal.Max(decimal.Zero, summary.ExpiredEarned.Sub(consumed))
	return decimal.Min(summary.Balance, pending)
}

func (s *loyaltyService) GetStatement(ctx context.Context, customerID string, params dto.ListParams) (*dto.LoyaltyStatementResponse, error) {
	customer, err := s.partyRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	limit := pagination.NormalizeLimit(params.Limit)
	txns, next, err := s.loyaltyRepo.ListLoyaltyTransactions(ctx, customerID, limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	return &dto.LoyaltyStatementResponse{
		CustomerID:             customerID,
		Points:                 customer.LoyaltyPoints,
		LifetimePointsEarned:   customer.LifetimePointsEarned,
		LifetimePointsRedeemed: customer.LifetimePointsRedeemed,
		Transactions:           txns,
		NextToken:              next,
	}, nil
}
