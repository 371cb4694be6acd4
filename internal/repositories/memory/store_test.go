package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shiva00s/ModernBillingApp-sub000/internal/apperrors"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	portsrepo "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProduct(t *testing.T, s *Store, id string) {
	t.Helper()
	require.NoError(t, s.WithinTransaction(context.Background(), func(ctx context.Context, tx portsrepo.TxRepositories) error {
		return tx.Stock().InsertProduct(ctx, domain.Product{
			ProductID: id,
			Code:      "CODE-" + id,
			Name:      "Product " + id,
			IsActive:  true,
		})
	}))
}

func movement(productID string, qty int64) domain.StockLedgerEntry {
	return domain.StockLedgerEntry{
		EntryID:   "e-" + productID,
		ProductID: productID,
		Quantity:  decimal.NewFromInt(qty),
		RefDoc:    domain.RefDoc{Type: domain.DocAdjustment, Number: "ADJ"},
		CreatedAt: time.Now(),
		CreatedBy: "tester",
	}
}

func TestWithinTransaction_RollbackRestoresState(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedProduct(t, s, "p1")

	require.NoError(t, s.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		_, err := tx.Stock().AppendMovement(ctx, movement("p1", 5))
		return err
	}))

	boom := errors.New("boom")
	err := s.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		if _, err := tx.Stock().AppendMovement(ctx, movement("p1", -3)); err != nil {
			return err
		}
		if _, err := tx.Sequences().NextSequenceValue(ctx, domain.SeriesBill, "20240101"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, err := s.FindProductByID(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, p.CurrentStock.Equal(decimal.NewFromInt(5)), "got %s", p.CurrentStock)

	sum, err := s.SumLedgerQuantity(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(5)))

	// the counter value reserved by the failed unit is reissued
	var next int64
	require.NoError(t, s.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		next, err = tx.Sequences().NextSequenceValue(ctx, domain.SeriesBill, "20240101")
		return err
	}))
	assert.Equal(t, int64(1), next)
}

func TestAppendMovement_RejectsOversell(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedProduct(t, s, "p1")

	err := s.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		if _, err := tx.Stock().AppendMovement(ctx, movement("p1", 2)); err != nil {
			return err
		}
		_, err := tx.Stock().AppendMovement(ctx, movement("p1", -3))
		return err
	})

	var stockErr *apperrors.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.True(t, stockErr.Available.Equal(decimal.NewFromInt(2)))
	assert.True(t, stockErr.Requested.Equal(decimal.NewFromInt(3)))

	p, _ := s.FindProductByID(ctx, "p1")
	assert.True(t, p.CurrentStock.IsZero(), "whole unit must roll back")
}

func TestListLedgerEntries_Paginates(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedProduct(t, s, "p1")
	seedProduct(t, s, "p2")

	for i := 0; i < 5; i++ {
		require.NoError(t, s.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
			if _, err := tx.Stock().AppendMovement(ctx, movement("p1", 1)); err != nil {
				return err
			}
			_, err := tx.Stock().AppendMovement(ctx, movement("p2", 1))
			return err
		}))
	}

	first, next, err := s.ListLedgerEntries(ctx, "p1", 3, nil)
	require.NoError(t, err)
	require.Len(t, first, 3)
	require.NotNil(t, next)
	assert.True(t, first[0].StockAfter.Equal(decimal.NewFromInt(5)), "newest first")

	second, next, err := s.ListLedgerEntries(ctx, "p1", 3, next)
	require.NoError(t, err)
	assert.Len(t, second, 2)
	assert.Nil(t, next)
	assert.True(t, second[1].StockAfter.Equal(decimal.NewFromInt(1)))
}

func TestAppendLoyaltyTransaction_Bounds(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.SaveCustomer(ctx, domain.Customer{CustomerID: "c1", Name: "Asha", IsActive: true}))

	err := s.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		earned, err := tx.Loyalty().AppendLoyaltyTransaction(ctx, domain.LoyaltyTransaction{
			LoyaltyTxnID: "l1", CustomerID: "c1", Type: domain.LoyaltyEarn, Points: decimal.NewFromInt(50),
		})
		if err != nil {
			return err
		}
		assert.True(t, earned.BalanceAfter.Equal(decimal.NewFromInt(50)))
		return nil
	})
	require.NoError(t, err)

	err = s.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		_, err := tx.Loyalty().AppendLoyaltyTransaction(ctx, domain.LoyaltyTransaction{
			LoyaltyTxnID: "l2", CustomerID: "c1", Type: domain.LoyaltyRedeem, Points: decimal.NewFromInt(-100),
		})
		return err
	})
	var pointsErr *apperrors.InsufficientPointsError
	require.ErrorAs(t, err, &pointsErr)
	assert.True(t, pointsErr.Available.Equal(decimal.NewFromInt(50)))

	c, err := s.FindCustomerByID(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, c.LoyaltyPoints.Equal(decimal.NewFromInt(50)))
	assert.True(t, c.LifetimePointsEarned.Equal(decimal.NewFromInt(50)))
}
