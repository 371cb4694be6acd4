package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shiva00s/ModernBillingApp-sub000/internal/apperrors"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	portsrepo "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/repositories"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/services"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/dto"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestInventory_AdjustAndVerify(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "NAIL", "2", "18", "100")
	assertDecimal(t, "100", p.CurrentStock)

	entry, err := f.svc.Inventory.AdjustStock(f.ctx, p.ProductID, dto.StockAdjustmentRequest{Delta: dec("-7.5"), Reason: "shrinkage"}, testUser)
	require.NoError(t, err)
	assert.True(t, entry.IsOutbound())
	assertDecimal(t, "92.5", entry.StockAfter)
	assert.Equal(t, domain.DocAdjustment, entry.RefDoc.Type)

	_, err = f.svc.Inventory.AdjustStock(f.ctx, p.ProductID, dto.StockAdjustmentRequest{Delta: dec("-93"), Reason: "count"}, testUser)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)

	_, err = f.svc.Inventory.AdjustStock(f.ctx, p.ProductID, dto.StockAdjustmentRequest{Delta: dec("0"), Reason: "noop"}, testUser)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	check, err := f.svc.Inventory.VerifyStock(f.ctx, p.ProductID)
	require.NoError(t, err)
	assert.True(t, check.Consistent)
	assertDecimal(t, "92.5", check.LedgerSum)

	ledger, err := f.svc.Inventory.ListProductLedger(f.ctx, p.ProductID, dto.ListParams{Limit: 1})
	require.NoError(t, err)
	require.Len(t, ledger.Entries, 1)
	assert.Equal(t, entry.EntryID, ledger.Entries[0].EntryID, "newest entry first")
	require.NotNil(t, ledger.NextToken)

	older, err := f.svc.Inventory.ListProductLedger(f.ctx, p.ProductID, dto.ListParams{Limit: 1, NextToken: ledger.NextToken})
	require.NoError(t, err)
	require.Len(t, older.Entries, 1)
	assert.Equal(t, domain.DocOpening, older.Entries[0].RefDoc.Type)
}

func TestInventory_ProductMasterData(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "TAPE", "35", "12", "0")

	_, err := f.svc.Inventory.CreateProduct(f.ctx, dto.CreateProductRequest{Code: "TAPE", Name: "Duplicate"}, testUser)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	_, err = f.svc.Inventory.CreateProduct(f.ctx, dto.CreateProductRequest{Code: "BAD", Name: "Bad", TaxRate: dec("120")}, testUser)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	name := "Packing tape"
	price := dec("40")
	updated, err := f.svc.Inventory.UpdateProduct(f.ctx, p.ProductID, dto.UpdateProductRequest{Name: &name, SellingPrice: &price}, testUser)
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assertDecimal(t, "40", updated.SellingPrice)
	assertDecimal(t, "0", updated.CurrentStock)

	require.NoError(t, f.svc.Inventory.DeactivateProduct(f.ctx, p.ProductID, testUser))

	active, err := f.svc.Inventory.ListProducts(f.ctx, 10, 0, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := f.svc.Inventory.ListProducts(f.ctx, 10, 0, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = f.svc.Billing.CreateBill(f.ctx, billRequest(nil, line(p.ProductID, "1")), testUser)
	assert.ErrorIs(t, err, apperrors.ErrValidation, "inactive products cannot be sold")
}

// flakyTxManager fails the first calls with whatever the mock returns, then hands over to a real store.
type flakyTxManager struct {
	mock.Mock
	inner portsrepo.TransactionManager
}

func (m *flakyTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx portsrepo.TxRepositories) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return m.inner.WithinTransaction(ctx, fn)
}

func seededInventory(t *testing.T, store *memory.Store) string {
	t.Helper()
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.WithinTransaction(context.Background(), func(ctx context.Context, tx portsrepo.TxRepositories) error {
		return tx.Stock().InsertProduct(ctx, domain.Product{
			ProductID:   "p-1",
			Code:        "P1",
			Name:        "Widget",
			IsActive:    true,
			AuditFields: domain.NewAuditFields(testUser, now),
		})
	}))
	return "p-1"
}

func TestInventory_RetriesConcurrencyConflicts(t *testing.T) {
	store := memory.NewStore()
	tx := &flakyTxManager{inner: store}
	conflict := apperrors.NewConcurrencyError("lock timeout", errors.New("55P03"))
	tx.On("WithinTransaction", mock.Anything).Return(conflict).Twice()
	tx.On("WithinTransaction", mock.Anything).Return(nil)

	productID := seededInventory(t, store)
	svc := services.NewInventoryService(store, tx)

	entry, err := svc.AdjustStock(context.Background(), productID, dto.StockAdjustmentRequest{Delta: dec("3"), Reason: "recount"}, testUser)
	require.NoError(t, err)
	assertDecimal(t, "3", entry.StockAfter)
	tx.AssertNumberOfCalls(t, "WithinTransaction", 3)
}

func TestInventory_GivesUpAfterMaxRetries(t *testing.T) {
	store := memory.NewStore()
	tx := &flakyTxManager{inner: store}
	tx.On("WithinTransaction", mock.Anything).Return(apperrors.NewConcurrencyError("deadlock", nil))

	productID := seededInventory(t, store)
	svc := services.NewInventoryService(store, tx, services.WithMaxRetries(1))

	_, err := svc.AdjustStock(context.Background(), productID, dto.StockAdjustmentRequest{Delta: dec("3"), Reason: "recount"}, testUser)
	assert.ErrorIs(t, err, apperrors.ErrConcurrencyConflict)
	tx.AssertNumberOfCalls(t, "WithinTransaction", 2)

	check, err := svc.VerifyStock(context.Background(), productID)
	require.NoError(t, err)
	assertDecimal(t, "0", check.CurrentStock)
}

func TestInventory_DoesNotRetryBusinessErrors(t *testing.T) {
	store := memory.NewStore()
	tx := &flakyTxManager{inner: store}
	tx.On("WithinTransaction", mock.Anything).Return(nil)

	productID := seededInventory(t, store)
	svc := services.NewInventoryService(store, tx)

	_, err := svc.AdjustStock(context.Background(), productID, dto.StockAdjustmentRequest{Delta: dec("-1"), Reason: "breakage"}, testUser)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
	tx.AssertNumberOfCalls(t, "WithinTransaction", 1)
}

// brokenLedgerTx fails every ledger append so the surrounding unit must roll back.
type brokenLedgerTx struct {
	portsrepo.TxRepositories
}

func (b brokenLedgerTx) Stock() portsrepo.StockTxRepository {
	return brokenLedger{b.TxRepositories.Stock()}
}

type brokenLedger struct {
	portsrepo.StockTxRepository
}

func (brokenLedger) AppendMovement(context.Context, domain.StockLedgerEntry) (domain.StockLedgerEntry, error) {
	return domain.StockLedgerEntry{}, apperrors.NewPersistenceError("failed to append ledger entry", errors.New("disk full"))
}

type brokenLedgerTxManager struct {
	inner *memory.Store
}

func (m brokenLedgerTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx portsrepo.TxRepositories) error) error {
	return m.inner.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		return fn(ctx, brokenLedgerTx{tx})
	})
}

func TestInventory_CreateProductIsAtomicWithOpeningStock(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	req := dto.CreateProductRequest{
		Code:          "LAMP",
		Name:          "Desk lamp",
		PurchasePrice: dec("300"),
		SellingPrice:  dec("450"),
		MRP:           dec("500"),
		TaxRate:       dec("12"),
		OpeningStock:  dec("5"),
	}

	_, err := services.NewInventoryService(store, brokenLedgerTxManager{inner: store}).CreateProduct(ctx, req, testUser)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrPersistence)

	_, err = store.FindProductByCode(ctx, "LAMP")
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "no product may remain without its opening stock")

	product, err := services.NewInventoryService(store, store).CreateProduct(ctx, req, testUser)
	require.NoError(t, err)
	assertDecimal(t, "5", product.CurrentStock)

	sum, err := store.SumLedgerQuantity(ctx, product.ProductID)
	require.NoError(t, err)
	assertDecimal(t, "5", sum)
}
