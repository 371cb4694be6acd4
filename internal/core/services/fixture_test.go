package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	portssvc "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/services"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/services"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/dto"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/platform/config"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUser = "user-1"

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	ctx   context.Context
	store *memory.Store
	svc   *portssvc.ServiceContainer
	clock *testClock
}

func testConfig() *config.Config {
	return &config.Config{
		StorageDriver:  config.StorageMemory,
		StoreStateCode: "29",
		TxMaxRetries:   3,
		Loyalty: config.LoyaltyPolicy{
			EarnRate:   decimal.RequireFromString("0.01"),
			PointValue: decimal.NewFromInt(1),
			ExpiryDays: 365,
		},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	clock := &testClock{now: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)}
	svc := services.NewServiceContainer(testConfig(), memory.NewRepositoryProvider(store), services.WithClock(clock.Now))
	return &fixture{ctx: context.Background(), store: store, svc: svc, clock: clock}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func (f *fixture) product(t *testing.T, code, price, taxRate, opening string) *domain.Product {
	t.Helper()
	p, err := f.svc.Inventory.CreateProduct(f.ctx, dto.CreateProductRequest{
		Code:          code,
		Name:          "Product " + code,
		PurchasePrice: dec(price).Mul(dec("0.6")),
		SellingPrice:  dec(price),
		MRP:           dec(price),
		TaxRate:       dec(taxRate),
		OpeningStock:  dec(opening),
	}, testUser)
	require.NoError(t, err)
	return p
}

func (f *fixture) customer(t *testing.T, name, stateCode string) *domain.Customer {
	t.Helper()
	c, err := f.svc.Party.CreateCustomer(f.ctx, dto.CreateCustomerRequest{Name: name, StateCode: stateCode}, testUser)
	require.NoError(t, err)
	return c
}

func (f *fixture) supplier(t *testing.T, name, stateCode string) *domain.Supplier {
	t.Helper()
	s, err := f.svc.Party.CreateSupplier(f.ctx, dto.CreateSupplierRequest{Name: name, StateCode: stateCode}, testUser)
	require.NoError(t, err)
	return s
}

func (f *fixture) stock(t *testing.T, productID string) decimal.Decimal {
	t.Helper()
	p, err := f.svc.Inventory.GetProductByID(f.ctx, productID)
	require.NoError(t, err)
	return p.CurrentStock
}

func (f *fixture) requireLedgerConsistent(t *testing.T, productID string) {
	t.Helper()
	check, err := f.svc.Inventory.VerifyStock(f.ctx, productID)
	require.NoError(t, err)
	assert.True(t, check.Consistent, "stock %s, ledger %s", check.CurrentStock, check.LedgerSum)
}

func billRequest(customerID *string, items ...dto.BillItemRequest) dto.CreateBillRequest {
	return dto.CreateBillRequest{
		CustomerID:  customerID,
		PaymentMode: domain.ModeCash,
		Items:       items,
	}
}

func line(productID, qty string) dto.BillItemRequest {
	return dto.BillItemRequest{ProductID: productID, Quantity: dec(qty)}
}
