package pgsql_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/apperrors"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/services"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/dto"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/platform/config"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/repositories/database/pgsql"
	"github.com/shiva00s/ModernBillingApp-sub000/pkg/database"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a disposable database named by BILLING_TEST_DATABASE_URL.
func testDatabaseURL(t *testing.T) string {
	url := os.Getenv("BILLING_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("BILLING_TEST_DATABASE_URL not set")
	}
	return url
}

func TestPostgres_ConcurrentBillsNeverOversell(t *testing.T) {
	url := testDatabaseURL(t)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	require.NoError(t, database.RunMigrations(url, "../../../../migrations", database.MigrateUp, logger))
	pool, err := database.NewPgxPool(ctx, url, true)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	cfg := &config.Config{
		StorageDriver:  config.StoragePostgres,
		StoreStateCode: "29",
		TxMaxRetries:   5,
		Loyalty:        config.LoyaltyPolicy{EarnRate: decimal.Zero, PointValue: decimal.NewFromInt(1)},
	}
	svc := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(pool))

	product, err := svc.Inventory.CreateProduct(ctx, dto.CreateProductRequest{
		Code:          "IT-" + uuid.NewString()[:8],
		Name:          "Integration widget",
		PurchasePrice: decimal.NewFromInt(6),
		SellingPrice:  decimal.NewFromInt(10),
		MRP:           decimal.NewFromInt(12),
		TaxRate:       decimal.NewFromInt(18),
		OpeningStock:  decimal.NewFromInt(10),
	}, "it-user")
	require.NoError(t, err)

	const attempts = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		numbers  = map[string]bool{}
		rejected int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bill, err := svc.Billing.CreateBill(ctx, dto.CreateBillRequest{
				PaymentMode: domain.ModeCash,
				PaidAmount:  decimal.Zero,
				Items:       []dto.BillItemRequest{{ProductID: product.ProductID, Quantity: decimal.NewFromInt(3)}},
			}, "it-user")

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
				rejected++
				return
			}
			assert.False(t, numbers[bill.BillNumber], "duplicate bill number %s", bill.BillNumber)
			numbers[bill.BillNumber] = true
		}()
	}
	wg.Wait()

	assert.Len(t, numbers, 3)
	assert.Equal(t, attempts-3, rejected)

	check, err := svc.Inventory.VerifyStock(ctx, product.ProductID)
	require.NoError(t, err)
	assert.True(t, check.Consistent)
	assert.True(t, decimal.NewFromInt(1).Equal(check.CurrentStock), "stock %s", check.CurrentStock)
}
