package repositories

import (
	"context"
	"time"

	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CustomerReader defines read operations for customers
type CustomerReader interface {
	FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)
}

// CustomerWriter defines write operations for customer master data
type CustomerWriter interface {
	SaveCustomer(ctx context.Context, customer domain.Customer) error
	DeactivateCustomer(ctx context.Context, customerID string, userID string, now time.Time) error
}

// SupplierReader defines read operations for suppliers
type SupplierReader interface {
	FindSupplierByID(ctx context.Context, supplierID string) (*domain.Supplier, error)
}

// SupplierWriter defines write operations for supplier master data
type SupplierWriter interface {
	SaveSupplier(ctx context.Context, supplier domain.Supplier) error
	DeactivateSupplier(ctx context.Context, supplierID string, userID string, now time.Time) error
}

// PartyRepositoryFacade combines customer and supplier repositories
type PartyRepositoryFacade interface {
	CustomerReader
	CustomerWriter
	SupplierReader
	SupplierWriter
}

// PartyTxRepository is the transactional side of customer and supplier balances.
type PartyTxRepository interface {
	LockCustomer(ctx context.Context, customerID string) (*domain.Customer, error)
	LockSupplier(ctx context.Context, supplierID string) (*domain.Supplier, error)
	// AdjustCustomerOutstanding adds delta to the outstanding balance, clamping at zero,
	// and returns the new balance.
	AdjustCustomerOutstanding(ctx context.Context, customerID string, delta decimal.Decimal, userID string, now time.Time) (decimal.Decimal, error)
	AdjustSupplierOutstanding(ctx context.Context, supplierID string, delta decimal.Decimal, userID string, now time.Time) (decimal.Decimal, error)
}
