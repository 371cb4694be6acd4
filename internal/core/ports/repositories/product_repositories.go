package repositories

import (
	"context"
	"time"

	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ProductReader defines read operations for product data
type ProductReader interface {
	// FindProductByID returns apperrors.ErrNotFound when the product does not exist.
	FindProductByID(ctx context.Context, productID string) (*domain.Product, error)
	FindProductByCode(ctx context.Context, code string) (*domain.Product, error)
	ListProducts(ctx context.Context, limit, offset int, includeInactive bool) ([]domain.Product, error)
}

// ProductWriter defines write operations for product master data. None of these
// operations touch current stock.
type ProductWriter interface {
	UpdateProduct(ctx context.Context, product domain.Product) error
	DeactivateProduct(ctx context.Context, productID string, userID string, now time.Time) error
}

// StockLedgerReader defines read operations for the stock ledger
type StockLedgerReader interface {
	// ListLedgerEntries returns entries newest first together with a token for the next page.
	ListLedgerEntries(ctx context.Context, productID string, limit int, nextToken *string) ([]domain.StockLedgerEntry, *string, error)
	// SumLedgerQuantity returns the sum of all quantity deltas recorded for the product.
	SumLedgerQuantity(ctx context.Context, productID string) (decimal.Decimal, error)
}

// ProductRepositoryFacade combines all product-related repository interfaces
type ProductRepositoryFacade interface {
	ProductReader
	ProductWriter
	StockLedgerReader
}

// StockTxRepository is the transactional side of the inventory ledger.
type StockTxRepository interface {
	// InsertProduct inserts a product with zero stock. A duplicate code yields apperrors.ErrDuplicate.
	InsertProduct(ctx context.Context, product domain.Product) error

	// LockProducts locks the given products for the rest of the unit of work, in a stable
	// order, and returns them keyed by id. A missing id yields apperrors.ErrNotFound.
	LockProducts(ctx context.Context, productIDs []string) (map[string]domain.Product, error)

	// AppendMovement applies entry.Quantity to the product's current stock and appends the
	// entry, as one indivisible step. An outbound entry that would take stock below zero
	// fails with *apperrors.InsufficientStockError and changes nothing. The stored entry,
	// with Sequence and StockAfter populated, is returned.
	AppendMovement(ctx context.Context, entry domain.StockLedgerEntry) (domain.StockLedgerEntry, error)

	UpdatePurchasePrice(ctx context.Context, productID string, price decimal.Decimal, userID string, now time.Time) error
}
