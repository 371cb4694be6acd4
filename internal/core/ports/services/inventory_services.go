package services

import (
	"context"
	"time"

	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	portsrepo "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/repositories"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/dto"
)

// StockMovementRecorder appends stock movements inside a caller's unit of work.
type StockMovementRecorder interface {
	// RecordMovement appends one ledger entry and moves the product's current stock by
	// movement.Delta in the same step. Outbound movements that would take stock below
	// zero fail with *apperrors.InsufficientStockError.
	RecordMovement(ctx context.Context, tx portsrepo.TxRepositories, movement domain.StockMovement, userID string, at time.Time) (domain.StockLedgerEntry, error)
}

// SequenceAuthority issues document numbers inside a caller's unit of work.
type SequenceAuthority interface {
	// NextNumber reserves the next number of the series. Numbers are never reused, even
	// under concurrent callers; a rolled back unit releases its reservation. at is the
	// issuing clock, so numbers of a series sort in issue order.
	NextNumber(ctx context.Context, tx portsrepo.TxRepositories, series domain.SeriesID, at time.Time) (string, error)
}

// ProductReaderSvc defines read operations for products
type ProductReaderSvc interface {
	GetProductByID(ctx context.Context, productID string) (*domain.Product, error)
	ListProducts(ctx context.Context, limit, offset int, includeInactive bool) ([]domain.Product, error)
}

// ProductWriterSvc defines write operations for product master data
type ProductWriterSvc interface {
	// CreateProduct saves the product; a positive opening stock is posted as an OPENING movement.
	CreateProduct(ctx context.Context, req dto.CreateProductRequest, userID string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, productID string, req dto.UpdateProductRequest, userID string) (*domain.Product, error)
	DeactivateProduct(ctx context.Context, productID string, userID string) error
}

// StockLedgerSvc defines operations on the stock ledger
type StockLedgerSvc interface {
	StockMovementRecorder
	AdjustStock(ctx context.Context, productID string, req dto.StockAdjustmentRequest, userID string) (*domain.StockLedgerEntry, error)
	ListProductLedger(ctx context.Context, productID string, params dto.ListParams) (*dto.ListLedgerResponse, error)
	// VerifyStock compares the product's current stock with the sum of its ledger.
	VerifyStock(ctx context.Context, productID string) (*dto.StockVerificationResponse, error)
}

// InventorySvcFacade combines all inventory service interfaces
type InventorySvcFacade interface {
	ProductReaderSvc
	ProductWriterSvc
	StockLedgerSvc
}
