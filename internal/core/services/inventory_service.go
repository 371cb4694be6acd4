package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/apperrors"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	portsrepo "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/repositories"
	portssvc "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/services"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/dto"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// inventoryService implements the InventorySvcFacade interface
type inventoryService struct {
	BaseService
	productRepo portsrepo.ProductRepositoryFacade
}

var _ portssvc.InventorySvcFacade = (*inventoryService)(nil)

// NewInventoryService creates the product master data and stock ledger service.
func NewInventoryService(productRepo portsrepo.ProductRepositoryFacade, txManager portsrepo.TransactionManager, options ...ServiceOption) portssvc.InventorySvcFacade {
	return newInventoryService(productRepo, txManager, options...)
}

func newInventoryService(productRepo portsrepo.ProductRepositoryFacade, txManager portsrepo.TransactionManager, options ...ServiceOption) *inventoryService {
	return &inventoryService{
		BaseService: newBaseService(txManager, options...),
		productRepo: productRepo,
	}
}

func validateProductPrices(purchase, selling, mrp, taxRate decimal.Decimal) error {
	if err := requireNonNegative("purchase price", purchase); err != nil {
		return err
	}
	if err := requireNonNegative("selling price", selling); err != nil {
		return err
	}
	if err := requireNonNegative("mrp", mrp); err != nil {
		return err
	}
	return validateTaxRate(taxRate)
}

func (s *inventoryService) CreateProduct(ctx context.Context, req dto.CreateProductRequest, userID string) (*domain.Product, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if err := validateProductPrices(req.PurchasePrice, req.SellingPrice, req.MRP, req.TaxRate); err != nil {
		return nil, err
	}
	if err := requireNonNegative("opening stock", req.OpeningStock); err != nil {
		return nil, err
	}

	now := s.now()
	product := domain.Product{
		ProductID:     uuid.NewString(),
		Code:          strings.TrimSpace(req.Code),
		Name:          strings.TrimSpace(req.Name),
		Unit:          req.Unit,
		HSNCode:       req.HSNCode,
		PurchasePrice: req.PurchasePrice.Round(2),
		SellingPrice:  req.SellingPrice.Round(2),
		MRP:           req.MRP.Round(2),
		TaxRate:       req.TaxRate,
		IsActive:      true,
		AuditFields:   domain.NewAuditFields(userID, now),
	}

	// The product row and its opening movement commit together or not at all.
	err := s.runUnit(ctx, "create_product", func(ctx context.Context, tx portsrepo.TxRepositories) error {
		product.CurrentStock = decimal.Zero
		if err := tx.Stock().InsertProduct(ctx, product); err != nil {
			return err
		}
		if !req.OpeningStock.IsPositive() {
			return nil
		}
		entry, err := s.RecordMovement(ctx, tx, domain.StockMovement{
			ProductID: product.ProductID,
			Delta:     req.OpeningStock,
			UnitCost:  product.PurchasePrice,
			RefDoc:    domain.RefDoc{Type: domain.DocOpening, ID: product.ProductID},
			Notes:     "opening stock",
		}, userID, now)
		if err != nil {
			return err
		}
		product.CurrentStock = entry.StockAfter
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create product", slog.String("code", product.Code))
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.LogInfo(ctx, "Product created", slog.String("product_id", product.ProductID), slog.String("code", product.Code))
	return &product, nil
}

func (s *inventoryService) GetProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find product", slog.String("product_id", productID))
		}
		return nil, err
	}
	return product, nil
}

func (s *inventoryService) ListProducts(ctx context.Context, limit, offset int, includeInactive bool) ([]domain.Product, error) {
	limit = pagination.NormalizeLimit(limit)
	if offset < 0 {
		offset = 0
	}
	products, err := s.productRepo.ListProducts(ctx, limit, offset, includeInactive)
	if err != nil {
		s.LogError(ctx, err, "Failed to list products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *inventoryService) UpdateProduct(ctx context.Context, productID string, req dto.UpdateProductRequest, userID string) (*domain.Product, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, fmt.Errorf("%w: product %s is inactive", apperrors.ErrConflict, productID)
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
	}
	if req.HSNCode != nil {
		product.HSNCode = *req.HSNCode
	}
	if req.PurchasePrice != nil {
		product.PurchasePrice = req.PurchasePrice.Round(2)
	}
	if req.SellingPrice != nil {
		product.SellingPrice = req.SellingPrice.Round(2)
	}
	if req.MRP != nil {
		product.MRP = req.MRP.Round(2)
	}
	if req.TaxRate != nil {
		product.TaxRate = *req.TaxRate
	}
	if err := validateProductPrices(product.PurchasePrice, product.SellingPrice, product.MRP, product.TaxRate); err != nil {
		return nil, err
	}

	product.LastUpdatedAt = s.now()
	product.LastUpdatedBy = userID
	if err := s.productRepo.UpdateProduct(ctx, *product); err != nil {
		s.LogError(ctx, err, "Failed to update product", slog.String("product_id", productID))
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

func (s *inventoryService) DeactivateProduct(ctx context.Context, productID string, userID string) error {
	if err := s.productRepo.DeactivateProduct(ctx, productID, userID, s.now()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to deactivate product", slog.String("product_id", productID))
		}
		return err
	}
	s.LogInfo(ctx, "Product deactivated", slog.String("product_id", productID))
	return nil
}

// RecordMovement appends a ledger entry inside the caller's unit of work. The product row
// must already be locked by the caller.
func (s *inventoryService) RecordMovement(ctx context.Context, tx portsrepo.TxRepositories, movement domain.StockMovement, userID string, at time.Time) (domain.StockLedgerEntry, error) {
	if movement.Delta.IsZero() {
		return domain.StockLedgerEntry{}, validationError("stock movement for product %s has zero quantity", movement.ProductID)
	}
	if movement.UnitCost.IsNegative() {
		return domain.StockLedgerEntry{}, validationError("unit cost must not be negative")
	}

	entry := domain.StockLedgerEntry{
		EntryID:   uuid.NewString(),
		ProductID: movement.ProductID,
		Quantity:  movement.Delta,
		UnitCost:  movement.UnitCost,
		RefDoc:    movement.RefDoc,
		Notes:     movement.Notes,
		CreatedAt: at,
		CreatedBy: userID,
	}
	return tx.Stock().AppendMovement(ctx, entry)
}

func (s *inventoryService) AdjustStock(ctx context.Context, productID string, req dto.StockAdjustmentRequest, userID string) (*domain.StockLedgerEntry, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if req.Delta.IsZero() {
		return nil, validationError("adjustment quantity must not be zero")
	}

	now := s.now()
	var entry domain.StockLedgerEntry
	err := s.runUnit(ctx, "adjust_stock", func(ctx context.Context, tx portsrepo.TxRepositories) error {
		products, err := tx.Stock().LockProducts(ctx, []string{productID})
		if err != nil {
			return err
		}
		product := products[productID]
		stored, err := s.RecordMovement(ctx, tx, domain.StockMovement{
			ProductID: productID,
			Delta:     req.Delta,
			UnitCost:  product.PurchasePrice,
			RefDoc:    domain.RefDoc{Type: domain.DocAdjustment, ID: productID},
			Notes:     req.Reason,
		}, userID, now)
		if err != nil {
			return err
		}
		entry = stored
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Stock adjustment rejected",
			slog.String("product_id", productID),
			slog.String("delta", req.Delta.String()))
		return nil, err
	}

	s.LogInfo(ctx, "Stock adjusted",
		slog.String("product_id", productID),
		slog.String("delta", req.Delta.String()),
		slog.String("stock_after", entry.StockAfter.String()))
	return &entry, nil
}

func (s *inventoryService) ListProductLedger(ctx context.Context, productID string, params dto.ListParams) (*dto.ListLedgerResponse, error) {
	if _, err := s.productRepo.FindProductByID(ctx, productID); err != nil {
		return nil, err
	}
	limit := pagination.NormalizeLimit(params.Limit)
	entries, next, err := s.productRepo.ListLedgerEntries(ctx, productID, limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListLedgerResponse{Entries: entries, NextToken: next}, nil
}

func (s *inventoryService) VerifyStock(ctx context.Context, productID string) (*dto.StockVerificationResponse, error) {
	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	sum, err := s.productRepo.SumLedgerQuantity(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum stock ledger: %w", err)
	}

	consistent := product.CurrentStock.Equal(sum)
	if !consistent {
		s.LogError(ctx, errors.New("stock ledger mismatch"), "Current stock does not match the ledger",
			slog.String("product_id", productID),
			slog.String("current_stock", product.CurrentStock.String()),
			slog.String("ledger_sum", sum.String()))
	}
	return &dto.StockVerificationResponse{
		ProductID:    productID,
		CurrentStock: product.CurrentStock,
		LedgerSum:    sum,
		Consistent:   consistent,
	}, nil
}
