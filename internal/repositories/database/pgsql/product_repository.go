package pgsql

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/apperrors"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	portsrepo "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/repositories"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

const productColumns = `product_id, code, name, unit, hsn_code, purchase_price, selling_price, mrp, tax_rate,
	current_stock, is_active, created_at, created_by, last_updated_at, last_updated_by`

const ledgerColumns = `seq, entry_id, product_id, quantity, unit_cost, ref_type, ref_id, ref_number,
	stock_after, notes, created_at, created_by`

// PgxProductRepository serves product master data and the stock ledger read side.
type PgxProductRepository struct {
	BaseRepository
}

func newPgxProductRepository(pool *pgxpool.Pool) portsrepo.ProductRepositoryFacade {
	return &PgxProductRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ProductRepositoryFacade = (*PgxProductRepository)(nil)

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ProductID,
		&p.Code,
		&p.Name,
		&p.Unit,
		&p.HSNCode,
		&p.PurchasePrice,
		&p.SellingPrice,
		&p.MRP,
		&p.TaxRate,
		&p.CurrentStock,
		&p.IsActive,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	return p, err
}

func scanLedgerEntry(row rowScanner) (domain.StockLedgerEntry, error) {
	var e domain.StockLedgerEntry
	err := row.Scan(
		&e.Sequence,
		&e.EntryID,
		&e.ProductID,
		&e.Quantity,
		&e.UnitCost,
		&e.RefDoc.Type,
		&e.RefDoc.ID,
		&e.RefDoc.Number,
		&e.StockAfter,
		&e.Notes,
		&e.CreatedAt,
		&e.CreatedBy,
	)
	return e, err
}

// FindProductByID retrieves a product by its ID.
func (r *PgxProductRepository) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1;`
	p, err := scanProduct(r.Pool.QueryRow(ctx, query, productID))
	if err != nil {
		return nil, mapDBError("product "+productID, err)
	}
	return &p, nil
}

func (r *PgxProductRepository) FindProductByCode(ctx context.Context, code string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE code = $1;`
	p, err := scanProduct(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		return nil, mapDBError("product code "+code, err)
	}
	return &p, nil
}

// ListProducts retrieves products ordered by code.
func (r *PgxProductRepository) ListProducts(ctx context.Context, limit, offset int, includeInactive bool) ([]domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE is_active OR $3
		ORDER BY code
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset, includeInactive)
	if err != nil {
		return nil, mapDBError("failed to list products", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, mapDBError("failed to scan product row", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapDBError("error iterating product rows", err)
	}
	return products, nil
}

// UpdateProduct updates master data. current_stock is deliberately absent.
func (r *PgxProductRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, unit = $3, hsn_code = $4, purchase_price = $5, selling_price = $6, mrp = $7, tax_rate = $8,
			last_updated_at = $9, last_updated_by = $10
		WHERE product_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		product.ProductID,
		product.Name,
		product.Unit,
		product.HSNCode,
		product.PurchasePrice,
		product.SellingPrice,
		product.MRP,
		product.TaxRate,
		product.LastUpdatedAt,
		product.LastUpdatedBy,
	)
	if err != nil {
		return mapDBError("failed to update product "+product.ProductID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: product %s", apperrors.ErrNotFound, product.ProductID)
	}
	return nil
}

func (r *PgxProductRepository) DeactivateProduct(ctx context.Context, productID string, userID string, now time.Time) error {
	query := `UPDATE products SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3 WHERE product_id = $1;`
	tag, err := r.Pool.Exec(ctx, query, productID, now, userID)
	if err != nil {
		return mapDBError("failed to deactivate product "+productID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: product %s", apperrors.ErrNotFound, productID)
	}
	return nil
}

// ListLedgerEntries returns the product's ledger newest first.
func (r *PgxProductRepository) ListLedgerEntries(ctx context.Context, productID string, limit int, nextToken *string) ([]domain.StockLedgerEntry, *string, error) {
	before, err := pagination.SequenceCursor(nextToken)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	limit = pagination.NormalizeLimit(limit)

	query := `
		SELECT ` + ledgerColumns + `
		FROM stock_ledger
		WHERE product_id = $1 AND seq < $2
		ORDER BY seq DESC
		LIMIT $3;
	`
	rows, err := r.Pool.Query(ctx, query, productID, before, limit+1)
	if err != nil {
		return nil, nil, mapDBError("failed to query stock ledger for product "+productID, err)
	}
	defer rows.Close()

	entries := make([]domain.StockLedgerEntry, 0, limit+1)
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, nil, mapDBError("failed to scan stock ledger row", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, mapDBError("error iterating stock ledger rows", err)
	}

	entries, next := pagination.TrimSequencePage(entries, limit, func(e domain.StockLedgerEntry) int64 { return e.Sequence })
	return entries, next, nil
}

func (r *PgxProductRepository) SumLedgerQuantity(ctx context.Context, productID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	query := `SELECT COALESCE(SUM(quantity), 0) FROM stock_ledger WHERE product_id = $1;`
	if err := r.Pool.QueryRow(ctx, query, productID).Scan(&sum); err != nil {
		return decimal.Zero, mapDBError("failed to sum stock ledger for product "+productID, err)
	}
	return sum, nil
}

// --- transactional side ---

// InsertProduct inserts a new product. Stock always starts at zero; opening stock is
// posted through the ledger in the same unit.
func (t *txRepositories) InsertProduct(ctx context.Context, product domain.Product) error {
	query := `
		INSERT INTO products (product_id, code, name, unit, hsn_code, purchase_price, selling_price, mrp, tax_rate,
			current_stock, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, $10, $11, $12, $13, $14);
	`
	_, err := t.tx.Exec(ctx, query,
		product.ProductID,
		product.Code,
		product.Name,
		product.Unit,
		product.HSNCode,
		product.PurchasePrice,
		product.SellingPrice,
		product.MRP,
		product.TaxRate,
		product.IsActive,
		product.CreatedAt,
		product.CreatedBy,
		product.LastUpdatedAt,
		product.LastUpdatedBy,
	)
	if err != nil {
		return mapDBError("failed to insert product "+product.Code, err)
	}
	return nil
}

// LockProducts takes row locks in ascending id order so that concurrent units touching
// overlapping products never deadlock.
func (t *txRepositories) LockProducts(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	ids := slices.Clone(productIDs)
	sort.Strings(ids)
	ids = slices.Compact(ids)
	if len(ids) == 0 {
		return map[string]domain.Product{}, nil
	}

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE product_id = ANY($1)
		ORDER BY product_id
		FOR UPDATE;
	`
	rows, err := t.tx.Query(ctx, query, ids)
	if err != nil {
		return nil, mapDBError("failed to lock products", err)
	}
	defer rows.Close()

	locked := make(map[string]domain.Product, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, mapDBError("failed to scan locked product row", err)
		}
		locked[p.ProductID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, mapDBError("error iterating locked product rows", err)
	}

	for _, id := range ids {
		if _, ok := locked[id]; !ok {
			return nil, fmt.Errorf("%w: product %s", apperrors.ErrNotFound, id)
		}
	}
	return locked, nil
}

// AppendMovement applies the delta with a guarded update and appends the ledger row.
// The guard makes the non-negative check and the write a single statement.
func (t *txRepositories) AppendMovement(ctx context.Context, entry domain.StockLedgerEntry) (domain.StockLedgerEntry, error) {
	update := `
		UPDATE products
		SET current_stock = current_stock + $2, last_updated_at = $3, last_updated_by = $4
		WHERE product_id = $1 AND current_stock + $2 >= 0
		RETURNING current_stock;
	`
	var after decimal.Decimal
	err := t.tx.QueryRow(ctx, update, entry.ProductID, entry.Quantity, entry.CreatedAt, entry.CreatedBy).Scan(&after)
	if errors.Is(err, pgx.ErrNoRows) {
		var current decimal.Decimal
		lookup := `SELECT current_stock FROM products WHERE product_id = $1;`
		if err := t.tx.QueryRow(ctx, lookup, entry.ProductID).Scan(&current); err != nil {
			return domain.StockLedgerEntry{}, mapDBError("product "+entry.ProductID, err)
		}
		return domain.StockLedgerEntry{}, &apperrors.InsufficientStockError{
			ProductID: entry.ProductID,
			Available: current,
			Requested: entry.Quantity.Neg(),
		}
	}
	if err != nil {
		return domain.StockLedgerEntry{}, mapDBError("failed to apply stock movement for product "+entry.ProductID, err)
	}

	insert := `
		INSERT INTO stock_ledger (entry_id, product_id, quantity, unit_cost, ref_type, ref_id, ref_number,
			stock_after, notes, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING seq;
	`
	entry.StockAfter = after
	err = t.tx.QueryRow(ctx, insert,
		entry.EntryID,
		entry.ProductID,
		entry.Quantity,
		entry.UnitCost,
		entry.RefDoc.Type,
		entry.RefDoc.ID,
		entry.RefDoc.Number,
		entry.StockAfter,
		entry.Notes,
		entry.CreatedAt,
		entry.CreatedBy,
	).Scan(&entry.Sequence)
	if err != nil {
		return domain.StockLedgerEntry{}, mapDBError("failed to append stock ledger entry for product "+entry.ProductID, err)
	}
	return entry, nil
}

func (t *txRepositories) UpdatePurchasePrice(ctx context.Context, productID string, price decimal.Decimal, userID string, now time.Time) error {
	query := `UPDATE products SET purchase_price = $2, last_updated_at = $3, last_updated_by = $4 WHERE product_id = $1;`
	tag, err := t.tx.Exec(ctx, query, productID, price, now, userID)
	if err != nil {
		return mapDBError("failed to update purchase price for product "+productID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: product %s", apperrors.ErrNotFound, productID)
	}
	return nil
}
