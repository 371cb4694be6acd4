package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/apperrors"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	portsrepo "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

const customerColumns = `customer_id, name, phone, email, gstin, state_code, outstanding_balance, loyalty_points,
	lifetime_points_earned, lifetime_points_redeemed, is_active, created_at, created_by, last_updated_at, last_updated_by`

const supplierColumns = `supplier_id, name, phone, email, gstin, state_code, outstanding_balance, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxPartyRepository stores customers and suppliers.
type PgxPartyRepository struct {
	BaseRepository
}

func newPgxPartyRepository(pool *pgxpool.Pool) portsrepo.PartyRepositoryFacade {
	return &PgxPartyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PartyRepositoryFacade = (*PgxPartyRepository)(nil)

func scanCustomer(row rowScanner) (domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(
		&c.CustomerID,
		&c.Name,
		&c.Phone,
		&c.Email,
		&c.GSTIN,
		&c.StateCode,
		&c.OutstandingBalance,
		&c.LoyaltyPoints,
		&c.LifetimePointsEarned,
		&c.LifetimePointsRedeemed,
		&c.IsActive,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
	return c, err
}

func scanSupplier(row rowScanner) (domain.Supplier, error) {
	var s domain.Supplier
	err := row.Scan(
		&s.SupplierID,
		&s.Name,
		&s.Phone,
		&s.Email,
		&s.GSTIN,
		&s.StateCode,
		&s.OutstandingBalance,
		&s.IsActive,
		&s.CreatedAt,
		&s.CreatedBy,
		&s.LastUpdatedAt,
		&s.LastUpdatedBy,
	)
	return s, err
}

func (r *PgxPartyRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE customer_id = $1;`
	c, err := scanCustomer(r.Pool.QueryRow(ctx, query, customerID))
	if err != nil {
		return nil, mapDBError("customer "+customerID, err)
	}
	return &c, nil
}

// SaveCustomer inserts a customer with zero balances.
func (r *PgxPartyRepository) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	query := `
		INSERT INTO customers (customer_id, name, phone, email, gstin, state_code, is_active,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		customer.CustomerID,
		customer.Name,
		customer.Phone,
		customer.Email,
		customer.GSTIN,
		customer.StateCode,
		customer.IsActive,
		customer.CreatedAt,
		customer.CreatedBy,
		customer.LastUpdatedAt,
		customer.LastUpdatedBy,
	)
	if err != nil {
		return mapDBError("failed to insert customer "+customer.CustomerID, err)
	}
	return nil
}

func (r *PgxPartyRepository) DeactivateCustomer(ctx context.Context, customerID string, userID string, now time.Time) error {
	query := `UPDATE customers SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3 WHERE customer_id = $1;`
	tag, err := r.Pool.Exec(ctx, query, customerID, now, userID)
	if err != nil {
		return mapDBError("failed to deactivate customer "+customerID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: customer %s", apperrors.ErrNotFound, customerID)
	}
	return nil
}

func (r *PgxPartyRepository) FindSupplierByID(ctx context.Context, supplierID string) (*domain.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE supplier_id = $1;`
	s, err := scanSupplier(r.Pool.QueryRow(ctx, query, supplierID))
	if err != nil {
		return nil, mapDBError("supplier "+supplierID, err)
	}
	return &s, nil
}

// SaveSupplier inserts a supplier with a zero outstanding balance.
func (r *PgxPartyRepository) SaveSupplier(ctx context.Context, supplier domain.Supplier) error {
	query := `
		INSERT INTO suppliers (supplier_id, name, phone, email, gstin, state_code, is_active,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		supplier.SupplierID,
		supplier.Name,
		supplier.Phone,
		supplier.Email,
		supplier.GSTIN,
		supplier.StateCode,
		supplier.IsActive,
		supplier.CreatedAt,
		supplier.CreatedBy,
		supplier.LastUpdatedAt,
		supplier.LastUpdatedBy,
	)
	if err != nil {
		return mapDBError("failed to insert supplier "+supplier.SupplierID, err)
	}
	return nil
}

func (r *PgxPartyRepository) DeactivateSupplier(ctx context.Context, supplierID string, userID string, now time.Time) error {
	query := `UPDATE suppliers SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3 WHERE supplier_id = $1;`
	tag, err := r.Pool.Exec(ctx, query, supplierID, now, userID)
	if err != nil {
		return mapDBError("failed to deactivate supplier "+supplierID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: supplier %s", apperrors.ErrNotFound, supplierID)
	}
	return nil
}

// --- transactional side ---

func (t *txRepositories) LockCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE customer_id = $1 FOR UPDATE;`
	c, err := scanCustomer(t.tx.QueryRow(ctx, query, customerID))
	if err != nil {
		return nil, mapDBError("customer "+customerID, err)
	}
	return &c, nil
}

func (t *txRepositories) LockSupplier(ctx context.Context, supplierID string) (*domain.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE supplier_id = $1 FOR UPDATE;`
	s, err := scanSupplier(t.tx.QueryRow(ctx, query, supplierID))
	if err != nil {
		return nil, mapDBError("supplier "+supplierID, err)
	}
	return &s, nil
}

func (t *txRepositories) AdjustCustomerOutstanding(ctx context.Context, customerID string, delta decimal.Decimal, userID string, now time.Time) (decimal.Decimal, error) {
	query := `
		UPDATE customers
		SET outstanding_balance = GREATEST(0, outstanding_balance + $2), last_updated_at = $3, last_updated_by = $4
		WHERE customer_id = $1
		RETURNING outstanding_balance;
	`
	var balance decimal.Decimal
	if err := t.tx.QueryRow(ctx, query, customerID, delta, now, userID).Scan(&balance); err != nil {
		return decimal.Zero, mapDBError("customer "+customerID, err)
	}
	return balance, nil
}

func (t *txRepositories) AdjustSupplierOutstanding(ctx context.Context, supplierID string, delta decimal.Decimal, userID string, now time.Time) (decimal.Decimal, error) {
	query := `
		UPDATE suppliers
		SET outstanding_balance = GREATEST(0, outstanding_balance + $2), last_updated_at = $3, last_updated_by = $4
		WHERE supplier_id = $1
		RETURNING outstanding_balance;
	`
	var balance decimal.Decimal
	if err := t.tx.QueryRow(ctx, query, supplierID, delta, now, userID).Scan(&balance); err != nil {
		return decimal.Zero, mapDBError("supplier "+supplierID, err)
	}
	return balance, nil
}
