package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/apperrors"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	portsrepo "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/repositories"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

const loyaltyColumns = `seq, loyalty_txn_id, customer_id, txn_type, points, balance_after, ref_type, ref_id, ref_number,
	expires_at, notes, created_at, created_by`

// PgxLoyaltyRepository reads the loyalty ledger.
type PgxLoyaltyRepository struct {
	BaseRepository
}

func newPgxLoyaltyRepository(pool *pgxpool.Pool) portsrepo.LoyaltyReader {
	return &PgxLoyaltyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LoyaltyReader = (*PgxLoyaltyRepository)(nil)

func scanLoyaltyTransaction(row rowScanner) (domain.LoyaltyTransaction, error) {
	var txn domain.LoyaltyTransaction
	var refType, refID, refNumber *string
	err := row.Scan(
		&txn.Sequence,
		&txn.LoyaltyTxnID,
		&txn.CustomerID,
		&txn.Type,
		&txn.Points,
		&txn.BalanceAfter,
		&refType,
		&refID,
		&refNumber,
		&txn.ExpiresAt,
		&txn.Notes,
		&txn.CreatedAt,
		&txn.CreatedBy,
	)
	if err != nil {
		return txn, err
	}
	if refType != nil {
		txn.RefDoc = &domain.RefDoc{Type: domain.DocumentType(*refType)}
		if refID != nil {
			txn.RefDoc.ID = *refID
		}
		if refNumber != nil {
			txn.RefDoc.Number = *refNumber
		}
	}
	return txn, nil
}

// ListLoyaltyTransactions returns the customer's loyalty history newest first.
func (r *PgxLoyaltyRepository) ListLoyaltyTransactions(ctx context.Context, customerID string, limit int, nextToken *string) ([]domain.LoyaltyTransaction, *string, error) {
	before, err := pagination.SequenceCursor(nextToken)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	limit = pagination.NormalizeLimit(limit)

	query := `
		SELECT ` + loyaltyColumns + `
		FROM loyalty_transactions
		WHERE customer_id = $1 AND seq < $2
		ORDER BY seq DESC
		LIMIT $3;
	`
	rows, err := r.Pool.Query(ctx, query, customerID, before, limit+1)
	if err != nil {
		return nil, nil, mapDBError("failed to query loyalty transactions for customer "+customerID, err)
	}
	defer rows.Close()

	txns := make([]domain.LoyaltyTransaction, 0, limit+1)
	for rows.Next() {
		txn, err := scanLoyaltyTransaction(rows)
		if err != nil {
			return nil, nil, mapDBError("failed to scan loyalty transaction row", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, mapDBError("error iterating loyalty transaction rows", err)
	}

	txns, next := pagination.TrimSequencePage(txns, limit, func(t domain.LoyaltyTransaction) int64 { return t.Sequence })
	return txns, next, nil
}

// --- transactional side ---

// AppendLoyaltyTransaction moves the cached balance with a guarded update and appends the
// history row carrying the resulting balance.
func (t *txRepositories) AppendLoyaltyTransaction(ctx context.Context, txn domain.LoyaltyTransaction) (domain.LoyaltyTransaction, error) {
	var earned, redeemed decimal.Decimal
	switch txn.Type {
	case domain.LoyaltyEarn:
		earned = txn.Points
	case domain.LoyaltyRedeem:
		redeemed = txn.Points.Abs()
	}

	update := `
		UPDATE customers
		SET loyalty_points = loyalty_points + $2,
			lifetime_points_earned = lifetime_points_earned + $3,
			lifetime_points_redeemed = lifetime_points_redeemed + $4,
			last_updated_at = $5, last_updated_by = $6
		WHERE customer_id = $1 AND loyalty_points + $2 >= 0
		RETURNING loyalty_points;
	`
	var after decimal.Decimal
	err := t.tx.QueryRow(ctx, update, txn.CustomerID, txn.Points, earned, redeemed, txn.CreatedAt, txn.CreatedBy).Scan(&after)
	if errors.Is(err, pgx.ErrNoRows) {
		var current decimal.Decimal
		lookup := `SELECT loyalty_points FROM customers WHERE customer_id = $1;`
		if err := t.tx.QueryRow(ctx, lookup, txn.CustomerID).Scan(&current); err != nil {
			return domain.LoyaltyTransaction{}, mapDBError("customer "+txn.CustomerID, err)
		}
		return domain.LoyaltyTransaction{}, &apperrors.InsufficientPointsError{
			CustomerID: txn.CustomerID,
			Available:  current,
			Requested:  txn.Points.Neg(),
		}
	}
	if err != nil {
		return domain.LoyaltyTransaction{}, mapDBError("failed to apply loyalty points for customer "+txn.CustomerID, err)
	}

	var refType, refID, refNumber *string
	if txn.RefDoc != nil {
		docType := string(txn.RefDoc.Type)
		refType, refID, refNumber = &docType, &txn.RefDoc.ID, &txn.RefDoc.Number
	}

	insert := `
		INSERT INTO loyalty_transactions (loyalty_txn_id, customer_id, txn_type, points, balance_after,
			ref_type, ref_id, ref_number, expires_at, notes, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING seq;
	`
	txn.BalanceAfter = after
	err = t.tx.QueryRow(ctx, insert,
		txn.LoyaltyTxnID,
		txn.CustomerID,
		txn.Type,
		txn.Points,
		txn.BalanceAfter,
		refType,
		refID,
		refNumber,
		txn.ExpiresAt,
		txn.Notes,
		txn.CreatedAt,
		txn.CreatedBy,
	).Scan(&txn.Sequence)
	if err != nil {
		return domain.LoyaltyTransaction{}, mapDBError("failed to append loyalty transaction for customer "+txn.CustomerID, err)
	}
	return txn, nil
}

// SummarizeLoyalty aggregates the history used by point expiry.
func (t *txRepositories) SummarizeLoyalty(ctx context.Context, customerID string, asOf time.Time) (domain.LoyaltySummary, error) {
	query := `
		SELECT
			c.loyalty_points,
			COALESCE(SUM(lt.points) FILTER (WHERE lt.txn_type = 'EARN' AND lt.expires_at IS NOT NULL AND lt.expires_at <= $2), 0),
			COALESCE(SUM(ABS(lt.points)) FILTER (WHERE lt.txn_type = 'REDEEM'), 0),
			COALESCE(SUM(ABS(lt.points)) FILTER (WHERE lt.txn_type = 'EXPIRE'), 0),
			COALESCE(SUM(ABS(lt.points)) FILTER (WHERE lt.txn_type = 'ADJUST' AND lt.points < 0), 0)
		FROM customers c
		LEFT JOIN loyalty_transactions lt ON lt.customer_id = c.customer_id
		WHERE c.customer_id = $1
		GROUP BY c.loyalty_points;
	`
	var s domain.LoyaltySummary
	err := t.tx.QueryRow(ctx, query, customerID, asOf).Scan(
		&s.Balance,
		&s.ExpiredEarned,
		&s.TotalRedeemed,
		&s.TotalExpired,
		&s.NegativeAdjust,
	)
	if err != nil {
		return domain.LoyaltySummary{}, mapDBError("customer "+customerID, err)
	}
	return s, nil
}
