package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	portsrepo "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

const paymentColumns = `payment_id, payment_number, payment_date, party_type, party_id, target_type, target_id,
	amount, mode, reference, previous_paid, remaining_balance, is_full_payment, created_at, created_by`

// PgxPaymentRepository reads the append-only payments table.
type PgxPaymentRepository struct {
	BaseRepository
}

func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentReader {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PaymentReader = (*PgxPaymentRepository)(nil)

func scanPayment(row rowScanner) (domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.PaymentID,
		&p.PaymentNumber,
		&p.PaymentDate,
		&p.PartyType,
		&p.PartyID,
		&p.TargetType,
		&p.TargetID,
		&p.Amount,
		&p.Mode,
		&p.Reference,
		&p.PreviousPaid,
		&p.RemainingBalance,
		&p.IsFullPayment,
		&p.CreatedAt,
		&p.CreatedBy,
	)
	p.CurrentPayment = p.Amount
	return p, err
}

func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1;`
	p, err := scanPayment(r.Pool.QueryRow(ctx, query, paymentID))
	if err != nil {
		return nil, mapDBError("payment "+paymentID, err)
	}
	return &p, nil
}

// ListPaymentsByTarget returns the payments made against a target, oldest first.
func (r *PgxPaymentRepository) ListPaymentsByTarget(ctx context.Context, targetType domain.PaymentTargetType, targetID string) ([]domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE target_type = $1 AND target_id = $2
		ORDER BY created_at, payment_number;
	`
	rows, err := r.Pool.Query(ctx, query, targetType, targetID)
	if err != nil {
		return nil, mapDBError("failed to list payments for "+targetID, err)
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, mapDBError("failed to scan payment row", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapDBError("error iterating payment rows", err)
	}
	return payments, nil
}

// --- transactional side ---

func (t *txRepositories) InsertPayment(ctx context.Context, payment domain.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := t.tx.Exec(ctx, query,
		payment.PaymentID,
		payment.PaymentNumber,
		payment.PaymentDate,
		payment.PartyType,
		payment.PartyID,
		payment.TargetType,
		payment.TargetID,
		payment.Amount,
		payment.Mode,
		payment.Reference,
		payment.PreviousPaid,
		payment.RemainingBalance,
		payment.IsFullPayment,
		payment.CreatedAt,
		payment.CreatedBy,
	)
	if err != nil {
		return mapDBError("failed to insert payment "+payment.PaymentNumber, err)
	}
	return nil
}

func (t *txRepositories) SumPaymentsByTarget(ctx context.Context, targetType domain.PaymentTargetType, targetID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE target_type = $1 AND target_id = $2;`
	if err := t.tx.QueryRow(ctx, query, targetType, targetID).Scan(&sum); err != nil {
		return decimal.Zero, mapDBError("failed to sum payments for "+targetID, err)
	}
	return sum, nil
}
