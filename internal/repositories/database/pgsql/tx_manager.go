package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/repositories"
)

// defaultLockTimeout bounds how long a unit waits for a row lock before failing with a
// retryable conflict.
const defaultLockTimeout = 5 * time.Second

// PgxTransactionManager runs units of work on one pgx transaction.
type PgxTransactionManager struct {
	BaseRepository
	lockTimeout time.Duration
}

func newPgxTransactionManager(pool *pgxpool.Pool) *PgxTransactionManager {
	return &PgxTransactionManager{BaseRepository: BaseRepository{Pool: pool}, lockTimeout: defaultLockTimeout}
}

var _ portsrepo.TransactionManager = (*PgxTransactionManager)(nil)

// WithinTransaction implements portsrepo.TransactionManager.
func (m *PgxTransactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx portsrepo.TxRepositories) error) error {
	tx, err := m.Begin(ctx)
	if err != nil {
		return err
	}
	// Ignored once the transaction has been committed
	defer m.Rollback(context.WithoutCancel(ctx), tx)

	lockTimeout := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", m.lockTimeout.Milliseconds())
	if _, err := tx.Exec(ctx, lockTimeout); err != nil {
		return mapDBError("failed to set lock timeout", err)
	}

	if err := fn(ctx, &txRepositories{tx: tx}); err != nil {
		return err
	}
	return m.Commit(ctx, tx)
}

// txRepositories binds every transactional repository to a single pgx.Tx.
type txRepositories struct {
	tx pgx.Tx
}

var (
	_ portsrepo.TxRepositories       = (*txRepositories)(nil)
	_ portsrepo.StockTxRepository    = (*txRepositories)(nil)
	_ portsrepo.SequenceTxRepository = (*txRepositories)(nil)
	_ portsrepo.BillTxRepository     = (*txRepositories)(nil)
	_ portsrepo.PurchaseTxRepository = (*txRepositories)(nil)
	_ portsrepo.ReturnTxRepository   = (*txRepositories)(nil)
	_ portsrepo.PaymentTxRepository  = (*txRepositories)(nil)
	_ portsrepo.PartyTxRepository    = (*txRepositories)(nil)
	_ portsrepo.LoyaltyTxRepository  = (*txRepositories)(nil)
)

func (t *txRepositories) Stock() portsrepo.StockTxRepository       { return t }
func (t *txRepositories) Sequences() portsrepo.SequenceTxRepository { return t }
func (t *txRepositories) Bills() portsrepo.BillTxRepository         { return t }
func (t *txRepositories) Purchases() portsrepo.PurchaseTxRepository { return t }
func (t *txRepositories) Returns() portsrepo.ReturnTxRepository     { return t }
func (t *txRepositories) Payments() portsrepo.PaymentTxRepository   { return t }
func (t *txRepositories) Parties() portsrepo.PartyTxRepository      { return t }
func (t *txRepositories) Loyalty() portsrepo.LoyaltyTxRepository    { return t }
