package repositories

import "context"

// TxRepositories exposes the repositories bound to one unit of work. Every mutation made
// through them commits or rolls back together.
type TxRepositories interface {
	Stock() StockTxRepository
	Sequences() SequenceTxRepository
	Bills() BillTxRepository
	Purchases() PurchaseTxRepository
	Returns() ReturnTxRepository
	Payments() PaymentTxRepository
	Parties() PartyTxRepository
	Loyalty() LoyaltyTxRepository
}

// TransactionManager runs fn inside a single atomic, isolated unit of work.
// If fn returns an error every change made through tx is discarded and the error is
// returned unchanged. Lock and serialization failures surface as
// apperrors.ErrConcurrencyConflict.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx TxRepositories) error) error
}
