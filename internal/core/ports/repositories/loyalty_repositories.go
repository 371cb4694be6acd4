package repositories

import (
	"context"
	"time"

	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
)

// LoyaltyReader defines read operations for loyalty history
type LoyaltyReader interface {
	// ListLoyaltyTransactions returns transactions newest first with a token for the next page.
	ListLoyaltyTransactions(ctx context.Context, customerID string, limit int, nextToken *string) ([]domain.LoyaltyTransaction, *string, error)
}

// LoyaltyTxRepository is the transactional side of the loyalty ledger.
type LoyaltyTxRepository interface {
	// AppendLoyaltyTransaction applies txn.Points to the customer's cached points and appends
	// the transaction, as one indivisible step. A negative delta larger than the available
	// points fails with *apperrors.InsufficientPointsError and changes nothing. Lifetime
	// counters are maintained for EARN and REDEEM. The stored transaction is returned.
	AppendLoyaltyTransaction(ctx context.Context, txn domain.LoyaltyTransaction) (domain.LoyaltyTransaction, error)

	// SummarizeLoyalty aggregates the customer's history as of the given instant.
	SummarizeLoyalty(ctx context.Context, customerID string, asOf time.Time) (domain.LoyaltySummary, error)
}
