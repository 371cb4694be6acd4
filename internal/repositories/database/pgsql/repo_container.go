package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ProductRepo:  newPgxProductRepository(dbPool),
		PartyRepo:    newPgxPartyRepository(dbPool),
		DocumentRepo: newPgxDocumentRepository(dbPool),
		PaymentRepo:  newPgxPaymentRepository(dbPool),
		LoyaltyRepo:  newPgxLoyaltyRepository(dbPool),
		TxManager:    newPgxTransactionManager(dbPool),
	}
}
