package repositories

import (
	"context"
	"time"

	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BillReader defines read operations for bills
type BillReader interface {
	// FindBillByID returns the bill with its items.
	FindBillByID(ctx context.Context, billID string) (*domain.Bill, error)
}

// PurchaseReader defines read operations for purchases
type PurchaseReader interface {
	FindPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error)
}

// ReturnReader defines read operations for returns
type ReturnReader interface {
	FindReturnByID(ctx context.Context, returnID string) (*domain.Return, error)
}

// DocumentRepositoryFacade combines the document readers
type DocumentRepositoryFacade interface {
	BillReader
	PurchaseReader
	ReturnReader
}

// BillTxRepository is the transactional side of bills.
type BillTxRepository interface {
	InsertBill(ctx context.Context, bill domain.Bill) error
	// LockBill locks the bill row and returns it with its items.
	LockBill(ctx context.Context, billID string) (*domain.Bill, error)
	UpdateBillPayment(ctx context.Context, billID string, paid, balance decimal.Decimal, status domain.PaymentStatus, userID string, now time.Time) error
}

// PurchaseTxRepository is the transactional side of purchases.
type PurchaseTxRepository interface {
	InsertPurchase(ctx context.Context, purchase domain.Purchase) error
	LockPurchase(ctx context.Context, purchaseID string) (*domain.Purchase, error)
	UpdatePurchasePayment(ctx context.Context, purchaseID string, paid, balance decimal.Decimal, status domain.PaymentStatus, userID string, now time.Time) error
}

// ReturnTxRepository is the transactional side of returns.
type ReturnTxRepository interface {
	InsertReturn(ctx context.Context, ret domain.Return) error
	// SumReturnedQuantities returns, per product, the quantity already returned against a document.
	SumReturnedQuantities(ctx context.Context, kind domain.ReturnKind, originalDocID string) (map[string]decimal.Decimal, error)
}
