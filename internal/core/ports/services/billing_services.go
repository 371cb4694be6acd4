package services

import (
	"context"

	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/dto"
)

// BillWriterSvc creates sales.
type BillWriterSvc interface {
	// CreateBill validates the request, reserves stock, numbers and persists the bill and
	// applies ledger, outstanding balance, payment and loyalty effects as one atomic unit.
	CreateBill(ctx context.Context, req dto.CreateBillRequest, userID string) (*domain.Bill, error)
}

// PurchaseWriterSvc creates inbound stock documents.
type PurchaseWriterSvc interface {
	CreatePurchase(ctx context.Context, req dto.CreatePurchaseRequest, userID string) (*domain.Purchase, error)
}

// ReturnWriterSvc creates sale and purchase returns.
type ReturnWriterSvc interface {
	CreateReturn(ctx context.Context, req dto.CreateReturnRequest, userID string) (*domain.Return, error)
}

// DocumentReaderSvc defines read operations for committed documents
type DocumentReaderSvc interface {
	GetBillByID(ctx context.Context, billID string) (*domain.Bill, error)
	GetPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error)
	GetReturnByID(ctx context.Context, returnID string) (*domain.Return, error)
}

// BillingSvcFacade combines the billing orchestrator interfaces
type BillingSvcFacade interface {
	BillWriterSvc
	PurchaseWriterSvc
	ReturnWriterSvc
	DocumentReaderSvc
}
