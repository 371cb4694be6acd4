package handlers_test

import (
	"context"
	"time"

	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	portsrepo "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/repositories"
	portssvc "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/services"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock InventoryService ---
type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) GetProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockInventoryService) ListProducts(ctx context.Context, limit, offset int, includeInactive bool) ([]domain.Product, error) {
	args := m.Called(ctx, limit, offset, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}
func (m *MockInventoryService) CreateProduct(ctx context.Context, req dto.CreateProductRequest, userID string) (*domain.Product, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockInventoryService) UpdateProduct(ctx context.Context, productID string, req dto.UpdateProductRequest, userID string) (*domain.Product, error) {
	args := m.Called(ctx, productID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockInventoryService) DeactivateProduct(ctx context.Context, productID string, userID string) error {
	args := m.Called(ctx, productID, userID)
	return args.Error(0)
}
func (m *MockInventoryService) RecordMovement(ctx context.Context, tx portsrepo.TxRepositories, movement domain.StockMovement, userID string, at time.Time) (domain.StockLedgerEntry, error) {
	args := m.Called(ctx, tx, movement, userID, at)
	return args.Get(0).(domain.StockLedgerEntry), args.Error(1)
}
func (m *MockInventoryService) AdjustStock(ctx context.Context, productID string, req dto.StockAdjustmentRequest, userID string) (*domain.StockLedgerEntry, error) {
	args := m.Called(ctx, productID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockLedgerEntry), args.Error(1)
}
func (m *MockInventoryService) ListProductLedger(ctx context.Context, productID string, params dto.ListParams) (*dto.ListLedgerResponse, error) {
	args := m.Called(ctx, productID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListLedgerResponse), args.Error(1)
}
func (m *MockInventoryService) VerifyStock(ctx context.Context, productID string) (*dto.StockVerificationResponse, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.StockVerificationResponse), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.InventorySvcFacade = (*MockInventoryService)(nil)

// --- Mock PartyService ---
type MockPartyService struct {
	mock.Mock
}

func (m *MockPartyService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest, userID string) (*domain.Customer, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockPartyService) GetCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockPartyService) DeactivateCustomer(ctx context.Context, customerID string, userID string) error {
	args := m.Called(ctx, customerID, userID)
	return args.Error(0)
}
func (m *MockPartyService) CreateSupplier(ctx context.Context, req dto.CreateSupplierRequest, userID string) (*domain.Supplier, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Supplier), args.Error(1)
}
func (m *MockPartyService) GetSupplierByID(ctx context.Context, supplierID string) (*domain.Supplier, error) {
	args := m.Called(ctx, supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Supplier), args.Error(1)
}
func (m *MockPartyService) DeactivateSupplier(ctx context.Context, supplierID string, userID string) error {
	args := m.Called(ctx, supplierID, userID)
	return args.Error(0)
}

var _ portssvc.PartySvcFacade = (*MockPartyService)(nil)

// --- Mock BillingService ---
type MockBillingService struct {
	mock.Mock
}

func (m *MockBillingService) CreateBill(ctx context.Context, req dto.CreateBillRequest, userID string) (*domain.Bill, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bill), args.Error(1)
}
func (m *MockBillingService) CreatePurchase(ctx context.Context, req dto.CreatePurchaseRequest, userID string) (*domain.Purchase, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Purchase), args.Error(1)
}
func (m *MockBillingService) CreateReturn(ctx context.Context, req dto.CreateReturnRequest, userID string) (*domain.Return, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Return), args.Error(1)
}
func (m *MockBillingService) GetBillByID(ctx context.Context, billID string) (*domain.Bill, error) {
	args := m.Called(ctx, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bill), args.Error(1)
}
func (m *MockBillingService) GetPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	args := m.Called(ctx, purchaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Purchase), args.Error(1)
}
func (m *MockBillingService) GetReturnByID(ctx context.Context, returnID string) (*domain.Return, error) {
	args := m.Called(ctx, returnID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Return), args.Error(1)
}

var _ portssvc.BillingSvcFacade = (*MockBillingService)(nil)

// --- Mock PaymentService ---
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) RecordPayment(ctx context.Context, req dto.RecordPaymentRequest, userID string) (*domain.Payment, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentService) GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentService) ListPayments(ctx context.Context, targetType domain.PaymentTargetType, targetID string) ([]domain.Payment, error) {
	args := m.Called(ctx, targetType, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

var _ portssvc.PaymentSvcFacade = (*MockPaymentService)(nil)

// --- Mock LoyaltyService ---
type MockLoyaltyService struct {
	mock.Mock
}

func (m *MockLoyaltyService) loyaltyResult(args mock.Arguments) (*domain.LoyaltyTransaction, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoyaltyTransaction), args.Error(1)
}
func (m *MockLoyaltyService) EarnPoints(ctx context.Context, customerID string, req dto.EarnPointsRequest, userID string) (*domain.LoyaltyTransaction, error) {
	return m.loyaltyResult(m.Called(ctx, customerID, req, userID))
}
func (m *MockLoyaltyService) RedeemPoints(ctx context.Context, customerID string, req dto.RedeemPointsRequest, userID string) (*domain.LoyaltyTransaction, error) {
	return m.loyaltyResult(m.Called(ctx, customerID, req, userID))
}
func (m *MockLoyaltyService) AdjustPoints(ctx context.Context, customerID string, req dto.AdjustPointsRequest, userID string) (*domain.LoyaltyTransaction, error) {
	return m.loyaltyResult(m.Called(ctx, customerID, req, userID))
}
func (m *MockLoyaltyService) ExpirePoints(ctx context.Context, customerID string, req dto.ExpirePointsRequest, userID string) (*domain.LoyaltyTransaction, error) {
	return m.loyaltyResult(m.Called(ctx, customerID, req, userID))
}
func (m *MockLoyaltyService) GetStatement(ctx context.Context, customerID string, params dto.ListParams) (*dto.LoyaltyStatementResponse, error) {
	args := m.Called(ctx, customerID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LoyaltyStatementResponse), args.Error(1)
}

var _ portssvc.LoyaltySvcFacade = (*MockLoyaltyService)(nil)
