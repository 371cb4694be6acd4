package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/apperrors"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	portsrepo "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/repositories"
	portssvc "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/services"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/dto"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/platform/config"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/utils/gst"
	"github.com/shopspring/decimal"
)

// billingService orchestrates bills, purchases and returns. Each document is created in a
// single unit of work that takes row locks in a fixed order: the original document (returns
// and payments), then products sorted by id, then the number series, then the party.
type billingService struct {
	BaseService
	storeStateCode string
	documentRepo   portsrepo.DocumentRepositoryFacade
	stock          portssvc.StockMovementRecorder
	sequences      portssvc.SequenceAuthority
	loyalty        loyaltyLedger
}

var _ portssvc.BillingSvcFacade = (*billingService)(nil)

// NewBillingService creates the billing orchestrator.
func NewBillingService(
	cfg *config.Config,
	documentRepo portsrepo.DocumentRepositoryFacade,
	stock portssvc.StockMovementRecorder,
	sequences portssvc.SequenceAuthority,
	txManager portsrepo.TransactionManager,
	options ...ServiceOption,
) portssvc.BillingSvcFacade {
	return &billingService{
		BaseService:    newBaseService(txManager, options...),
		storeStateCode: cfg.StoreStateCode,
		documentRepo:   documentRepo,
		stock:          stock,
		sequences:      sequences,
		loyalty:        loyaltyLedger{policy: cfg.Loyalty},
	}
}

// --- shared document arithmetic ---

func computeLine(quantity, rate, taxRate decimal.Decimal, interState bool) domain.LineAmounts {
	lineTotal := quantity.Mul(rate).Round(gst.MoneyPlaces)
	tax := gst.LineTax(lineTotal, taxRate, interState)
	return domain.LineAmounts{
		Quantity:  quantity,
		Rate:      rate,
		TaxRate:   taxRate,
		Tax:       tax,
		TaxAmount: tax.Total(),
		LineTotal: lineTotal,
	}
}

// computeTotals aggregates lines into Total = Subtotal - Discount + Tax and Balance = Total - Paid.
func computeTotals(lines []domain.LineAmounts, discount, paid decimal.Decimal) (domain.DocumentTotals, error) {
	subtotal := decimal.Zero
	tax := domain.TaxBreakdown{CGST: decimal.Zero, SGST: decimal.Zero, IGST: decimal.Zero}
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineTotal)
		tax = tax.Add(line.Tax)
	}
	taxTotal := tax.Total()
	discount = discount.Round(gst.MoneyPlaces)
	gross := subtotal.Add(taxTotal)
	if discount.GreaterThan(gross) {
		return domain.DocumentTotals{}, validationError("discount %s exceeds document value %s", discount.String(), gross.String())
	}
	total := gross.Sub(discount)
	paid = paid.Round(gst.MoneyPlaces)
	if paid.GreaterThan(total) {
		return domain.DocumentTotals{}, validationError("paid amount %s exceeds total %s", paid.String(), total.String())
	}
	return domain.DocumentTotals{
		Subtotal:      subtotal,
		Discount:      discount,
		Tax:           tax,
		TaxTotal:      taxTotal,
		Total:         total,
		PaidAmount:    paid,
		BalanceAmount: total.Sub(paid),
	}, nil
}

// isInterState prefers the caller's explicit choice, then compares state codes.
// Missing state codes mean an intra-state supply.
func (s *billingService) isInterState(explicit *bool, partyStateCode string) bool {
	if explicit != nil {
		return *explicit
	}
	if s.storeStateCode == "" || partyStateCode == "" {
		return false
	}
	return !strings.EqualFold(strings.TrimSpace(s.storeStateCode), strings.TrimSpace(partyStateCode))
}

func lockActiveProducts(ctx context.Context, tx portsrepo.TxRepositories, productIDs []string) (map[string]domain.Product, error) {
	products, err := tx.Stock().LockProducts(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range productIDs {
		if !products[id].IsActive {
			return nil, validationError("product %s is inactive", id)
		}
	}
	return products, nil
}

// --- bills ---

func validateBillRequest(req dto.CreateBillRequest) error {
	for i, item := range req.Items {
		if !item.Quantity.IsPositive() {
			return validationError("items[%d]: quantity must be greater than zero", i)
		}
		if item.Rate != nil && item.Rate.IsNegative() {
			return validationError("items[%d]: rate must not be negative", i)
		}
		if item.TaxRate != nil {
			if err := validateTaxRate(*item.TaxRate); err != nil {
				return err
			}
		}
	}
	if err := requireNonNegative("discount", req.Discount); err != nil {
		return err
	}
	if err := requireNonNegative("paid amount", req.PaidAmount); err != nil {
		return err
	}
	if err := requireNonNegative("redeem points", req.RedeemPoints); err != nil {
		return err
	}
	if req.RedeemPoints.IsPositive() && emptyToNil(req.CustomerID) == nil {
		return validationError("redeeming points requires a customer")
	}
	return nil
}

func (s *billingService) CreateBill(ctx context.Context, req dto.CreateBillRequest, userID string) (*domain.Bill, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if err := validateBillRequest(req); err != nil {
		return nil, err
	}

	now := s.now()
	billDate := now
	if req.BillDate != nil {
		billDate = req.BillDate.UTC()
	}

	var bill *domain.Bill
	err := s.runUnit(ctx, "create_bill", func(ctx context.Context, tx portsrepo.TxRepositories) error {
		created, err := s.createBill(ctx, tx, req, userID, billDate, now)
		if err != nil {
			return err
		}
		bill = created
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Bill creation rolled back", slog.Int("items", len(req.Items)))
		return nil, err
	}

	s.LogInfo(ctx, "Bill created",
		slog.String("bill_id", bill.BillID),
		slog.String("bill_number", bill.BillNumber),
		slog.String("total", bill.Total.String()),
		slog.String("payment_status", string(bill.PaymentStatus)))
	return bill, nil
}

func (s *billingService) createBill(ctx context.Context, tx portsrepo.TxRepositories, req dto.CreateBillRequest, userID string, billDate, now time.Time) (*domain.Bill, error) {
	productIDs := make([]string, len(req.Items))
	for i, item := range req.Items {
		productIDs[i] = item.ProductID
	}
	products, err := lockActiveProducts(ctx, tx, productIDs)
	if err != nil {
		return nil, err
	}

	billNumber, err := s.sequences.NextNumber(ctx, tx, domain.SeriesBill, now)
	if err != nil {
		return nil, err
	}
	var paymentNumber string
	if req.PaidAmount.IsPositive() {
		if paymentNumber, err = s.sequences.NextNumber(ctx, tx, domain.SeriesPayment, now); err != nil {
			return nil, err
		}
	}

	customerID := emptyToNil(req.CustomerID)
	var customer *domain.Customer
	if customerID != nil {
		if customer, err = lockActiveCustomer(ctx, tx, *customerID); err != nil {
			return nil, err
		}
	}
	partyState := ""
	if customer != nil {
		partyState = customer.StateCode
	}
	interState := s.isInterState(req.InterState, partyState)

	billID := uuid.NewString()
	items := make([]domain.BillItem, len(req.Items))
	lines := make([]domain.LineAmounts, len(req.Items))
	for i, item := range req.Items {
		product := products[item.ProductID]
		rate := product.SellingPrice
		if item.Rate != nil {
			rate = *item.Rate
		}
		taxRate := product.TaxRate
		if item.TaxRate != nil {
			taxRate = *item.TaxRate
		}
		lines[i] = computeLine(item.Quantity, rate, taxRate, interState)
		items[i] = domain.BillItem{
			BillItemID:  uuid.NewString(),
			BillID:      billID,
			ProductID:   item.ProductID,
			LineAmounts: lines[i],
		}
	}

	discount := req.Discount
	if req.RedeemPoints.IsPositive() {
		discount = discount.Add(s.loyalty.RedemptionValue(req.RedeemPoints))
	}
	totals, err := computeTotals(lines, discount, req.PaidAmount)
	if err != nil {
		return nil, err
	}

	ref := domain.RefDoc{Type: domain.DocBill, ID: billID, Number: billNumber}
	for _, item := range items {
		_, err := s.stock.RecordMovement(ctx, tx, domain.StockMovement{
			ProductID: item.ProductID,
			Delta:     item.Quantity.Neg(),
			UnitCost:  products[item.ProductID].PurchasePrice,
			RefDoc:    ref,
		}, userID, now)
		if err != nil {
			return nil, err
		}
	}

	bill := domain.Bill{
		BillID:         billID,
		BillNumber:     billNumber,
		BillDate:       billDate,
		CustomerID:     customerID,
		InterState:     interState,
		PaymentMode:    req.PaymentMode,
		PaymentStatus:  domain.PaymentStatusFor(totals.PaidAmount, totals.BalanceAmount),
		PointsRedeemed: req.RedeemPoints,
		PointsEarned:   decimal.Zero,
		Notes:          req.Notes,
		IsActive:       true,
		Items:          items,
		DocumentTotals: totals,
		AuditFields:    domain.NewAuditFields(userID, now),
	}

	if customer != nil {
		if req.RedeemPoints.IsPositive() {
			if _, err := s.loyalty.redeem(ctx, tx, customer.CustomerID, req.RedeemPoints, &ref, "redeemed at billing", userID, now); err != nil {
				return nil, err
			}
		}
		earned, err := s.loyalty.earn(ctx, tx, customer.CustomerID, totals.Total, &ref, "", userID, now)
		if err != nil {
			return nil, err
		}
		if earned != nil {
			bill.PointsEarned = earned.Points
		}
	}

	if err := tx.Bills().InsertBill(ctx, bill); err != nil {
		return nil, err
	}

	if totals.PaidAmount.IsPositive() {
		payment := newPayment(paymentNumber, domain.PartyCustomer, customerID, domain.TargetBill, billID,
			totals.PaidAmount, req.PaymentMode, req.PaymentReference, decimal.Zero, totals.Total, billDate, userID, now)
		if err := tx.Payments().InsertPayment(ctx, payment); err != nil {
			return nil, err
		}
	}

	if customer != nil && totals.BalanceAmount.IsPositive() {
		if _, err := tx.Parties().AdjustCustomerOutstanding(ctx, customer.CustomerID, totals.BalanceAmount, userID, now); err != nil {
			return nil, err
		}
	}
	return &bill, nil
}

// --- readers ---

func (s *billingService) GetBillByID(ctx context.Context, billID string) (*domain.Bill, error) {
	bill, err := s.documentRepo.FindBillByID(ctx, billID)
	if err != nil {
		s.logReadError(ctx, err, "bill", billID)
		return nil, err
	}
	return bill, nil
}

func (s *billingService) GetPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	purchase, err := s.documentRepo.FindPurchaseByID(ctx, purchaseID)
	if err != nil {
		s.logReadError(ctx, err, "purchase", purchaseID)
		return nil, err
	}
	return purchase, nil
}

func (s *billingService) GetReturnByID(ctx context.Context, returnID string) (*domain.Return, error) {
	ret, err := s.documentRepo.FindReturnByID(ctx, returnID)
	if err != nil {
		s.logReadError(ctx, err, "return", returnID)
		return nil, err
	}
	return ret, nil
}

func (s *billingService) logReadError(ctx context.Context, err error, kind, id string) {
	if errors.Is(err, apperrors.ErrNotFound) {
		return
	}
	s.LogError(ctx, err, "Failed to load document", slog.String("kind", kind), slog.String("id", id))
}
