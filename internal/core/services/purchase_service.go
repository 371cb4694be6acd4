package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	portsrepo "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/repositories"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/dto"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/utils/gst"
	"github.com/shopspring/decimal"
)

func validatePurchaseRequest(req dto.CreatePurchaseRequest) error {
	for i, item := range req.Items {
		if !item.Quantity.IsPositive() {
			return validationError("items[%d]: quantity must be greater than zero", i)
		}
		if item.UnitCost.IsNegative() {
			return validationError("items[%d]: unit cost must not be negative", i)
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
	return requireNonNegative("paid amount", req.PaidAmount)
}

func (s *billingService) CreatePurchase(ctx context.Context, req dto.CreatePurchaseRequest, userID string) (*domain.Purchase, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if err := validatePurchaseRequest(req); err != nil {
		return nil, err
	}

	now := s.now()
	purchaseDate := now
	if req.PurchaseDate != nil {
		purchaseDate = req.PurchaseDate.UTC()
	}

	var purchase *domain.Purchase
	err := s.runUnit(ctx, "create_purchase", func(ctx context.Context, tx portsrepo.TxRepositories) error {
		created, err := s.createPurchase(ctx, tx, req, userID, purchaseDate, now)
		if err != nil {
			return err
		}
		purchase = created
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Purchase creation rolled back", slog.String("supplier_id", req.SupplierID))
		return nil, err
	}

	s.LogInfo(ctx, "Purchase created",
		slog.String("purchase_id", purchase.PurchaseID),
		slog.String("purchase_number", purchase.PurchaseNumber),
		slog.String("total", purchase.Total.String()))
	return purchase, nil
}

// receipt accumulates the inbound quantity and cost of one product across purchase lines.
type receipt struct {
	quantity decimal.Decimal
	cost     decimal.Decimal
}

// weightedAveragePrice blends the value on hand with the received value.
func weightedAveragePrice(product domain.Product, r receipt) decimal.Decimal {
	onHand := product.CurrentStock
	if onHand.IsNegative() {
		onHand = decimal.Zero
	}
	totalQty := onHand.Add(r.quantity)
	if !totalQty.IsPositive() {
		return product.PurchasePrice
	}
	value := onHand.Mul(product.PurchasePrice).Add(r.cost)
	return value.Div(totalQty).Round(gst.MoneyPlaces)
}

func (s *billingService) createPurchase(ctx context.Context, tx portsrepo.TxRepositories, req dto.CreatePurchaseRequest, userID string, purchaseDate, now time.Time) (*domain.Purchase, error) {
	productIDs := make([]string, len(req.Items))
	for i, item := range req.Items {
		productIDs[i] = item.ProductID
	}
	products, err := lockActiveProducts(ctx, tx, productIDs)
	if err != nil {
		return nil, err
	}

	purchaseNumber, err := s.sequences.NextNumber(ctx, tx, domain.SeriesPurchase, now)
	if err != nil {
		return nil, err
	}
	var paymentNumber string
	if req.PaidAmount.IsPositive() {
		if paymentNumber, err = s.sequences.NextNumber(ctx, tx, domain.SeriesPayment, now); err != nil {
			return nil, err
		}
	}

	supplier, err := tx.Parties().LockSupplier(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}
	if !supplier.IsActive {
		return nil, validationError("supplier %s is inactive", req.SupplierID)
	}
	interState := s.isInterState(req.InterState, supplier.StateCode)

	purchaseID := uuid.NewString()
	items := make([]domain.PurchaseItem, len(req.Items))
	lines := make([]domain.LineAmounts, len(req.Items))
	receipts := make(map[string]receipt, len(products))
	for i, item := range req.Items {
		taxRate := products[item.ProductID].TaxRate
		if item.TaxRate != nil {
			taxRate = *item.TaxRate
		}
		lines[i] = computeLine(item.Quantity, item.UnitCost, taxRate, interState)
		items[i] = domain.PurchaseItem{
			PurchaseItemID: uuid.NewString(),
			PurchaseID:     purchaseID,
			ProductID:      item.ProductID,
			LineAmounts:    lines[i],
		}
		r := receipts[item.ProductID]
		r.quantity = r.quantity.Add(item.Quantity)
		r.cost = r.cost.Add(item.Quantity.Mul(item.UnitCost))
		receipts[item.ProductID] = r
	}

	totals, err := computeTotals(lines, req.Discount, req.PaidAmount)
	if err != nil {
		return nil, err
	}

	ref := domain.RefDoc{Type: domain.DocPurchase, ID: purchaseID, Number: purchaseNumber}
	for _, item := range items {
		_, err := s.stock.RecordMovement(ctx, tx, domain.StockMovement{
			ProductID: item.ProductID,
			Delta:     item.Quantity,
			UnitCost:  item.Rate,
			RefDoc:    ref,
		}, userID, now)
		if err != nil {
			return nil, err
		}
	}
	for _, id := range productIDs {
		r, pending := receipts[id]
		if !pending {
			continue
		}
		delete(receipts, id)
		price := weightedAveragePrice(products[id], r)
		if err := tx.Stock().UpdatePurchasePrice(ctx, id, price, userID, now); err != nil {
			return nil, err
		}
	}

	purchase := domain.Purchase{
		PurchaseID:        purchaseID,
		PurchaseNumber:    purchaseNumber,
		PurchaseDate:      purchaseDate,
		SupplierID:        supplier.SupplierID,
		SupplierInvoiceNo: req.SupplierInvoiceNo,
		InterState:        interState,
		PaymentMode:       req.PaymentMode,
		PaymentStatus:     domain.PaymentStatusFor(totals.PaidAmount, totals.BalanceAmount),
		Notes:             req.Notes,
		IsActive:          true,
		Items:             items,
		DocumentTotals:    totals,
		AuditFields:       domain.NewAuditFields(userID, now),
	}
	if err := tx.Purchases().InsertPurchase(ctx, purchase); err != nil {
		return nil, err
	}

	if totals.PaidAmount.IsPositive() {
		supplierID := supplier.SupplierID
		payment := newPayment(paymentNumber, domain.PartySupplier, &supplierID, domain.TargetPurchase, purchaseID,
			totals.PaidAmount, req.PaymentMode, req.PaymentReference, decimal.Zero, totals.Total, purchaseDate, userID, now)
		if err := tx.Payments().InsertPayment(ctx, payment); err != nil {
			return nil, err
		}
	}
	if totals.BalanceAmount.IsPositive() {
		if _, err := tx.Parties().AdjustSupplierOutstanding(ctx, supplier.SupplierID, totals.BalanceAmount, userID, now); err != nil {
			return nil, err
		}
	}
	return &purchase, nil
}
