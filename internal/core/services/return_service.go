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

// originalDocument is the part of a bill or purchase a return needs.
type originalDocument struct {
	id           string
	number       string
	partyID      *string
	interState   bool
	totals       domain.DocumentTotals
	pointsEarned decimal.Decimal
	lines        map[string]domain.LineAmounts // per product, quantity summed over lines
}

// netValue scales a returned gross value by the share of the original the buyer actually
// paid for, so discounts and redeemed points are not refunded twice.
func (o *originalDocument) netValue(gross decimal.Decimal) decimal.Decimal {
	originalGross := o.totals.Subtotal.Add(o.totals.TaxTotal)
	if !originalGross.IsPositive() || o.totals.Total.Equal(originalGross) {
		return gross
	}
	return gross.Mul(o.totals.Total).Div(originalGross).Round(gst.MoneyPlaces)
}

// pointsToReverse is the share of the original's earned points matching the returned value.
func (o *originalDocument) pointsToReverse(returned decimal.Decimal) decimal.Decimal {
	if !o.pointsEarned.IsPositive() || !o.totals.Total.IsPositive() {
		return decimal.Zero
	}
	return decimal.Min(o.pointsEarned, o.pointsEarned.Mul(returned).Div(o.totals.Total).RoundFloor(2))
}

func originalLines[T any](items []T, productOf func(T) string, amountsOf func(T) domain.LineAmounts) map[string]domain.LineAmounts {
	lines := make(map[string]domain.LineAmounts, len(items))
	for _, item := range items {
		id := productOf(item)
		line, seen := lines[id]
		if !seen {
			lines[id] = amountsOf(item)
			continue
		}
		line.Quantity = line.Quantity.Add(amountsOf(item).Quantity)
		lines[id] = line
	}
	return lines
}

func lockOriginal(ctx context.Context, tx portsrepo.TxRepositories, kind domain.ReturnKind, docID string) (*originalDocument, error) {
	switch kind {
	case domain.SaleReturn:
		bill, err := tx.Bills().LockBill(ctx, docID)
		if err != nil {
			return nil, err
		}
		if !bill.IsActive {
			return nil, validationError("bill %s is cancelled", docID)
		}
		return &originalDocument{
			id:           bill.BillID,
			number:       bill.BillNumber,
			partyID:      bill.CustomerID,
			interState:   bill.InterState,
			totals:       bill.DocumentTotals,
			pointsEarned: bill.PointsEarned,
			lines: originalLines(bill.Items,
				func(i domain.BillItem) string { return i.ProductID },
				func(i domain.BillItem) domain.LineAmounts { return i.LineAmounts }),
		}, nil
	case domain.PurchaseReturn:
		purchase, err := tx.Purchases().LockPurchase(ctx, docID)
		if err != nil {
			return nil, err
		}
		if !purchase.IsActive {
			return nil, validationError("purchase %s is cancelled", docID)
		}
		supplierID := purchase.SupplierID
		return &originalDocument{
			id:           purchase.PurchaseID,
			number:       purchase.PurchaseNumber,
			partyID:      &supplierID,
			interState:   purchase.InterState,
			totals:       purchase.DocumentTotals,
			pointsEarned: decimal.Zero,
			lines: originalLines(purchase.Items,
				func(i domain.PurchaseItem) string { return i.ProductID },
				func(i domain.PurchaseItem) domain.LineAmounts { return i.LineAmounts }),
		}, nil
	default:
		return nil, validationError("unknown return kind %q", kind)
	}
}

func (s *billingService) CreateReturn(ctx context.Context, req dto.CreateReturnRequest, userID string) (*domain.Return, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	for i, item := range req.Items {
		if !item.Quantity.IsPositive() {
			return nil, validationError("items[%d]: quantity must be greater than zero", i)
		}
	}

	now := s.now()
	returnDate := now
	if req.ReturnDate != nil {
		returnDate = req.ReturnDate.UTC()
	}

	var ret *domain.Return
	err := s.runUnit(ctx, "create_return", func(ctx context.Context, tx portsrepo.TxRepositories) error {
		created, err := s.createReturn(ctx, tx, req, userID, returnDate, now)
		if err != nil {
			return err
		}
		ret = created
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Return creation rolled back",
			slog.String("kind", string(req.Kind)),
			slog.String("original_doc_id", req.OriginalDocID))
		return nil, err
	}

	s.LogInfo(ctx, "Return created",
		slog.String("return_id", ret.ReturnID),
		slog.String("return_number", ret.ReturnNumber),
		slog.String("total", ret.Total.String()))
	return ret, nil
}

func (s *billingService) createReturn(ctx context.Context, tx portsrepo.TxRepositories, req dto.CreateReturnRequest, userID string, returnDate, now time.Time) (*domain.Return, error) {
	original, err := lockOriginal(ctx, tx, req.Kind, req.OriginalDocID)
	if err != nil {
		return nil, err
	}

	// Merge repeated products so the returnable check sees the whole request.
	var productIDs []string
	requested := make(map[string]decimal.Decimal, len(req.Items))
	for _, item := range req.Items {
		if _, seen := requested[item.ProductID]; !seen {
			productIDs = append(productIDs, item.ProductID)
		}
		requested[item.ProductID] = requested[item.ProductID].Add(item.Quantity)
	}

	returned, err := tx.Returns().SumReturnedQuantities(ctx, req.Kind, original.id)
	if err != nil {
		return nil, err
	}
	for _, id := range productIDs {
		line, ok := original.lines[id]
		if !ok {
			return nil, validationError("product %s is not on %s", id, original.number)
		}
		returnable := line.Quantity.Sub(returned[id])
		if requested[id].GreaterThan(returnable) {
			return nil, validationError("return quantity %s for product %s exceeds returnable %s",
				requested[id].String(), id, returnable.String())
		}
	}

	products, err := tx.Stock().LockProducts(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	returnNumber, err := s.sequences.NextNumber(ctx, tx, domain.SeriesReturn, now)
	if err != nil {
		return nil, err
	}

	var customer *domain.Customer
	if original.partyID != nil {
		if req.Kind == domain.SaleReturn {
			customer, err = tx.Parties().LockCustomer(ctx, *original.partyID)
		} else {
			_, err = tx.Parties().LockSupplier(ctx, *original.partyID)
		}
		if err != nil {
			return nil, err
		}
	}

	returnID := uuid.NewString()
	items := make([]domain.ReturnItem, len(productIDs))
	lines := make([]domain.LineAmounts, len(productIDs))
	for i, id := range productIDs {
		source := original.lines[id]
		lines[i] = computeLine(requested[id], source.Rate, source.TaxRate, original.interState)
		items[i] = domain.ReturnItem{
			ReturnItemID: uuid.NewString(),
			ReturnID:     returnID,
			ProductID:    id,
			LineAmounts:  lines[i],
		}
	}
	gross := decimal.Zero
	for _, l := range lines {
		gross = gross.Add(l.LineTotal).Add(l.TaxAmount)
	}
	totals, err := computeTotals(lines, gross.Sub(original.netValue(gross)), decimal.Zero)
	if err != nil {
		return nil, err
	}
	// The return first cancels what is still owed on the original; anything beyond that
	// was already paid and is refunded, recorded as the return's paid amount.
	credit := decimal.Min(totals.Total, original.totals.BalanceAmount)
	totals.PaidAmount = totals.Total.Sub(credit)
	totals.BalanceAmount = decimal.Zero

	ref := domain.RefDoc{Type: req.Kind.DocumentType(), ID: returnID, Number: returnNumber}
	for _, item := range items {
		movement := domain.StockMovement{
			ProductID: item.ProductID,
			Delta:     item.Quantity,
			UnitCost:  products[item.ProductID].PurchasePrice,
			RefDoc:    ref,
			Notes:     req.Reason,
		}
		if req.Kind == domain.PurchaseReturn {
			movement.Delta = item.Quantity.Neg()
			movement.UnitCost = item.Rate
		}
		if _, err := s.stock.RecordMovement(ctx, tx, movement, userID, now); err != nil {
			return nil, err
		}
	}

	ret := domain.Return{
		ReturnID:          returnID,
		ReturnNumber:      returnNumber,
		ReturnDate:        returnDate,
		Kind:              req.Kind,
		OriginalDocID:     original.id,
		OriginalDocNumber: original.number,
		PartyID:           original.partyID,
		InterState:        original.interState,
		Reason:            req.Reason,
		IsActive:          true,
		Items:             items,
		DocumentTotals:    totals,
		AuditFields:       domain.NewAuditFields(userID, now),
	}
	if err := tx.Returns().InsertReturn(ctx, ret); err != nil {
		return nil, err
	}

	if credit.IsPositive() {
		if err := s.applyReturnCredit(ctx, tx, req.Kind, original, credit, userID, now); err != nil {
			return nil, err
		}
	}

	if customer != nil {
		points := decimal.Min(original.pointsToReverse(totals.Total), customer.LoyaltyPoints)
		if points.IsPositive() {
			if _, err := s.loyalty.append(ctx, tx, domain.LoyaltyTransaction{
				CustomerID: customer.CustomerID,
				Type:       domain.LoyaltyAdjust,
				Points:     points.Neg(),
				RefDoc:     &ref,
				Notes:      "reversed for return of " + original.number,
				CreatedAt:  now,
				CreatedBy:  userID,
			}); err != nil {
				return nil, err
			}
		}
	}
	return &ret, nil
}

// applyReturnCredit lowers the original document's balance, and the party's outstanding
// balance with it, by credit. credit never exceeds the document balance.
func (s *billingService) applyReturnCredit(ctx context.Context, tx portsrepo.TxRepositories, kind domain.ReturnKind, original *originalDocument, credit decimal.Decimal, userID string, now time.Time) error {
	paid := original.totals.PaidAmount
	balance := decimal.Max(decimal.Zero, original.totals.BalanceAmount.Sub(credit))
	status := domain.PaymentStatusFor(paid, balance)

	var err error
	if kind == domain.SaleReturn {
		err = tx.Bills().UpdateBillPayment(ctx, original.id, paid, balance, status, userID, now)
	} else {
		err = tx.Purchases().UpdatePurchasePayment(ctx, original.id, paid, balance, status, userID, now)
	}
	if err != nil || original.partyID == nil {
		return err
	}
	if kind == domain.SaleReturn {
		_, err = tx.Parties().AdjustCustomerOutstanding(ctx, *original.partyID, credit.Neg(), userID, now)
	} else {
		_, err = tx.Parties().AdjustSupplierOutstanding(ctx, *original.partyID, credit.Neg(), userID, now)
	}
	return err
}
