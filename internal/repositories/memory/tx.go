package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/shiva00s/ModernBillingApp-sub000/internal/apperrors"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	portsrepo "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// txRepositories operates on live state while the store mutex is held.
type txRepositories struct {
	st *state
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

// --- stock ---

func (t *txRepositories) InsertProduct(ctx context.Context, product domain.Product) error {
	if _, exists := t.st.products[product.ProductID]; exists {
		return fmt.Errorf("%w: product %s", apperrors.ErrDuplicate, product.ProductID)
	}
	if _, exists := t.st.productCodes[product.Code]; exists {
		return fmt.Errorf("%w: product code %s", apperrors.ErrDuplicate, product.Code)
	}
	product.CurrentStock = decimal.Zero
	t.st.products[product.ProductID] = product
	t.st.productCodes[product.Code] = product.ProductID
	return nil
}

func (t *txRepositories) LockProducts(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	ids := slices.Clone(productIDs)
	sort.Strings(ids)
	out := make(map[string]domain.Product, len(ids))
	for _, id := range slices.Compact(ids) {
		p, ok := t.st.products[id]
		if !ok {
			return nil, fmt.Errorf("%w: product %s", apperrors.ErrNotFound, id)
		}
		out[id] = p
	}
	return out, nil
}

func (t *txRepositories) AppendMovement(ctx context.Context, entry domain.StockLedgerEntry) (domain.StockLedgerEntry, error) {
	p, ok := t.st.products[entry.ProductID]
	if !ok {
		return domain.StockLedgerEntry{}, fmt.Errorf("%w: product %s", apperrors.ErrNotFound, entry.ProductID)
	}
	after := p.CurrentStock.Add(entry.Quantity)
	if entry.IsOutbound() && after.IsNegative() {
		return domain.StockLedgerEntry{}, &apperrors.InsufficientStockError{
			ProductID: entry.ProductID,
			Available: p.CurrentStock,
			Requested: entry.Quantity.Neg(),
		}
	}

	p.CurrentStock = after
	p.LastUpdatedAt = entry.CreatedAt
	p.LastUpdatedBy = entry.CreatedBy
	t.st.products[p.ProductID] = p

	t.st.appendSeq++
	entry.Sequence = t.st.appendSeq
	entry.StockAfter = after
	t.st.ledger = append(t.st.ledger, entry)
	return entry, nil
}

func (t *txRepositories) UpdatePurchasePrice(ctx context.Context, productID string, price decimal.Decimal, userID string, now time.Time) error {
	p, ok := t.st.products[productID]
	if !ok {
		return fmt.Errorf("%w: product %s", apperrors.ErrNotFound, productID)
	}
	p.PurchasePrice = price
	p.LastUpdatedAt = now
	p.LastUpdatedBy = userID
	t.st.products[productID] = p
	return nil
}

// --- sequences ---

func (t *txRepositories) NextSequenceValue(ctx context.Context, series domain.SeriesID, period string) (int64, error) {
	key := string(series) + "|" + period
	t.st.sequences[key]++
	return t.st.sequences[key], nil
}

// --- bills ---

func (t *txRepositories) InsertBill(ctx context.Context, bill domain.Bill) error {
	if _, exists := t.st.billNumbers[bill.BillNumber]; exists {
		return fmt.Errorf("%w: bill number %s", apperrors.ErrDuplicate, bill.BillNumber)
	}
	if _, exists := t.st.bills[bill.BillID]; exists {
		return fmt.Errorf("%w: bill %s", apperrors.ErrDuplicate, bill.BillID)
	}
	bill.Items = slices.Clone(bill.Items)
	t.st.bills[bill.BillID] = bill
	t.st.billNumbers[bill.BillNumber] = bill.BillID
	return nil
}

func (t *txRepositories) LockBill(ctx context.Context, billID string) (*domain.Bill, error) {
	return t.st.bill(billID)
}

func (t *txRepositories) UpdateBillPayment(ctx context.Context, billID string, paid, balance decimal.Decimal, status domain.PaymentStatus, userID string, now time.Time) error {
	b, ok := t.st.bills[billID]
	if !ok {
		return fmt.Errorf("%w: bill %s", apperrors.ErrNotFound, billID)
	}
	b.PaidAmount = paid
	b.BalanceAmount = balance
	b.PaymentStatus = status
	b.LastUpdatedAt = now
	b.LastUpdatedBy = userID
	t.st.bills[billID] = b
	return nil
}

// --- purchases ---

func (t *txRepositories) InsertPurchase(ctx context.Context, purchase domain.Purchase) error {
	if _, exists := t.st.purchaseNumbers[purchase.PurchaseNumber]; exists {
		return fmt.Errorf("%w: purchase number %s", apperrors.ErrDuplicate, purchase.PurchaseNumber)
	}
	if _, exists := t.st.purchases[purchase.PurchaseID]; exists {
		return fmt.Errorf("%w: purchase %s", apperrors.ErrDuplicate, purchase.PurchaseID)
	}
	purchase.Items = slices.Clone(purchase.Items)
	t.st.purchases[purchase.PurchaseID] = purchase
	t.st.purchaseNumbers[purchase.PurchaseNumber] = purchase.PurchaseID
	return nil
}

func (t *txRepositories) LockPurchase(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	return t.st.purchase(purchaseID)
}

func (t *txRepositories) UpdatePurchasePayment(ctx context.Context, purchaseID string, paid, balance decimal.Decimal, status domain.PaymentStatus, userID string, now time.Time) error {
	p, ok := t.st.purchases[purchaseID]
	if !ok {
		return fmt.Errorf("%w: purchase %s", apperrors.ErrNotFound, purchaseID)
	}
	p.PaidAmount = paid
	p.BalanceAmount = balance
	p.PaymentStatus = status
	p.LastUpdatedAt = now
	p.LastUpdatedBy = userID
	t.st.purchases[purchaseID] = p
	return nil
}

// --- returns ---

func (t *txRepositories) InsertReturn(ctx context.Context, ret domain.Return) error {
	if _, exists := t.st.returnNumbers[ret.ReturnNumber]; exists {
		return fmt.Errorf("%w: return number %s", apperrors.ErrDuplicate, ret.ReturnNumber)
	}
	ret.Items = slices.Clone(ret.Items)
	t.st.returns[ret.ReturnID] = ret
	t.st.returnNumbers[ret.ReturnNumber] = ret.ReturnID
	return nil
}

func (t *txRepositories) SumReturnedQuantities(ctx context.Context, kind domain.ReturnKind, originalDocID string) (map[string]decimal.Decimal, error) {
	out := map[string]decimal.Decimal{}
	for _, r := range t.st.returns {
		if r.Kind != kind || r.OriginalDocID != originalDocID || !r.IsActive {
			continue
		}
		for _, item := range r.Items {
			out[item.ProductID] = out[item.ProductID].Add(item.Quantity)
		}
	}
	return out, nil
}

// --- payments ---

func (t *txRepositories) InsertPayment(ctx context.Context, payment domain.Payment) error {
	if _, exists := t.st.paymentNumbers[payment.PaymentNumber]; exists {
		return fmt.Errorf("%w: payment number %s", apperrors.ErrDuplicate, payment.PaymentNumber)
	}
	t.st.paymentNumbers[payment.PaymentNumber] = payment.PaymentID
	t.st.payments = append(t.st.payments, payment)
	return nil
}

func (t *txRepositories) SumPaymentsByTarget(ctx context.Context, targetType domain.PaymentTargetType, targetID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range t.st.payments {
		if p.TargetType == targetType && p.TargetID == targetID {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

// --- parties ---

func (t *txRepositories) LockCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	c, ok := t.st.customers[customerID]
	if !ok {
		return nil, fmt.Errorf("%w: customer %s", apperrors.ErrNotFound, customerID)
	}
	return &c, nil
}

func (t *txRepositories) LockSupplier(ctx context.Context, supplierID string) (*domain.Supplier, error) {
	s, ok := t.st.suppliers[supplierID]
	if !ok {
		return nil, fmt.Errorf("%w: supplier %s", apperrors.ErrNotFound, supplierID)
	}
	return &s, nil
}

func (t *txRepositories) AdjustCustomerOutstanding(ctx context.Context, customerID string, delta decimal.Decimal, userID string, now time.Time) (decimal.Decimal, error) {
	c, ok := t.st.customers[customerID]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: customer %s", apperrors.ErrNotFound, customerID)
	}
	c.OutstandingBalance = decimal.Max(decimal.Zero, c.OutstandingBalance.Add(delta))
	c.LastUpdatedAt = now
	c.LastUpdatedBy = userID
	t.st.customers[customerID] = c
	return c.OutstandingBalance, nil
}

func (t *txRepositories) AdjustSupplierOutstanding(ctx context.Context, supplierID string, delta decimal.Decimal, userID string, now time.Time) (decimal.Decimal, error) {
	s, ok := t.st.suppliers[supplierID]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: supplier %s", apperrors.ErrNotFound, supplierID)
	}
	s.OutstandingBalance = decimal.Max(decimal.Zero, s.OutstandingBalance.Add(delta))
	s.LastUpdatedAt = now
	s.LastUpdatedBy = userID
	t.st.suppliers[supplierID] = s
	return s.OutstandingBalance, nil
}

// --- loyalty ---

func (t *txRepositories) AppendLoyaltyTransaction(ctx context.Context, txn domain.LoyaltyTransaction) (domain.LoyaltyTransaction, error) {
	c, ok := t.st.customers[txn.CustomerID]
	if !ok {
		return domain.LoyaltyTransaction{}, fmt.Errorf("%w: customer %s", apperrors.ErrNotFound, txn.CustomerID)
	}
	after := c.LoyaltyPoints.Add(txn.Points)
	if after.IsNegative() {
		return domain.LoyaltyTransaction{}, &apperrors.InsufficientPointsError{
			CustomerID: txn.CustomerID,
			Available:  c.LoyaltyPoints,
			Requested:  txn.Points.Neg(),
		}
	}

	c.LoyaltyPoints = after
	switch txn.Type {
	case domain.LoyaltyEarn:
		c.LifetimePointsEarned = c.LifetimePointsEarned.Add(txn.Points)
	case domain.LoyaltyRedeem:
		c.LifetimePointsRedeemed = c.LifetimePointsRedeemed.Add(txn.Points.Abs())
	}
	c.LastUpdatedAt = txn.CreatedAt
	c.LastUpdatedBy = txn.CreatedBy
	t.st.customers[c.CustomerID] = c

	t.st.appendSeq++
	txn.Sequence = t.st.appendSeq
	txn.BalanceAfter = after
	t.st.loyalty = append(t.st.loyalty, txn)
	return txn, nil
}

func (t *txRepositories) SummarizeLoyalty(ctx context.Context, customerID string, asOf time.Time) (domain.LoyaltySummary, error) {
	c, ok := t.st.customers[customerID]
	if !ok {
		return domain.LoyaltySummary{}, fmt.Errorf("%w: customer %s", apperrors.ErrNotFound, customerID)
	}
	summary := domain.LoyaltySummary{Balance: c.LoyaltyPoints}
	for _, txn := range t.st.loyalty {
		if txn.CustomerID != customerID {
			continue
		}
		switch txn.Type {
		case domain.LoyaltyEarn:
			if txn.ExpiresAt != nil && !txn.ExpiresAt.After(asOf) {
				summary.ExpiredEarned = summary.ExpiredEarned.Add(txn.Points)
			}
		case domain.LoyaltyRedeem:
			summary.TotalRedeemed = summary.TotalRedeemed.Add(txn.Points.Abs())
		case domain.LoyaltyExpire:
			summary.TotalExpired = summary.TotalExpired.Add(txn.Points.Abs())
		case domain.LoyaltyAdjust:
			if txn.Points.IsNegative() {
				summary.NegativeAdjust = summary.NegativeAdjust.Add(txn.Points.Abs())
			}
		}
	}
	return summary, nil
}
