// Package memory is an in-process implementation of the repository ports. One mutex
// guards all state; a unit of work holds it for its whole duration and restores a
// snapshot on failure, which gives serializable, all-or-nothing semantics.
package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/shiva00s/ModernBillingApp-sub000/internal/apperrors"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	portsrepo "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/repositories"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

type state struct {
	products        map[string]domain.Product
	productCodes    map[string]string
	customers       map[string]domain.Customer
	suppliers       map[string]domain.Supplier
	bills           map[string]domain.Bill
	billNumbers     map[string]string
	purchases       map[string]domain.Purchase
	purchaseNumbers map[string]string
	returns         map[string]domain.Return
	returnNumbers   map[string]string
	paymentNumbers  map[string]string
	sequences       map[string]int64
	ledger          []domain.StockLedgerEntry
	payments        []domain.Payment
	loyalty         []domain.LoyaltyTransaction
	appendSeq       int64
}

func newState() *state {
	return &state{
		products:        map[string]domain.Product{},
		productCodes:    map[string]string{},
		customers:       map[string]domain.Customer{},
		suppliers:       map[string]domain.Supplier{},
		bills:           map[string]domain.Bill{},
		billNumbers:     map[string]string{},
		purchases:       map[string]domain.Purchase{},
		purchaseNumbers: map[string]string{},
		returns:         map[string]domain.Return{},
		returnNumbers:   map[string]string{},
		paymentNumbers:  map[string]string{},
		sequences:       map[string]int64{},
	}
}

// snapshot copies the maps and remembers the lengths of the append-only slices.
// Map values are copied by value; nested item slices are never mutated in place.
func (s *state) snapshot() *state {
	return &state{
		products:        maps.Clone(s.products),
		productCodes:    maps.Clone(s.productCodes),
		customers:       maps.Clone(s.customers),
		suppliers:       maps.Clone(s.suppliers),
		bills:           maps.Clone(s.bills),
		billNumbers:     maps.Clone(s.billNumbers),
		purchases:       maps.Clone(s.purchases),
		purchaseNumbers: maps.Clone(s.purchaseNumbers),
		returns:         maps.Clone(s.returns),
		returnNumbers:   maps.Clone(s.returnNumbers),
		paymentNumbers:  maps.Clone(s.paymentNumbers),
		sequences:       maps.Clone(s.sequences),
		ledger:          s.ledger[:len(s.ledger):len(s.ledger)],
		payments:        s.payments[:len(s.payments):len(s.payments)],
		loyalty:         s.loyalty[:len(s.loyalty):len(s.loyalty)],
		appendSeq:       s.appendSeq,
	}
}

// Store implements the repository ports in memory.
type Store struct {
	mu sync.RWMutex
	st *state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{st: newState()}
}

// NewRepositoryProvider wires one Store into every repository port.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ProductRepo:  store,
		PartyRepo:    store,
		DocumentRepo: store,
		PaymentRepo:  store,
		LoyaltyRepo:  store,
		TxManager:    store,
	}
}

var (
	_ portsrepo.ProductRepositoryFacade  = (*Store)(nil)
	_ portsrepo.PartyRepositoryFacade    = (*Store)(nil)
	_ portsrepo.DocumentRepositoryFacade = (*Store)(nil)
	_ portsrepo.PaymentReader            = (*Store)(nil)
	_ portsrepo.LoyaltyReader            = (*Store)(nil)
	_ portsrepo.TransactionManager       = (*Store)(nil)
)

// WithinTransaction implements portsrepo.TransactionManager.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx portsrepo.TxRepositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.st.snapshot()
	if err := fn(ctx, &txRepositories{st: s.st}); err != nil {
		s.st = snap
		return err
	}
	return nil
}

// --- products ---

func (s *Store) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.st.products[productID]
	if !ok {
		return nil, fmt.Errorf("%w: product %s", apperrors.ErrNotFound, productID)
	}
	return &p, nil
}

func (s *Store) FindProductByCode(ctx context.Context, code string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.st.productCodes[code]
	if !ok {
		return nil, fmt.Errorf("%w: product code %s", apperrors.ErrNotFound, code)
	}
	p := s.st.products[id]
	return &p, nil
}

func (s *Store) ListProducts(ctx context.Context, limit, offset int, includeInactive bool) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]domain.Product, 0, len(s.st.products))
	for _, p := range s.st.products {
		if p.IsActive || includeInactive {
			all = append(all, p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	return page(all, limit, offset), nil
}

func (s *Store) UpdateProduct(ctx context.Context, product domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.st.products[product.ProductID]
	if !ok {
		return fmt.Errorf("%w: product %s", apperrors.ErrNotFound, product.ProductID)
	}
	existing.Name = product.Name
	existing.Unit = product.Unit
	existing.HSNCode = product.HSNCode
	existing.PurchasePrice = product.PurchasePrice
	existing.SellingPrice = product.SellingPrice
	existing.MRP = product.MRP
	existing.TaxRate = product.TaxRate
	existing.LastUpdatedAt = product.LastUpdatedAt
	existing.LastUpdatedBy = product.LastUpdatedBy
	s.st.products[product.ProductID] = existing
	return nil
}

func (s *Store) DeactivateProduct(ctx context.Context, productID string, userID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.st.products[productID]
	if !ok {
		return fmt.Errorf("%w: product %s", apperrors.ErrNotFound, productID)
	}
	p.IsActive = false
	p.LastUpdatedAt = now
	p.LastUpdatedBy = userID
	s.st.products[productID] = p
	return nil
}

func (s *Store) ListLedgerEntries(ctx context.Context, productID string, limit int, nextToken *string) ([]domain.StockLedgerEntry, *string, error) {
	before, err := decodeCursor(nextToken)
	if err != nil {
		return nil, nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit = pagination.NormalizeLimit(limit)
	entries := make([]domain.StockLedgerEntry, 0, limit)
	for i := len(s.st.ledger) - 1; i >= 0 && len(entries) <= limit; i-- {
		e := s.st.ledger[i]
		if e.ProductID == productID && e.Sequence < before {
			entries = append(entries, e)
		}
	}
	entries, next := pagination.TrimSequencePage(entries, limit, func(e domain.StockLedgerEntry) int64 { return e.Sequence })
	return entries, next, nil
}

func (s *Store) SumLedgerQuantity(ctx context.Context, productID string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum := decimal.Zero
	for _, e := range s.st.ledger {
		if e.ProductID == productID {
			sum = sum.Add(e.Quantity)
		}
	}
	return sum, nil
}

// --- customers and suppliers ---

func (s *Store) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.st.customers[customerID]
	if !ok {
		return nil, fmt.Errorf("%w: customer %s", apperrors.ErrNotFound, customerID)
	}
	return &c, nil
}

func (s *Store) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.st.customers[customer.CustomerID]; exists {
		return fmt.Errorf("%w: customer %s", apperrors.ErrDuplicate, customer.CustomerID)
	}
	s.st.customers[customer.CustomerID] = customer
	return nil
}

func (s *Store) DeactivateCustomer(ctx context.Context, customerID string, userID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.st.customers[customerID]
	if !ok {
		return fmt.Errorf("%w: customer %s", apperrors.ErrNotFound, customerID)
	}
	c.IsActive = false
	c.LastUpdatedAt = now
	c.LastUpdatedBy = userID
	s.st.customers[customerID] = c
	return nil
}

func (s *Store) FindSupplierByID(ctx context.Context, supplierID string) (*domain.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sup, ok := s.st.suppliers[supplierID]
	if !ok {
		return nil, fmt.Errorf("%w: supplier %s", apperrors.ErrNotFound, supplierID)
	}
	return &sup, nil
}

func (s *Store) SaveSupplier(ctx context.Context, supplier domain.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.st.suppliers[supplier.SupplierID]; exists {
		return fmt.Errorf("%w: supplier %s", apperrors.ErrDuplicate, supplier.SupplierID)
	}
	s.st.suppliers[supplier.SupplierID] = supplier
	return nil
}

func (s *Store) DeactivateSupplier(ctx context.Context, supplierID string, userID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sup, ok := s.st.suppliers[supplierID]
	if !ok {
		return fmt.Errorf("%w: supplier %s", apperrors.ErrNotFound, supplierID)
	}
	sup.IsActive = false
	sup.LastUpdatedAt = now
	sup.LastUpdatedBy = userID
	s.st.suppliers[supplierID] = sup
	return nil
}

// --- documents ---

func (s *Store) FindBillByID(ctx context.Context, billID string) (*domain.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.bill(billID)
}

func (s *Store) FindPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.purchase(purchaseID)
}

func (s *Store) FindReturnByID(ctx context.Context, returnID string) (*domain.Return, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.st.returns[returnID]
	if !ok {
		return nil, fmt.Errorf("%w: return %s", apperrors.ErrNotFound, returnID)
	}
	r.Items = slices.Clone(r.Items)
	return &r, nil
}

// --- payments ---

func (s *Store) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.st.payments {
		if p.PaymentID == paymentID {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: payment %s", apperrors.ErrNotFound, paymentID)
}

func (s *Store) ListPaymentsByTarget(ctx context.Context, targetType domain.PaymentTargetType, targetID string) ([]domain.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Payment
	for _, p := range s.st.payments {
		if p.TargetType == targetType && p.TargetID == targetID {
			out = append(out, p)
		}
	}
	return out, nil
}

// --- loyalty ---

func (s *Store) ListLoyaltyTransactions(ctx context.Context, customerID string, limit int, nextToken *string) ([]domain.LoyaltyTransaction, *string, error) {
	before, err := decodeCursor(nextToken)
	if err != nil {
		return nil, nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit = pagination.NormalizeLimit(limit)
	txns := make([]domain.LoyaltyTransaction, 0, limit)
	for i := len(s.st.loyalty) - 1; i >= 0 && len(txns) <= limit; i-- {
		t := s.st.loyalty[i]
		if t.CustomerID == customerID && t.Sequence < before {
			txns = append(txns, t)
		}
	}
	txns, next := pagination.TrimSequencePage(txns, limit, func(t domain.LoyaltyTransaction) int64 { return t.Sequence })
	return txns, next, nil
}

// --- helpers ---

func (s *state) bill(billID string) (*domain.Bill, error) {
	b, ok := s.bills[billID]
	if !ok {
		return nil, fmt.Errorf("%w: bill %s", apperrors.ErrNotFound, billID)
	}
	b.Items = slices.Clone(b.Items)
	return &b, nil
}

func (s *state) purchase(purchaseID string) (*domain.Purchase, error) {
	p, ok := s.purchases[purchaseID]
	if !ok {
		return nil, fmt.Errorf("%w: purchase %s", apperrors.ErrNotFound, purchaseID)
	}
	p.Items = slices.Clone(p.Items)
	return &p, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func decodeCursor(nextToken *string) (int64, error) {
	before, err := pagination.SequenceCursor(nextToken)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return before, nil
}
