package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/apperrors"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	portsrepo "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

const billColumns = `bill_id, bill_number, bill_date, customer_id, inter_state, payment_mode, payment_status,
	subtotal, discount, cgst, sgst, igst, tax_total, total, paid_amount, balance_amount,
	points_redeemed, points_earned, notes, is_active, created_at, created_by, last_updated_at, last_updated_by`

const purchaseColumns = `purchase_id, purchase_number, purchase_date, supplier_id, supplier_invoice_no, inter_state,
	payment_mode, payment_status, subtotal, discount, cgst, sgst, igst, tax_total, total, paid_amount, balance_amount,
	notes, is_active, created_at, created_by, last_updated_at, last_updated_by`

const returnColumns = `return_id, return_number, return_date, kind, original_doc_id, original_doc_number, party_id,
	inter_state, reason, subtotal, cgst, sgst, igst, tax_total, total, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

// lineColumns are shared by bill_items, purchase_items and return_items after the id columns.
const lineColumns = `product_id, quantity, rate, tax_rate, cgst, sgst, igst, tax_amount, line_total`

// PgxDocumentRepository serves the read side of bills, purchases and returns.
type PgxDocumentRepository struct {
	BaseRepository
}

func newPgxDocumentRepository(pool *pgxpool.Pool) portsrepo.DocumentRepositoryFacade {
	return &PgxDocumentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DocumentRepositoryFacade = (*PgxDocumentRepository)(nil)

// querier is satisfied by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func lineArgs(productID string, l domain.LineAmounts) []any {
	return []any{productID, l.Quantity, l.Rate, l.TaxRate, l.Tax.CGST, l.Tax.SGST, l.Tax.IGST, l.TaxAmount, l.LineTotal}
}

func lineDest(productID *string, l *domain.LineAmounts) []any {
	return []any{productID, &l.Quantity, &l.Rate, &l.TaxRate, &l.Tax.CGST, &l.Tax.SGST, &l.Tax.IGST, &l.TaxAmount, &l.LineTotal}
}

// --- bills ---

func scanBill(row rowScanner) (domain.Bill, error) {
	var b domain.Bill
	err := row.Scan(
		&b.BillID,
		&b.BillNumber,
		&b.BillDate,
		&b.CustomerID,
		&b.InterState,
		&b.PaymentMode,
		&b.PaymentStatus,
		&b.Subtotal,
		&b.Discount,
		&b.Tax.CGST,
		&b.Tax.SGST,
		&b.Tax.IGST,
		&b.TaxTotal,
		&b.Total,
		&b.PaidAmount,
		&b.BalanceAmount,
		&b.PointsRedeemed,
		&b.PointsEarned,
		&b.Notes,
		&b.IsActive,
		&b.CreatedAt,
		&b.CreatedBy,
		&b.LastUpdatedAt,
		&b.LastUpdatedBy,
	)
	return b, err
}

func loadBillItems(ctx context.Context, q querier, bill *domain.Bill) error {
	query := `SELECT bill_item_id, bill_id, ` + lineColumns + ` FROM bill_items WHERE bill_id = $1 ORDER BY line_no;`
	rows, err := q.Query(ctx, query, bill.BillID)
	if err != nil {
		return mapDBError("failed to query items for bill "+bill.BillID, err)
	}
	defer rows.Close()

	bill.Items = []domain.BillItem{}
	for rows.Next() {
		var item domain.BillItem
		dest := append([]any{&item.BillItemID, &item.BillID}, lineDest(&item.ProductID, &item.LineAmounts)...)
		if err := rows.Scan(dest...); err != nil {
			return mapDBError("failed to scan bill item row", err)
		}
		bill.Items = append(bill.Items, item)
	}
	if err := rows.Err(); err != nil {
		return mapDBError("error iterating bill item rows", err)
	}
	return nil
}

func findBill(ctx context.Context, q querier, billID string, forUpdate bool) (*domain.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE bill_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	b, err := scanBill(q.QueryRow(ctx, query, billID))
	if err != nil {
		return nil, mapDBError("bill "+billID, err)
	}
	if err := loadBillItems(ctx, q, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// FindBillByID retrieves a bill with its items.
func (r *PgxDocumentRepository) FindBillByID(ctx context.Context, billID string) (*domain.Bill, error) {
	return findBill(ctx, r.Pool, billID, false)
}

// InsertBill saves the header and queues all items in one batch.
func (t *txRepositories) InsertBill(ctx context.Context, bill domain.Bill) error {
	query := `
		INSERT INTO bills (` + billColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24);
	`
	_, err := t.tx.Exec(ctx, query,
		bill.BillID,
		bill.BillNumber,
		bill.BillDate,
		bill.CustomerID,
		bill.InterState,
		bill.PaymentMode,
		bill.PaymentStatus,
		bill.Subtotal,
		bill.Discount,
		bill.Tax.CGST,
		bill.Tax.SGST,
		bill.Tax.IGST,
		bill.TaxTotal,
		bill.Total,
		bill.PaidAmount,
		bill.BalanceAmount,
		bill.PointsRedeemed,
		bill.PointsEarned,
		bill.Notes,
		bill.IsActive,
		bill.CreatedAt,
		bill.CreatedBy,
		bill.LastUpdatedAt,
		bill.LastUpdatedBy,
	)
	if err != nil {
		return mapDBError("failed to insert bill "+bill.BillNumber, err)
	}

	batch := &pgx.Batch{}
	itemQuery := `
		INSERT INTO bill_items (bill_item_id, bill_id, line_no, ` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	for i, item := range bill.Items {
		args := append([]any{item.BillItemID, bill.BillID, i + 1}, lineArgs(item.ProductID, item.LineAmounts)...)
		batch.Queue(itemQuery, args...)
	}
	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapDBError("failed to insert items for bill "+bill.BillNumber, err)
	}
	return nil
}

func (t *txRepositories) LockBill(ctx context.Context, billID string) (*domain.Bill, error) {
	return findBill(ctx, t.tx, billID, true)
}

func (t *txRepositories) UpdateBillPayment(ctx context.Context, billID string, paid, balance decimal.Decimal, status domain.PaymentStatus, userID string, now time.Time) error {
	query := `
		UPDATE bills
		SET paid_amount = $2, balance_amount = $3, payment_status = $4, last_updated_at = $5, last_updated_by = $6
		WHERE bill_id = $1;
	`
	tag, err := t.tx.Exec(ctx, query, billID, paid, balance, status, now, userID)
	if err != nil {
		return mapDBError("failed to update payment totals for bill "+billID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: bill %s", apperrors.ErrNotFound, billID)
	}
	return nil
}

// --- purchases ---

func scanPurchase(row rowScanner) (domain.Purchase, error) {
	var p domain.Purchase
	err := row.Scan(
		&p.PurchaseID,
		&p.PurchaseNumber,
		&p.PurchaseDate,
		&p.SupplierID,
		&p.SupplierInvoiceNo,
		&p.InterState,
		&p.PaymentMode,
		&p.PaymentStatus,
		&p.Subtotal,
		&p.Discount,
		&p.Tax.CGST,
		&p.Tax.SGST,
		&p.Tax.IGST,
		&p.TaxTotal,
		&p.Total,
		&p.PaidAmount,
		&p.BalanceAmount,
		&p.Notes,
		&p.IsActive,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	return p, err
}

func loadPurchaseItems(ctx context.Context, q querier, purchase *domain.Purchase) error {
	query := `SELECT purchase_item_id, purchase_id, ` + lineColumns + ` FROM purchase_items WHERE purchase_id = $1 ORDER BY line_no;`
	rows, err := q.Query(ctx, query, purchase.PurchaseID)
	if err != nil {
		return mapDBError("failed to query items for purchase "+purchase.PurchaseID, err)
	}
	defer rows.Close()

	purchase.Items = []domain.PurchaseItem{}
	for rows.Next() {
		var item domain.PurchaseItem
		dest := append([]any{&item.PurchaseItemID, &item.PurchaseID}, lineDest(&item.ProductID, &item.LineAmounts)...)
		if err := rows.Scan(dest...); err != nil {
			return mapDBError("failed to scan purchase item row", err)
		}
		purchase.Items = append(purchase.Items, item)
	}
	if err := rows.Err(); err != nil {
		return mapDBError("error iterating purchase item rows", err)
	}
	return nil
}

func findPurchase(ctx context.Context, q querier, purchaseID string, forUpdate bool) (*domain.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE purchase_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	p, err := scanPurchase(q.QueryRow(ctx, query, purchaseID))
	if err != nil {
		return nil, mapDBError("purchase "+purchaseID, err)
	}
	if err := loadPurchaseItems(ctx, q, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PgxDocumentRepository) FindPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	return findPurchase(ctx, r.Pool, purchaseID, false)
}

func (t *txRepositories) InsertPurchase(ctx context.Context, purchase domain.Purchase) error {
	query := `
		INSERT INTO purchases (` + purchaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23);
	`
	_, err := t.tx.Exec(ctx, query,
		purchase.PurchaseID,
		purchase.PurchaseNumber,
		purchase.PurchaseDate,
		purchase.SupplierID,
		purchase.SupplierInvoiceNo,
		purchase.InterState,
		purchase.PaymentMode,
		purchase.PaymentStatus,
		purchase.Subtotal,
		purchase.Discount,
		purchase.Tax.CGST,
		purchase.Tax.SGST,
		purchase.Tax.IGST,
		purchase.TaxTotal,
		purchase.Total,
		purchase.PaidAmount,
		purchase.BalanceAmount,
		purchase.Notes,
		purchase.IsActive,
		purchase.CreatedAt,
		purchase.CreatedBy,
		purchase.LastUpdatedAt,
		purchase.LastUpdatedBy,
	)
	if err != nil {
		return mapDBError("failed to insert purchase "+purchase.PurchaseNumber, err)
	}

	batch := &pgx.Batch{}
	itemQuery := `
		INSERT INTO purchase_items (purchase_item_id, purchase_id, line_no, ` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	for i, item := range purchase.Items {
		args := append([]any{item.PurchaseItemID, purchase.PurchaseID, i + 1}, lineArgs(item.ProductID, item.LineAmounts)...)
		batch.Queue(itemQuery, args...)
	}
	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapDBError("failed to insert items for purchase "+purchase.PurchaseNumber, err)
	}
	return nil
}

func (t *txRepositories) LockPurchase(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	return findPurchase(ctx, t.tx, purchaseID, true)
}

func (t *txRepositories) UpdatePurchasePayment(ctx context.Context, purchaseID string, paid, balance decimal.Decimal, status domain.PaymentStatus, userID string, now time.Time) error {
	query := `
		UPDATE purchases
		SET paid_amount = $2, balance_amount = $3, payment_status = $4, last_updated_at = $5, last_updated_by = $6
		WHERE purchase_id = $1;
	`
	tag, err := t.tx.Exec(ctx, query, purchaseID, paid, balance, status, now, userID)
	if err != nil {
		return mapDBError("failed to update payment totals for purchase "+purchaseID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: purchase %s", apperrors.ErrNotFound, purchaseID)
	}
	return nil
}

// --- returns ---

func scanReturn(row rowScanner) (domain.Return, error) {
	var r domain.Return
	err := row.Scan(
		&r.ReturnID,
		&r.ReturnNumber,
		&r.ReturnDate,
		&r.Kind,
		&r.OriginalDocID,
		&r.OriginalDocNumber,
		&r.PartyID,
		&r.InterState,
		&r.Reason,
		&r.Subtotal,
		&r.Tax.CGST,
		&r.Tax.SGST,
		&r.Tax.IGST,
		&r.TaxTotal,
		&r.Total,
		&r.IsActive,
		&r.CreatedAt,
		&r.CreatedBy,
		&r.LastUpdatedAt,
		&r.LastUpdatedBy,
	)
	return r, err
}

func (r *PgxDocumentRepository) FindReturnByID(ctx context.Context, returnID string) (*domain.Return, error) {
	query := `SELECT ` + returnColumns + ` FROM returns WHERE return_id = $1;`
	ret, err := scanReturn(r.Pool.QueryRow(ctx, query, returnID))
	if err != nil {
		return nil, mapDBError("return "+returnID, err)
	}

	itemQuery := `SELECT return_item_id, return_id, ` + lineColumns + ` FROM return_items WHERE return_id = $1 ORDER BY line_no;`
	rows, err := r.Pool.Query(ctx, itemQuery, returnID)
	if err != nil {
		return nil, mapDBError("failed to query items for return "+returnID, err)
	}
	defer rows.Close()

	ret.Items = []domain.ReturnItem{}
	for rows.Next() {
		var item domain.ReturnItem
		dest := append([]any{&item.ReturnItemID, &item.ReturnID}, lineDest(&item.ProductID, &item.LineAmounts)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, mapDBError("failed to scan return item row", err)
		}
		ret.Items = append(ret.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, mapDBError("error iterating return item rows", err)
	}
	return &ret, nil
}

func (t *txRepositories) InsertReturn(ctx context.Context, ret domain.Return) error {
	query := `
		INSERT INTO returns (` + returnColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err := t.tx.Exec(ctx, query,
		ret.ReturnID,
		ret.ReturnNumber,
		ret.ReturnDate,
		ret.Kind,
		ret.OriginalDocID,
		ret.OriginalDocNumber,
		ret.PartyID,
		ret.InterState,
		ret.Reason,
		ret.Subtotal,
		ret.Tax.CGST,
		ret.Tax.SGST,
		ret.Tax.IGST,
		ret.TaxTotal,
		ret.Total,
		ret.IsActive,
		ret.CreatedAt,
		ret.CreatedBy,
		ret.LastUpdatedAt,
		ret.LastUpdatedBy,
	)
	if err != nil {
		return mapDBError("failed to insert return "+ret.ReturnNumber, err)
	}

	batch := &pgx.Batch{}
	itemQuery := `
		INSERT INTO return_items (return_item_id, return_id, line_no, ` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	for i, item := range ret.Items {
		args := append([]any{item.ReturnItemID, ret.ReturnID, i + 1}, lineArgs(item.ProductID, item.LineAmounts)...)
		batch.Queue(itemQuery, args...)
	}
	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapDBError("failed to insert items for return "+ret.ReturnNumber, err)
	}
	return nil
}

// SumReturnedQuantities aggregates quantities already returned against a document. The
// caller holds the original document's row lock, which serializes concurrent returns.
func (t *txRepositories) SumReturnedQuantities(ctx context.Context, kind domain.ReturnKind, originalDocID string) (map[string]decimal.Decimal, error) {
	query := `
		SELECT ri.product_id, SUM(ri.quantity)
		FROM return_items ri
		JOIN returns r ON r.return_id = ri.return_id
		WHERE r.kind = $1 AND r.original_doc_id = $2 AND r.is_active
		GROUP BY ri.product_id;
	`
	rows, err := t.tx.Query(ctx, query, kind, originalDocID)
	if err != nil {
		return nil, mapDBError("failed to sum returned quantities for "+originalDocID, err)
	}
	defer rows.Close()

	returned := map[string]decimal.Decimal{}
	for rows.Next() {
		var productID string
		var qty decimal.Decimal
		if err := rows.Scan(&productID, &qty); err != nil {
			return nil, mapDBError("failed to scan returned quantity row", err)
		}
		returned[productID] = qty
	}
	if err := rows.Err(); err != nil {
		return nil, mapDBError("error iterating returned quantity rows", err)
	}
	return returned, nil
}
