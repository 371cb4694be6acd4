package services_test

import (
	"testing"

	"github.com/shiva00s/ModernBillingApp-sub000/internal/apperrors"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func purchaseRequest(supplierID string, items ...dto.PurchaseItemRequest) dto.CreatePurchaseRequest {
	return dto.CreatePurchaseRequest{
		SupplierID:  supplierID,
		PaymentMode: domain.ModeBankTransfer,
		Items:       items,
	}
}

func TestCreatePurchase_ReceivesStockAtWeightedAverage(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "FLOUR", "100", "5", "10") // purchase price 60
	sup := f.supplier(t, "Mill Co", "29")

	req := purchaseRequest(sup.SupplierID, dto.PurchaseItemRequest{ProductID: p.ProductID, Quantity: dec("10"), UnitCost: dec("80")})
	req.PaidAmount = dec("200")
	purchase, err := f.svc.Billing.CreatePurchase(f.ctx, req, testUser)
	require.NoError(t, err)

	assert.Equal(t, "PUR-20240315-000001", purchase.PurchaseNumber)
	assertDecimal(t, "800", purchase.Subtotal)
	assertDecimal(t, "20", purchase.Tax.CGST)
	assertDecimal(t, "20", purchase.Tax.SGST)
	assertDecimal(t, "840", purchase.Total)
	assertDecimal(t, "640", purchase.BalanceAmount)
	assert.Equal(t, domain.PaymentPartial, purchase.PaymentStatus)

	product, err := f.svc.Inventory.GetProductByID(f.ctx, p.ProductID)
	require.NoError(t, err)
	assertDecimal(t, "20", product.CurrentStock)
	assertDecimal(t, "70", product.PurchasePrice)
	f.requireLedgerConsistent(t, p.ProductID)

	supplier, err := f.svc.Party.GetSupplierByID(f.ctx, sup.SupplierID)
	require.NoError(t, err)
	assertDecimal(t, "640", supplier.OutstandingBalance)

	payments, err := f.svc.Payment.ListPayments(f.ctx, domain.TargetPurchase, purchase.PurchaseID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, domain.PartySupplier, payments[0].PartyType)
}

func TestCreatePurchase_InterStateSupplier(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "STEEL", "100", "18", "0")
	sup := f.supplier(t, "Far Away Metals", "07")

	purchase, err := f.svc.Billing.CreatePurchase(f.ctx,
		purchaseRequest(sup.SupplierID, dto.PurchaseItemRequest{ProductID: p.ProductID, Quantity: dec("1"), UnitCost: dec("50")}), testUser)
	require.NoError(t, err)
	assert.True(t, purchase.InterState)
	assertDecimal(t, "9", purchase.Tax.IGST)
	assertDecimal(t, "59", purchase.Total)
}

func TestCreateReturn_SaleReturnRestocksAndReducesOutstanding(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "BULB", "50", "0", "10")
	c := f.customer(t, "Nisha", "29")

	bill, err := f.svc.Billing.CreateBill(f.ctx, billRequest(&c.CustomerID, line(p.ProductID, "5")), testUser)
	require.NoError(t, err)
	assertDecimal(t, "5", f.stock(t, p.ProductID))

	ret, err := f.svc.Billing.CreateReturn(f.ctx, dto.CreateReturnRequest{
		Kind:          domain.SaleReturn,
		OriginalDocID: bill.BillID,
		Reason:        "damaged",
		Items:         []dto.ReturnItemRequest{{ProductID: p.ProductID, Quantity: dec("2")}},
	}, testUser)
	require.NoError(t, err)
	assert.Equal(t, "RET-20240315-000001", ret.ReturnNumber)
	assert.Equal(t, bill.BillNumber, ret.OriginalDocNumber)
	assertDecimal(t, "100", ret.Total)
	assertDecimal(t, "7", f.stock(t, p.ProductID))
	f.requireLedgerConsistent(t, p.ProductID)

	customer, err := f.svc.Party.GetCustomerByID(f.ctx, c.CustomerID)
	require.NoError(t, err)
	assertDecimal(t, "150", customer.OutstandingBalance)

	_, err = f.svc.Billing.CreateReturn(f.ctx, dto.CreateReturnRequest{
		Kind:          domain.SaleReturn,
		OriginalDocID: bill.BillID,
		Items:         []dto.ReturnItemRequest{{ProductID: p.ProductID, Quantity: dec("4")}},
	}, testUser)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assertDecimal(t, "7", f.stock(t, p.ProductID))

	stored, err := f.svc.Billing.GetReturnByID(f.ctx, ret.ReturnID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 1)
}

func TestCreateReturn_OutstandingClampsAtZero(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "FAN", "1000", "0", "2")
	c := f.customer(t, "Arjun", "29")

	req := billRequest(&c.CustomerID, line(p.ProductID, "2"))
	req.PaidAmount = dec("1500")
	bill, err := f.svc.Billing.CreateBill(f.ctx, req, testUser)
	require.NoError(t, err)

	_, err = f.svc.Billing.CreateReturn(f.ctx, dto.CreateReturnRequest{
		Kind:          domain.SaleReturn,
		OriginalDocID: bill.BillID,
		Items:         []dto.ReturnItemRequest{{ProductID: p.ProductID, Quantity: dec("2")}},
	}, testUser)
	require.NoError(t, err)

	customer, err := f.svc.Party.GetCustomerByID(f.ctx, c.CustomerID)
	require.NoError(t, err)
	assertDecimal(t, "0", customer.OutstandingBalance)
}

func TestCreateReturn_PurchaseReturnCannotOversell(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "GLUE", "30", "0", "0")
	sup := f.supplier(t, "Sticky Ltd", "29")

	purchase, err := f.svc.Billing.CreatePurchase(f.ctx,
		purchaseRequest(sup.SupplierID, dto.PurchaseItemRequest{ProductID: p.ProductID, Quantity: dec("4"), UnitCost: dec("20")}), testUser)
	require.NoError(t, err)

	_, err = f.svc.Billing.CreateBill(f.ctx, billRequest(nil, line(p.ProductID, "3")), testUser)
	require.NoError(t, err)

	_, err = f.svc.Billing.CreateReturn(f.ctx, dto.CreateReturnRequest{
		Kind:          domain.PurchaseReturn,
		OriginalDocID: purchase.PurchaseID,
		Items:         []dto.ReturnItemRequest{{ProductID: p.ProductID, Quantity: dec("2")}},
	}, testUser)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
	assertDecimal(t, "1", f.stock(t, p.ProductID))

	ret, err := f.svc.Billing.CreateReturn(f.ctx, dto.CreateReturnRequest{
		Kind:          domain.PurchaseReturn,
		OriginalDocID: purchase.PurchaseID,
		Items:         []dto.ReturnItemRequest{{ProductID: p.ProductID, Quantity: dec("1")}},
	}, testUser)
	require.NoError(t, err)
	assertDecimal(t, "20", ret.Total)
	assertDecimal(t, "0", f.stock(t, p.ProductID))

	supplier, err := f.svc.Party.GetSupplierByID(f.ctx, sup.SupplierID)
	require.NoError(t, err)
	assertDecimal(t, "60", supplier.OutstandingBalance)
	f.requireLedgerConsistent(t, p.ProductID)

	stored, err := f.svc.Billing.GetPurchaseByID(f.ctx, purchase.PurchaseID)
	require.NoError(t, err)
	assertDecimal(t, "60", stored.BalanceAmount)
	assert.Equal(t, domain.PaymentPending, stored.PaymentStatus)
}

func TestCreateReturn_UnknownProductOrDocument(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "CUP", "15", "0", "5")
	other := f.product(t, "PLATE", "25", "0", "5")

	bill, err := f.svc.Billing.CreateBill(f.ctx, billRequest(nil, line(p.ProductID, "1")), testUser)
	require.NoError(t, err)

	_, err = f.svc.Billing.CreateReturn(f.ctx, dto.CreateReturnRequest{
		Kind:          domain.SaleReturn,
		OriginalDocID: bill.BillID,
		Items:         []dto.ReturnItemRequest{{ProductID: other.ProductID, Quantity: dec("1")}},
	}, testUser)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.svc.Billing.CreateReturn(f.ctx, dto.CreateReturnRequest{
		Kind:          domain.SaleReturn,
		OriginalDocID: "no-such-bill",
		Items:         []dto.ReturnItemRequest{{ProductID: p.ProductID, Quantity: dec("1")}},
	}, testUser)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCreateReturn_LowersWhatTheBillCanStillCollect(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "KETTLE", "100", "0", "10")
	c := f.customer(t, "Meera", "29")

	bill, err := f.svc.Billing.CreateBill(f.ctx, billRequest(&c.CustomerID, line(p.ProductID, "10")), testUser)
	require.NoError(t, err)
	assertDecimal(t, "1000", bill.Total)
	assertDecimal(t, "10", bill.PointsEarned)

	ret, err := f.svc.Billing.CreateReturn(f.ctx, dto.CreateReturnRequest{
		Kind:          domain.SaleReturn,
		OriginalDocID: bill.BillID,
		Items:         []dto.ReturnItemRequest{{ProductID: p.ProductID, Quantity: dec("5")}},
	}, testUser)
	require.NoError(t, err)
	assertDecimal(t, "500", ret.Total)
	assertDecimal(t, "0", ret.PaidAmount, "nothing was paid, so nothing is refunded")

	stored, err := f.svc.Billing.GetBillByID(f.ctx, bill.BillID)
	require.NoError(t, err)
	assertDecimal(t, "500", stored.BalanceAmount)
	assert.Equal(t, domain.PaymentPending, stored.PaymentStatus)

	customer, err := f.svc.Party.GetCustomerByID(f.ctx, c.CustomerID)
	require.NoError(t, err)
	assertDecimal(t, "500", customer.OutstandingBalance)
	assertDecimal(t, "5", customer.LoyaltyPoints)

	_, err = f.svc.Payment.RecordPayment(f.ctx, dto.PaymentInput{Amount: dec("1000"), Mode: domain.ModeCash}.
		ToRecordPaymentRequest(domain.TargetBill, bill.BillID, ""), testUser)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	payment, err := f.svc.Payment.RecordPayment(f.ctx, dto.PaymentInput{Amount: dec("500"), Mode: domain.ModeCash}.
		ToRecordPaymentRequest(domain.TargetBill, bill.BillID, ""), testUser)
	require.NoError(t, err)
	assertDecimal(t, "0", payment.RemainingBalance)
	assert.True(t, payment.IsFullPayment)

	stored, err = f.svc.Billing.GetBillByID(f.ctx, bill.BillID)
	require.NoError(t, err)
	assertDecimal(t, "500", stored.PaidAmount)
	assertDecimal(t, "0", stored.BalanceAmount)
	assert.Equal(t, domain.PaymentPaid, stored.PaymentStatus)

	customer, err = f.svc.Party.GetCustomerByID(f.ctx, c.CustomerID)
	require.NoError(t, err)
	assertDecimal(t, "0", customer.OutstandingBalance)
}

func TestCreateReturn_RefundsNetOfBillDiscount(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "MUG", "100", "0", "2")
	c := f.customer(t, "Kiran", "29")

	req := billRequest(&c.CustomerID, line(p.ProductID, "2"))
	req.Discount = dec("20")
	req.PaidAmount = dec("180")
	bill, err := f.svc.Billing.CreateBill(f.ctx, req, testUser)
	require.NoError(t, err)
	assertDecimal(t, "180", bill.Total)
	assertDecimal(t, "1.8", bill.PointsEarned)

	ret, err := f.svc.Billing.CreateReturn(f.ctx, dto.CreateReturnRequest{
		Kind:          domain.SaleReturn,
		OriginalDocID: bill.BillID,
		Items:         []dto.ReturnItemRequest{{ProductID: p.ProductID, Quantity: dec("1")}},
	}, testUser)
	require.NoError(t, err)
	assertDecimal(t, "100", ret.Subtotal)
	assertDecimal(t, "10", ret.Discount)
	assertDecimal(t, "90", ret.Total)
	assertDecimal(t, "90", ret.PaidAmount, "a settled bill refunds the whole return value")

	stored, err := f.svc.Billing.GetBillByID(f.ctx, bill.BillID)
	require.NoError(t, err)
	assertDecimal(t, "0", stored.BalanceAmount)
	assert.Equal(t, domain.PaymentPaid, stored.PaymentStatus)

	customer, err := f.svc.Party.GetCustomerByID(f.ctx, c.CustomerID)
	require.NoError(t, err)
	assertDecimal(t, "0", customer.OutstandingBalance)
	assertDecimal(t, "0.9", customer.LoyaltyPoints)
}
