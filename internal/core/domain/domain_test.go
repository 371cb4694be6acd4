package domain_test

import (
	"testing"
	"time"

	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPaymentStatusFor(t *testing.T) {
	tests := []struct {
		name    string
		paid    decimal.Decimal
		balance decimal.Decimal
		want    domain.PaymentStatus
	}{
		{name: "nothing paid", paid: decimal.Zero, balance: decimal.NewFromInt(1000), want: domain.PaymentPending},
		{name: "partially paid", paid: decimal.NewFromInt(400), balance: decimal.NewFromInt(600), want: domain.PaymentPartial},
		{name: "fully paid", paid: decimal.NewFromInt(1000), balance: decimal.Zero, want: domain.PaymentPaid},
		{name: "zero value document", paid: decimal.Zero, balance: decimal.Zero, want: domain.PaymentPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.PaymentStatusFor(tt.paid, tt.balance))
		})
	}
}

func TestFormatDocumentNumber(t *testing.T) {
	at := time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC)
	period := domain.SequencePeriod(at)

	assert.Equal(t, "20240131", period)
	assert.Equal(t, "PUR-20240131-000007", domain.FormatDocumentNumber(domain.SeriesPurchase, period, 7))
	assert.Less(t,
		domain.FormatDocumentNumber(domain.SeriesBill, period, 9),
		domain.FormatDocumentNumber(domain.SeriesBill, period, 10))
}

func TestTaxBreakdown_Total(t *testing.T) {
	a := domain.TaxBreakdown{CGST: decimal.NewFromInt(9), SGST: decimal.NewFromInt(9)}
	b := domain.TaxBreakdown{IGST: decimal.NewFromInt(18)}

	sum := a.Add(b)
	assert.True(t, sum.Total().Equal(decimal.NewFromInt(36)))
	assert.True(t, sum.IGST.Equal(decimal.NewFromInt(18)))
}

func TestPaymentTargetType_PartyType(t *testing.T) {
	assert.Equal(t, domain.PartyCustomer, domain.TargetBill.PartyType())
	assert.Equal(t, domain.PartySupplier, domain.TargetPurchase.PartyType())
	assert.Equal(t, domain.DocPurchaseReturn, domain.PurchaseReturn.DocumentType())
	assert.Equal(t, domain.DocSaleReturn, domain.SaleReturn.DocumentType())
}
