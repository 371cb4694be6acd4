// Package gst computes Indian GST splits. Intra-state tax is shared equally between
// CGST and SGST, inter-state tax is charged entirely as IGST.
package gst

import (
	"errors"
	"fmt"

	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// MoneyPlaces is the number of fractional digits stored for amounts.
const MoneyPlaces int32 = 2

// ErrNegativeInput is returned by Validate for a negative amount or rate.
var ErrNegativeInput = errors.New("amount and tax rate must not be negative")

// Validate checks the inputs of Split. Callers must reject invalid input before splitting.
func Validate(amount, ratePercent decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: amount %s", ErrNegativeInput, amount.String())
	}
	if ratePercent.IsNegative() {
		return fmt.Errorf("%w: rate %s", ErrNegativeInput, ratePercent.String())
	}
	return nil
}

// Split returns the exact CGST, SGST and IGST for an amount at ratePercent.
// No rounding is applied.
func Split(amount, ratePercent decimal.Decimal, interState bool) (cgst, sgst, igst decimal.Decimal) {
	totalTax := amount.Mul(ratePercent).Div(hundred)
	if interState {
		return decimal.Zero, decimal.Zero, totalTax
	}
	half := totalTax.Div(two)
	return half, half, decimal.Zero
}

// LineTax splits the tax of one document line and rounds it to money precision.
// The total is rounded first, CGST takes half of it rounded half away from zero and
// SGST takes the remainder, so the components always add up to the rounded total.
func LineTax(amount, ratePercent decimal.Decimal, interState bool) domain.TaxBreakdown {
	cgst, sgst, igst := Split(amount, ratePercent, interState)
	if interState {
		return domain.TaxBreakdown{CGST: decimal.Zero, SGST: decimal.Zero, IGST: igst.Round(MoneyPlaces)}
	}
	total := cgst.Add(sgst).Round(MoneyPlaces)
	roundedCGST := total.Div(two).Round(MoneyPlaces)
	return domain.TaxBreakdown{CGST: roundedCGST, SGST: total.Sub(roundedCGST), IGST: decimal.Zero}
}
