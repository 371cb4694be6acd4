package services

import (
	"fmt"
	"strings"

	"github.com/shiva00s/ModernBillingApp-sub000/internal/apperrors"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, fmt.Sprintf(format, args...))
}

func requirePositive(field string, v decimal.Decimal) error {
	if !v.IsPositive() {
		return validationError("%s must be greater than zero", field)
	}
	return nil
}

func requireNonNegative(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return validationError("%s must not be negative", field)
	}
	return nil
}

func validateTaxRate(v decimal.Decimal) error {
	if v.IsNegative() || v.GreaterThan(hundred) {
		return validationError("tax rate must be between 0 and 100")
	}
	return nil
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}
