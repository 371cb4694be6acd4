package dto

import (
	"testing"

	"github.com/shiva00s/ModernBillingApp-sub000/internal/apperrors"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidate_CreateBillRequest(t *testing.T) {
	valid := CreateBillRequest{
		PaymentMode: domain.ModeCash,
		Items:       []BillItemRequest{{ProductID: "p1", Quantity: decimal.NewFromInt(1)}},
	}
	assert.NoError(t, Validate(valid))

	noItems := valid
	noItems.Items = nil
	assert.ErrorIs(t, Validate(noItems), apperrors.ErrValidation)

	badMode := valid
	badMode.PaymentMode = "BARTER"
	err := Validate(badMode)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "PaymentMode")

	missingProduct := valid
	missingProduct.Items = []BillItemRequest{{Quantity: decimal.NewFromInt(1)}}
	assert.ErrorIs(t, Validate(missingProduct), apperrors.ErrValidation)
}

func TestValidate_RecordPaymentRequest(t *testing.T) {
	req := PaymentInput{Amount: decimal.NewFromInt(10), Mode: domain.ModeUPI}.
		ToRecordPaymentRequest(domain.TargetBill, "b1", "")
	assert.NoError(t, Validate(req))

	req.TargetID = ""
	assert.ErrorIs(t, Validate(req), apperrors.ErrValidation)
}
