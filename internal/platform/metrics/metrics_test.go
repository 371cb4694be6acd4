package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAbortReason(t *testing.T) {
	stockErr := &apperrors.InsufficientStockError{ProductID: "p", Available: decimal.Zero, Requested: decimal.NewFromInt(1)}

	assert.Equal(t, "insufficient_stock", AbortReason(fmt.Errorf("bill: %w", stockErr)))
	assert.Equal(t, "validation", AbortReason(fmt.Errorf("%w: no items", apperrors.ErrValidation)))
	assert.Equal(t, "concurrency_conflict", AbortReason(apperrors.NewConcurrencyError("deadlock", errors.New("40P01"))))
	assert.Equal(t, "persistence", AbortReason(apperrors.NewPersistenceError("insert", errors.New("boom"))))
	assert.Equal(t, "other", AbortReason(errors.New("unexpected")))
}

func TestObserveUnit(t *testing.T) {
	before := testutil.ToFloat64(unitsCommitted.WithLabelValues("metrics_test"))
	ObserveUnit("metrics_test", time.Now(), nil)
	assert.Equal(t, before+1, testutil.ToFloat64(unitsCommitted.WithLabelValues("metrics_test")))

	abortedBefore := testutil.ToFloat64(unitsAborted.WithLabelValues("metrics_test", "not_found"))
	ObserveUnit("metrics_test", time.Now(), apperrors.ErrNotFound)
	assert.Equal(t, abortedBefore+1, testutil.ToFloat64(unitsAborted.WithLabelValues("metrics_test", "not_found")))
}
