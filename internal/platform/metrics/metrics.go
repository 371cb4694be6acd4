// Package metrics holds the Prometheus collectors of the billing engine.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/apperrors"
)

var (
	unitsCommitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "billing",
		Name:      "units_committed_total",
		Help:      "Units of work committed, by operation.",
	}, []string{"operation"})

	unitsAborted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "billing",
		Name:      "units_aborted_total",
		Help:      "Units of work rolled back, by operation and reason.",
	}, []string{"operation", "reason"})

	unitDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "billing",
		Name:      "unit_duration_seconds",
		Help:      "Wall time of a unit of work including retries.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	conflictRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "billing",
		Name:      "conflict_retries_total",
		Help:      "Units of work retried after a concurrency conflict.",
	}, []string{"operation"})
)

// ObserveUnit records the outcome of one unit of work.
func ObserveUnit(operation string, started time.Time, err error) {
	unitDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
	if err == nil {
		unitsCommitted.WithLabelValues(operation).Inc()
		return
	}
	unitsAborted.WithLabelValues(operation, AbortReason(err)).Inc()
}

// ObserveRetry counts a retry after a concurrency conflict.
func ObserveRetry(operation string) {
	conflictRetries.WithLabelValues(operation).Inc()
}

// AbortReason maps an error to a low-cardinality label.
func AbortReason(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return "validation"
	case errors.Is(err, apperrors.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, apperrors.ErrInsufficientPoints):
		return "insufficient_points"
	case errors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperrors.ErrConcurrencyConflict):
		return "concurrency_conflict"
	case errors.Is(err, apperrors.ErrDuplicate):
		return "duplicate"
	case errors.Is(err, apperrors.ErrConflict):
		return "conflict"
	case errors.Is(err, apperrors.ErrPersistence):
		return "persistence"
	default:
		return "other"
	}
}
