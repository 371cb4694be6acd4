package repositories

import (
	"context"

	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
)

// SequenceTxRepository reserves counter values. The reservation is atomic and belongs to
// the surrounding unit of work, so a rolled back unit never exposes its value.
type SequenceTxRepository interface {
	NextSequenceValue(ctx context.Context, series domain.SeriesID, period string) (int64, error)
}
