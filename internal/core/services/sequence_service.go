package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shiva00s/ModernBillingApp-sub000/internal/apperrors"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	portsrepo "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/repositories"
	portssvc "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/services"
)

type sequenceAuthority struct{}

var _ portssvc.SequenceAuthority = sequenceAuthority{}

// NewSequenceAuthority returns the document number issuer. Numbers have the form
// SERIES-YYYYMMDD-NNNNNN with a counter per series and UTC day of the issuing clock.
// A day that runs past MaxSequenceValue fails with apperrors.ErrConflict.
func NewSequenceAuthority() portssvc.SequenceAuthority {
	return sequenceAuthority{}
}

func (sequenceAuthority) NextNumber(ctx context.Context, tx portsrepo.TxRepositories, series domain.SeriesID, at time.Time) (string, error) {
	period := domain.SequencePeriod(at)
	value, err := tx.Sequences().NextSequenceValue(ctx, series, period)
	if err != nil {
		return "", fmt.Errorf("failed to reserve %s number: %w", series, err)
	}
	if value > domain.MaxSequenceValue {
		return "", fmt.Errorf("%w: %s series exhausted for %s", apperrors.ErrConflict, series, period)
	}
	return domain.FormatDocumentNumber(series, period, value), nil
}
