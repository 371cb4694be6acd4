package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shiva00s/ModernBillingApp-sub000/internal/apperrors"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
	portsrepo "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/repositories"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedCounterTx hands out a preset counter value; nothing else is reachable.
type fixedCounterTx struct {
	portsrepo.TxRepositories
	value int64
}

func (f fixedCounterTx) Sequences() portsrepo.SequenceTxRepository { return f }

func (f fixedCounterTx) NextSequenceValue(context.Context, domain.SeriesID, string) (int64, error) {
	return f.value, nil
}

func TestNextNumber_FormatsWithinCap(t *testing.T) {
	at := time.Date(2024, 3, 15, 23, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))

	number, err := services.NewSequenceAuthority().NextNumber(context.Background(), fixedCounterTx{value: domain.MaxSequenceValue}, domain.SeriesReturn, at)
	require.NoError(t, err)
	assert.Equal(t, "RET-20240315-999999", number)
}

func TestNextNumber_RejectsExhaustedDay(t *testing.T) {
	_, err := services.NewSequenceAuthority().NextNumber(context.Background(), fixedCounterTx{value: domain.MaxSequenceValue + 1}, domain.SeriesBill, time.Now())
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}
