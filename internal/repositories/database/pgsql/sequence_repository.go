package pgsql

import (
	"context"

	"github.com/shiva00s/ModernBillingApp-sub000/internal/core/domain"
)

// NextSequenceValue reserves the next counter value for the series and period. The upsert
// takes a row lock that is held until the surrounding transaction ends, so concurrent
// units serialize here and a rolled back unit gives its value back.
func (t *txRepositories) NextSequenceValue(ctx context.Context, series domain.SeriesID, period string) (int64, error) {
	query := `
		INSERT INTO document_sequences (series, period, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (series, period) DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value;
	`
	var value int64
	if err := t.tx.QueryRow(ctx, query, series, period).Scan(&value); err != nil {
		return 0, mapDBError("failed to reserve "+string(series)+" sequence value", err)
	}
	return value, nil
}
