package domain

import (
	"fmt"
	"time"
)

// SeriesID names a document-number series.
type SeriesID string

const (
	SeriesBill     SeriesID = "BILL"
	SeriesPurchase SeriesID = "PUR"
	SeriesReturn   SeriesID = "RET"
	SeriesPayment  SeriesID = "PAY"
)

// MaxSequenceValue is the largest counter a period can issue. Six fixed digits keep
// numbers of one series in lexicographic order.
const MaxSequenceValue int64 = 999_999

// SequencePeriod is the counter bucket for a series, one per calendar day (UTC).
// It is taken from the issuing clock, never from a caller-supplied document date.
func SequencePeriod(at time.Time) string {
	return at.UTC().Format("20060102")
}

// FormatDocumentNumber renders e.g. BILL-20240131-000042.
func FormatDocumentNumber(series SeriesID, period string, value int64) string {
	return fmt.Sprintf("%s-%s-%06d", series, period, value)
}
