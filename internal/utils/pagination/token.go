package pagination

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	sequencePrefix = "seq"
	// DefaultLimit is used when a caller does not ask for a page size.
	DefaultLimit = 50
	// MaxLimit caps the page size.
	MaxLimit = 500
)

// EncodeSequenceToken creates an opaque token pointing after the given append sequence.
// Ledgers are listed newest first, so the next page holds sequences below seq.
func EncodeSequenceToken(seq int64) string {
	return EncodeMultiFieldToken(sequencePrefix, strconv.FormatInt(seq, 10))
}

// DecodeSequenceToken parses a token produced by EncodeSequenceToken.
func DecodeSequenceToken(token string) (int64, error) {
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return 0, err
	}
	if len(parts) != 2 || parts[0] != sequencePrefix {
		return 0, fmt.Errorf("invalid pagination token format (fields)")
	}
	seq, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid pagination token format (sequence parse): %w", err)
	}
	return seq, nil
}

// SequenceCursor returns the exclusive upper bound for a newest-first listing.
// A nil or empty token starts from the newest entry.
func SequenceCursor(nextToken *string) (int64, error) {
	if nextToken == nil || *nextToken == "" {
		return math.MaxInt64, nil
	}
	return DecodeSequenceToken(*nextToken)
}

// TrimSequencePage cuts a limit+1 fetch down to limit and builds the next-page token
// from the last kept item.
func TrimSequencePage[T any](items []T, limit int, seqOf func(T) int64) ([]T, *string) {
	if len(items) <= limit {
		return items, nil
	}
	items = items[:limit]
	token := EncodeSequenceToken(seqOf(items[len(items)-1]))
	return items, &token
}

// NormalizeLimit clamps a requested page size into [1, MaxLimit].
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// EncodeMultiFieldToken creates a token with any number of string fields
func EncodeMultiFieldToken(fields ...string) string {
	tokenStr := strings.Join(fields, "|")
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeMultiFieldToken decodes a token into its component fields
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	return strings.Split(string(decodedBytes), "|"), nil
}
