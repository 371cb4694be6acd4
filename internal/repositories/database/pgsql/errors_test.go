package pgsql

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestMapDBError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, apperrors.ErrNotFound},
		{"lock timeout", &pgconn.PgError{Code: pgLockNotAvailable}, apperrors.ErrConcurrencyConflict},
		{"deadlock", fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: pgDeadlockDetected}), apperrors.ErrConcurrencyConflict},
		{"serialization", &pgconn.PgError{Code: pgSerializationFailure}, apperrors.ErrConcurrencyConflict},
		{"unique", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "bills_bill_number_key"}, apperrors.ErrDuplicate},
		{"foreign key", &pgconn.PgError{Code: pgForeignKeyViolation}, apperrors.ErrNotFound},
		{"check", &pgconn.PgError{Code: pgCheckViolation}, apperrors.ErrConflict},
		{"other", errors.New("broken pipe"), apperrors.ErrPersistence},
		{"canceled", context.Canceled, context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapDBError("op", tt.err), tt.want)
		})
	}

	assert.NoError(t, mapDBError("op", nil))
	assert.True(t, apperrors.IsRetryable(mapDBError("op", &pgconn.PgError{Code: pgLockNotAvailable})))
	assert.False(t, apperrors.IsRetryable(mapDBError("op", &pgconn.PgError{Code: pgUniqueViolation})))
}
