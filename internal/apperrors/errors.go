package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the resource is in a state that does not allow the operation.
var ErrConflict = errors.New("resource state conflict")

// ErrInsufficientStock is matched by every *InsufficientStockError.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrInsufficientPoints is matched by every *InsufficientPointsError.
var ErrInsufficientPoints = errors.New("insufficient loyalty points")

// ErrConcurrencyConflict marks a lost-update or lock conflict. The whole operation may be retried.
var ErrConcurrencyConflict = errors.New("concurrency conflict")

// ErrPersistence indicates a failure of the underlying storage.
var ErrPersistence = errors.New("persistence failure")

// ErrInternal is used for unexpected programming errors.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code together with a message and the cause.
type AppError struct {
	Code    int
	Message string
	Err     error
	kind    error
}

// NewAppError creates an AppError. The kind is derived from the code.
func NewAppError(code int, message string, err error) *AppError {
	kind := ErrInternal
	switch code {
	case http.StatusNotFound:
		kind = ErrNotFound
	case http.StatusBadRequest:
		kind = ErrValidation
	case http.StatusConflict:
		kind = ErrConflict
	}
	return &AppError{Code: code, Message: message, Err: err, kind: kind}
}

// NewPersistenceError wraps a storage error so that errors.Is(err, ErrPersistence) holds.
func NewPersistenceError(message string, err error) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Message: message, Err: err, kind: ErrPersistence}
}

// NewConcurrencyError wraps a lock/serialization failure so that errors.Is(err, ErrConcurrencyConflict) holds.
func NewConcurrencyError(message string, err error) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Err: err, kind: ErrConcurrencyConflict}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() []error {
	errs := []error{e.kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// InsufficientStockError reports a rejected outbound stock movement.
type InsufficientStockError struct {
	ProductID string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: available %s, requested %s",
		e.ProductID, e.Available.String(), e.Requested.String())
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// InsufficientPointsError reports a rejected loyalty redemption.
type InsufficientPointsError struct {
	CustomerID string
	Available  decimal.Decimal
	Requested  decimal.Decimal
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("insufficient loyalty points for customer %s: available %s, requested %s",
		e.CustomerID, e.Available.String(), e.Requested.String())
}

func (e *InsufficientPointsError) Is(target error) bool {
	return target == ErrInsufficientPoints
}

// IsRetryable reports whether the whole operation may be retried by the caller.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrencyConflict)
}
