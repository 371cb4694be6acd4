package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/shiva00s/ModernBillingApp-sub000/internal/apperrors"
	portsrepo "github.com/shiva00s/ModernBillingApp-sub000/internal/core/ports/repositories"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/middleware"
	"github.com/shiva00s/ModernBillingApp-sub000/internal/platform/metrics"
)

const defaultMaxRetries = 3

// BaseService provides common functionality for all services
type BaseService struct {
	txManager  portsrepo.TransactionManager
	clock      func() time.Time
	maxRetries int
}

// ServiceOption is a functional option shared by the services
type ServiceOption func(*BaseService)

// WithClock replaces the wall clock used for document dates and audit fields.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.clock = clock
	}
}

// WithMaxRetries sets how many times a unit of work is retried after a concurrency conflict.
func WithMaxRetries(n int) ServiceOption {
	return func(s *BaseService) {
		if n >= 0 {
			s.maxRetries = n
		}
	}
}

func newBaseService(txManager portsrepo.TransactionManager, options ...ServiceOption) BaseService {
	base := BaseService{
		txManager:  txManager,
		clock:      time.Now,
		maxRetries: defaultMaxRetries,
	}
	for _, option := range options {
		option(&base)
	}
	return base
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		// Return a default logger if not found in context
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

func (s *BaseService) now() time.Time {
	return s.clock().UTC()
}

// runUnit executes fn as one unit of work. A unit that loses a lock or serialization race
// is replayed from scratch, so fn must not carry state between attempts.
func (s *BaseService) runUnit(ctx context.Context, operation string, fn func(ctx context.Context, tx portsrepo.TxRepositories) error) error {
	started := time.Now()
	var err error
	for attempt := 0; ; attempt++ {
		err = s.txManager.WithinTransaction(ctx, fn)
		if err == nil || !apperrors.IsRetryable(err) || attempt >= s.maxRetries || ctx.Err() != nil {
			break
		}
		metrics.ObserveRetry(operation)
		s.LogDebug(ctx, "Retrying unit of work after concurrency conflict",
			slog.String("operation", operation),
			slog.Int("attempt", attempt+1))
	}
	metrics.ObserveUnit(operation, started, err)
	return err
}
