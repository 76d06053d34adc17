package atomic

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/screen-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/persistence"
)

// RetryConfig holds configuration for conflict retries
type RetryConfig struct {
	MaxRetries    int
	RetryInterval time.Duration
	MaxInterval   time.Duration
	JitterFactor  float64 // Factor to add randomness to retry intervals (0.0-1.0)
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:    3,
		RetryInterval: 50 * time.Millisecond,
		MaxInterval:   time.Second,
		JitterFactor:  0.2,
	}
}

// Work is the body of one unit of work. It must only touch the store through repos.
type Work func(ctx context.Context, repos persistence.Repositories) error

// Runner executes work inside a unit of work and retries it when the store reports a conflict
type Runner struct {
	uow    persistence.UnitOfWork
	config RetryConfig
	logger coreport.Logger
}

// NewRunner creates a new Runner
func NewRunner(uow persistence.UnitOfWork, config RetryConfig, logger coreport.Logger) *Runner {
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	return &Runner{uow: uow, config: config, logger: logger}
}

// Repositories returns non-transactional repositories for read-only projections
func (r *Runner) Repositories(ctx context.Context) persistence.Repositories {
	return r.uow.Repositories(ctx)
}

// Do runs work in a fresh unit of work. Every attempt either commits entirely or leaves no trace.
// ErrConflict is retried at most MaxRetries times; every other error is returned unchanged.
func (r *Runner) Do(ctx context.Context, operation string, work Work) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = r.attempt(ctx, work)
		if err == nil || !errs.IsRetryable(err) {
			return err
		}
		if attempt >= r.config.MaxRetries {
			break
		}

		backoff := calculateBackoffWithJitter(attempt, r.config)
		r.logger.Warn("Unit of work conflicted, retrying", map[string]any{
			"operation":   operation,
			"attempt":     attempt + 1,
			"max_retries": r.config.MaxRetries,
			"error":       err.Error(),
			"retry_after": backoff.String(),
		})

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	r.logger.Error("All retry attempts failed", map[string]any{
		"operation":   operation,
		"max_retries": r.config.MaxRetries,
		"error":       err.Error(),
	})
	return err
}

func (r *Runner) attempt(ctx context.Context, work Work) (err error) {
	txCtx, err := r.uow.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin unit of work: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = r.uow.Rollback(txCtx)
			panic(p)
		}
		if err != nil {
			if rbErr := r.uow.Rollback(txCtx); rbErr != nil {
				r.logger.Error("Failed to roll back unit of work", map[string]any{
					"error":          rbErr.Error(),
					"original_error": err.Error(),
				})
			}
		}
	}()

	if err = work(txCtx, r.uow.Repositories(txCtx)); err != nil {
		return err
	}
	return r.uow.Commit(txCtx)
}

// Run is Do for work that produces a value. The value of a failed attempt is discarded.
func Run[T any](ctx context.Context, r *Runner, operation string, work func(ctx context.Context, repos persistence.Repositories) (T, error)) (T, error) {
	var result T
	err := r.Do(ctx, operation, func(ctx context.Context, repos persistence.Repositories) error {
		v, err := work(ctx, repos)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// calculateBackoffWithJitter computes the backoff duration with exponential increase and jitter
func calculateBackoffWithJitter(attempt int, config RetryConfig) time.Duration {
	backoff := config.RetryInterval * (1 << uint(attempt))
	if backoff > config.MaxInterval {
		backoff = config.MaxInterval
	}
	if config.JitterFactor > 0 {
		backoff += time.Duration(float64(backoff) * config.JitterFactor * rand.Float64())
	}
	return backoff
}
