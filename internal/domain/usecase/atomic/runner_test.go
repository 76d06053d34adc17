package atomic

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/logger"
	mockcore "github.com/amirhossein-jamali/screen-booking/mocks/port/core"
	mockpersistence "github.com/amirhossein-jamali/screen-booking/mocks/port/persistence"
)

type txKey struct{}

func fastRetries(max int) RetryConfig {
	return RetryConfig{MaxRetries: max, RetryInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}
}

func TestRunner_Do(t *testing.T) {
	txCtx := context.WithValue(context.Background(), txKey{}, "tx")

	t.Run("Commits on success", func(t *testing.T) {
		// Arrange
		uow := mockpersistence.NewMockUnitOfWork(t)
		uow.EXPECT().Begin(mock.Anything).Return(txCtx, nil).Once()
		uow.EXPECT().Repositories(txCtx).Return(nil).Once()
		uow.EXPECT().Commit(txCtx).Return(nil).Once()
		runner := NewRunner(uow, fastRetries(3), logger.NewNoopLogger())

		// Act
		calls := 0
		err := runner.Do(context.Background(), "test", func(ctx context.Context, _ persistence.Repositories) error {
			calls++
			assert.Equal(t, "tx", ctx.Value(txKey{}))
			return nil
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("Rolls back and returns domain errors unchanged", func(t *testing.T) {
		uow := mockpersistence.NewMockUnitOfWork(t)
		uow.EXPECT().Begin(mock.Anything).Return(txCtx, nil).Once()
		uow.EXPECT().Repositories(txCtx).Return(nil).Once()
		uow.EXPECT().Rollback(txCtx).Return(nil).Once()
		runner := NewRunner(uow, fastRetries(3), logger.NewNoopLogger())

		err := runner.Do(context.Background(), "test", func(context.Context, persistence.Repositories) error {
			return errs.ErrSlotTaken
		})

		assert.Equal(t, errs.ErrSlotTaken, err)
	})

	t.Run("Retries conflicts until success", func(t *testing.T) {
		uow := mockpersistence.NewMockUnitOfWork(t)
		uow.EXPECT().Begin(mock.Anything).Return(txCtx, nil).Times(3)
		uow.EXPECT().Repositories(txCtx).Return(nil).Times(3)
		uow.EXPECT().Rollback(txCtx).Return(nil).Times(2)
		uow.EXPECT().Commit(txCtx).Return(nil).Once()

		log := mockcore.NewMockLogger(t)
		log.EXPECT().Warn("Unit of work conflicted, retrying", mock.Anything).Return().Times(2)
		runner := NewRunner(uow, fastRetries(3), log)

		calls := 0
		err := runner.Do(context.Background(), "test", func(context.Context, persistence.Repositories) error {
			calls++
			if calls < 3 {
				return fmt.Errorf("update user: %w", errs.ErrConflict)
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("Retries are bounded", func(t *testing.T) {
		uow := mockpersistence.NewMockUnitOfWork(t)
		uow.EXPECT().Begin(mock.Anything).Return(txCtx, nil).Times(3)
		uow.EXPECT().Repositories(txCtx).Return(nil).Times(3)
		uow.EXPECT().Rollback(txCtx).Return(nil).Times(3)
		runner := NewRunner(uow, fastRetries(2), logger.NewNoopLogger())

		calls := 0
		err := runner.Do(context.Background(), "test", func(context.Context, persistence.Repositories) error {
			calls++
			return errs.ErrConflict
		})

		assert.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, 3, calls)
	})

	t.Run("Commit conflict is retried", func(t *testing.T) {
		uow := mockpersistence.NewMockUnitOfWork(t)
		uow.EXPECT().Begin(mock.Anything).Return(txCtx, nil).Times(2)
		uow.EXPECT().Repositories(txCtx).Return(nil).Times(2)
		uow.EXPECT().Commit(txCtx).Return(errs.ErrConflict).Once()
		uow.EXPECT().Rollback(txCtx).Return(nil).Once()
		uow.EXPECT().Commit(txCtx).Return(nil).Once()
		runner := NewRunner(uow, fastRetries(1), logger.NewNoopLogger())

		err := runner.Do(context.Background(), "test", func(context.Context, persistence.Repositories) error {
			return nil
		})

		assert.NoError(t, err)
	})

	t.Run("Begin failure", func(t *testing.T) {
		uow := mockpersistence.NewMockUnitOfWork(t)
		uow.EXPECT().Begin(mock.Anything).Return(nil, errs.ErrInternal).Once()
		runner := NewRunner(uow, fastRetries(3), logger.NewNoopLogger())

		err := runner.Do(context.Background(), "test", func(context.Context, persistence.Repositories) error {
			t.Fatal("work must not run")
			return nil
		})

		assert.ErrorIs(t, err, errs.ErrInternal)
	})

	t.Run("Canceled context stops retrying", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		uow := mockpersistence.NewMockUnitOfWork(t)
		uow.EXPECT().Begin(mock.Anything).Return(txCtx, nil).Once()
		uow.EXPECT().Repositories(txCtx).Return(nil).Once()
		uow.EXPECT().Rollback(txCtx).Return(nil).Once()
		runner := NewRunner(uow, RetryConfig{MaxRetries: 3, RetryInterval: time.Hour, MaxInterval: time.Hour}, logger.NewNoopLogger())

		err := runner.Do(ctx, "test", func(context.Context, persistence.Repositories) error {
			cancel()
			return errs.ErrConflict
		})

		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestRun(t *testing.T) {
	txCtx := context.Background()
	uow := mockpersistence.NewMockUnitOfWork(t)
	uow.EXPECT().Begin(mock.Anything).Return(txCtx, nil).Twice()
	uow.EXPECT().Repositories(txCtx).Return(nil).Twice()
	uow.EXPECT().Rollback(txCtx).Return(nil).Once()
	uow.EXPECT().Commit(txCtx).Return(nil).Once()
	runner := NewRunner(uow, fastRetries(1), logger.NewNoopLogger())

	calls := 0
	result, err := Run(context.Background(), runner, "test", func(context.Context, persistence.Repositories) (int, error) {
		calls++
		if calls == 1 {
			return 1, errs.ErrConflict
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, result)
}

func TestCalculateBackoffWithJitter(t *testing.T) {
	config := RetryConfig{RetryInterval: 10 * time.Millisecond, MaxInterval: 50 * time.Millisecond}

	assert.Equal(t, 10*time.Millisecond, calculateBackoffWithJitter(0, config))
	assert.Equal(t, 40*time.Millisecond, calculateBackoffWithJitter(2, config))
	assert.Equal(t, 50*time.Millisecond, calculateBackoffWithJitter(5, config))

	config.JitterFactor = 0.5
	for i := 0; i < 20; i++ {
		b := calculateBackoffWithJitter(1, config)
		assert.GreaterOrEqual(t, b, 20*time.Millisecond)
		assert.LessOrEqual(t, b, 30*time.Millisecond)
	}
}
