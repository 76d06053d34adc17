package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	coreport "github.com/amirhossein-jamali/screen-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/repository"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const txKey contextKey = "tx"

// errNoTransaction is returned by Commit and Rollback when ctx carries no transaction
var errNoTransaction = errors.New("no transaction found in context")

// UnitOfWork runs every transaction at SERIALIZABLE isolation with a bounded lock wait
type UnitOfWork struct {
	db          *gorm.DB
	lockTimeout time.Duration
	logger      coreport.Logger
	errorMapper *ErrorMapper
}

// NewUnitOfWork creates a new UnitOfWork instance
func NewUnitOfWork(db *gorm.DB, lockTimeout time.Duration, logger coreport.Logger) *UnitOfWork {
	return &UnitOfWork{
		db:          db,
		lockTimeout: lockTimeout,
		logger:      logger,
		errorMapper: NewErrorMapper(),
	}
}

var _ persistence.UnitOfWork = (*UnitOfWork)(nil)

// Begin starts a serializable transaction and stores it in the returned context
func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok && tx != nil {
		return ctx, fmt.Errorf("begin: transaction already in progress")
	}

	tx := u.db.WithContext(ctx).Begin(&sql.TxOptions{Isolation: sql.LevelSerializable})
	if tx.Error != nil {
		u.logger.Error("Failed to begin transaction", map[string]any{"error": tx.Error.Error()})
		return ctx, u.errorMapper.MapError(tx.Error, "begin")
	}

	// Lock waits past the timeout abort with 55P03, which surfaces as a retryable conflict
	if err := tx.Exec(fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", u.lockTimeout.Milliseconds())).Error; err != nil {
		tx.Rollback()
		u.logger.Error("Failed to set lock timeout", map[string]any{"error": err.Error()})
		return ctx, u.errorMapper.MapError(err, "set lock timeout")
	}

	return context.WithValue(ctx, txKey, tx), nil
}

// Commit commits the transaction in ctx. Serialization failures surface as ErrConflict.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if !ok || tx == nil {
		return errNoTransaction
	}

	if err := tx.Commit().Error; err != nil {
		mapped := u.errorMapper.MapError(err, "commit")
		u.logger.Warn("Failed to commit transaction", map[string]any{
			"error": err.Error(),
			"kind":  u.errorMapper.Kind(mapped),
		})
		return mapped
	}
	return nil
}

// Rollback rolls back the transaction in ctx. Rolling back a finished transaction is a no-op.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if !ok || tx == nil {
		return errNoTransaction
	}

	err := tx.Rollback().Error
	if err != nil && (errors.Is(err, sql.ErrTxDone) ||
		strings.Contains(err.Error(), "already been committed or rolled back")) {
		return nil
	}
	if err != nil {
		u.logger.Error("Failed to rollback transaction", map[string]any{"error": err.Error()})
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// Repositories returns repositories bound to the transaction in ctx, or to the pool outside one
func (u *UnitOfWork) Repositories(ctx context.Context) persistence.Repositories {
	return repository.NewRepositories(u.dbFromContext(ctx), u.logger)
}

func (u *UnitOfWork) dbFromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return u.db.WithContext(ctx)
}
