package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
)

// ErrorType represents the type of database error that occurred
type ErrorType string

const (
	DuplicateKeyError  ErrorType = "duplicate_key"
	SerializationError ErrorType = "serialization"
	LockError          ErrorType = "lock"
	ConnectionError    ErrorType = "connection"
	ConstraintError    ErrorType = "constraint"
	DataError          ErrorType = "data"
)

// PostgreSQL error codes the classifier distinguishes
const (
	sqlStateUniqueViolation      = "23505"
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateLockNotAvailable     = "55P03"
)

// Unique index names referenced by the schema migration
const (
	IndexBookingsActiveSlot = "idx_bookings_active_slot"
	IndexLedgerUserSequence = "idx_ledger_entries_user_sequence"
	IndexUsersHandle        = "idx_users_handle_lower"
	IndexUsersEmail         = "idx_users_email_lower"
	IndexScreensName        = "idx_screens_name_lower"
)

// uniqueViolations maps a unique index to the domain error its violation means
var uniqueViolations = map[string]func() error{
	IndexBookingsActiveSlot: func() error { return errs.ErrSlotTaken },
	IndexLedgerUserSequence: func() error { return fmt.Errorf("ledger sequence taken: %w", errs.ErrConflict) },
	IndexUsersHandle:        func() error { return errs.Validation("handle is already taken") },
	IndexUsersEmail:         func() error { return errs.Validation("email is already registered") },
	IndexScreensName:        func() error { return errs.Validation("screen name is already taken") },
}

// ErrorClassifier classifies database errors by SQLSTATE, falling back to the message text
type ErrorClassifier struct{}

// NewErrorClassifier creates a new ErrorClassifier
func NewErrorClassifier() *ErrorClassifier {
	return &ErrorClassifier{}
}

// Classify returns the type of error
func (c *ErrorClassifier) Classify(err error) ErrorType {
	if err == nil {
		return ""
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == sqlStateUniqueViolation:
			return DuplicateKeyError
		case pgErr.Code == sqlStateSerializationFailure, pgErr.Code == sqlStateDeadlockDetected:
			return SerializationError
		case pgErr.Code == sqlStateLockNotAvailable:
			return LockError
		case strings.HasPrefix(pgErr.Code, "23"):
			return ConstraintError
		case strings.HasPrefix(pgErr.Code, "08"):
			return ConnectionError
		case strings.HasPrefix(pgErr.Code, "22"):
			return DataError
		}
		return ""
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "duplicate key"):
		return DuplicateKeyError
	case strings.Contains(msg, "could not serialize access"), strings.Contains(msg, "deadlock"):
		return SerializationError
	case strings.Contains(msg, "lock timeout"), strings.Contains(msg, "could not obtain lock"):
		return LockError
	case strings.Contains(msg, "violates"):
		return ConstraintError
	case strings.Contains(msg, "value too long"):
		return DataError
	case strings.Contains(msg, "connection refused"), strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "broken pipe"), strings.Contains(msg, "server closed"):
		return ConnectionError
	}
	return ""
}

// ConstraintName returns the violated constraint, if the driver reported one
func (c *ErrorClassifier) ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	msg := err.Error()
	for name := range uniqueViolations {
		if strings.Contains(msg, name) {
			return name
		}
	}
	return ""
}

// MapError translates a gorm or driver error into the domain taxonomy.
// notFound is returned for gorm.ErrRecordNotFound.
func (c *ErrorClassifier) MapError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", errs.ErrInternal, err)
	}

	switch c.Classify(err) {
	case DuplicateKeyError:
		if mapped, ok := uniqueViolations[c.ConstraintName(err)]; ok {
			return mapped()
		}
		return fmt.Errorf("%w: duplicate key: %s", errs.ErrInternal, err.Error())
	case SerializationError, LockError:
		return fmt.Errorf("%w: %s", errs.ErrConflict, err.Error())
	case ConstraintError:
		return fmt.Errorf("%w: constraint violation: %s", errs.ErrInternal, err.Error())
	case DataError:
		return errs.Validation("value rejected by the database: %s", dataErrorDetail(err))
	case ConnectionError:
		return fmt.Errorf("%w: database unavailable: %s", errs.ErrInternal, err.Error())
	default:
		return fmt.Errorf("%w: %s", errs.ErrInternal, err.Error())
	}
}

func dataErrorDetail(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Message
	}
	return err.Error()
}
