package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
)

func TestErrorClassifier_MapError(t *testing.T) {
	classifier := NewErrorClassifier()

	testCases := []struct {
		name     string
		err      error
		expected error
	}{
		{"Nil", nil, nil},
		{"Record not found", gorm.ErrRecordNotFound, errs.ErrScreenNotFound},
		{"Active slot taken", &pgconn.PgError{Code: "23505", ConstraintName: IndexBookingsActiveSlot}, errs.ErrSlotTaken},
		{"Wrapped active slot taken", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: IndexBookingsActiveSlot}), errs.ErrSlotTaken},
		{"Ledger sequence taken", &pgconn.PgError{Code: "23505", ConstraintName: IndexLedgerUserSequence}, errs.ErrConflict},
		{"Handle taken", &pgconn.PgError{Code: "23505", ConstraintName: IndexUsersHandle}, errs.ErrValidation},
		{"Unknown unique index", &pgconn.PgError{Code: "23505", ConstraintName: "users_pkey"}, errs.ErrInternal},
		{"Serialization failure", &pgconn.PgError{Code: "40001"}, errs.ErrConflict},
		{"Deadlock", &pgconn.PgError{Code: "40P01"}, errs.ErrConflict},
		{"Lock timeout", &pgconn.PgError{Code: "55P03"}, errs.ErrConflict},
		{"Check violation", &pgconn.PgError{Code: "23514", ConstraintName: "chk_users_wallet_non_negative"}, errs.ErrInternal},
		{"Connection failure", &pgconn.PgError{Code: "08006"}, errs.ErrInternal},
		{"Value too long", &pgconn.PgError{Code: "22001", Message: "value too long for type character varying(64)"}, errs.ErrValidation},
		{"Numeric out of range", &pgconn.PgError{Code: "22003"}, errs.ErrValidation},
		{"Message fallback value too long", errors.New("ERROR: value too long for type character varying(512) (SQLSTATE 22001)"), errs.ErrValidation},
		{"Message fallback duplicate", errors.New(`ERROR: duplicate key value violates unique constraint "idx_screens_name_lower"`), errs.ErrValidation},
		{"Message fallback serialization", errors.New("ERROR: could not serialize access due to concurrent update"), errs.ErrConflict},
		{"Unknown", errors.New("boom"), errs.ErrInternal},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := classifier.MapError(tc.err, errs.ErrScreenNotFound)
			if tc.expected == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestErrorClassifier_Classify(t *testing.T) {
	classifier := NewErrorClassifier()

	assert.Equal(t, DuplicateKeyError, classifier.Classify(&pgconn.PgError{Code: "23505"}))
	assert.Equal(t, SerializationError, classifier.Classify(&pgconn.PgError{Code: "40001"}))
	assert.Equal(t, LockError, classifier.Classify(&pgconn.PgError{Code: "55P03"}))
	assert.Equal(t, ConstraintError, classifier.Classify(&pgconn.PgError{Code: "23503"}))
	assert.Equal(t, DataError, classifier.Classify(&pgconn.PgError{Code: "22001"}))
	assert.Equal(t, ConnectionError, classifier.Classify(errors.New("dial tcp: connection refused")))
	assert.Equal(t, ErrorType(""), classifier.Classify(nil))
}
