package entity

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		u, err := NewUser(" gamer ", "gamer@example.com", "hash", "", now)
		require.NoError(t, err)
		assert.Equal(t, "gamer", u.Handle)
		assert.Equal(t, RoleUser, u.Role)
		assert.Zero(t, u.WalletBalance())
		assert.Zero(t, u.LoyaltyPoints())
		assert.Zero(t, u.LedgerSequence)
		assert.Equal(t, "0.00", u.FormattedBalance())
	})

	t.Run("Handle at the limit counts characters", func(t *testing.T) {
		u, err := NewUser(strings.Repeat("é", MaxHandleLength), "a@b.c", "hash", RoleUser, now)
		require.NoError(t, err)
		assert.Len(t, []rune(u.Handle), MaxHandleLength)
	})

	t.Run("Invalid input", func(t *testing.T) {
		testCases := []struct {
			name   string
			handle string
			email  string
			role   Role
		}{
			{"Empty handle", "", "a@b.c", RoleUser},
			{"Bad email", "gamer", "not-an-email", RoleUser},
			{"Unknown role", "gamer", "a@b.c", "owner"},
			{"Handle too long", strings.Repeat("g", MaxHandleLength+1), "a@b.c", RoleUser},
			{"Email too long", "gamer", strings.Repeat("e", MaxEmailLength) + "@b.c", RoleUser},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := NewUser(tc.handle, tc.email, "hash", tc.role, now)
				assert.ErrorIs(t, err, errs.ErrValidation)
			})
		}
	})
}

func TestApplyLedgerMovement(t *testing.T) {
	t.Run("Debit with loyalty award", func(t *testing.T) {
		// Arrange
		u := RestoreUser(User{LedgerSequence: 3}, 12000, 5)
		later := now.Add(time.Minute)

		// Act
		snap, err := u.ApplyLedgerMovement(-10000, 10, later)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, BalanceSnapshot{
			WalletBefore: 12000, WalletAfter: 2000,
			PointsBefore: 5, PointsAfter: 15,
			Sequence: 4,
		}, snap)
		assert.Equal(t, int64(2000), u.WalletBalance())
		assert.Equal(t, int64(15), u.LoyaltyPoints())
		assert.Equal(t, int64(4), u.LedgerSequence)
		assert.Equal(t, later, u.UpdatedAt)
	})

	t.Run("Insufficient funds leaves user untouched", func(t *testing.T) {
		u := RestoreUser(User{LedgerSequence: 1}, 5000, 0)

		_, err := u.ApplyLedgerMovement(-10000, 10, now)

		require.ErrorIs(t, err, errs.ErrInsufficientFunds)
		var detail *errs.InsufficientFundsError
		require.True(t, errors.As(err, &detail))
		assert.Equal(t, "100.00", detail.Required)
		assert.Equal(t, "50.00", detail.Available)
		assert.Equal(t, int64(5000), u.WalletBalance())
		assert.Equal(t, int64(1), u.LedgerSequence)
	})

	t.Run("Points cannot go negative", func(t *testing.T) {
		u := RestoreUser(User{}, 5000, 3)

		_, err := u.ApplyLedgerMovement(0, -4, now)

		assert.ErrorIs(t, err, errs.ErrValidation)
		assert.Equal(t, int64(3), u.LoyaltyPoints())
	})

	t.Run("Credit that would overflow the wallet is rejected", func(t *testing.T) {
		u := RestoreUser(User{LedgerSequence: 1}, math.MaxInt64/2+1, 0)

		_, err := u.ApplyLedgerMovement(math.MaxInt64/2+1, 0, now)

		require.ErrorIs(t, err, errs.ErrValidation)
		assert.NotErrorIs(t, err, errs.ErrInsufficientFunds)
		assert.Equal(t, int64(math.MaxInt64/2+1), u.WalletBalance())
		assert.Equal(t, int64(1), u.LedgerSequence)
	})

	t.Run("Points overflow is rejected", func(t *testing.T) {
		u := RestoreUser(User{}, 0, math.MaxInt64)

		_, err := u.ApplyLedgerMovement(0, 1, now)

		assert.ErrorIs(t, err, errs.ErrValidation)
		assert.Equal(t, int64(math.MaxInt64), u.LoyaltyPoints())
	})
}
