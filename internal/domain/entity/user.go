package entity

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
)

// Role is the authorization role carried by an identity
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is an account with a prepaid wallet and loyalty points.
// Wallet and points are private: they only move through ApplyLedgerMovement.
type User struct {
	ID             uuid.UUID
	Handle         string
	Email          string
	PasswordHash   string
	Role           Role
	walletBalance  int64 // cents
	loyaltyPoints  int64
	LedgerSequence int64 // number of ledger entries written for this user
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewUser creates a user with an empty wallet
func NewUser(handle, email, passwordHash string, role Role, now time.Time) (*User, error) {
	handle = strings.TrimSpace(handle)
	email = strings.TrimSpace(email)
	if handle == "" {
		return nil, errs.Validation("handle is required")
	}
	if err := CheckLength("handle", handle, MaxHandleLength); err != nil {
		return nil, err
	}
	if !strings.Contains(email, "@") {
		return nil, errs.Validation("email %q is invalid", email)
	}
	if err := CheckLength("email", email, MaxEmailLength); err != nil {
		return nil, err
	}
	if role == "" {
		role = RoleUser
	}
	if !role.Valid() {
		return nil, errs.Validation("role %q is invalid", role)
	}

	return &User{
		ID:           uuid.New(),
		Handle:       handle,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// RestoreUser rebuilds a user from persisted state
func RestoreUser(u User, walletBalance, loyaltyPoints int64) *User {
	u.walletBalance = walletBalance
	u.loyaltyPoints = loyaltyPoints
	return &u
}

// WalletBalance returns the balance in cents
func (u *User) WalletBalance() int64 {
	return u.walletBalance
}

// LoyaltyPoints returns the loyalty points balance
func (u *User) LoyaltyPoints() int64 {
	return u.loyaltyPoints
}

// FormattedBalance returns the balance as a string with 2 decimal places
func (u *User) FormattedBalance() string {
	return FormatAmount(u.walletBalance)
}

// IsAdmin reports whether the user may review top-ups and manage screens
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ApplyLedgerMovement moves wallet and points by the given deltas and advances the ledger sequence.
// It returns the snapshot to record on the ledger entry. Neither balance may go negative.
func (u *User) ApplyLedgerMovement(walletDelta, pointsDelta int64, now time.Time) (BalanceSnapshot, error) {
	snap := BalanceSnapshot{
		WalletBefore: u.walletBalance,
		WalletAfter:  u.walletBalance + walletDelta,
		PointsBefore: u.loyaltyPoints,
		PointsAfter:  u.loyaltyPoints + pointsDelta,
		Sequence:     u.LedgerSequence + 1,
	}
	if walletDelta > 0 && snap.WalletAfter < snap.WalletBefore {
		return BalanceSnapshot{}, errs.Validation("wallet balance would exceed %s", FormatAmount(math.MaxInt64))
	}
	if pointsDelta > 0 && snap.PointsAfter < snap.PointsBefore {
		return BalanceSnapshot{}, errs.Validation("loyalty points would overflow")
	}
	if snap.WalletAfter < 0 {
		return BalanceSnapshot{}, errs.NewInsufficientFundsError(
			u.ID.String(), FormatAmount(-walletDelta), FormatAmount(u.walletBalance))
	}
	if snap.PointsAfter < 0 {
		return BalanceSnapshot{}, errs.Validation("loyalty points cannot go negative")
	}

	u.walletBalance = snap.WalletAfter
	u.loyaltyPoints = snap.PointsAfter
	u.LedgerSequence = snap.Sequence
	u.UpdatedAt = now
	return snap, nil
}

// BalanceSnapshot is the before/after pair written on a ledger entry
type BalanceSnapshot struct {
	WalletBefore int64
	WalletAfter  int64
	PointsBefore int64
	PointsAfter  int64
	Sequence     int64
}
