package entity

import (
	"time"

	"github.com/google/uuid"
)

// EntryType classifies a ledger entry
type EntryType string

const (
	EntryTopUp           EntryType = "top-up"
	EntryBookingFee      EntryType = "booking-fee"
	EntryRefund          EntryType = "refund"
	EntryLoyaltyReward   EntryType = "loyalty-reward"
	EntryAdminAdjustment EntryType = "admin-adjustment"
)

// Valid reports whether t is a known entry type
func (t EntryType) Valid() bool {
	switch t {
	case EntryTopUp, EntryBookingFee, EntryRefund, EntryLoyaltyReward, EntryAdminAdjustment:
		return true
	}
	return false
}

// LedgerEntry is an immutable record of one balance-changing event
type LedgerEntry struct {
	ID                  uuid.UUID
	UserID              uuid.UUID
	Sequence            int64
	Type                EntryType
	Amount              int64 // signed cents
	WalletBalanceBefore int64
	WalletBalanceAfter  int64
	LoyaltyPointsBefore int64
	LoyaltyPointsAfter  int64
	BookingID           *uuid.UUID
	TopUpRequestID      *uuid.UUID
	PerformedBy         *uuid.UUID
	Description         string
	Timestamp           time.Time
}

// NewLedgerEntry builds the entry recording a movement already applied to the user
func NewLedgerEntry(userID uuid.UUID, entryType EntryType, amount int64, snap BalanceSnapshot, now time.Time) *LedgerEntry {
	return &LedgerEntry{
		ID:                  uuid.New(),
		UserID:              userID,
		Sequence:            snap.Sequence,
		Type:                entryType,
		Amount:              amount,
		WalletBalanceBefore: snap.WalletBefore,
		WalletBalanceAfter:  snap.WalletAfter,
		LoyaltyPointsBefore: snap.PointsBefore,
		LoyaltyPointsAfter:  snap.PointsAfter,
		Timestamp:           now,
	}
}

// LedgerViolation describes one broken ledger invariant
type LedgerViolation struct {
	Sequence int64
	Reason   string
}

// VerifyLedger checks entries (ordered by sequence) against the user's current wallet and points.
// It returns every violation of the chain, sum and final-balance invariants.
func VerifyLedger(entries []LedgerEntry, walletBalance, loyaltyPoints int64) []LedgerViolation {
	var violations []LedgerViolation
	var sum, prevWallet, prevPoints int64

	for i, e := range entries {
		if e.Sequence != int64(i+1) {
			violations = append(violations, LedgerViolation{e.Sequence, "sequence gap"})
		}
		if e.WalletBalanceBefore != prevWallet {
			violations = append(violations, LedgerViolation{e.Sequence, "wallet before does not chain"})
		}
		if e.LoyaltyPointsBefore != prevPoints {
			violations = append(violations, LedgerViolation{e.Sequence, "points before does not chain"})
		}
		if e.WalletBalanceBefore+e.Amount != e.WalletBalanceAfter {
			violations = append(violations, LedgerViolation{e.Sequence, "amount does not match snapshot"})
		}
		sum += e.Amount
		prevWallet = e.WalletBalanceAfter
		prevPoints = e.LoyaltyPointsAfter
	}

	if sum != walletBalance {
		violations = append(violations, LedgerViolation{0, "sum of amounts differs from wallet balance"})
	}
	if prevWallet != walletBalance {
		violations = append(violations, LedgerViolation{0, "last snapshot differs from wallet balance"})
	}
	if prevPoints != loyaltyPoints {
		violations = append(violations, LedgerViolation{0, "last snapshot differs from loyalty points"})
	}
	return violations
}
