package wallet

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/screen-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/persistence"
)

// EntryOptions describes the ledger entry written by a movement
type EntryOptions struct {
	Type           entity.EntryType
	LoyaltyPoints  int64 // awarded (or taken, if negative) together with the movement
	BookingID      *uuid.UUID
	TopUpRequestID *uuid.UUID
	PerformedBy    *uuid.UUID
	Description    string
}

// Movement is the outcome of one wallet operation
type Movement struct {
	User  *entity.User
	Entry *entity.LedgerEntry
}

// Ledger is the only writer of wallet balances and loyalty points.
// It never opens a transaction: callers pass repositories bound to their unit of work
// so that the movement commits or rolls back together with their own writes.
type Ledger struct {
	clock  coreport.TimeProvider
	logger coreport.Logger
}

// NewLedger creates a new wallet ledger
func NewLedger(clock coreport.TimeProvider, logger coreport.Logger) *Ledger {
	return &Ledger{clock: clock, logger: logger}
}

// Debit takes amount from the wallet. A zero amount only records the loyalty movement.
//
// Possible errors:
// - ErrValidation: If amount is negative or the entry type is unknown
// - ErrUserNotFound: If the user doesn't exist
// - ErrInsufficientFunds: If the balance would go negative
func (l *Ledger) Debit(ctx context.Context, repos persistence.Repositories, userID uuid.UUID, amount int64, opts EntryOptions) (*Movement, error) {
	if amount < 0 {
		return nil, errs.Validation("debit amount cannot be negative")
	}
	return l.apply(ctx, repos, userID, -amount, opts)
}

// Credit adds amount to the wallet
//
// Possible errors:
// - ErrValidation: If amount is not positive or the entry type is unknown
// - ErrUserNotFound: If the user doesn't exist
func (l *Ledger) Credit(ctx context.Context, repos persistence.Repositories, userID uuid.UUID, amount int64, opts EntryOptions) (*Movement, error) {
	if amount <= 0 {
		return nil, errs.Validation("credit amount must be positive")
	}
	return l.apply(ctx, repos, userID, amount, opts)
}

// Adjust applies a signed correction made by an admin
//
// Possible errors:
// - ErrValidation: If amount is zero
// - ErrUserNotFound: If the user doesn't exist
// - ErrInsufficientFunds: If a negative correction exceeds the balance
func (l *Ledger) Adjust(ctx context.Context, repos persistence.Repositories, userID uuid.UUID, amount int64, adminID uuid.UUID, note string) (*Movement, error) {
	if amount == 0 {
		return nil, errs.Validation("adjustment amount cannot be zero")
	}
	return l.apply(ctx, repos, userID, amount, EntryOptions{
		Type:        entity.EntryAdminAdjustment,
		PerformedBy: &adminID,
		Description: note,
	})
}

func (l *Ledger) apply(ctx context.Context, repos persistence.Repositories, userID uuid.UUID, walletDelta int64, opts EntryOptions) (*Movement, error) {
	if !opts.Type.Valid() {
		return nil, errs.Validation("ledger entry type %q is invalid", opts.Type)
	}

	user, err := repos.Users().GetByIDForUpdate(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := l.clock.Now()
	snap, err := user.ApplyLedgerMovement(walletDelta, opts.LoyaltyPoints, now)
	if err != nil {
		return nil, err
	}
	if err := repos.Users().SaveBalances(ctx, user); err != nil {
		return nil, fmt.Errorf("save balances: %w", err)
	}

	entry := entity.NewLedgerEntry(userID, opts.Type, walletDelta, snap, now)
	entry.BookingID = opts.BookingID
	entry.TopUpRequestID = opts.TopUpRequestID
	entry.PerformedBy = opts.PerformedBy
	entry.Description = opts.Description
	if err := repos.Ledger().Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("append ledger entry: %w", err)
	}

	l.logger.Debug("Ledger entry appended", map[string]any{
		"user_id":         userID.String(),
		"entry_id":        entry.ID.String(),
		"type":            string(entry.Type),
		"amount":          entity.FormatAmount(entry.Amount),
		"balance_after":   entity.FormatAmount(entry.WalletBalanceAfter),
		"points_after":    entry.LoyaltyPointsAfter,
		"ledger_sequence": entry.Sequence,
	})

	return &Movement{User: user, Entry: entry}, nil
}
