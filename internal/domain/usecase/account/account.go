package account

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/screen-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/atomic"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/wallet"
)

// WalletSummary is the read model behind GET /me/wallet
type WalletSummary struct {
	UserID         uuid.UUID
	Handle         string
	Balance        int64
	LoyaltyPoints  int64
	LedgerSequence int64
}

// UseCase serves account reads and provisioning
type UseCase struct {
	runner       *atomic.Runner
	wallet       *wallet.Ledger
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewUseCase creates a new account use case instance
func NewUseCase(
	runner *atomic.Runner,
	walletLedger *wallet.Ledger,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *UseCase {
	return &UseCase{
		runner:       runner,
		wallet:       walletLedger,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Wallet returns the user's balance and loyalty points
func (u *UseCase) Wallet(ctx context.Context, userID uuid.UUID) (*WalletSummary, error) {
	user, err := u.runner.Repositories(ctx).Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &WalletSummary{
		UserID:         user.ID,
		Handle:         user.Handle,
		Balance:        user.WalletBalance(),
		LoyaltyPoints:  user.LoyaltyPoints(),
		LedgerSequence: user.LedgerSequence,
	}, nil
}

// UserExists checks if a user exists with the given ID
func (u *UseCase) UserExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	_, err := u.runner.Repositories(ctx).Users().GetByID(ctx, userID)
	if errors.Is(err, errs.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Ledger returns the user's ledger entries matching the filter, newest first
//
// Possible errors:
// - ErrValidation: If the date range is inverted or the entry type is unknown
// - ErrUserNotFound: If the user doesn't exist
func (u *UseCase) Ledger(ctx context.Context, userID uuid.UUID, filter persistence.LedgerFilter) ([]entity.LedgerEntry, error) {
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return nil, errs.Validation("ledger range start must be before its end")
	}
	if filter.Type != nil && !filter.Type.Valid() {
		return nil, errs.Validation("ledger entry type %q is invalid", *filter.Type)
	}
	filter.Page = filter.Page.Normalize()

	repos := u.runner.Repositories(ctx)
	if _, err := repos.Users().GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return repos.Ledger().List(ctx, userID, filter)
}

// Bookings returns the user's bookings, most recent slot first
func (u *UseCase) Bookings(ctx context.Context, userID uuid.UUID, page persistence.Page) ([]entity.Booking, error) {
	return u.runner.Repositories(ctx).Bookings().ListByUser(ctx, userID, page.Normalize())
}
