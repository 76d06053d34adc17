package account

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/atomic"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/wallet"
)

// Adjust applies a signed manual correction to a wallet on behalf of an admin.
// amount is a decimal string such as "-12.50".
//
// Possible errors:
// - ErrValidation: If amount is malformed or zero, or the note is empty
// - ErrForbidden: If adminID is not an admin
// - ErrUserNotFound: If the user doesn't exist
// - ErrInsufficientFunds: If a negative correction exceeds the balance
func (u *UseCase) Adjust(ctx context.Context, userID, adminID uuid.UUID, amount, note string) (*wallet.Movement, error) {
	cents, err := entity.ParseSignedAmount(amount)
	if err != nil {
		return nil, err
	}
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, errs.Validation("adjustment note is required")
	}

	movement, err := atomic.Run(ctx, u.runner, "adjust_wallet", func(ctx context.Context, repos persistence.Repositories) (*wallet.Movement, error) {
		admin, err := repos.Users().GetByID(ctx, adminID)
		if errors.Is(err, errs.ErrUserNotFound) {
			return nil, errs.ErrForbidden
		}
		if err != nil {
			return nil, err
		}
		if !admin.IsAdmin() {
			return nil, errs.ErrForbidden
		}
		return u.wallet.Adjust(ctx, repos, userID, cents, adminID, note)
	})
	if err != nil {
		fields := errs.LogFields(err)
		fields["user_id"] = userID.String()
		fields["admin_id"] = adminID.String()
		u.logger.Warn("Wallet adjustment rejected", fields)
		return nil, err
	}

	u.logger.Info("Wallet adjusted", map[string]any{
		"user_id":     userID.String(),
		"admin_id":    adminID.String(),
		"amount":      entity.FormatAmount(cents),
		"entry_id":    movement.Entry.ID.String(),
		"new_balance": entity.FormatAmount(movement.User.WalletBalance()),
	})
	return movement, nil
}
