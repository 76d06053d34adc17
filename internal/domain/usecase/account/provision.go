package account

import (
	"context"
	"errors"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/atomic"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/wallet"
)

// OpeningBalanceNote is the description of the ledger entry that funds a provisioned wallet
const OpeningBalanceNote = "opening balance"

// NewAccount describes a user to provision
type NewAccount struct {
	Handle         string
	Email          string
	PasswordHash   string
	Role           entity.Role
	InitialBalance string // decimal, "" or "0" for an empty wallet
}

// Provision creates a user. A non-zero opening balance is credited through the
// wallet ledger in the same unit of work so the ledger accounts for it.
//
// Possible errors:
// - ErrValidation: If a field is malformed or the handle or email is taken
func (u *UseCase) Provision(ctx context.Context, input NewAccount) (*entity.User, error) {
	var opening int64
	if input.InitialBalance != "" {
		cents, err := entity.ParseAmount(input.InitialBalance)
		if err != nil {
			return nil, err
		}
		opening = cents
	}

	user, err := atomic.Run(ctx, u.runner, "provision_user", func(ctx context.Context, repos persistence.Repositories) (*entity.User, error) {
		user, err := entity.NewUser(input.Handle, input.Email, input.PasswordHash, input.Role, u.timeProvider.Now())
		if err != nil {
			return nil, err
		}
		if err := repos.Users().Create(ctx, user); err != nil {
			return nil, err
		}
		if opening == 0 {
			return user, nil
		}

		movement, err := u.wallet.Credit(ctx, repos, user.ID, opening, wallet.EntryOptions{
			Type:        entity.EntryAdminAdjustment,
			Description: OpeningBalanceNote,
		})
		if err != nil {
			return nil, err
		}
		return movement.User, nil
	})
	if err != nil {
		u.logger.Error("Failed to provision user", map[string]any{
			"handle": input.Handle,
			"error":  err.Error(),
		})
		return nil, err
	}

	u.logger.Info("User provisioned", map[string]any{
		"user_id":         user.ID.String(),
		"handle":          user.Handle,
		"role":            string(user.Role),
		"initial_balance": entity.FormatAmount(opening),
	})
	return user, nil
}

// ProvisionDefaults creates each account whose handle is not taken yet.
// It returns the accounts that exist afterwards, keyed by handle.
func (u *UseCase) ProvisionDefaults(ctx context.Context, accounts []NewAccount) (map[string]*entity.User, error) {
	users := make(map[string]*entity.User, len(accounts))
	for _, account := range accounts {
		existing, err := u.runner.Repositories(ctx).Users().GetByHandle(ctx, account.Handle)
		if err == nil {
			u.logger.Info("Default user already exists", map[string]any{
				"handle": account.Handle,
			})
			users[account.Handle] = existing
			continue
		}
		if !errors.Is(err, errs.ErrUserNotFound) {
			return nil, err
		}

		user, err := u.Provision(ctx, account)
		if err != nil {
			return nil, err
		}
		users[account.Handle] = user
	}

	u.logger.Info("Default users created or verified", map[string]any{"count": len(users)})
	return users, nil
}
