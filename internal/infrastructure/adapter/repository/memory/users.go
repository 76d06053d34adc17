package memory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
)

type userRepository struct {
	*repositories
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user *entity.User
	err := r.run(func(t *tx) error {
		t.read(userKey(id))
		u, ok := t.data.users[id]
		if !ok {
			return errs.ErrUserNotFound
		}
		user = &u
		return nil
	})
	return user, err
}

// GetByIDForUpdate reads the user. Concurrent writers are detected at commit.
func (r *userRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.GetByID(ctx, id)
}

func (r *userRepository) GetByHandle(ctx context.Context, handle string) (*entity.User, error) {
	var user *entity.User
	err := r.run(func(t *tx) error {
		t.read(tableKey("users"))
		for _, u := range t.data.users {
			if strings.EqualFold(u.Handle, handle) {
				t.read(userKey(u.ID))
				user = &u
				return nil
			}
		}
		return errs.ErrUserNotFound
	})
	return user, err
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.run(func(t *tx) error {
		t.read(tableKey("users"))
		for _, u := range t.data.users {
			if strings.EqualFold(u.Handle, user.Handle) {
				return errs.Validation("handle %q is already taken", user.Handle)
			}
			if strings.EqualFold(u.Email, user.Email) {
				return errs.Validation("email %q is already registered", user.Email)
			}
		}
		id := user.ID
		t.data.users[id] = *user
		t.write(userKey(id), func(dst *state) { dst.users[id] = t.data.users[id] })
		t.write(tableKey("users"), nil)
		return nil
	})
}

func (r *userRepository) SaveBalances(ctx context.Context, user *entity.User) error {
	return r.run(func(t *tx) error {
		t.read(userKey(user.ID))
		current, ok := t.data.users[user.ID]
		if !ok {
			return errs.ErrUserNotFound
		}
		updated := entity.RestoreUser(current, user.WalletBalance(), user.LoyaltyPoints())
		updated.LedgerSequence = user.LedgerSequence
		updated.UpdatedAt = user.UpdatedAt

		id := user.ID
		t.data.users[id] = *updated
		t.write(userKey(id), func(dst *state) { dst.users[id] = t.data.users[id] })
		return nil
	})
}
