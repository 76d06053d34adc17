package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
)

// UserRepository defines essential methods to interact with user data
type UserRepository interface {
	// GetByID retrieves a user by ID
	//
	// Possible errors:
	// - ErrUserNotFound: If user with specified ID doesn't exist
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// GetByIDForUpdate retrieves a user and locks the row until the transaction ends.
	// Only meaningful inside a unit of work.
	//
	// Possible errors:
	// - ErrUserNotFound: If user with specified ID doesn't exist
	// - ErrConflict: If the lock could not be acquired in time
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// GetByHandle retrieves a user by unique handle
	//
	// Possible errors:
	// - ErrUserNotFound: If no user has the handle
	GetByHandle(ctx context.Context, handle string) (*entity.User, error)

	// Create creates a new user
	//
	// Possible errors:
	// - ErrValidation: If handle or email is already taken
	Create(ctx context.Context, user *entity.User) error

	// SaveBalances persists wallet balance, loyalty points and ledger sequence.
	// Only the wallet ledger calls it.
	//
	// Possible errors:
	// - ErrUserNotFound: If user doesn't exist
	SaveBalances(ctx context.Context, user *entity.User) error
}
