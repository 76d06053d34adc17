package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
)

// ScreenRepository persists screens together with their ordered price overrides
type ScreenRepository interface {
	// GetByID retrieves a screen with its overrides in evaluation order
	//
	// Possible errors:
	// - ErrScreenNotFound: If screen doesn't exist
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Screen, error)

	// List returns screens ordered by name
	List(ctx context.Context, activeOnly bool) ([]entity.Screen, error)

	// Create stores a new screen
	//
	// Possible errors:
	// - ErrValidation: If the name is already taken
	Create(ctx context.Context, screen *entity.Screen) error

	// Update replaces the screen's fields and override list
	//
	// Possible errors:
	// - ErrScreenNotFound: If screen doesn't exist
	// - ErrValidation: If the name is already taken
	Update(ctx context.Context, screen *entity.Screen) error
}
