package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/screen-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/atomic"
)

// OverlapWarning names two overrides that can match the same instant.
// Shadowed never wins there because Winner comes first.
type OverlapWarning struct {
	Winner   int
	Shadowed int
}

// Saved is a stored screen with the warnings found while validating it
type Saved struct {
	Screen   *entity.Screen
	Warnings []OverlapWarning
}

// ScreenInput carries the fields of a new screen
type ScreenInput struct {
	Name      string
	BasePrice int64
	Overrides []entity.PriceOverride
}

// ScreenUpdate carries the fields to change. Nil fields keep their current value.
type ScreenUpdate struct {
	Name      *string
	BasePrice *int64
	IsActive  *bool
	Overrides *[]entity.PriceOverride
}

// UseCase manages screens and their pricing rules
type UseCase struct {
	runner *atomic.Runner
	clock  coreport.TimeProvider
	logger coreport.Logger
}

// NewUseCase creates a new catalog use case instance
func NewUseCase(runner *atomic.Runner, clock coreport.TimeProvider, logger coreport.Logger) *UseCase {
	return &UseCase{runner: runner, clock: clock, logger: logger}
}

// Create stores a new active screen
//
// Possible errors:
// - ErrValidation: If a field or override is malformed, or the name is taken
func (u *UseCase) Create(ctx context.Context, input ScreenInput) (*Saved, error) {
	screen, err := entity.NewScreen(input.Name, input.BasePrice, input.Overrides, u.clock.Now())
	if err != nil {
		return nil, err
	}

	err = u.runner.Do(ctx, "create_screen", func(ctx context.Context, repos persistence.Repositories) error {
		return repos.Screens().Create(ctx, screen)
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info("Screen created", map[string]any{
		"screen_id":  screen.ID.String(),
		"name":       screen.Name,
		"base_price": entity.FormatAmount(screen.BasePrice),
		"overrides":  len(screen.Overrides),
	})
	return u.saved(screen), nil
}

// Update changes a screen. Bookings already made keep the price they paid.
//
// Possible errors:
// - ErrScreenNotFound: If the screen doesn't exist
// - ErrValidation: If the result is malformed or the name is taken
func (u *UseCase) Update(ctx context.Context, id uuid.UUID, update ScreenUpdate) (*Saved, error) {
	screen, err := atomic.Run(ctx, u.runner, "update_screen", func(ctx context.Context, repos persistence.Repositories) (*entity.Screen, error) {
		screen, err := repos.Screens().GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if update.Name != nil {
			screen.Name = strings.TrimSpace(*update.Name)
		}
		if update.BasePrice != nil {
			screen.BasePrice = *update.BasePrice
		}
		if update.IsActive != nil {
			screen.IsActive = *update.IsActive
		}
		if update.Overrides != nil {
			screen.Overrides = *update.Overrides
		}
		if err := screen.Validate(); err != nil {
			return nil, err
		}
		screen.UpdatedAt = u.clock.Now()

		if err := repos.Screens().Update(ctx, screen); err != nil {
			return nil, err
		}
		return screen, nil
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info("Screen updated", map[string]any{
		"screen_id": screen.ID.String(),
		"is_active": screen.IsActive,
		"overrides": len(screen.Overrides),
	})
	return u.saved(screen), nil
}

// Get returns a screen with its overrides in evaluation order
func (u *UseCase) Get(ctx context.Context, id uuid.UUID) (*entity.Screen, error) {
	return u.runner.Repositories(ctx).Screens().GetByID(ctx, id)
}

// List returns screens ordered by name
func (u *UseCase) List(ctx context.Context, activeOnly bool) ([]entity.Screen, error) {
	return u.runner.Repositories(ctx).Screens().List(ctx, activeOnly)
}

func (u *UseCase) saved(screen *entity.Screen) *Saved {
	pairs := screen.OverlappingOverrides()
	if len(pairs) == 0 {
		return &Saved{Screen: screen}
	}

	warnings := make([]OverlapWarning, 0, len(pairs))
	for _, p := range pairs {
		warnings = append(warnings, OverlapWarning{Winner: p[0], Shadowed: p[1]})
	}
	u.logger.Warn("Screen has overlapping price overrides", map[string]any{
		"screen_id": screen.ID.String(),
		"overlaps":  len(warnings),
	})
	return &Saved{Screen: screen, Warnings: warnings}
}
