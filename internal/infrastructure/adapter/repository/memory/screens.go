package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
)

type screenRepository struct {
	*repositories
}

func (r *screenRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Screen, error) {
	var screen *entity.Screen
	err := r.run(func(t *tx) error {
		t.read(screenKey(id))
		s, ok := t.data.screens[id]
		if !ok {
			return errs.ErrScreenNotFound
		}
		s = cloneScreen(s)
		screen = &s
		return nil
	})
	return screen, err
}

func (r *screenRepository) List(ctx context.Context, activeOnly bool) ([]entity.Screen, error) {
	var screens []entity.Screen
	err := r.run(func(t *tx) error {
		t.read(tableKey("screens"))
		for _, s := range t.data.screens {
			if activeOnly && !s.IsActive {
				continue
			}
			screens = append(screens, cloneScreen(s))
		}
		return nil
	})
	sort.Slice(screens, func(i, j int) bool { return screens[i].Name < screens[j].Name })
	return screens, err
}

func (r *screenRepository) Create(ctx context.Context, screen *entity.Screen) error {
	return r.save(screen, false)
}

func (r *screenRepository) Update(ctx context.Context, screen *entity.Screen) error {
	return r.save(screen, true)
}

func (r *screenRepository) save(screen *entity.Screen, mustExist bool) error {
	return r.run(func(t *tx) error {
		t.read(tableKey("screens"), screenKey(screen.ID))
		if _, ok := t.data.screens[screen.ID]; ok != mustExist {
			if mustExist {
				return errs.ErrScreenNotFound
			}
			return errs.Validation("screen %s already exists", screen.ID)
		}
		for _, s := range t.data.screens {
			if s.ID != screen.ID && strings.EqualFold(s.Name, screen.Name) {
				return errs.Validation("screen name %q is already taken", screen.Name)
			}
		}

		id := screen.ID
		t.data.screens[id] = cloneScreen(*screen)
		t.write(screenKey(id), func(dst *state) { dst.screens[id] = t.data.screens[id] })
		t.write(tableKey("screens"), nil)
		return nil
	})
}
