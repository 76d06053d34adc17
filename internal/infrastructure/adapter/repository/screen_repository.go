package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/screen-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/model"
)

// ScreenRepository implements persistence.ScreenRepository using GORM
type ScreenRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewScreenRepository creates a new ScreenRepository instance
func NewScreenRepository(db *gorm.DB, logger coreport.Logger) *ScreenRepository {
	return &ScreenRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func orderedOverrides(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// GetByID retrieves a screen with its overrides in evaluation order
func (r *ScreenRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Screen, error) {
	var screenModel model.Screen
	err := r.db.WithContext(ctx).
		Preload("Overrides", orderedOverrides).
		First(&screenModel, "id = ?", id).Error
	if err != nil {
		return nil, r.errorClassifier.MapError(err, errs.ErrScreenNotFound)
	}
	return screenToEntity(&screenModel), nil
}

// List returns screens ordered by name
func (r *ScreenRepository) List(ctx context.Context, activeOnly bool) ([]entity.Screen, error) {
	query := r.db.WithContext(ctx).Preload("Overrides", orderedOverrides).Order("name ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var screenModels []model.Screen
	if err := query.Find(&screenModels).Error; err != nil {
		return nil, r.errorClassifier.MapError(err, errs.ErrScreenNotFound)
	}

	screens := make([]entity.Screen, 0, len(screenModels))
	for i := range screenModels {
		screens = append(screens, *screenToEntity(&screenModels[i]))
	}
	return screens, nil
}

// Create stores a screen together with its overrides
func (r *ScreenRepository) Create(ctx context.Context, screen *entity.Screen) error {
	screenModel := screenToModel(screen)
	if err := r.db.WithContext(ctx).Create(&screenModel).Error; err != nil {
		return r.errorClassifier.MapError(err, errs.ErrScreenNotFound)
	}
	return nil
}

// Update replaces the screen's columns and its whole override list
func (r *ScreenRepository) Update(ctx context.Context, screen *entity.Screen) error {
	screenModel := screenToModel(screen)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Screen{}).
			Where("id = ?", screen.ID).
			Updates(map[string]any{
				"name":       screenModel.Name,
				"base_price": screenModel.BasePrice,
				"is_active":  screenModel.IsActive,
				"updated_at": screenModel.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errs.ErrScreenNotFound
		}

		if err := tx.Where("screen_id = ?", screen.ID).Delete(&model.PriceOverride{}).Error; err != nil {
			return err
		}
		if len(screenModel.Overrides) == 0 {
			return nil
		}
		return tx.Omit(clause.Associations).Create(&screenModel.Overrides).Error
	})
	if errors.Is(err, errs.ErrScreenNotFound) {
		return err
	}
	if err != nil {
		return r.errorClassifier.MapError(err, errs.ErrScreenNotFound)
	}

	r.logger.Debug("Screen updated", map[string]any{
		"screen_id": screen.ID.String(),
		"overrides": len(screenModel.Overrides),
	})
	return nil
}
