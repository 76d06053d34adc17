package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/screen-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/model"
)

// LedgerRepository implements persistence.LedgerRepository using GORM.
// It only ever inserts and selects.
type LedgerRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewLedgerRepository creates a new LedgerRepository instance
func NewLedgerRepository(db *gorm.DB, logger coreport.Logger) *LedgerRepository {
	return &LedgerRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// Append inserts an entry
func (r *LedgerRepository) Append(ctx context.Context, entry *entity.LedgerEntry) error {
	entryModel := ledgerEntryToModel(entry)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&entryModel).Error; err != nil {
		return r.errorClassifier.MapError(err, errs.ErrUserNotFound)
	}
	return nil
}

// List returns the user's entries matching the filter, newest first
func (r *LedgerRepository) List(ctx context.Context, userID uuid.UUID, filter persistence.LedgerFilter) ([]entity.LedgerEntry, error) {
	var entryModels []model.LedgerEntry
	if err := buildLedgerQuery(r.db.WithContext(ctx), userID, filter).Find(&entryModels).Error; err != nil {
		return nil, r.errorClassifier.MapError(err, errs.ErrUserNotFound)
	}
	return ledgerEntriesToEntities(entryModels), nil
}

// AllForUser returns every entry of the user in sequence order
func (r *LedgerRepository) AllForUser(ctx context.Context, userID uuid.UUID) ([]entity.LedgerEntry, error) {
	var entryModels []model.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("sequence ASC").
		Find(&entryModels).Error
	if err != nil {
		return nil, r.errorClassifier.MapError(err, errs.ErrUserNotFound)
	}
	return ledgerEntriesToEntities(entryModels), nil
}

func ledgerEntriesToEntities(models []model.LedgerEntry) []entity.LedgerEntry {
	entries := make([]entity.LedgerEntry, 0, len(models))
	for i := range models {
		entries = append(entries, ledgerEntryToEntity(&models[i]))
	}
	return entries
}
