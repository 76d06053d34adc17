package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/screen-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/model"
)

// UserRepository implements persistence.UserRepository using GORM
type UserRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db *gorm.DB, logger coreport.Logger) *UserRepository {
	return &UserRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// handleDatabaseError standardizes database error handling
func (r *UserRepository) handleDatabaseError(operation string, err error, userID uuid.UUID) error {
	mapped := r.errorClassifier.MapError(err, errs.ErrUserNotFound)
	if errs.KindOf(mapped) == errs.KindInternal {
		r.logger.Error("Database error when "+operation, map[string]any{
			"user_id": userID.String(),
			"error":   err.Error(),
		})
	}
	return mapped
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userModel model.User
	if err := r.db.WithContext(ctx).First(&userModel, "id = ?", id).Error; err != nil {
		return nil, r.handleDatabaseError("getting user", err, id)
	}
	return userToEntity(&userModel), nil
}

// GetByIDForUpdate retrieves a user with SELECT ... FOR UPDATE
func (r *UserRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userModel model.User
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&userModel, "id = ?", id).Error
	if err != nil {
		return nil, r.handleDatabaseError("locking user", err, id)
	}

	r.logger.Debug("User row locked", map[string]any{
		"user_id":         id.String(),
		"ledger_sequence": userModel.LedgerSequence,
	})
	return userToEntity(&userModel), nil
}

// GetByHandle retrieves a user by handle, ignoring case
func (r *UserRepository) GetByHandle(ctx context.Context, handle string) (*entity.User, error) {
	var userModel model.User
	if err := r.db.WithContext(ctx).Where("lower(handle) = lower(?)", handle).First(&userModel).Error; err != nil {
		return nil, r.handleDatabaseError("getting user by handle", err, uuid.Nil)
	}
	return userToEntity(&userModel), nil
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	userModel := userToModel(user)
	if err := r.db.WithContext(ctx).Create(&userModel).Error; err != nil {
		return r.handleDatabaseError("creating user", err, user.ID)
	}

	r.logger.Debug("User created", map[string]any{
		"user_id": user.ID.String(),
		"handle":  user.Handle,
	})
	return nil
}

// SaveBalances persists wallet, points and ledger sequence
func (r *UserRepository) SaveBalances(ctx context.Context, user *entity.User) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"wallet_balance":  user.WalletBalance(),
			"loyalty_points":  user.LoyaltyPoints(),
			"ledger_sequence": user.LedgerSequence,
			"updated_at":      user.UpdatedAt,
		})
	if result.Error != nil {
		return r.handleDatabaseError("saving balances", result.Error, user.ID)
	}
	if result.RowsAffected == 0 {
		return errs.ErrUserNotFound
	}
	return nil
}
