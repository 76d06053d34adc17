package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/screen-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/model"
)

// BookingRepository implements persistence.BookingRepository using GORM
type BookingRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewBookingRepository creates a new BookingRepository instance
func NewBookingRepository(db *gorm.DB, logger coreport.Logger) *BookingRepository {
	return &BookingRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func activeStatuses() []string {
	statuses := make([]string, 0, len(entity.ActiveBookingStatuses))
	for _, s := range entity.ActiveBookingStatuses {
		statuses = append(statuses, string(s))
	}
	return statuses
}

// Create inserts a booking. The partial unique index on active slots rejects a double booking.
func (r *BookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	bookingModel := bookingToModel(booking)
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&bookingModel).Error
	if err != nil {
		mapped := r.errorClassifier.MapError(err, errs.ErrBookingNotFound)
		r.logger.Warn("Failed to insert booking", map[string]any{
			"booking_id": booking.ID.String(),
			"screen_id":  booking.ScreenID.String(),
			"slot_id":    booking.SlotID,
			"error":      err.Error(),
			"error_kind": string(errs.KindOf(mapped)),
		})
		return mapped
	}
	return nil
}

// GetByID retrieves a booking
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	var bookingModel model.Booking
	if err := r.db.WithContext(ctx).First(&bookingModel, "id = ?", id).Error; err != nil {
		return nil, r.errorClassifier.MapError(err, errs.ErrBookingNotFound)
	}
	booking := bookingToEntity(&bookingModel)
	return &booking, nil
}

// FindOverlapping returns slot-holding bookings of the screen overlapping [start, end)
func (r *BookingRepository) FindOverlapping(ctx context.Context, screenID uuid.UUID, start, end time.Time) ([]entity.Booking, error) {
	var bookingModels []model.Booking
	err := r.db.WithContext(ctx).
		Where("screen_id = ? AND status IN ? AND start_time < ? AND end_time > ?", screenID, activeStatuses(), end, start).
		Order("start_time ASC").
		Find(&bookingModels).Error
	if err != nil {
		return nil, r.errorClassifier.MapError(err, errs.ErrBookingNotFound)
	}
	return bookingsToEntities(bookingModels), nil
}

// ListByUser returns the user's bookings, most recent slot first
func (r *BookingRepository) ListByUser(ctx context.Context, userID uuid.UUID, page persistence.Page) ([]entity.Booking, error) {
	page = page.Normalize()
	var bookingModels []model.Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_time DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&bookingModels).Error
	if err != nil {
		return nil, r.errorClassifier.MapError(err, errs.ErrBookingNotFound)
	}
	return bookingsToEntities(bookingModels), nil
}

func bookingsToEntities(models []model.Booking) []entity.Booking {
	bookings := make([]entity.Booking, 0, len(models))
	for i := range models {
		bookings = append(bookings, bookingToEntity(&models[i]))
	}
	return bookings
}
