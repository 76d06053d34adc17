package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
)

// BookingRepository persists bookings
type BookingRepository interface {
	// Create inserts a booking
	//
	// Possible errors:
	// - ErrSlotTaken: If an upcoming or active booking already holds the slot
	Create(ctx context.Context, booking *entity.Booking) error

	// GetByID retrieves a booking
	//
	// Possible errors:
	// - ErrBookingNotFound: If booking doesn't exist
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)

	// FindOverlapping returns upcoming and active bookings of the screen that overlap [start, end),
	// ordered by start time. It is a single query.
	FindOverlapping(ctx context.Context, screenID uuid.UUID, start, end time.Time) ([]entity.Booking, error)

	// ListByUser returns the user's bookings, most recent slot first
	ListByUser(ctx context.Context, userID uuid.UUID, page Page) ([]entity.Booking, error)
}
