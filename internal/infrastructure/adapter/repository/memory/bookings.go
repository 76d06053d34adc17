package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/persistence"
)

type bookingRepository struct {
	*repositories
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	return r.run(func(t *tx) error {
		t.read(screenBookingsKey(booking.ScreenID))
		if booking.Status.HoldsSlot() {
			for _, other := range t.data.bookings {
				if other.ScreenID == booking.ScreenID && other.OverlapsWindow(booking.StartTime, booking.EndTime) {
					return errs.ErrSlotTaken
				}
			}
		}

		id := booking.ID
		t.data.bookings[id] = *booking
		t.write(bookingKey(id), func(dst *state) { dst.bookings[id] = t.data.bookings[id] })
		t.write(screenBookingsKey(booking.ScreenID), nil)
		t.write(userBookingsKey(booking.UserID), nil)
		return nil
	})
}

func (r *bookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	var booking *entity.Booking
	err := r.run(func(t *tx) error {
		t.read(bookingKey(id))
		b, ok := t.data.bookings[id]
		if !ok {
			return errs.ErrBookingNotFound
		}
		booking = &b
		return nil
	})
	return booking, err
}

func (r *bookingRepository) FindOverlapping(ctx context.Context, screenID uuid.UUID, start, end time.Time) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := r.run(func(t *tx) error {
		t.read(screenBookingsKey(screenID))
		for _, b := range t.data.bookings {
			if b.ScreenID == screenID && b.OverlapsWindow(start, end) {
				bookings = append(bookings, b)
			}
		}
		return nil
	})
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].StartTime.Before(bookings[j].StartTime) })
	return bookings, err
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID uuid.UUID, page persistence.Page) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := r.run(func(t *tx) error {
		t.read(userBookingsKey(userID))
		for _, b := range t.data.bookings {
			if b.UserID == userID {
				bookings = append(bookings, b)
			}
		}
		return nil
	})
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].StartTime.After(bookings[j].StartTime) })
	return paginate(bookings, page), err
}

func paginate[T any](items []T, page persistence.Page) []T {
	page = page.Normalize()
	if page.Offset >= len(items) {
		return nil
	}
	items = items[page.Offset:]
	if len(items) > page.Limit {
		items = items[:page.Limit]
	}
	return items
}
