package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
)

// BookingStatus is the lifecycle state of a booking
type BookingStatus string

const (
	BookingUpcoming  BookingStatus = "upcoming"
	BookingActive    BookingStatus = "active"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// ActiveBookingStatuses are the statuses that hold a slot
var ActiveBookingStatuses = []BookingStatus{BookingUpcoming, BookingActive}

// HoldsSlot reports whether a booking in this status blocks overlapping bookings
func (s BookingStatus) HoldsSlot() bool {
	return s == BookingUpcoming || s == BookingActive
}

// Booking is one reservation. Price, times and display name are snapshots taken at creation.
type Booking struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	ScreenID          uuid.UUID
	SlotID            string
	StartTime         time.Time
	EndTime           time.Time
	Status            BookingStatus
	PricePaid         int64
	GamerTagAtBooking string
	CreatedAt         time.Time
}

// NewBooking creates an upcoming booking for a re-validated slot
func NewBooking(userID, screenID uuid.UUID, slot SlotRef, price int64, gamerTag string, now time.Time) (*Booking, error) {
	gamerTag = strings.TrimSpace(gamerTag)
	if gamerTag == "" {
		return nil, errs.Validation("display name is required")
	}
	if err := CheckLength("display name", gamerTag, MaxDisplayNameLength); err != nil {
		return nil, err
	}
	return &Booking{
		ID:                uuid.New(),
		UserID:            userID,
		ScreenID:          screenID,
		SlotID:            EncodeSlotID(slot.Start),
		StartTime:         slot.Start.UTC(),
		EndTime:           slot.End().UTC(),
		Status:            BookingUpcoming,
		PricePaid:         price,
		GamerTagAtBooking: gamerTag,
		CreatedAt:         now,
	}, nil
}

// OverlapsWindow reports whether the booking holds any part of [start, end)
func (b *Booking) OverlapsWindow(start, end time.Time) bool {
	return b.Status.HoldsSlot() && Overlaps(b.StartTime, b.EndTime, start, end)
}
