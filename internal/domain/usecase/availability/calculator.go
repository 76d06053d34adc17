package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/screen-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/pricing"
)

// DayAvailability is the slot grid of one screen on one date
type DayAvailability struct {
	ScreenID   uuid.UUID
	ScreenName string
	Date       time.Time
	Slots      []entity.Slot
}

// RepositoryProvider hands out repositories bound to ctx
type RepositoryProvider interface {
	Repositories(ctx context.Context) persistence.Repositories
}

// Calculator computes slot availability
type Calculator struct {
	repos  RepositoryProvider
	clock  coreport.TimeProvider
	logger coreport.Logger
}

// NewCalculator creates a new availability calculator
func NewCalculator(repos RepositoryProvider, clock coreport.TimeProvider, logger coreport.Logger) *Calculator {
	return &Calculator{repos: repos, clock: clock, logger: logger}
}

// ForDate returns every slot of the screen on date (YYYY-MM-DD, UTC) with its price and availability.
// Bookings of the whole day window are read with a single query.
//
// Possible errors:
// - ErrValidation: If the date is malformed
// - ErrScreenNotFound: If the screen doesn't exist
// - ErrScreenInactive: If the screen is disabled
func (c *Calculator) ForDate(ctx context.Context, screenID uuid.UUID, date string) (*DayAvailability, error) {
	day, err := entity.ParseDate(date)
	if err != nil {
		return nil, errs.Validation("date %q is not YYYY-MM-DD", date)
	}

	repos := c.repos.Repositories(ctx)
	screen, err := repos.Screens().GetByID(ctx, screenID)
	if err != nil {
		return nil, err
	}
	if !screen.IsActive {
		return nil, errs.ErrScreenInactive
	}

	starts := entity.DaySlotStarts(day)
	windowStart := starts[0]
	windowEnd := starts[len(starts)-1].Add(entity.SlotDuration)

	bookings, err := repos.Bookings().FindOverlapping(ctx, screen.ID, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}

	now := c.clock.Now()
	slots := make([]entity.Slot, 0, len(starts))
	for _, start := range starts {
		end := start.Add(entity.SlotDuration)
		slots = append(slots, entity.Slot{
			ID:          entity.EncodeSlotID(start),
			Start:       start,
			End:         end,
			Price:       pricing.Resolve(start, screen),
			IsAvailable: end.After(now) && !overlapsAny(bookings, start, end),
		})
	}

	c.logger.Debug("Availability computed", map[string]any{
		"screen_id": screen.ID.String(),
		"date":      date,
		"bookings":  len(bookings),
	})

	return &DayAvailability{
		ScreenID:   screen.ID,
		ScreenName: screen.Name,
		Date:       day,
		Slots:      slots,
	}, nil
}

func overlapsAny(bookings []entity.Booking, start, end time.Time) bool {
	for i := range bookings {
		if bookings[i].OverlapsWindow(start, end) {
			return true
		}
	}
	return false
}
