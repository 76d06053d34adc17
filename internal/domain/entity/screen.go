package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
)

// MinutesPerDay bounds override time-of-day ranges
const MinutesPerDay = 24 * 60

// PriceOverride replaces a screen's base price on the given weekdays within [StartMinute, EndMinute)
// measured in minutes since UTC midnight.
type PriceOverride struct {
	DaysOfWeek  []time.Weekday
	StartMinute int
	EndMinute   int
	Price       int64
}

// Matches reports whether the override applies to the given weekday and minute of day
func (o PriceOverride) Matches(day time.Weekday, minute int) bool {
	if minute < o.StartMinute || minute >= o.EndMinute {
		return false
	}
	for _, d := range o.DaysOfWeek {
		if d == day {
			return true
		}
	}
	return false
}

// Validate rejects malformed overrides. Overlap with other overrides is allowed.
func (o PriceOverride) Validate() error {
	if len(o.DaysOfWeek) == 0 {
		return errs.Validation("override needs at least one day of week")
	}
	for _, d := range o.DaysOfWeek {
		if d < time.Sunday || d > time.Saturday {
			return errs.Validation("day of week %d is outside 0..6", d)
		}
	}
	if o.StartMinute < 0 || o.EndMinute > MinutesPerDay || o.StartMinute >= o.EndMinute {
		return errs.Validation("override window %d-%d is invalid", o.StartMinute, o.EndMinute)
	}
	if o.Price < 0 {
		return errs.Validation("override price cannot be negative")
	}
	return nil
}

// overlaps reports whether two overrides share at least one (weekday, minute)
func (o PriceOverride) overlaps(other PriceOverride) bool {
	if o.StartMinute >= other.EndMinute || other.StartMinute >= o.EndMinute {
		return false
	}
	for _, a := range o.DaysOfWeek {
		for _, b := range other.DaysOfWeek {
			if a == b {
				return true
			}
		}
	}
	return false
}

// Screen is a bookable resource
type Screen struct {
	ID        uuid.UUID
	Name      string
	BasePrice int64
	IsActive  bool
	Overrides []PriceOverride // evaluated in order, first match wins
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewScreen creates a validated, active screen
func NewScreen(name string, basePrice int64, overrides []PriceOverride, now time.Time) (*Screen, error) {
	s := &Screen{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		BasePrice: basePrice,
		IsActive:  true,
		Overrides: overrides,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the screen and each of its overrides
func (s *Screen) Validate() error {
	if s.Name == "" {
		return errs.Validation("screen name is required")
	}
	if err := CheckLength("screen name", s.Name, MaxScreenNameLength); err != nil {
		return err
	}
	if s.BasePrice < 0 {
		return errs.Validation("base price cannot be negative")
	}
	for i, o := range s.Overrides {
		if err := o.Validate(); err != nil {
			return fmt.Errorf("override %d: %w", i, err)
		}
	}
	return nil
}

// OverlappingOverrides lists index pairs of overrides that can match the same instant.
// The later override of each pair is shadowed there because the first match wins.
func (s *Screen) OverlappingOverrides() [][2]int {
	var pairs [][2]int
	for i := 0; i < len(s.Overrides); i++ {
		for j := i + 1; j < len(s.Overrides); j++ {
			if s.Overrides[i].overlaps(s.Overrides[j]) {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	return pairs
}
