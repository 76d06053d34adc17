package dto

import (
	"time"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/availability"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/catalog"
)

// PriceOverride is a pricing rule. Days are 0 (Sunday) to 6, minutes count from midnight UTC.
type PriceOverride struct {
	DaysOfWeek  []int  `json:"daysOfWeek"`
	StartMinute int    `json:"startMinute"`
	EndMinute   int    `json:"endMinute"`
	Price       string `json:"price"`
}

// ScreenRequest creates a screen
type ScreenRequest struct {
	Name      string          `json:"name" binding:"required"`
	BasePrice string          `json:"basePrice" binding:"required"`
	Overrides []PriceOverride `json:"overrides"`
}

// ScreenUpdateRequest changes a screen. Omitted fields keep their value.
type ScreenUpdateRequest struct {
	Name      *string          `json:"name"`
	BasePrice *string          `json:"basePrice"`
	IsActive  *bool            `json:"isActive"`
	Overrides *[]PriceOverride `json:"overrides"`
}

// ScreenResponse represents a screen
type ScreenResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	BasePrice string          `json:"basePrice"`
	IsActive  bool            `json:"isActive"`
	Overrides []PriceOverride `json:"overrides"`
}

// OverrideWarning reports two overrides that match the same instant
type OverrideWarning struct {
	Winner   int    `json:"winner"`
	Shadowed int    `json:"shadowed"`
	Message  string `json:"message"`
}

// SavedScreenResponse is a stored screen with validation warnings
type SavedScreenResponse struct {
	Screen   ScreenResponse    `json:"screen"`
	Warnings []OverrideWarning `json:"warnings"`
}

// SlotResponse is one bookable hour
type SlotResponse struct {
	SlotID      string    `json:"slotId"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Price       string    `json:"price"`
	IsAvailable bool      `json:"isAvailable"`
}

// AvailabilityResponse is the slot grid of one screen on one date
type AvailabilityResponse struct {
	ScreenID   string         `json:"screenId"`
	ScreenName string         `json:"screenName"`
	Date       string         `json:"date"`
	Slots      []SlotResponse `json:"slots"`
}

// ToOverrides converts request overrides, parsing prices and weekdays
func ToOverrides(in []PriceOverride) ([]entity.PriceOverride, error) {
	out := make([]entity.PriceOverride, 0, len(in))
	for _, o := range in {
		price, err := entity.ParseAmount(o.Price)
		if err != nil {
			return nil, err
		}
		days := make([]time.Weekday, 0, len(o.DaysOfWeek))
		for _, d := range o.DaysOfWeek {
			days = append(days, time.Weekday(d))
		}
		out = append(out, entity.PriceOverride{
			DaysOfWeek:  days,
			StartMinute: o.StartMinute,
			EndMinute:   o.EndMinute,
			Price:       price,
		})
	}
	return out, nil
}

// NewScreenResponse converts a screen entity
func NewScreenResponse(s *entity.Screen) ScreenResponse {
	overrides := make([]PriceOverride, 0, len(s.Overrides))
	for _, o := range s.Overrides {
		days := make([]int, 0, len(o.DaysOfWeek))
		for _, d := range o.DaysOfWeek {
			days = append(days, int(d))
		}
		overrides = append(overrides, PriceOverride{
			DaysOfWeek:  days,
			StartMinute: o.StartMinute,
			EndMinute:   o.EndMinute,
			Price:       entity.FormatAmount(o.Price),
		})
	}
	return ScreenResponse{
		ID:        s.ID.String(),
		Name:      s.Name,
		BasePrice: entity.FormatAmount(s.BasePrice),
		IsActive:  s.IsActive,
		Overrides: overrides,
	}
}

// NewSavedScreenResponse converts a catalog result
func NewSavedScreenResponse(saved *catalog.Saved) SavedScreenResponse {
	warnings := make([]OverrideWarning, 0, len(saved.Warnings))
	for _, w := range saved.Warnings {
		warnings = append(warnings, OverrideWarning{
			Winner:   w.Winner,
			Shadowed: w.Shadowed,
			Message:  "overrides overlap; the earlier one wins where both match",
		})
	}
	return SavedScreenResponse{Screen: NewScreenResponse(saved.Screen), Warnings: warnings}
}

// NewAvailabilityResponse converts a day grid
func NewAvailabilityResponse(day *availability.DayAvailability) AvailabilityResponse {
	slots := make([]SlotResponse, 0, len(day.Slots))
	for _, s := range day.Slots {
		slots = append(slots, SlotResponse{
			SlotID:      s.ID,
			StartTime:   s.Start.UTC(),
			EndTime:     s.End.UTC(),
			Price:       entity.FormatAmount(s.Price),
			IsAvailable: s.IsAvailable,
		})
	}
	return AvailabilityResponse{
		ScreenID:   day.ScreenID.String(),
		ScreenName: day.ScreenName,
		Date:       day.Date.Format(entity.DateLayout),
		Slots:      slots,
	}
}
