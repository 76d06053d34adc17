package entity

import (
	"time"
)

// Slot grid: one-hour slots starting at the half hour, all in UTC
const (
	SlotDuration    = time.Hour
	SlotStartMinute = 30
	SlotsPerDay     = 24
)

// DateLayout is the wire format of a calendar date
const DateLayout = "2006-01-02"

// Slot is one bookable window of a screen on a given date
type Slot struct {
	ID          string
	Start       time.Time
	End         time.Time
	Price       int64
	IsAvailable bool
}

// ParseDate parses a YYYY-MM-DD calendar date as UTC midnight
func ParseDate(date string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, date, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return d, nil
}

// TruncateToDate returns UTC midnight of the instant's calendar day
func TruncateToDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaySlotStarts returns the ordered slot start instants of a date
func DaySlotStarts(date time.Time) []time.Time {
	day := TruncateToDate(date)
	starts := make([]time.Time, 0, SlotsPerDay)
	for h := 0; h < SlotsPerDay; h++ {
		starts = append(starts, day.Add(time.Duration(h)*time.Hour+SlotStartMinute*time.Minute))
	}
	return starts
}

// OnSlotGrid reports whether start is a canonical slot start
func OnSlotGrid(start time.Time) bool {
	start = start.UTC()
	return start.Minute() == SlotStartMinute && start.Second() == 0 && start.Nanosecond() == 0
}

// Overlaps is the half-open interval overlap test
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}
