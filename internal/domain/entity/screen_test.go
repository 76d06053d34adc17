package entity

import (
	"strings"
	"testing"
	"time"

	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func weekendEvening() PriceOverride {
	return PriceOverride{
		DaysOfWeek:  []time.Weekday{time.Friday, time.Saturday},
		StartMinute: 18 * 60,
		EndMinute:   22 * 60,
		Price:       15000,
	}
}

func TestPriceOverrideMatches(t *testing.T) {
	o := weekendEvening()

	assert.True(t, o.Matches(time.Saturday, 19*60))
	assert.True(t, o.Matches(time.Friday, 18*60))
	assert.False(t, o.Matches(time.Friday, 22*60), "end is exclusive")
	assert.False(t, o.Matches(time.Sunday, 19*60))
	assert.False(t, o.Matches(time.Saturday, 10*60))
}

func TestPriceOverrideValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(o *PriceOverride)
	}{
		{"No days", func(o *PriceOverride) { o.DaysOfWeek = nil }},
		{"Day out of range", func(o *PriceOverride) { o.DaysOfWeek = []time.Weekday{7} }},
		{"Start after end", func(o *PriceOverride) { o.StartMinute, o.EndMinute = 600, 540 }},
		{"Empty window", func(o *PriceOverride) { o.EndMinute = o.StartMinute }},
		{"Negative start", func(o *PriceOverride) { o.StartMinute = -1 }},
		{"End past midnight", func(o *PriceOverride) { o.EndMinute = MinutesPerDay + 1 }},
		{"Negative price", func(o *PriceOverride) { o.Price = -1 }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			o := weekendEvening()
			tc.mutate(&o)
			assert.ErrorIs(t, o.Validate(), errs.ErrValidation)
		})
	}

	t.Run("Whole day is valid", func(t *testing.T) {
		o := weekendEvening()
		o.StartMinute, o.EndMinute = 0, MinutesPerDay
		assert.NoError(t, o.Validate())
	})
}

func TestNewScreen(t *testing.T) {
	t.Run("Valid screen", func(t *testing.T) {
		s, err := NewScreen("  Screen 1 ", 10000, []PriceOverride{weekendEvening()}, now)
		require.NoError(t, err)
		assert.Equal(t, "Screen 1", s.Name)
		assert.True(t, s.IsActive)
		assert.Equal(t, now, s.CreatedAt)
	})

	t.Run("Blank name", func(t *testing.T) {
		_, err := NewScreen(" ", 10000, nil, now)
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("Name too long", func(t *testing.T) {
		_, err := NewScreen(strings.Repeat("s", MaxScreenNameLength+1), 10000, nil, now)
		require.ErrorIs(t, err, errs.ErrValidation)
		assert.Contains(t, err.Error(), "screen name")
	})

	t.Run("Malformed override is reported with its index", func(t *testing.T) {
		bad := weekendEvening()
		bad.DaysOfWeek = nil
		_, err := NewScreen("Screen 1", 10000, []PriceOverride{weekendEvening(), bad}, now)
		require.ErrorIs(t, err, errs.ErrValidation)
		assert.Contains(t, err.Error(), "override 1")
	})
}

func TestOverlappingOverrides(t *testing.T) {
	late := PriceOverride{DaysOfWeek: []time.Weekday{time.Saturday}, StartMinute: 21 * 60, EndMinute: 23 * 60, Price: 20000}
	morning := PriceOverride{DaysOfWeek: []time.Weekday{time.Saturday}, StartMinute: 8 * 60, EndMinute: 12 * 60, Price: 8000}
	sundayEvening := PriceOverride{DaysOfWeek: []time.Weekday{time.Sunday}, StartMinute: 18 * 60, EndMinute: 22 * 60, Price: 12000}

	s, err := NewScreen("Screen 1", 10000, []PriceOverride{weekendEvening(), morning, sundayEvening, late}, now)
	require.NoError(t, err)

	assert.Equal(t, [][2]int{{0, 3}}, s.OverlappingOverrides())
}
