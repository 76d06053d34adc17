package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
)

func weekendScreen() *entity.Screen {
	return &entity.Screen{
		Name:      "Screen 1",
		BasePrice: 10000,
		IsActive:  true,
		Overrides: []entity.PriceOverride{
			{DaysOfWeek: []time.Weekday{time.Friday, time.Saturday}, StartMinute: 18 * 60, EndMinute: 22 * 60, Price: 15000},
		},
	}
}

func TestResolve(t *testing.T) {
	screen := weekendScreen()

	testCases := []struct {
		name     string
		start    time.Time
		expected int64
	}{
		{"Saturday evening uses override", time.Date(2024, 6, 8, 19, 0, 0, 0, time.UTC), 15000},
		{"Saturday morning uses base price", time.Date(2024, 6, 8, 10, 0, 0, 0, time.UTC), 10000},
		{"Override start is inclusive", time.Date(2024, 6, 7, 18, 0, 0, 0, time.UTC), 15000},
		{"Override end is exclusive", time.Date(2024, 6, 7, 22, 0, 0, 0, time.UTC), 10000},
		{"Other weekday uses base price", time.Date(2024, 6, 9, 19, 30, 0, 0, time.UTC), 10000},
		{"Non-UTC input is normalised", time.Date(2024, 6, 8, 22, 0, 0, 0, time.FixedZone("UTC+3", 3*3600)), 15000},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Resolve(tc.start, screen))
		})
	}
}

func TestResolveFirstMatchWins(t *testing.T) {
	screen := weekendScreen()
	screen.Overrides = append(screen.Overrides, entity.PriceOverride{
		DaysOfWeek: []time.Weekday{time.Saturday}, StartMinute: 0, EndMinute: entity.MinutesPerDay, Price: 12000,
	})
	start := time.Date(2024, 6, 8, 19, 30, 0, 0, time.UTC)

	assert.Equal(t, int64(15000), Resolve(start, screen))

	// Reordering changes the winner
	screen.Overrides[0], screen.Overrides[1] = screen.Overrides[1], screen.Overrides[0]
	assert.Equal(t, int64(12000), Resolve(start, screen))
}

func TestResolveIsDeterministic(t *testing.T) {
	screen := weekendScreen()
	copied := *screen

	for _, start := range entity.DaySlotStarts(time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)) {
		assert.Equal(t, Resolve(start, screen), Resolve(start, &copied))
		assert.Equal(t, Resolve(start, screen), Resolve(start, screen))
	}
}
