package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
)

func TestDaysMask(t *testing.T) {
	days := []time.Weekday{time.Sunday, time.Wednesday, time.Saturday}

	mask := daysToMask(days)

	assert.Equal(t, int16(1|1<<3|1<<6), mask)
	assert.Equal(t, days, maskToDays(mask))
	assert.Empty(t, maskToDays(0))
}

func TestScreenMapping(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	screen, err := entity.NewScreen("Arena", 10000, []entity.PriceOverride{
		{DaysOfWeek: []time.Weekday{time.Sunday, time.Saturday}, StartMinute: 1080, EndMinute: 1380, Price: 15000},
		{DaysOfWeek: []time.Weekday{time.Monday}, StartMinute: 0, EndMinute: 60, Price: 0},
	}, now)
	require.NoError(t, err)

	m := screenToModel(screen)
	require.Len(t, m.Overrides, 2)
	assert.Equal(t, 0, m.Overrides[0].Position)
	assert.Equal(t, 1, m.Overrides[1].Position)
	assert.Equal(t, screen.ID, m.Overrides[1].ScreenID)

	assert.Equal(t, screen, screenToEntity(&m))
}

func TestTopUpMapping(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	request, err := entity.NewTopUpRequest(uuid.New(), 50000, entity.Receipt{Reference: "r/1.png", MimeType: "image/png"}, now)
	require.NoError(t, err)

	t.Run("Pending", func(t *testing.T) {
		m := topUpToModel(request)
		assert.Equal(t, "pending", m.Status)
		assert.Nil(t, m.ReviewedBy)
		assert.Equal(t, *request, topUpToEntity(&m))
	})

	t.Run("Approved", func(t *testing.T) {
		approved := *request
		require.NoError(t, approved.Approve(uuid.New(), uuid.New(), "ok", now.Add(time.Hour)))

		m := topUpToModel(&approved)
		assert.Equal(t, "approved", m.Status)
		assert.NotNil(t, m.LedgerEntryID)
		assert.Equal(t, approved, topUpToEntity(&m))
	})

	t.Run("Rejected", func(t *testing.T) {
		rejected := *request
		require.NoError(t, rejected.Reject(uuid.New(), "blurry", now.Add(time.Hour)))

		m := topUpToModel(&rejected)
		assert.Equal(t, "rejected", m.Status)
		assert.Nil(t, m.LedgerEntryID)
		assert.Equal(t, rejected, topUpToEntity(&m))
	})
}
