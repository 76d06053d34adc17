package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/database/testdb"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/repository"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newUser(t *testing.T, repos persistence.Repositories, handle string) *entity.User {
	t.Helper()
	user, err := entity.NewUser(handle, handle+"@example.com", "hash", entity.RoleUser, now)
	require.NoError(t, err)
	require.NoError(t, repos.Users().Create(context.Background(), user))
	return user
}

func newScreen(t *testing.T, repos persistence.Repositories, name string) *entity.Screen {
	t.Helper()
	screen, err := entity.NewScreen(name, 10000, []entity.PriceOverride{
		{DaysOfWeek: []time.Weekday{time.Saturday, time.Sunday}, StartMinute: 1080, EndMinute: 1440, Price: 15000},
		{DaysOfWeek: []time.Weekday{time.Monday}, StartMinute: 0, EndMinute: 60, Price: 0},
	}, now)
	require.NoError(t, err)
	require.NoError(t, repos.Screens().Create(context.Background(), screen))
	return screen
}

func TestRepositories_Postgres(t *testing.T) {
	db := testdb.Setup(t)
	ctx := context.Background()
	repos := repository.NewRepositories(db.DB, logger.NewNoopLogger())

	t.Run("Users", func(t *testing.T) {
		db.Truncate(t)
		user := newUser(t, repos, "Player.One")

		// Handles and emails are unique regardless of case
		dup, err := entity.NewUser("player.one", "other@example.com", "hash", entity.RoleUser, now)
		require.NoError(t, err)
		assert.ErrorIs(t, repos.Users().Create(ctx, dup), errs.ErrValidation)

		byHandle, err := repos.Users().GetByHandle(ctx, "Player.One")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byHandle.ID)

		_, err = repos.Users().GetByID(ctx, dup.ID)
		assert.ErrorIs(t, err, errs.ErrUserNotFound)

		_, err = user.ApplyLedgerMovement(2500, 3, now)
		require.NoError(t, err)
		require.NoError(t, repos.Users().SaveBalances(ctx, user))

		stored, err := repos.Users().GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2500), stored.WalletBalance())
		assert.Equal(t, int64(3), stored.LoyaltyPoints())
		assert.Equal(t, int64(1), stored.LedgerSequence)
	})

	t.Run("Screens keep override order", func(t *testing.T) {
		db.Truncate(t)
		screen := newScreen(t, repos, "Arena")

		stored, err := repos.Screens().GetByID(ctx, screen.ID)
		require.NoError(t, err)
		require.Len(t, stored.Overrides, 2)
		assert.Equal(t, []time.Weekday{time.Sunday, time.Saturday}, stored.Overrides[0].DaysOfWeek)
		assert.Equal(t, int64(15000), stored.Overrides[0].Price)
		assert.Equal(t, []time.Weekday{time.Monday}, stored.Overrides[1].DaysOfWeek)

		stored.Overrides = stored.Overrides[1:]
		stored.IsActive = false
		require.NoError(t, repos.Screens().Update(ctx, stored))

		updated, err := repos.Screens().GetByID(ctx, screen.ID)
		require.NoError(t, err)
		assert.False(t, updated.IsActive)
		require.Len(t, updated.Overrides, 1)
		assert.Equal(t, int64(0), updated.Overrides[0].Price)

		active, err := repos.Screens().List(ctx, true)
		require.NoError(t, err)
		assert.Empty(t, active)

		dup, err := entity.NewScreen("ARENA", 100, nil, now)
		require.NoError(t, err)
		assert.ErrorIs(t, repos.Screens().Create(ctx, dup), errs.ErrValidation)
	})

	t.Run("Bookings hold their slot", func(t *testing.T) {
		db.Truncate(t)
		first := newUser(t, repos, "first")
		second := newUser(t, repos, "second")
		screen := newScreen(t, repos, "Arena")
		slot, err := entity.ParseSlotID("v1-20240608-1930")
		require.NoError(t, err)

		booking, err := entity.NewBooking(first.ID, screen.ID, slot, 15000, "first", now)
		require.NoError(t, err)
		require.NoError(t, repos.Bookings().Create(ctx, booking))

		rival, err := entity.NewBooking(second.ID, screen.ID, slot, 15000, "second", now)
		require.NoError(t, err)
		assert.ErrorIs(t, repos.Bookings().Create(ctx, rival), errs.ErrSlotTaken)

		overlapping, err := repos.Bookings().FindOverlapping(ctx, screen.ID, slot.Start.Add(30*time.Minute), slot.End().Add(time.Hour))
		require.NoError(t, err)
		require.Len(t, overlapping, 1)
		assert.Equal(t, booking.ID, overlapping[0].ID)

		adjacent, err := repos.Bookings().FindOverlapping(ctx, screen.ID, slot.End(), slot.End().Add(time.Hour))
		require.NoError(t, err)
		assert.Empty(t, adjacent)

		mine, err := repos.Bookings().ListByUser(ctx, first.ID, persistence.Page{})
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, "v1-20240608-1930", mine[0].SlotID)
		assert.True(t, mine[0].StartTime.Equal(slot.Start))
	})

	t.Run("Ledger sequence is unique per user", func(t *testing.T) {
		db.Truncate(t)
		user := newUser(t, repos, "ledger")

		snap, err := user.ApplyLedgerMovement(1000, 0, now)
		require.NoError(t, err)
		entry := entity.NewLedgerEntry(user.ID, entity.EntryTopUp, 1000, snap, now)
		require.NoError(t, repos.Ledger().Append(ctx, entry))

		replay := entity.NewLedgerEntry(user.ID, entity.EntryTopUp, 1000, snap, now)
		assert.ErrorIs(t, repos.Ledger().Append(ctx, replay), errs.ErrConflict)

		entryType := entity.EntryTopUp
		listed, err := repos.Ledger().List(ctx, user.ID, persistence.LedgerFilter{Type: &entryType})
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, entry.ID, listed[0].ID)
		assert.Equal(t, int64(1000), listed[0].WalletBalanceAfter)
	})

	t.Run("Top-up history filters", func(t *testing.T) {
		db.Truncate(t)
		alice := newUser(t, repos, "alice_100%")
		bob := newUser(t, repos, "bob")
		admin, err := entity.NewUser("ops-lead", "ops@example.com", "hash", entity.RoleAdmin, now)
		require.NoError(t, err)
		require.NoError(t, repos.Users().Create(ctx, admin))

		pending, err := entity.NewTopUpRequest(alice.ID, 5000, entity.Receipt{Reference: "r-1"}, now)
		require.NoError(t, err)
		require.NoError(t, repos.TopUps().Create(ctx, pending))

		reviewed, err := entity.NewTopUpRequest(bob.ID, 7000, entity.Receipt{Reference: "r-2"}, now.Add(time.Hour))
		require.NoError(t, err)
		require.NoError(t, repos.TopUps().Create(ctx, reviewed))
		require.NoError(t, reviewed.Reject(admin.ID, "unreadable", now.Add(2*time.Hour)))
		require.NoError(t, repos.TopUps().SaveReview(ctx, reviewed))

		rejected := entity.TopUpRejected
		tests := []struct {
			name   string
			filter persistence.HistoryFilter
			want   []string
		}{
			{name: "everything newest first", filter: persistence.HistoryFilter{}, want: []string{"bob", "alice_100%"}},
			{name: "by status", filter: persistence.HistoryFilter{Status: &rejected}, want: []string{"bob"}},
			{name: "by reviewer", filter: persistence.HistoryFilter{AdminNameContains: "OPS"}, want: []string{"bob"}},
			{name: "wildcards are literal", filter: persistence.HistoryFilter{UserSearch: "_100%"}, want: []string{"alice_100%"}},
			{name: "percent alone matches nothing", filter: persistence.HistoryFilter{UserSearch: "%%"}, want: []string{}},
			{name: "injection is a plain string", filter: persistence.HistoryFilter{UserSearch: "x' OR '1'='1"}, want: []string{}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				views, err := repos.TopUps().History(ctx, tt.filter)
				require.NoError(t, err)

				handles := make([]string, 0, len(views))
				for _, v := range views {
					handles = append(handles, v.UserHandle)
				}
				assert.Equal(t, tt.want, handles)
			})
		}

		views, err := repos.TopUps().History(ctx, persistence.HistoryFilter{Status: &rejected})
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "ops-lead", views[0].ReviewerHandle)
		assert.Equal(t, entity.TopUpRejected, views[0].Request.Status())

		stillPending, err := repos.TopUps().ListByStatus(ctx, entity.TopUpPending, persistence.Page{})
		require.NoError(t, err)
		require.Len(t, stillPending, 1)
		assert.Equal(t, pending.ID, stillPending[0].ID)
	})
}
