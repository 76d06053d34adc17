package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/persistence"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func seedUser(t *testing.T, uow *UnitOfWork, handle string, balance int64) *entity.User {
	t.Helper()
	u, err := entity.NewUser(handle, handle+"@example.com", "hash", entity.RoleUser, now)
	require.NoError(t, err)
	u = entity.RestoreUser(*u, balance, 0)
	require.NoError(t, uow.Repositories(context.Background()).Users().Create(context.Background(), u))
	return u
}

func TestUnitOfWork_Isolation(t *testing.T) {
	ctx := context.Background()
	uow := NewUnitOfWork(NewStore())
	user := seedUser(t, uow, "gamer", 1000)

	t.Run("Uncommitted writes are invisible", func(t *testing.T) {
		txCtx, err := uow.Begin(ctx)
		require.NoError(t, err)

		u, err := uow.Repositories(txCtx).Users().GetByIDForUpdate(txCtx, user.ID)
		require.NoError(t, err)
		_, err = u.ApplyLedgerMovement(500, 0, now)
		require.NoError(t, err)
		require.NoError(t, uow.Repositories(txCtx).Users().SaveBalances(txCtx, u))

		outside, err := uow.Repositories(ctx).Users().GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), outside.WalletBalance())

		require.NoError(t, uow.Rollback(txCtx))

		after, err := uow.Repositories(ctx).Users().GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), after.WalletBalance())
	})

	t.Run("Concurrent writers conflict", func(t *testing.T) {
		first, err := uow.Begin(ctx)
		require.NoError(t, err)
		second, err := uow.Begin(ctx)
		require.NoError(t, err)

		for _, txCtx := range []context.Context{first, second} {
			u, err := uow.Repositories(txCtx).Users().GetByIDForUpdate(txCtx, user.ID)
			require.NoError(t, err)
			_, err = u.ApplyLedgerMovement(-100, 0, now)
			require.NoError(t, err)
			require.NoError(t, uow.Repositories(txCtx).Users().SaveBalances(txCtx, u))
		}

		require.NoError(t, uow.Commit(first))
		assert.ErrorIs(t, uow.Commit(second), errs.ErrConflict)

		u, err := uow.Repositories(ctx).Users().GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(900), u.WalletBalance())
	})

	t.Run("Commit twice fails", func(t *testing.T) {
		txCtx, err := uow.Begin(ctx)
		require.NoError(t, err)
		require.NoError(t, uow.Commit(txCtx))
		assert.Error(t, uow.Commit(txCtx))
		assert.NoError(t, uow.Rollback(txCtx))
	})
}

func TestBookingRepository(t *testing.T) {
	ctx := context.Background()
	uow := NewUnitOfWork(NewStore())
	user := seedUser(t, uow, "gamer", 0)
	screen, err := entity.NewScreen("Screen 1", 10000, nil, now)
	require.NoError(t, err)
	require.NoError(t, uow.Repositories(ctx).Screens().Create(ctx, screen))

	ref, err := entity.ParseSlotID("v1-20240608-1930")
	require.NoError(t, err)
	newBooking := func() *entity.Booking {
		b, err := entity.NewBooking(user.ID, screen.ID, ref, 10000, "gamer", now)
		require.NoError(t, err)
		return b
	}

	t.Run("Overlapping insert is rejected", func(t *testing.T) {
		repo := uow.Repositories(ctx).Bookings()
		require.NoError(t, repo.Create(ctx, newBooking()))
		assert.ErrorIs(t, repo.Create(ctx, newBooking()), errs.ErrSlotTaken)
	})

	t.Run("Concurrent inserts of one slot", func(t *testing.T) {
		other, err := entity.ParseSlotID("v1-20240608-2030")
		require.NoError(t, err)

		first, _ := uow.Begin(ctx)
		second, _ := uow.Begin(ctx)
		for _, txCtx := range []context.Context{first, second} {
			b, err := entity.NewBooking(user.ID, screen.ID, other, 10000, "gamer", now)
			require.NoError(t, err)
			require.NoError(t, uow.Repositories(txCtx).Bookings().Create(txCtx, b))
		}

		require.NoError(t, uow.Commit(first))
		assert.ErrorIs(t, uow.Commit(second), errs.ErrConflict)

		found, err := uow.Repositories(ctx).Bookings().FindOverlapping(ctx, screen.ID, other.Start, other.End())
		require.NoError(t, err)
		assert.Len(t, found, 1)
	})

	t.Run("Listing by user is paged newest first", func(t *testing.T) {
		list, err := uow.Repositories(ctx).Bookings().ListByUser(ctx, user.ID, persistence.Page{Limit: 1})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "v1-20240608-2030", list[0].SlotID)
	})
}

func TestTopUpRepository_History(t *testing.T) {
	ctx := context.Background()
	uow := NewUnitOfWork(NewStore())
	repos := uow.Repositories(ctx)
	alice := seedUser(t, uow, "alice", 0)
	bob := seedUser(t, uow, "bob", 0)
	admin := seedUser(t, uow, "root-admin", 0)

	submit := func(u *entity.User, at time.Time) *entity.TopUpRequest {
		req, err := entity.NewTopUpRequest(u.ID, 5000, entity.Receipt{Reference: "r"}, at)
		require.NoError(t, err)
		require.NoError(t, repos.TopUps().Create(ctx, req))
		return req
	}
	a1 := submit(alice, now)
	submit(alice, now.Add(time.Hour))
	b1 := submit(bob, now.Add(2*time.Hour))

	require.NoError(t, a1.Approve(admin.ID, uuid.New(), "", now))
	require.NoError(t, repos.TopUps().SaveReview(ctx, a1))
	require.NoError(t, b1.Reject(admin.ID, "blurry", now))
	require.NoError(t, repos.TopUps().SaveReview(ctx, b1))

	approved := entity.TopUpApproved
	from := now.Add(30 * time.Minute)

	testCases := []struct {
		name     string
		filter   persistence.HistoryFilter
		expected int
	}{
		{"No filter", persistence.HistoryFilter{}, 3},
		{"User search by handle", persistence.HistoryFilter{UserSearch: "ALI"}, 2},
		{"User search by email", persistence.HistoryFilter{UserSearch: "bob@"}, 1},
		{"Admin name", persistence.HistoryFilter{AdminNameContains: "admin"}, 2},
		{"Status", persistence.HistoryFilter{Status: &approved}, 1},
		{"Date range", persistence.HistoryFilter{From: &from}, 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			views, err := repos.TopUps().History(ctx, tc.filter)
			require.NoError(t, err)
			assert.Len(t, views, tc.expected)
		})
	}

	pending, err := repos.TopUps().ListByStatus(ctx, entity.TopUpPending, persistence.Page{})
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}
