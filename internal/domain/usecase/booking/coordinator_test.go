package booking

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/messaging"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/logger"
	mockmessaging "github.com/amirhossein-jamali/screen-booking/mocks/port/messaging"
)

func (f *fixture) coordinator(uow persistence.UnitOfWork, notifier messaging.Notifier) *Coordinator {
	return NewCoordinator(
		f.runner(uow),
		NewRevalidator(f.clock),
		f.wallet,
		notifier,
		f.clock,
		logger.NewNoopLogger(),
		DefaultLoyaltyPointsPerBooking,
	)
}

func sent() messaging.Result {
	return messaging.Result{Status: messaging.StatusSent}
}

func TestCoordinator_CreateBooking(t *testing.T) {
	t.Run("Successful booking debits wallet and awards points", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		user := f.newUser(t, "gamer", 12000)
		notifier := mockmessaging.NewMockNotifier(t)
		notifier.EXPECT().BookingConfirmed(mock.Anything, mock.MatchedBy(func(msg messaging.BookingConfirmed) bool {
			return msg.UserEmail == "gamer@example.com" && msg.SlotID == morningSlotID && msg.PricePaid == "100.00"
		})).Return(sent()).Once()

		// Act
		result, err := f.coordinator(f.uow, notifier).CreateBooking(context.Background(), f.request(user, morningSlotID, morningPrice))

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int64(2000), result.NewBalance)
		assert.Equal(t, int64(10), result.NewLoyaltyPoints)
		assert.Equal(t, entity.BookingUpcoming, result.Booking.Status)
		assert.Equal(t, morningPrice, result.Booking.PricePaid)
		assert.Equal(t, "gamer", result.Booking.GamerTagAtBooking)
		assert.Equal(t, entity.EntryBookingFee, result.Entry.Type)
		assert.Equal(t, int64(-10000), result.Entry.Amount)
		assert.Equal(t, &result.Booking.ID, result.Entry.BookingID)

		after := f.snapshot(t, user)
		assert.Equal(t, int64(2000), after.balance)
		assert.Equal(t, int64(10), after.points)
		require.Len(t, after.bookings, 1)
		require.Len(t, after.entries, 2)
		assert.Empty(t, entity.VerifyLedger(after.entries, after.balance, after.points))
	})

	t.Run("Weekend override price is charged", func(t *testing.T) {
		f := newFixture(t)
		user := f.newUser(t, "gamer", 20000)
		notifier := mockmessaging.NewMockNotifier(t)
		notifier.EXPECT().BookingConfirmed(mock.Anything, mock.Anything).Return(sent()).Once()

		result, err := f.coordinator(f.uow, notifier).CreateBooking(context.Background(), f.request(user, eveningSlotID, eveningPrice))

		require.NoError(t, err)
		assert.Equal(t, int64(5000), result.NewBalance)
	})

	t.Run("Insufficient funds writes nothing", func(t *testing.T) {
		f := newFixture(t)
		user := f.newUser(t, "gamer", 5000)
		before := f.snapshot(t, user)
		notifier := mockmessaging.NewMockNotifier(t)

		_, err := f.coordinator(f.uow, notifier).CreateBooking(context.Background(), f.request(user, morningSlotID, morningPrice))

		require.ErrorIs(t, err, errs.ErrInsufficientFunds)
		assert.Equal(t, before, f.snapshot(t, user))
		notifier.AssertNotCalled(t, "BookingConfirmed", mock.Anything, mock.Anything)
	})

	t.Run("Revalidation errors keep their kind", func(t *testing.T) {
		f := newFixture(t)
		user := f.newUser(t, "gamer", 50000)
		notifier := mockmessaging.NewMockNotifier(t)
		coordinator := f.coordinator(f.uow, notifier)

		_, err := coordinator.CreateBooking(context.Background(), f.request(user, eveningSlotID, morningPrice))
		assert.Equal(t, errs.KindPriceMismatch, errs.KindOf(err))

		req := f.request(user, morningSlotID, morningPrice)
		req.SlotID = eveningSlotID
		_, err = coordinator.CreateBooking(context.Background(), req)
		assert.Equal(t, errs.KindSlotMismatch, errs.KindOf(err))
	})

	t.Run("Invalid request", func(t *testing.T) {
		testCases := []struct {
			name   string
			modify func(req *Request)
		}{
			{"Blank display name", func(req *Request) { req.DisplayName = "  " }},
			{"Display name too long", func(req *Request) { req.DisplayName = strings.Repeat("x", entity.MaxDisplayNameLength+1) }},
			{"Missing slot id", func(req *Request) { req.SlotID = "" }},
			{"Negative price", func(req *Request) { req.ClaimedPrice = -1 }},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				f := newFixture(t)
				user := f.newUser(t, "gamer", 50000)
				before := f.snapshot(t, user)
				req := f.request(user, morningSlotID, morningPrice)
				tc.modify(&req)

				_, err := f.coordinator(f.uow, mockmessaging.NewMockNotifier(t)).CreateBooking(context.Background(), req)

				assert.ErrorIs(t, err, errs.ErrValidation)
				assert.Equal(t, before, f.snapshot(t, user))
			})
		}
	})

	t.Run("Notification failure does not fail the booking", func(t *testing.T) {
		f := newFixture(t)
		user := f.newUser(t, "gamer", 12000)
		notifier := mockmessaging.NewMockNotifier(t)
		notifier.EXPECT().BookingConfirmed(mock.Anything, mock.Anything).
			Return(messaging.Result{Status: messaging.StatusUnavailable, Err: errors.New("broker down")}).Once()

		result, err := f.coordinator(f.uow, notifier).CreateBooking(context.Background(), f.request(user, morningSlotID, morningPrice))

		require.NoError(t, err)
		assert.Equal(t, int64(2000), result.NewBalance)
	})

	t.Run("Same slot twice", func(t *testing.T) {
		f := newFixture(t)
		user := f.newUser(t, "gamer", 50000)
		notifier := mockmessaging.NewMockNotifier(t)
		notifier.EXPECT().BookingConfirmed(mock.Anything, mock.Anything).Return(sent()).Once()
		coordinator := f.coordinator(f.uow, notifier)

		_, err := coordinator.CreateBooking(context.Background(), f.request(user, morningSlotID, morningPrice))
		require.NoError(t, err)
		_, err = coordinator.CreateBooking(context.Background(), f.request(user, morningSlotID, morningPrice))

		assert.ErrorIs(t, err, errs.ErrSlotTaken)
		assert.Equal(t, int64(40000), f.snapshot(t, user).balance)
	})
}

func TestCoordinator_FaultInjection(t *testing.T) {
	// Arrange: the ledger append fails after the booking insert and the wallet update
	f := newFixture(t)
	user := f.newUser(t, "gamer", 12000)
	before := f.snapshot(t, user)
	faulty := &failingUnitOfWork{UnitOfWork: f.uow, appendErr: errs.ErrInternal}
	notifier := mockmessaging.NewMockNotifier(t)

	// Act
	_, err := f.coordinator(faulty, notifier).CreateBooking(context.Background(), f.request(user, morningSlotID, morningPrice))

	// Assert
	require.ErrorIs(t, err, errs.ErrInternal)
	assert.Equal(t, before, f.snapshot(t, user))

	ref, _ := entity.ParseSlotID(morningSlotID)
	ctx := context.Background()
	overlapping, err := f.uow.Repositories(ctx).Bookings().FindOverlapping(ctx, f.screen.ID, ref.Start, ref.End())
	require.NoError(t, err)
	assert.Empty(t, overlapping)
}

func TestCoordinator_ConcurrentBookingsOfOneSlot(t *testing.T) {
	testCases := []struct {
		name       string
		contenders int
	}{
		{"Two contenders", 2},
		{"Many contenders", 8},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			f := newFixture(t)
			users := make([]*entity.User, tc.contenders)
			for i := range users {
				users[i] = f.newUser(t, "gamer"+string(rune('a'+i)), 20000)
			}
			notifier := mockmessaging.NewMockNotifier(t)
			notifier.EXPECT().BookingConfirmed(mock.Anything, mock.Anything).Return(sent()).Once()
			coordinator := f.coordinator(newCommitBarrier(f.uow, tc.contenders), notifier)

			// Act
			errsCh := make(chan error, tc.contenders)
			var wg sync.WaitGroup
			for _, u := range users {
				wg.Add(1)
				go func(u *entity.User) {
					defer wg.Done()
					_, err := coordinator.CreateBooking(context.Background(), f.request(u, eveningSlotID, eveningPrice))
					errsCh <- err
				}(u)
			}
			wg.Wait()
			close(errsCh)

			// Assert
			successes, taken := 0, 0
			for err := range errsCh {
				switch {
				case err == nil:
					successes++
				case errors.Is(err, errs.ErrSlotTaken):
					taken++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}
			assert.Equal(t, 1, successes)
			assert.Equal(t, tc.contenders-1, taken)

			ref, _ := entity.ParseSlotID(eveningSlotID)
			ctx := context.Background()
			overlapping, err := f.uow.Repositories(ctx).Bookings().FindOverlapping(ctx, f.screen.ID, ref.Start, ref.End())
			require.NoError(t, err)
			assert.Len(t, overlapping, 1)

			for _, u := range users {
				s := f.snapshot(t, u)
				assert.Empty(t, entity.VerifyLedger(s.entries, s.balance, s.points))
			}
		})
	}
}
