package wallet

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/repository/memory"
	timeadapter "github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/time"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T, balance int64) (*Ledger, *memory.UnitOfWork, *entity.User) {
	t.Helper()
	uow := memory.NewUnitOfWork(memory.NewStore())
	user, err := entity.NewUser("gamer", "gamer@example.com", "hash", entity.RoleUser, now)
	require.NoError(t, err)
	require.NoError(t, uow.Repositories(context.Background()).Users().Create(context.Background(), user))

	ledger := NewLedger(timeadapter.NewFixedTimeProvider(now), logger.NewNoopLogger())
	if balance > 0 {
		require.NoError(t, inTx(t, uow, func(ctx context.Context, repos persistence.Repositories) error {
			_, err := ledger.Credit(ctx, repos, user.ID, balance, EntryOptions{Type: entity.EntryTopUp})
			return err
		}))
	}
	return ledger, uow, user
}

func inTx(t *testing.T, uow *memory.UnitOfWork, fn func(ctx context.Context, repos persistence.Repositories) error) error {
	t.Helper()
	ctx, err := uow.Begin(context.Background())
	require.NoError(t, err)
	if err := fn(ctx, uow.Repositories(ctx)); err != nil {
		require.NoError(t, uow.Rollback(ctx))
		return err
	}
	return uow.Commit(ctx)
}

func TestLedger_Debit(t *testing.T) {
	t.Run("Debit with loyalty award", func(t *testing.T) {
		// Arrange
		ledger, uow, user := setup(t, 12000)
		bookingID := uuid.New()

		// Act
		var movement *Movement
		err := inTx(t, uow, func(ctx context.Context, repos persistence.Repositories) error {
			var err error
			movement, err = ledger.Debit(ctx, repos, user.ID, 10000, EntryOptions{
				Type:          entity.EntryBookingFee,
				LoyaltyPoints: 10,
				BookingID:     &bookingID,
			})
			return err
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int64(-10000), movement.Entry.Amount)
		assert.Equal(t, int64(12000), movement.Entry.WalletBalanceBefore)
		assert.Equal(t, int64(2000), movement.Entry.WalletBalanceAfter)
		assert.Equal(t, int64(0), movement.Entry.LoyaltyPointsBefore)
		assert.Equal(t, int64(10), movement.Entry.LoyaltyPointsAfter)
		assert.Equal(t, int64(2), movement.Entry.Sequence)
		assert.Equal(t, &bookingID, movement.Entry.BookingID)

		ctx := context.Background()
		stored, err := uow.Repositories(ctx).Users().GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2000), stored.WalletBalance())
		assert.Equal(t, int64(10), stored.LoyaltyPoints())

		entries, err := uow.Repositories(ctx).Ledger().AllForUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, entity.VerifyLedger(entries, stored.WalletBalance(), stored.LoyaltyPoints()))
	})

	t.Run("Insufficient funds writes nothing", func(t *testing.T) {
		ledger, uow, user := setup(t, 5000)

		err := inTx(t, uow, func(ctx context.Context, repos persistence.Repositories) error {
			_, err := ledger.Debit(ctx, repos, user.ID, 10000, EntryOptions{Type: entity.EntryBookingFee})
			return err
		})

		assert.ErrorIs(t, err, errs.ErrInsufficientFunds)
		ctx := context.Background()
		entries, err := uow.Repositories(ctx).Ledger().AllForUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("Validation", func(t *testing.T) {
		ledger, uow, user := setup(t, 5000)
		repos := uow.Repositories(context.Background())

		_, err := ledger.Debit(context.Background(), repos, user.ID, -1, EntryOptions{Type: entity.EntryBookingFee})
		assert.ErrorIs(t, err, errs.ErrValidation)

		_, err = ledger.Credit(context.Background(), repos, user.ID, 0, EntryOptions{Type: entity.EntryTopUp})
		assert.ErrorIs(t, err, errs.ErrValidation)

		_, err = ledger.Credit(context.Background(), repos, user.ID, 100, EntryOptions{Type: "gift"})
		assert.ErrorIs(t, err, errs.ErrValidation)

		_, err = ledger.Credit(context.Background(), repos, uuid.New(), 100, EntryOptions{Type: entity.EntryTopUp})
		assert.ErrorIs(t, err, errs.ErrUserNotFound)
	})
}

func TestLedger_CreditOverflow(t *testing.T) {
	ledger, uow, user := setup(t, math.MaxInt64/2+1)

	err := inTx(t, uow, func(ctx context.Context, repos persistence.Repositories) error {
		_, err := ledger.Credit(ctx, repos, user.ID, math.MaxInt64/2+1, EntryOptions{Type: entity.EntryTopUp})
		return err
	})

	require.ErrorIs(t, err, errs.ErrValidation)
	assert.NotErrorIs(t, err, errs.ErrInsufficientFunds)
	ctx := context.Background()
	stored, err := uow.Repositories(ctx).Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64/2+1), stored.WalletBalance())
	entries, err := uow.Repositories(ctx).Ledger().AllForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLedger_Adjust(t *testing.T) {
	ledger, uow, user := setup(t, 5000)
	adminID := uuid.New()

	var movement *Movement
	err := inTx(t, uow, func(ctx context.Context, repos persistence.Repositories) error {
		var err error
		movement, err = ledger.Adjust(ctx, repos, user.ID, -1500, adminID, "double charge refund reversal")
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, entity.EntryAdminAdjustment, movement.Entry.Type)
	assert.Equal(t, &adminID, movement.Entry.PerformedBy)
	assert.Equal(t, int64(3500), movement.User.WalletBalance())

	_, err = ledger.Adjust(context.Background(), uow.Repositories(context.Background()), user.ID, 0, adminID, "")
	assert.ErrorIs(t, err, errs.ErrValidation)
}
