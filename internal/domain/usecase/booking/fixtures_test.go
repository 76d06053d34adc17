package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/atomic"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/wallet"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/repository/memory"
	timeadapter "github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/time"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// Saturday 2024-06-08
const (
	bookingDate     = "2024-06-08"
	morningSlotID   = "v1-20240608-1030" // base price 100.00
	eveningSlotID   = "v1-20240608-1930" // weekend override 150.00
	morningPrice    = int64(10000)
	eveningPrice    = int64(15000)
	testRetryBudget = 3
)

type fixture struct {
	store  *memory.Store
	uow    persistence.UnitOfWork
	clock  *timeadapter.FixedTimeProvider
	wallet *wallet.Ledger
	screen *entity.Screen
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		store: store,
		uow:   memory.NewUnitOfWork(store),
		clock: timeadapter.NewFixedTimeProvider(now),
	}
	f.wallet = wallet.NewLedger(f.clock, logger.NewNoopLogger())

	screen, err := entity.NewScreen("Screen 1", 10000, []entity.PriceOverride{
		{DaysOfWeek: []time.Weekday{time.Friday, time.Saturday}, StartMinute: 18 * 60, EndMinute: 22 * 60, Price: 15000},
	}, now)
	require.NoError(t, err)
	require.NoError(t, f.uow.Repositories(context.Background()).Screens().Create(context.Background(), screen))
	f.screen = screen
	return f
}

func (f *fixture) runner(uow persistence.UnitOfWork) *atomic.Runner {
	return atomic.NewRunner(uow, atomic.RetryConfig{
		MaxRetries:    testRetryBudget,
		RetryInterval: time.Millisecond,
		MaxInterval:   5 * time.Millisecond,
	}, logger.NewNoopLogger())
}

// newUser creates a user funded through the ledger so the balance invariant holds from the start
func (f *fixture) newUser(t *testing.T, handle string, balance int64) *entity.User {
	t.Helper()
	ctx := context.Background()
	user, err := entity.NewUser(handle, handle+"@example.com", "hash", entity.RoleUser, now)
	require.NoError(t, err)
	require.NoError(t, f.uow.Repositories(ctx).Users().Create(ctx, user))

	if balance > 0 {
		err := f.runner(f.uow).Do(ctx, "fund", func(ctx context.Context, repos persistence.Repositories) error {
			_, err := f.wallet.Credit(ctx, repos, user.ID, balance, wallet.EntryOptions{Type: entity.EntryTopUp})
			return err
		})
		require.NoError(t, err)
	}
	return user
}

func (f *fixture) request(user *entity.User, slotID string, price int64) Request {
	ref, _ := entity.ParseSlotID(slotID)
	return Request{
		UserID:       user.ID,
		ScreenID:     f.screen.ID,
		Date:         bookingDate,
		SlotID:       slotID,
		ClaimedStart: ref.Start,
		ClaimedPrice: price,
		DisplayName:  user.Handle,
	}
}

type snapshot struct {
	balance  int64
	points   int64
	entries  []entity.LedgerEntry
	bookings []entity.Booking
}

func (f *fixture) snapshot(t *testing.T, user *entity.User) snapshot {
	t.Helper()
	ctx := context.Background()
	repos := f.uow.Repositories(ctx)
	u, err := repos.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	entries, err := repos.Ledger().AllForUser(ctx, user.ID)
	require.NoError(t, err)
	bookings, err := repos.Bookings().ListByUser(ctx, user.ID, persistence.Page{})
	require.NoError(t, err)
	return snapshot{balance: u.WalletBalance(), points: u.LoyaltyPoints(), entries: entries, bookings: bookings}
}

// failingUnitOfWork injects a failure into the ledger append of every unit of work
type failingUnitOfWork struct {
	persistence.UnitOfWork
	appendErr error
}

func (u *failingUnitOfWork) Repositories(ctx context.Context) persistence.Repositories {
	return &failingRepositories{Repositories: u.UnitOfWork.Repositories(ctx), appendErr: u.appendErr}
}

type failingRepositories struct {
	persistence.Repositories
	appendErr error
}

func (r *failingRepositories) Ledger() persistence.LedgerRepository {
	return &failingLedger{LedgerRepository: r.Repositories.Ledger(), appendErr: r.appendErr}
}

type failingLedger struct {
	persistence.LedgerRepository
	appendErr error
}

func (l *failingLedger) Append(context.Context, *entity.LedgerEntry) error {
	return l.appendErr
}

// commitBarrier holds the first n commits until all n arrive, so their units of work overlap
type commitBarrier struct {
	persistence.UnitOfWork
	mu      sync.Mutex
	waiting int
	release chan struct{}
}

func newCommitBarrier(uow persistence.UnitOfWork, n int) *commitBarrier {
	return &commitBarrier{UnitOfWork: uow, waiting: n, release: make(chan struct{})}
}

func (b *commitBarrier) Commit(ctx context.Context) error {
	b.mu.Lock()
	if b.waiting > 0 {
		b.waiting--
		if b.waiting == 0 {
			close(b.release)
		}
	}
	b.mu.Unlock()

	select {
	case <-b.release:
	case <-time.After(2 * time.Second):
	}
	return b.UnitOfWork.Commit(ctx)
}

func fixedClock(at time.Time) *timeadapter.FixedTimeProvider {
	return timeadapter.NewFixedTimeProvider(at)
}
