package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/persistence"
)

// Store is an in-memory datastore with serializable units of work.
// Each unit of work runs against a private snapshot. Commit fails with ErrConflict
// when any row or range it read or wrote was committed by someone else in the meantime.
type Store struct {
	mu       sync.Mutex
	data     *state
	versions map[string]uint64
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{data: newState(), versions: make(map[string]uint64)}
}

type state struct {
	users    map[uuid.UUID]entity.User
	screens  map[uuid.UUID]entity.Screen
	bookings map[uuid.UUID]entity.Booking
	ledger   map[uuid.UUID][]entity.LedgerEntry
	topups   map[uuid.UUID]entity.TopUpRequest
}

func newState() *state {
	return &state{
		users:    make(map[uuid.UUID]entity.User),
		screens:  make(map[uuid.UUID]entity.Screen),
		bookings: make(map[uuid.UUID]entity.Booking),
		ledger:   make(map[uuid.UUID][]entity.LedgerEntry),
		topups:   make(map[uuid.UUID]entity.TopUpRequest),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.screens {
		c.screens[k] = cloneScreen(v)
	}
	for k, v := range s.bookings {
		c.bookings[k] = v
	}
	for k, v := range s.ledger {
		c.ledger[k] = slices.Clone(v)
	}
	for k, v := range s.topups {
		c.topups[k] = v
	}
	return c
}

func cloneScreen(s entity.Screen) entity.Screen {
	s.Overrides = slices.Clone(s.Overrides)
	for i := range s.Overrides {
		s.Overrides[i].DaysOfWeek = slices.Clone(s.Overrides[i].DaysOfWeek)
	}
	return s
}

// Version keys. A booking range key covers every booking of one screen.
func userKey(id uuid.UUID) string           { return "user:" + id.String() }
func screenKey(id uuid.UUID) string         { return "screen:" + id.String() }
func bookingKey(id uuid.UUID) string        { return "booking:" + id.String() }
func screenBookingsKey(id uuid.UUID) string { return "bookings:" + id.String() }
func userBookingsKey(id uuid.UUID) string   { return "user-bookings:" + id.String() }
func ledgerKey(userID uuid.UUID) string     { return "ledger:" + userID.String() }
func topUpKey(id uuid.UUID) string          { return "topup:" + id.String() }
func tableKey(table string) string          { return "table:" + table }

// tx is one unit of work against a snapshot
type tx struct {
	store    *Store
	data     *state
	snapshot map[string]uint64
	reads    map[string]struct{}
	writes   map[string]func(dst *state)
	done     bool
}

func (s *Store) begin() *tx {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &tx{
		store:    s,
		data:     s.data.clone(),
		snapshot: maps.Clone(s.versions),
		reads:    make(map[string]struct{}),
		writes:   make(map[string]func(dst *state)),
	}
}

func (t *tx) read(keys ...string) {
	for _, k := range keys {
		t.reads[k] = struct{}{}
	}
}

// write records a change under key. apply copies the change from the snapshot into the store on commit.
// A nil apply only bumps the version, which is how range keys are invalidated.
func (t *tx) write(key string, apply func(dst *state)) {
	t.writes[key] = apply
}

func (t *tx) commit() error {
	if t.done {
		return fmt.Errorf("transaction has already been committed or rolled back")
	}
	t.done = true
	if len(t.writes) == 0 {
		return nil
	}

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for k := range t.reads {
		if s.versions[k] != t.snapshot[k] {
			return fmt.Errorf("commit: %s changed concurrently: %w", k, errs.ErrConflict)
		}
	}
	for k := range t.writes {
		if s.versions[k] != t.snapshot[k] {
			return fmt.Errorf("commit: %s changed concurrently: %w", k, errs.ErrConflict)
		}
	}
	if err := t.checkSlotIndex(s.data); err != nil {
		return err
	}

	for k, apply := range t.writes {
		if apply != nil {
			apply(s.data)
		}
		s.versions[k]++
	}
	return nil
}

// checkSlotIndex enforces that no two upcoming or active bookings of a screen overlap
func (t *tx) checkSlotIndex(committed *state) error {
	for _, b := range t.data.bookings {
		if _, exists := committed.bookings[b.ID]; exists || !b.Status.HoldsSlot() {
			continue
		}
		for _, other := range committed.bookings {
			if other.ScreenID == b.ScreenID && other.OverlapsWindow(b.StartTime, b.EndTime) {
				return fmt.Errorf("insert booking %s: %w", b.SlotID, errs.ErrSlotTaken)
			}
		}
	}
	return nil
}

func (t *tx) rollback() {
	t.done = true
}

// ctxKey is the context key for the active unit of work
type ctxKey struct{}

// UnitOfWork implements persistence.UnitOfWork over a Store
type UnitOfWork struct {
	store *Store
}

// NewUnitOfWork creates a unit of work factory for the store
func NewUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{store: store}
}

// Begin starts a new unit of work and returns a context carrying it
func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return context.WithValue(ctx, ctxKey{}, u.store.begin()), nil
}

// Commit validates and applies the unit of work in ctx
func (u *UnitOfWork) Commit(ctx context.Context) error {
	t, ok := ctx.Value(ctxKey{}).(*tx)
	if !ok {
		return fmt.Errorf("no transaction in context")
	}
	return t.commit()
}

// Rollback discards the unit of work in ctx. Finished units of work are ignored.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	t, ok := ctx.Value(ctxKey{}).(*tx)
	if !ok {
		return fmt.Errorf("no transaction in context")
	}
	t.rollback()
	return nil
}

// Repositories returns repositories bound to the unit of work in ctx,
// or auto-committing repositories when ctx carries none
func (u *UnitOfWork) Repositories(ctx context.Context) persistence.Repositories {
	t, _ := ctx.Value(ctxKey{}).(*tx)
	return &repositories{store: u.store, tx: t}
}

type repositories struct {
	store *Store
	tx    *tx
}

func (r *repositories) Users() persistence.UserRepository       { return &userRepository{r} }
func (r *repositories) Screens() persistence.ScreenRepository   { return &screenRepository{r} }
func (r *repositories) Bookings() persistence.BookingRepository { return &bookingRepository{r} }
func (r *repositories) Ledger() persistence.LedgerRepository    { return &ledgerRepository{r} }
func (r *repositories) TopUps() persistence.TopUpRepository     { return &topUpRepository{r} }

// run executes fn inside the bound unit of work, or inside a single-statement one
func (r *repositories) run(fn func(t *tx) error) error {
	if r.tx != nil {
		if r.tx.done {
			return fmt.Errorf("transaction has already been committed or rolled back")
		}
		return fn(r.tx)
	}
	t := r.store.begin()
	if err := fn(t); err != nil {
		t.rollback()
		return err
	}
	return t.commit()
}

var _ persistence.UnitOfWork = (*UnitOfWork)(nil)
