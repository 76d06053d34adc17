package persistence

import (
	"context"
)

// Repositories groups the repositories bound to one context.
// Inside a unit of work they all share the same transaction.
type Repositories interface {
	Users() UserRepository
	Screens() ScreenRepository
	Bookings() BookingRepository
	Ledger() LedgerRepository
	TopUps() TopUpRepository
}

// UnitOfWork defines an interface for coordinating transaction operations
// across multiple repositories to maintain data consistency
type UnitOfWork interface {
	// Begin starts a new serializable transaction and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context.
	// Serialization failures surface as ErrConflict.
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context.
	// Rolling back an already finished transaction is a no-op.
	Rollback(ctx context.Context) error

	// Repositories returns repositories bound to the transaction in ctx, or to the
	// plain connection when ctx carries no transaction
	Repositories(ctx context.Context) Repositories
}
