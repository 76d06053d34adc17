package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
)

// LedgerRepository is the append-only store of ledger entries
type LedgerRepository interface {
	// Append inserts an entry. Entries are never updated or deleted.
	//
	// Possible errors:
	// - ErrConflict: If another entry already holds the user's sequence number
	Append(ctx context.Context, entry *entity.LedgerEntry) error

	// List returns the user's entries matching the filter, newest first
	List(ctx context.Context, userID uuid.UUID, filter LedgerFilter) ([]entity.LedgerEntry, error)

	// AllForUser returns every entry of the user in sequence order
	AllForUser(ctx context.Context, userID uuid.UUID) ([]entity.LedgerEntry, error)
}
