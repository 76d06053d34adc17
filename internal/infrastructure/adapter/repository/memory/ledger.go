package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/persistence"
)

type ledgerRepository struct {
	*repositories
}

func (r *ledgerRepository) Append(ctx context.Context, entry *entity.LedgerEntry) error {
	return r.run(func(t *tx) error {
		key := ledgerKey(entry.UserID)
		t.read(key)
		for _, e := range t.data.ledger[entry.UserID] {
			if e.Sequence == entry.Sequence {
				return fmt.Errorf("ledger sequence %d taken: %w", entry.Sequence, errs.ErrConflict)
			}
		}

		userID := entry.UserID
		t.data.ledger[userID] = append(t.data.ledger[userID], *entry)
		t.write(key, func(dst *state) { dst.ledger[userID] = slices.Clone(t.data.ledger[userID]) })
		return nil
	})
}

func (r *ledgerRepository) List(ctx context.Context, userID uuid.UUID, filter persistence.LedgerFilter) ([]entity.LedgerEntry, error) {
	var entries []entity.LedgerEntry
	err := r.run(func(t *tx) error {
		t.read(ledgerKey(userID))
		for _, e := range t.data.ledger[userID] {
			if filter.From != nil && e.Timestamp.Before(*filter.From) {
				continue
			}
			if filter.To != nil && !e.Timestamp.Before(*filter.To) {
				continue
			}
			if filter.Type != nil && e.Type != *filter.Type {
				continue
			}
			entries = append(entries, e)
		}
		return nil
	})
	slices.Reverse(entries)
	return paginate(entries, filter.Page), err
}

func (r *ledgerRepository) AllForUser(ctx context.Context, userID uuid.UUID) ([]entity.LedgerEntry, error) {
	var entries []entity.LedgerEntry
	err := r.run(func(t *tx) error {
		t.read(ledgerKey(userID))
		entries = slices.Clone(t.data.ledger[userID])
		return nil
	})
	slices.SortFunc(entries, func(a, b entity.LedgerEntry) int { return int(a.Sequence - b.Sequence) })
	return entries, err
}
