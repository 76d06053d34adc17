package persistence

import (
	"time"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
)

// Paging limits
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

// Page selects a window of an ordered listing
type Page struct {
	Limit  int
	Offset int
}

// Normalize clamps the page to the allowed limits
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// LedgerFilter narrows a user's ledger history. Nil fields are not applied.
type LedgerFilter struct {
	From *time.Time // inclusive
	To   *time.Time // exclusive
	Type *entity.EntryType
	Page Page
}

// HistoryFilter narrows the top-up review history. Empty fields are not applied.
type HistoryFilter struct {
	From              *time.Time // submitted at, inclusive
	To                *time.Time // submitted at, exclusive
	AdminNameContains string     // case-insensitive match on the reviewer handle
	UserSearch        string     // case-insensitive match on the requester handle or email
	Status            *entity.TopUpStatus
	Page              Page
}

// TopUpView is a top-up request joined with the display names of its requester and reviewer
type TopUpView struct {
	Request        entity.TopUpRequest
	UserHandle     string
	UserEmail      string
	ReviewerHandle string
}
