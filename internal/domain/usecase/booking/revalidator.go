package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/screen-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/pricing"
)

// SlotClaim is what the client believes about the slot it picked
type SlotClaim struct {
	ScreenID uuid.UUID
	Date     string // YYYY-MM-DD
	SlotID   string
	Start    time.Time
	Price    int64
}

// ValidatedSlot is the server-derived truth about a claimed slot
type ValidatedSlot struct {
	Screen *entity.Screen
	Ref    entity.SlotRef
	Price  int64
}

// Revalidator re-derives a slot's bounds and price from server state and rejects
// any claim that disagrees. Every booking passes through it inside its unit of work.
type Revalidator struct {
	clock coreport.TimeProvider
}

// NewRevalidator creates a new Revalidator
func NewRevalidator(clock coreport.TimeProvider) *Revalidator {
	return &Revalidator{clock: clock}
}

// Revalidate checks the claim against the state visible to repos
//
// Possible errors:
// - ErrValidation: If the date is malformed
// - ErrScreenNotFound, ErrScreenInactive
// - ErrSlotMismatch, ErrPriceMismatch, ErrSlotInPast, ErrSlotTaken (wrapped in SlotError)
func (v *Revalidator) Revalidate(ctx context.Context, repos persistence.Repositories, claim SlotClaim) (*ValidatedSlot, error) {
	screen, err := repos.Screens().GetByID(ctx, claim.ScreenID)
	if err != nil {
		return nil, err
	}
	if !screen.IsActive {
		return nil, errs.ErrScreenInactive
	}

	date, err := entity.ParseDate(claim.Date)
	if err != nil {
		return nil, errs.Validation("date %q is not YYYY-MM-DD", claim.Date)
	}

	screenID := claim.ScreenID.String()
	ref, err := entity.ParseSlotID(claim.SlotID)
	if err != nil {
		return nil, errs.NewSlotError(screenID, claim.SlotID, err.Error(), errs.ErrSlotMismatch)
	}
	switch {
	case !ref.Date().Equal(date):
		return nil, errs.NewSlotError(screenID, claim.SlotID, "slot is not on the requested date", errs.ErrSlotMismatch)
	case !entity.OnSlotGrid(ref.Start):
		return nil, errs.NewSlotError(screenID, claim.SlotID, "slot is not on the slot grid", errs.ErrSlotMismatch)
	case !ref.Start.Equal(claim.Start):
		return nil, errs.NewSlotError(screenID, claim.SlotID, "claimed start differs", errs.ErrSlotMismatch)
	}

	price := pricing.Resolve(ref.Start, screen)
	if price != claim.Price {
		return nil, errs.NewSlotError(screenID, claim.SlotID,
			"claimed "+entity.FormatAmount(claim.Price)+", current "+entity.FormatAmount(price), errs.ErrPriceMismatch)
	}

	if !ref.End().After(v.clock.Now()) {
		return nil, errs.NewSlotError(screenID, claim.SlotID, "slot has ended", errs.ErrSlotInPast)
	}

	overlapping, err := repos.Bookings().FindOverlapping(ctx, screen.ID, ref.Start, ref.End())
	if err != nil {
		return nil, err
	}
	if len(overlapping) > 0 {
		return nil, errs.NewSlotError(screenID, claim.SlotID, "overlaps an existing booking", errs.ErrSlotTaken)
	}

	return &ValidatedSlot{Screen: screen, Ref: ref, Price: price}, nil
}
