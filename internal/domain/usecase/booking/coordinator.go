package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/screen-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/messaging"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/atomic"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/wallet"
)

// DefaultLoyaltyPointsPerBooking is awarded with every booking unless configured otherwise
const DefaultLoyaltyPointsPerBooking = 10

// Request is a booking attempt
type Request struct {
	UserID       uuid.UUID
	ScreenID     uuid.UUID
	Date         string
	SlotID       string
	ClaimedStart time.Time
	ClaimedPrice int64
	DisplayName  string
}

// Result is a committed booking with its ledger effect
type Result struct {
	Booking          *entity.Booking
	Entry            *entity.LedgerEntry
	NewBalance       int64
	NewLoyaltyPoints int64
}

// Coordinator creates bookings. Revalidation, the funds check, the booking insert and the
// wallet debit share one unit of work; the notification is sent only after it commits.
type Coordinator struct {
	runner        *atomic.Runner
	revalidator   *Revalidator
	wallet        *wallet.Ledger
	notifier      messaging.Notifier
	clock         coreport.TimeProvider
	logger        coreport.Logger
	loyaltyPoints int64
}

// NewCoordinator creates a new booking coordinator
func NewCoordinator(
	runner *atomic.Runner,
	revalidator *Revalidator,
	walletLedger *wallet.Ledger,
	notifier messaging.Notifier,
	clock coreport.TimeProvider,
	logger coreport.Logger,
	loyaltyPointsPerBooking int64,
) *Coordinator {
	if loyaltyPointsPerBooking < 0 {
		loyaltyPointsPerBooking = DefaultLoyaltyPointsPerBooking
	}
	return &Coordinator{
		runner:        runner,
		revalidator:   revalidator,
		wallet:        walletLedger,
		notifier:      notifier,
		clock:         clock,
		logger:        logger,
		loyaltyPoints: loyaltyPointsPerBooking,
	}
}

// CreateBooking books a slot and pays for it from the user's wallet.
// Errors keep their kind; nothing is written unless everything succeeds.
func (c *Coordinator) CreateBooking(ctx context.Context, req Request) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var (
		user   *entity.User
		screen *entity.Screen
	)
	result, err := atomic.Run(ctx, c.runner, "create_booking", func(ctx context.Context, repos persistence.Repositories) (*Result, error) {
		var err error
		user, err = repos.Users().GetByIDForUpdate(ctx, req.UserID)
		if err != nil {
			return nil, err
		}

		slot, err := c.revalidator.Revalidate(ctx, repos, SlotClaim{
			ScreenID: req.ScreenID,
			Date:     req.Date,
			SlotID:   req.SlotID,
			Start:    req.ClaimedStart,
			Price:    req.ClaimedPrice,
		})
		if err != nil {
			return nil, err
		}
		screen = slot.Screen

		if user.WalletBalance() < slot.Price {
			return nil, errs.NewInsufficientFundsError(user.ID.String(),
				entity.FormatAmount(slot.Price), entity.FormatAmount(user.WalletBalance()))
		}

		booking, err := entity.NewBooking(user.ID, screen.ID, slot.Ref, slot.Price, req.DisplayName, c.clock.Now())
		if err != nil {
			return nil, err
		}
		if err := repos.Bookings().Create(ctx, booking); err != nil {
			return nil, fmt.Errorf("insert booking: %w", err)
		}

		movement, err := c.wallet.Debit(ctx, repos, user.ID, slot.Price, wallet.EntryOptions{
			Type:          entity.EntryBookingFee,
			LoyaltyPoints: c.loyaltyPoints,
			BookingID:     &booking.ID,
			Description:   fmt.Sprintf("%s %s", screen.Name, booking.SlotID),
		})
		if err != nil {
			return nil, err
		}

		return &Result{
			Booking:          booking,
			Entry:            movement.Entry,
			NewBalance:       movement.User.WalletBalance(),
			NewLoyaltyPoints: movement.User.LoyaltyPoints(),
		}, nil
	})
	if err != nil {
		fields := errs.LogFields(err)
		fields["user_id"] = req.UserID.String()
		fields["screen_id"] = req.ScreenID.String()
		fields["slot_id"] = req.SlotID
		c.logger.Warn("Booking rejected", fields)
		return nil, err
	}

	c.logger.Info("Booking created", map[string]any{
		"booking_id":  result.Booking.ID.String(),
		"user_id":     req.UserID.String(),
		"screen_id":   req.ScreenID.String(),
		"slot_id":     result.Booking.SlotID,
		"price":       entity.FormatAmount(result.Booking.PricePaid),
		"new_balance": entity.FormatAmount(result.NewBalance),
	})

	c.notifyConfirmed(ctx, user, screen, result.Booking)
	return result, nil
}

// notifyConfirmed hands the confirmation to the notifier. Its outcome is only logged.
func (c *Coordinator) notifyConfirmed(ctx context.Context, user *entity.User, screen *entity.Screen, booking *entity.Booking) {
	res := c.notifier.BookingConfirmed(context.WithoutCancel(ctx), messaging.BookingConfirmed{
		BookingID:  booking.ID,
		UserID:     user.ID,
		UserEmail:  user.Email,
		GamerTag:   booking.GamerTagAtBooking,
		ScreenID:   screen.ID,
		ScreenName: screen.Name,
		SlotID:     booking.SlotID,
		StartTime:  booking.StartTime,
		EndTime:    booking.EndTime,
		PricePaid:  entity.FormatAmount(booking.PricePaid),
		OccurredAt: c.clock.Now(),
	})
	if res.OK() {
		return
	}

	fields := map[string]any{
		"booking_id": booking.ID.String(),
		"status":     string(res.Status),
	}
	if res.Err != nil {
		fields["error"] = res.Err.Error()
	}
	c.logger.Warn("Booking confirmation not delivered", fields)
}

func validateRequest(req Request) error {
	switch {
	case req.UserID == uuid.Nil:
		return errs.Validation("user is required")
	case req.ScreenID == uuid.Nil:
		return errs.Validation("screen is required")
	case strings.TrimSpace(req.SlotID) == "":
		return errs.Validation("slot id is required")
	case req.ClaimedStart.IsZero():
		return errs.Validation("slot start is required")
	case req.ClaimedPrice < 0:
		return errs.Validation("price cannot be negative")
	case strings.TrimSpace(req.DisplayName) == "":
		return errs.Validation("display name is required")
	}
	return entity.CheckLength("display name", strings.TrimSpace(req.DisplayName), entity.MaxDisplayNameLength)
}
