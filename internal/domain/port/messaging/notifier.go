package messaging

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DeliveryStatus is the outcome of handing a message to the notification collaborator
type DeliveryStatus string

const (
	// StatusSent means the message was accepted for delivery
	StatusSent DeliveryStatus = "sent"
	// StatusUnavailable means the client could not be initialised, nothing was sent
	StatusUnavailable DeliveryStatus = "unavailable"
	// StatusDropped means the outbound queue was full or closed
	StatusDropped DeliveryStatus = "dropped"
	// StatusFailed means delivery was attempted and failed
	StatusFailed DeliveryStatus = "failed"
)

// Result reports what happened to one notification
type Result struct {
	Status DeliveryStatus
	Err    error
}

// OK reports whether the message was accepted
func (r Result) OK() bool {
	return r.Status == StatusSent
}

// BookingConfirmed is published after a booking commits
type BookingConfirmed struct {
	BookingID  uuid.UUID `json:"bookingId"`
	UserID     uuid.UUID `json:"userId"`
	UserEmail  string    `json:"userEmail"`
	GamerTag   string    `json:"gamerTag"`
	ScreenID   uuid.UUID `json:"screenId"`
	ScreenName string    `json:"screenName"`
	SlotID     string    `json:"slotId"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	PricePaid  string    `json:"pricePaid"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Notifier is the outbound notification client. Sends never block on the broker
// and their failure never affects the caller's outcome.
type Notifier interface {
	BookingConfirmed(ctx context.Context, msg BookingConfirmed) Result
	Close(ctx context.Context) error
}
