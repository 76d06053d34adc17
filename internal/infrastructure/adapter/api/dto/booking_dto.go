package dto

import (
	"time"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
)

// CreateBookingRequest is the slot the client selected from an availability grid
type CreateBookingRequest struct {
	ScreenID    string    `json:"screenId" binding:"required"`
	Date        string    `json:"date" binding:"required"`
	SlotID      string    `json:"slotId" binding:"required"`
	StartTime   time.Time `json:"startTime" binding:"required"`
	Price       string    `json:"price" binding:"required"`
	DisplayName string    `json:"displayName" binding:"required"`
}

// BookingResponse represents a booking
type BookingResponse struct {
	ID          string    `json:"id"`
	ScreenID    string    `json:"screenId"`
	SlotID      string    `json:"slotId"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Status      string    `json:"status"`
	PricePaid   string    `json:"pricePaid"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateBookingResponse is a committed booking with its wallet effect
type CreateBookingResponse struct {
	Booking       BookingResponse     `json:"booking"`
	LedgerEntry   LedgerEntryResponse `json:"ledgerEntry"`
	NewBalance    string              `json:"newBalance"`
	LoyaltyPoints int64               `json:"loyaltyPoints"`
}

// NewBookingResponse converts a booking entity
func NewBookingResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:          b.ID.String(),
		ScreenID:    b.ScreenID.String(),
		SlotID:      b.SlotID,
		StartTime:   b.StartTime.UTC(),
		EndTime:     b.EndTime.UTC(),
		Status:      string(b.Status),
		PricePaid:   entity.FormatAmount(b.PricePaid),
		DisplayName: b.GamerTagAtBooking,
		CreatedAt:   b.CreatedAt.UTC(),
	}
}
