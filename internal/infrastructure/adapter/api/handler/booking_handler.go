package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/screen-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/account"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/booking"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/api/middleware"
)

// BookingHandler handles booking-related HTTP requests
type BookingHandler struct {
	coordinator *booking.Coordinator
	accounts    *account.UseCase
	logger      coreport.Logger
}

// NewBookingHandler creates a new booking handler instance
func NewBookingHandler(coordinator *booking.Coordinator, accounts *account.UseCase, logger coreport.Logger) *BookingHandler {
	return &BookingHandler{coordinator: coordinator, accounts: accounts, logger: logger}
}

// Create handles POST /bookings
func (h *BookingHandler) Create(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Invalid booking request format", map[string]any{"error": err.Error()})
		middleware.AbortWithError(c, errs.Validation("invalid request format: %s", err.Error()))
		return
	}

	screenID, err := uuid.Parse(req.ScreenID)
	if err != nil {
		middleware.AbortWithError(c, errs.Validation("invalid screenId"))
		return
	}
	price, err := entity.ParseAmount(req.Price)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	result, err := h.coordinator.CreateBooking(c.Request.Context(), booking.Request{
		UserID:       identity.UserID,
		ScreenID:     screenID,
		Date:         req.Date,
		SlotID:       req.SlotID,
		ClaimedStart: req.StartTime,
		ClaimedPrice: price,
		DisplayName:  req.DisplayName,
	})
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateBookingResponse{
		Booking:       dto.NewBookingResponse(result.Booking),
		LedgerEntry:   dto.NewLedgerEntryResponse(result.Entry),
		NewBalance:    entity.FormatAmount(result.NewBalance),
		LoyaltyPoints: result.NewLoyaltyPoints,
	})
}

// Mine handles GET /me/bookings
func (h *BookingHandler) Mine(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	page, err := pageQuery(c)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	bookings, err := h.accounts.Bookings(c.Request.Context(), identity.UserID, page)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	resp := make([]dto.BookingResponse, 0, len(bookings))
	for i := range bookings {
		resp = append(resp, dto.NewBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, resp)
}
