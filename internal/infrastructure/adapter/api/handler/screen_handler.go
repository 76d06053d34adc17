package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/screen-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/availability"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/catalog"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/api/middleware"
)

// ScreenHandler handles screen listing, availability and catalog administration
type ScreenHandler struct {
	catalog      *catalog.UseCase
	availability *availability.Calculator
	logger       coreport.Logger
}

// NewScreenHandler creates a new screen handler instance
func NewScreenHandler(catalogUseCase *catalog.UseCase, calculator *availability.Calculator, logger coreport.Logger) *ScreenHandler {
	return &ScreenHandler{catalog: catalogUseCase, availability: calculator, logger: logger}
}

// List handles GET /screens
func (h *ScreenHandler) List(c *gin.Context) {
	screens, err := h.catalog.List(c.Request.Context(), true)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	resp := make([]dto.ScreenResponse, 0, len(screens))
	for i := range screens {
		resp = append(resp, dto.NewScreenResponse(&screens[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Availability handles GET /screens/:screenId/availability?date=YYYY-MM-DD
func (h *ScreenHandler) Availability(c *gin.Context) {
	screenID, err := uuidParam(c, "screenId")
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	date := c.Query("date")
	if date == "" {
		middleware.AbortWithError(c, errs.Validation("date is required"))
		return
	}

	day, err := h.availability.ForDate(c.Request.Context(), screenID, date)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAvailabilityResponse(day))
}

// Create handles POST /admin/screens
func (h *ScreenHandler) Create(c *gin.Context) {
	var req dto.ScreenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, errs.Validation("invalid request format: %s", err.Error()))
		return
	}

	basePrice, err := entity.ParseAmount(req.BasePrice)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	overrides, err := dto.ToOverrides(req.Overrides)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	saved, err := h.catalog.Create(c.Request.Context(), catalog.ScreenInput{
		Name:      req.Name,
		BasePrice: basePrice,
		Overrides: overrides,
	})
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSavedScreenResponse(saved))
}

// Update handles PUT /admin/screens/:screenId
func (h *ScreenHandler) Update(c *gin.Context) {
	screenID, err := uuidParam(c, "screenId")
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	var req dto.ScreenUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, errs.Validation("invalid request format: %s", err.Error()))
		return
	}

	update := catalog.ScreenUpdate{Name: req.Name, IsActive: req.IsActive}
	if req.BasePrice != nil {
		price, err := entity.ParseAmount(*req.BasePrice)
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		update.BasePrice = &price
	}
	if req.Overrides != nil {
		overrides, err := dto.ToOverrides(*req.Overrides)
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		update.Overrides = &overrides
	}

	saved, err := h.catalog.Update(c.Request.Context(), screenID, update)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSavedScreenResponse(saved))
}
