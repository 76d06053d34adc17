package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/screen-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/api/middleware"
)

// Handlers groups the API handlers
type Handlers struct {
	Health  *handler.HealthHandler
	Screens *handler.ScreenHandler
	Booking *handler.BookingHandler
	Account *handler.AccountHandler
	TopUps  *handler.TopUpHandler
}

// Security configures authentication and write throttling
type Security struct {
	Auth    middleware.AuthConfig
	Limiter middleware.Limiter
}

// SetupRoutes configures all the routes for the API
func SetupRoutes(router *gin.Engine, h Handlers, sec Security, clock coreport.TimeProvider, logger coreport.Logger) {
	router.GET("/health", h.Health.Health)

	limit := middleware.RateLimit(sec.Limiter, logger)

	// Any authenticated caller
	api := router.Group("/", middleware.JWTAuth(sec.Auth, clock, logger))
	{
		api.GET("/screens", h.Screens.List)
		api.GET("/screens/:screenId/availability", h.Screens.Availability)

		api.POST("/bookings", limit, h.Booking.Create)
		api.POST("/topups", limit, h.TopUps.Submit)

		me := api.Group("/me")
		me.GET("/wallet", h.Account.Wallet)
		me.GET("/ledger", h.Account.Ledger)
		me.GET("/bookings", h.Booking.Mine)
		me.GET("/topups", h.TopUps.Mine)
	}

	admin := api.Group("/admin", middleware.RequireRole(entity.RoleAdmin))
	{
		admin.GET("/topups/pending", h.TopUps.Pending)
		admin.GET("/topups/history", h.TopUps.History)
		admin.PUT("/topups/:requestId/approve", h.TopUps.Approve)
		admin.PUT("/topups/:requestId/reject", h.TopUps.Reject)

		admin.POST("/screens", h.Screens.Create)
		admin.PUT("/screens/:screenId", h.Screens.Update)

		admin.POST("/users/:userId/adjustments", h.Account.Adjust)
		admin.GET("/users/:userId/ledger/verify", h.Account.VerifyLedger)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, allowedOrigins []string, clock coreport.TimeProvider, logger coreport.Logger) {
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger, clock))
	router.Use(middleware.CORS(allowedOrigins))
}
