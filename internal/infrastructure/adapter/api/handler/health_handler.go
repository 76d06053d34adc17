package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/amirhossein-jamali/screen-booking/internal/domain/port/core"
)

// Pinger reports whether a backing store answers
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness probe
type HealthHandler struct {
	db     Pinger
	clock  coreport.TimeProvider
	logger coreport.Logger
}

// NewHealthHandler creates a new health handler. A nil pinger reports the store as in-memory.
func NewHealthHandler(db Pinger, clock coreport.TimeProvider, logger coreport.Logger) *HealthHandler {
	return &HealthHandler{db: db, clock: clock, logger: logger}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	database := "memory"
	status := http.StatusOK
	if h.db != nil {
		database = "up"
		if err := h.db.Ping(c.Request.Context()); err != nil {
			h.logger.Warn("Health check failed", map[string]any{"error": err.Error()})
			database = "down"
			status = http.StatusServiceUnavailable
		}
	}

	c.JSON(status, gin.H{
		"status":   http.StatusText(status),
		"database": database,
		"time":     h.clock.Now().UTC(),
	})
}
