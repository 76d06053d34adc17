package middleware

import (
	"context"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/screen-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/cache"
)

// Limiter takes one token from the bucket named by the key parts
type Limiter interface {
	Take(ctx context.Context, keyParts ...string) (cache.Decision, error)
}

// RateLimit limits write endpoints per caller and route. A nil limiter disables it;
// limiter failures let the request through.
func RateLimit(limiter Limiter, logger coreport.Logger) gin.HandlerFunc {
	if limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		caller := "anon"
		if identity, ok := IdentityFrom(c); ok {
			caller = identity.UserID.String()
		}

		decision, err := limiter.Take(c.Request.Context(), "user", caller, "route", c.Request.Method+" "+c.FullPath())
		if err != nil {
			logger.Warn("Rate limiter unavailable", map[string]any{"error": err.Error()})
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(decision.Remaining, 10))
		if !decision.Allowed {
			seconds := int(math.Ceil(decision.RetryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(seconds))
			AbortWithError(c, errs.ErrRateLimited)
			return
		}
		c.Next()
	}
}
