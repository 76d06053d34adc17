package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/screen-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/api/dto"
)

// ErrorHandler middleware recovers from panics and returns appropriate error responses
func ErrorHandler(logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("Panic recovered in API request", map[string]any{
					"error":      err,
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
					"client_ip":  c.ClientIP(),
					"request_id": c.GetHeader("X-Request-ID"),
					"user_agent": c.Request.UserAgent(),
				})

				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
					Code:    errs.CodeInternal,
					Kind:    string(errs.KindInternal),
					Message: "Internal server error",
				})
			}
		}()

		c.Next()
	}
}

// HTTPStatus maps an error to its response status
func HTTPStatus(err error) int {
	switch errs.KindOf(err) {
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindUnauthorized:
		return http.StatusUnauthorized
	case errs.KindInsufficientFunds:
		return http.StatusPaymentRequired
	case errs.KindForbidden:
		return http.StatusForbidden
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindInactive, errs.KindSlotMismatch, errs.KindPriceMismatch,
		errs.KindSlotTaken, errs.KindAlreadyReviewed, errs.KindConflict:
		return http.StatusConflict
	case errs.KindSlotInPast:
		return http.StatusUnprocessableEntity
	case errs.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// AbortWithError writes the error body and stops the handler chain.
// Internal errors never expose their message.
func AbortWithError(c *gin.Context, err error) {
	kind := errs.KindOf(err)
	message := err.Error()
	if kind == errs.KindInternal {
		message = "Internal server error"
	}
	c.AbortWithStatusJSON(HTTPStatus(err), dto.ErrorResponse{
		Code:    errs.ErrorCode(err),
		Kind:    string(kind),
		Message: message,
	})
}
