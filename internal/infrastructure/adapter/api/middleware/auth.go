package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/screen-booking/internal/domain/port/core"
)

const identityKey = "identity"

// Identity is the verified caller of a request
type Identity struct {
	UserID uuid.UUID
	Role   entity.Role
}

// Claims are the bearer token claims the service reads
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthConfig configures bearer token verification
type AuthConfig struct {
	Secret string
	Issuer string
}

// JWTAuth verifies an HS256 bearer token and stores the caller's identity on the context
func JWTAuth(cfg AuthConfig, clock coreport.TimeProvider, logger coreport.Logger) gin.HandlerFunc {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(clock.Now),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		options = append(options, jwt.WithIssuer(cfg.Issuer))
	}
	parser := jwt.NewParser(options...)
	key := []byte(cfg.Secret)

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			AbortWithError(c, fmt.Errorf("%w: missing bearer token", errs.ErrUnauthorized))
			return
		}

		var claims Claims
		_, err := parser.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), &claims, func(*jwt.Token) (any, error) {
			return key, nil
		})
		if err != nil {
			logger.Debug("Bearer token rejected", map[string]any{"error": err.Error(), "path": c.Request.URL.Path})
			AbortWithError(c, fmt.Errorf("%w: invalid token", errs.ErrUnauthorized))
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		role := entity.Role(claims.Role)
		if err != nil || !role.Valid() {
			AbortWithError(c, fmt.Errorf("%w: invalid token claims", errs.ErrUnauthorized))
			return
		}

		c.Set(identityKey, Identity{UserID: userID, Role: role})
		c.Next()
	}
}

// RequireRole rejects callers whose role differs from role
func RequireRole(role entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			AbortWithError(c, errs.ErrUnauthorized)
			return
		}
		if identity.Role != role {
			AbortWithError(c, errs.ErrForbidden)
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the identity JWTAuth stored on the context
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	identity, ok := v.(Identity)
	return identity, ok
}

// SignToken issues an HS256 token for the identity. Session issuance belongs to the
// auth service; this is used by the seed tooling and tests.
func SignToken(cfg AuthConfig, identity Identity, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		Role: string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID.String(),
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
}
