// Package cache holds the redis client and the redis-backed token bucket used for rate limiting.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	coreport "github.com/amirhossein-jamali/screen-booking/internal/domain/port/core"
)

// pingTimeout bounds the startup connectivity check
const pingTimeout = 2 * time.Second

// Config contains redis connection settings
type Config struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects to redis and verifies the server answers.
// Callers treat an error as "no redis" and run without rate limiting.
func NewRedisClient(ctx context.Context, cfg Config, logger coreport.Logger) (*redis.Client, error) {
	addr := cfg.Addr
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}

	logger.Info("Connected to redis", map[string]any{"addr": addr, "db": cfg.DB})
	return client, nil
}
