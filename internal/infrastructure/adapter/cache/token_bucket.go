package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	coreport "github.com/amirhossein-jamali/screen-booking/internal/domain/port/core"
)

// BucketConfig shapes the token bucket
type BucketConfig struct {
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
}

// Normalize applies the lower bounds the bucket needs to make progress
func (c BucketConfig) Normalize() BucketConfig {
	if c.Capacity < 1 {
		c.Capacity = 1
	}
	if c.RefillTokens < 1 {
		c.RefillTokens = 1
	}
	if c.RefillInterval <= 0 {
		c.RefillInterval = time.Second
	}
	if minTTL := 5 * c.RefillInterval; c.TTL < minTTL {
		c.TTL = minTTL
	}
	if c.Prefix == "" {
		c.Prefix = "rl"
	}
	return c
}

// Decision is the outcome of taking one token
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int64
	RetryAfter time.Duration
}

// The bucket state lives in one hash per key; refill and take happen atomically in the script.
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill_tokens = tonumber(ARGV[3])
local interval_ms = tonumber(ARGV[4])
local ttl_seconds = tonumber(ARGV[5])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

if tokens == nil or last_refill == nil then
	tokens = capacity
	last_refill = now_ms
end

local elapsed = math.max(0, now_ms - last_refill)
local intervals = math.floor(elapsed / interval_ms)
if intervals > 0 then
	tokens = math.min(capacity, tokens + (intervals * refill_tokens))
	last_refill = last_refill + (intervals * interval_ms)
end

local allowed = 0
local retry_after_ms = 0
if tokens > 0 then
	allowed = 1
	tokens = tokens - 1
else
	retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
redis.call('EXPIRE', key, ttl_seconds)

return { allowed, tokens, retry_after_ms }
`)

// TokenBucket is a distributed token bucket rate limiter
type TokenBucket struct {
	client redis.Scripter
	config BucketConfig
	clock  coreport.TimeProvider
}

// NewTokenBucket creates a limiter over the given redis client
func NewTokenBucket(client redis.Scripter, config BucketConfig, clock coreport.TimeProvider) *TokenBucket {
	return &TokenBucket{client: client, config: config.Normalize(), clock: clock}
}

// Take removes one token from the bucket identified by the key parts
func (b *TokenBucket) Take(ctx context.Context, keyParts ...string) (Decision, error) {
	key := b.config.Prefix + ":" + strings.Join(keyParts, ":")
	result, err := tokenBucketScript.Run(ctx, b.client, []string{key},
		b.clock.Now().UnixMilli(),
		b.config.Capacity,
		b.config.RefillTokens,
		b.config.RefillInterval.Milliseconds(),
		int64(b.config.TTL/time.Second),
	).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("run token bucket script: %w", err)
	}
	return parseDecision(result, b.config.Capacity)
}

func parseDecision(result any, limit int) (Decision, error) {
	values, ok := result.([]any)
	if !ok || len(values) != 3 {
		return Decision{}, fmt.Errorf("unexpected token bucket result %#v", result)
	}
	return Decision{
		Allowed:    asInt64(values[0]) == 1,
		Limit:      limit,
		Remaining:  asInt64(values[1]),
		RetryAfter: time.Duration(asInt64(values[2])) * time.Millisecond,
	}, nil
}

func asInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}
