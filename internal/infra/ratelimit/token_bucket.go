package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"enhanced-seatmap/internal/pkg/clock"
	"enhanced-seatmap/internal/pkg/config"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
	Limit      int
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Refill and consume happen atomically in one script run.
var bucketScript = redis.NewScript(`
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

if interval_ms > 0 and refill_tokens > 0 then
  local elapsed = math.max(0, now_ms - last_refill)
  local intervals = math.floor(elapsed / interval_ms)
  if intervals > 0 then
    tokens = math.min(capacity, tokens + (intervals * refill_tokens))
    last_refill = last_refill + (intervals * interval_ms)
  end
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

type TokenBucket struct {
	rdb    redis.Scripter
	cfg    config.RedisConfig
	clock  clock.Clock
	logger *slog.Logger
}

func NewTokenBucket(rdb redis.Scripter, cfg config.RedisConfig, clk clock.Clock, logger *slog.Logger) *TokenBucket {
	return &TokenBucket{rdb: rdb, cfg: cfg, clock: clk, logger: logger}
}

func (b *TokenBucket) Allow(ctx context.Context, key string) (Decision, error) {
	ttl := b.ttl()
	vals, err := bucketScript.Run(ctx, b.rdb, []string{b.cfg.KeyPrefix + ":" + key},
		b.clock.Now().UnixMilli(),
		b.cfg.Capacity,
		b.cfg.RefillTokens,
		b.cfg.RefillInterval.Milliseconds(),
		int64(ttl/time.Second),
	).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("token bucket script failed: %w", err)
	}

	arr, ok := vals.([]any)
	if !ok || len(arr) != 3 {
		return Decision{}, fmt.Errorf("unexpected token bucket result %#v", vals)
	}
	d := Decision{
		Allowed:    asInt64(arr[0]) == 1,
		Remaining:  asInt64(arr[1]),
		RetryAfter: time.Duration(asInt64(arr[2])) * time.Millisecond,
		Limit:      b.cfg.Capacity,
	}
	if !d.Allowed {
		b.logger.Info("Rate limit exceeded", slog.String("key", key), slog.Duration("retry_after", d.RetryAfter))
	}
	return d, nil
}

// ttl keeps an idle bucket around long enough to refill completely.
func (b *TokenBucket) ttl() time.Duration {
	if b.cfg.RefillTokens <= 0 {
		return time.Hour
	}
	intervals := (b.cfg.Capacity + b.cfg.RefillTokens - 1) / b.cfg.RefillTokens
	ttl := time.Duration(intervals+1) * b.cfg.RefillInterval
	if ttl < time.Minute {
		ttl = time.Minute
	}
	return ttl
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
		n, _ := strconv.ParseInt(t, 10, 64)
		return n
	}
	return 0
}

// Unlimited is used when no Redis address is configured.
type Unlimited struct{}

func (Unlimited) Allow(context.Context, string) (Decision, error) {
	return Decision{Allowed: true, Remaining: -1}, nil
}
