package bootstrap

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"enhanced-seatmap/internal/infra/ratelimit"
	"enhanced-seatmap/internal/pkg/clock"
	"enhanced-seatmap/internal/pkg/config"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewLimiter,
	),
)

// NewLimiter returns a Redis token bucket, or Unlimited when REDIS_ADDR is
// empty.
func NewLimiter(lc fx.Lifecycle, cfg config.Config, clk clock.Clock, logger *slog.Logger) ratelimit.Limiter {
	if !cfg.Redis.Enabled() {
		logger.Info("Rate limiting disabled, REDIS_ADDR is empty")
		return ratelimit.Unlimited{}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rdb.Ping(ctx).Err(); err != nil {
				logger.Warn("Redis is not reachable, requests will not be limited", slog.String("error", err.Error()))
			}
			return nil
		},
		OnStop: func(_ context.Context) error {
			return rdb.Close()
		},
	})
	return ratelimit.NewTokenBucket(rdb, cfg.Redis, clk, logger)
}
