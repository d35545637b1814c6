package ratelimit

import (
	"context"
	"errors"
	"strings"

	"github.com/momta/momta/internal/clock"
	"github.com/momta/momta/internal/config"
	"github.com/momta/momta/internal/observability/metrics"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("rate.limit",
	fx.Provide(newStore),
	fx.Provide(newLimiter),
)

func newStore(cfg config.Config, clk clock.Clock) (Store, error) {
	limitCfg := cfg.RateLimit
	if limitCfg.Backend != config.BackendRedis {
		return NewMemoryStore(clk), nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: limitCfg.RedisPassword,
		DB:       limitCfg.RedisDB,
	})
	return NewRedisStore(client), nil
}

func newLimiter(lc fx.Lifecycle, store Store, cfg config.Config, log *zap.Logger, m *metrics.Metrics) (*Limiter, error) {
	limitCfg := cfg.RateLimit
	if limitCfg.Limit <= 0 || limitCfg.Window <= 0 || limitCfg.SweepInterval <= 0 {
		return nil, errors.New("rate limit, window and sweep interval must be positive")
	}

	limiter := New(store, limitCfg.Limit, limitCfg.Window, limitCfg.SweepInterval, log, m)

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			limiter.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			limiter.Stop()
			return nil
		},
	})

	return limiter, nil
}
