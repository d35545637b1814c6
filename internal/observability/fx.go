package observability

import (
	"github.com/momta/momta/internal/config"
	"github.com/momta/momta/internal/observability/logger"
	"github.com/momta/momta/internal/observability/metrics"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		provideLoggerConfig,
		logger.New,
		metrics.New,
	),
)

func provideLoggerConfig(cfg config.Config) logger.Config {
	return logger.Config{
		ServiceName: cfg.AppName,
		Environment: cfg.Environment,
		Version:     cfg.AppVersion,
		Level:       cfg.LogLevel,
		Debug:       !cfg.IsProduction(),
	}
}
