package storage

import (
	"github.com/momta/momta/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("storage",
	fx.Provide(newStore),
)

func newStore(cfg config.Config, log *zap.Logger) (Store, error) {
	return NewLocalStore(cfg.Media.Dir, cfg.Media.BaseURL, log)
}
