package content

import (
	"github.com/momta/momta/internal/content/repository"
	"github.com/momta/momta/internal/content/service"
	"go.uber.org/fx"
)

var Module = fx.Module("content.service",
	fx.Provide(repository.ProvideUpdateRepository),
	fx.Provide(repository.ProvideResearchRepository),
	fx.Provide(service.New),
)
