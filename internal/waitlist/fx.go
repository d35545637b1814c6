package waitlist

import (
	"github.com/momta/momta/internal/waitlist/repository"
	"github.com/momta/momta/internal/waitlist/service"
	"go.uber.org/fx"
)

var Module = fx.Module("waitlist.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
