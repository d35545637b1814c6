package auth

import (
	"github.com/momta/momta/internal/auth/repository"
	"github.com/momta/momta/internal/auth/service"
	"github.com/momta/momta/internal/auth/session"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	session.Module,
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
