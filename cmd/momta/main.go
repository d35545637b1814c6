package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/momta/momta/internal/clock"
	"github.com/momta/momta/internal/config"
	"github.com/momta/momta/internal/migration"
	"github.com/momta/momta/internal/scheduler"
	"github.com/momta/momta/internal/server"
	"github.com/momta/momta/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		clock.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		migration.Module,
		server.Module,
		scheduler.Module,
	)
	app.Run()
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
