package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/forgenet/forgenet/internal/config"
	"github.com/forgenet/forgenet/internal/migration"
	"github.com/forgenet/forgenet/internal/observability"
	"github.com/forgenet/forgenet/internal/server"
	"github.com/forgenet/forgenet/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
