package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/sqlservernerd/festguide/internal/clock"
	"github.com/sqlservernerd/festguide/internal/config"
	"github.com/sqlservernerd/festguide/internal/logger"
	"github.com/sqlservernerd/festguide/internal/migration"
	"github.com/sqlservernerd/festguide/internal/server"
	"github.com/sqlservernerd/festguide/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
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
