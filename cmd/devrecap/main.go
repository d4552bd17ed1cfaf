package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/devrecap/devrecap/internal/activity"
	"github.com/devrecap/devrecap/internal/balance"
	"github.com/devrecap/devrecap/internal/clock"
	"github.com/devrecap/devrecap/internal/config"
	"github.com/devrecap/devrecap/internal/costreport"
	"github.com/devrecap/devrecap/internal/github"
	"github.com/devrecap/devrecap/internal/ledger"
	"github.com/devrecap/devrecap/internal/metering"
	"github.com/devrecap/devrecap/internal/migration"
	"github.com/devrecap/devrecap/internal/observability"
	"github.com/devrecap/devrecap/internal/providers/email"
	"github.com/devrecap/devrecap/internal/publisher"
	"github.com/devrecap/devrecap/internal/scheduler"
	"github.com/devrecap/devrecap/internal/server"
	"github.com/devrecap/devrecap/internal/summarizer"
	"github.com/devrecap/devrecap/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		// Domain services
		ledger.Module,
		balance.Module,
		costreport.Module,
		activity.Module,
		metering.Module,

		// Collaborators
		github.Module,
		summarizer.Module,
		publisher.Module,
		email.Module,

		// Orchestration and surface
		migration.Module,
		scheduler.Module,
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
