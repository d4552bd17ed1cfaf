package main

import (
	"context"

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
	"github.com/devrecap/devrecap/internal/summarizer"
	"github.com/devrecap/devrecap/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// One-shot commit collection run. Exits when the run completes.
func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		ledger.Module,
		balance.Module,
		costreport.Module,
		activity.Module,
		metering.Module,

		github.Module,
		summarizer.Module,
		publisher.Module,
		email.Module,

		migration.Module,
		fx.Provide(scheduler.New),
		fx.Invoke(RunCollection),
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

func RunCollection(lc fx.Lifecycle, shutdowner fx.Shutdowner, cfg config.Config, log *zap.Logger, sched *scheduler.Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := cfg.ValidateCollection(); err != nil {
				return err
			}
			go func() {
				defer shutdowner.Shutdown()
				result, err := sched.Collect(context.Background())
				if err != nil {
					log.Error("collection failed", zap.Error(err))
					return
				}
				log.Info("collection complete",
					zap.Int("repos_processed", result.ReposProcessed),
					zap.Int("repos_skipped", result.ReposSkipped),
					zap.Int("commits_ingested", result.CommitsIngested),
					zap.Int("errors", len(result.Errors)),
				)
			}()
			return nil
		},
	})
}
