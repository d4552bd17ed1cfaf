package main

import (
	"context"
	"flag"

	"github.com/bwmarrin/snowflake"
	"github.com/devrecap/devrecap/internal/activity"
	"github.com/devrecap/devrecap/internal/balance"
	"github.com/devrecap/devrecap/internal/clock"
	"github.com/devrecap/devrecap/internal/config"
	"github.com/devrecap/devrecap/internal/costreport"
	costdomain "github.com/devrecap/devrecap/internal/costreport/domain"
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

// One-shot cost report: generate the period report, email it, exit.
func main() {
	period := flag.String("period", "daily", "report period: daily, weekly, or monthly")
	flag.Parse()

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
		fx.Invoke(func(lc fx.Lifecycle, shutdowner fx.Shutdowner, log *zap.Logger, sched *scheduler.Scheduler) {
			RunCostReport(lc, shutdowner, log, sched, costdomain.PeriodKind(*period))
		}),
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

func RunCostReport(lc fx.Lifecycle, shutdowner fx.Shutdowner, log *zap.Logger, sched *scheduler.Scheduler, kind costdomain.PeriodKind) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !kind.Valid() {
				return costdomain.ErrInvalidPeriod
			}
			go func() {
				defer shutdowner.Shutdown()
				if err := sched.CostReportJob(context.Background(), kind); err != nil {
					log.Error("cost report failed",
						zap.String("period", string(kind)),
						zap.Error(err),
					)
					return
				}
				log.Info("cost report complete", zap.String("period", string(kind)))
			}()
			return nil
		},
	})
}
