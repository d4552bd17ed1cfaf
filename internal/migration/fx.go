package migration

import (
	"context"

	activitydomain "github.com/devrecap/devrecap/internal/activity/domain"
	balancedomain "github.com/devrecap/devrecap/internal/balance/domain"
	"github.com/devrecap/devrecap/internal/config"
	costdomain "github.com/devrecap/devrecap/internal/costreport/domain"
	ledgerdomain "github.com/devrecap/devrecap/internal/ledger/domain"
	"github.com/devrecap/devrecap/pkg/money"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, balance balancedomain.Service) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql derive the schema from the models.
			err := conn.AutoMigrate(
				&ledgerdomain.UsageRecord{},
				&balancedomain.CreditBalance{},
				&costdomain.CostThreshold{},
				&activitydomain.Repository{},
				&activitydomain.Commit{},
				&activitydomain.WeeklyActivity{},
				&activitydomain.DailyRecord{},
			)
			if err != nil {
				return err
			}
		}

		if cfg.CreditBalance > 0 {
			return balance.Initialize(context.Background(), money.FromDollars(cfg.CreditBalance))
		}
		return nil
	}),
)
