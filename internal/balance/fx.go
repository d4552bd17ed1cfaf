package balance

import (
	"github.com/devrecap/devrecap/internal/balance/service"
	"github.com/devrecap/devrecap/internal/config"
	"github.com/devrecap/devrecap/pkg/money"
	"go.uber.org/fx"
)

var Module = fx.Module("balance.service",
	fx.Provide(
		fx.Annotate(
			ProvideAlertLevel,
			fx.ResultTags(`name:"balance_alert_level"`),
		),
	),
	fx.Provide(service.NewService),
)

func ProvideAlertLevel(cfg config.Config) money.Money {
	return money.FromDollars(cfg.CreditAlertThreshold)
}
