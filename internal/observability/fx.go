package observability

import (
	"github.com/devrecap/devrecap/internal/config"
	"github.com/devrecap/devrecap/internal/observability/logger"
	"github.com/devrecap/devrecap/internal/observability/metrics"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(ProvideLoggerConfig),
	fx.Provide(logger.New),
	fx.Provide(metrics.New),
)

func ProvideLoggerConfig(cfg config.Config) logger.Config {
	return logger.Config{
		ServiceName: cfg.AppName,
		Environment: cfg.Environment,
		Version:     cfg.AppVersion,
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	}
}
