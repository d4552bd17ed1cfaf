package config

import (
	"github.com/devrecap/devrecap/pkg/db"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(ProvideDBConfig),
)

func ProvideDBConfig(cfg Config) db.Config {
	return db.Config{
		Type:     cfg.DBType,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		Name:     cfg.DBName,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		SSLMode:  cfg.DBSSLMode,
		Path:     cfg.DBPath,
	}
}
