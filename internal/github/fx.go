package github

import (
	"github.com/devrecap/devrecap/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("github.client",
	fx.Provide(ProvideClient),
)

func ProvideClient(cfg config.Config, log *zap.Logger) *Client {
	return NewClient(Config{
		Token:    cfg.GitHubToken,
		Username: cfg.GitHubUsername,
		BaseURL:  cfg.GitHubBaseURL,
	}, log)
}
