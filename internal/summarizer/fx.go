package summarizer

import (
	"github.com/devrecap/devrecap/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("summarizer.client",
	fx.Provide(ProvideClient),
)

func ProvideClient(cfg config.Config, log *zap.Logger) *Client {
	return NewClient(Config{
		APIKey:    cfg.AnthropicAPIKey,
		BaseURL:   cfg.AnthropicBaseURL,
		Model:     cfg.AnthropicModel,
		MaxTokens: cfg.MaxSummaryTokens,
	}, log)
}
