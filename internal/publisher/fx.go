package publisher

import (
	"github.com/devrecap/devrecap/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("publisher.service",
	fx.Provide(
		ProvideNotionClient,
		ProvideFileExporter,
		NewService,
	),
)

func ProvideNotionClient(cfg config.Config, log *zap.Logger) *NotionClient {
	return NewNotionClient(NotionConfig{
		APIKey:     cfg.NotionAPIKey,
		DatabaseID: cfg.NotionDatabaseID,
		BaseURL:    cfg.NotionBaseURL,
	}, log)
}

func ProvideFileExporter(cfg config.Config, log *zap.Logger) *FileExporter {
	return NewFileExporter(cfg.ReportOutputDir, log)
}
