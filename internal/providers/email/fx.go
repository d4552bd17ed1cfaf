package email

import (
	"github.com/devrecap/devrecap/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("providers.email",
	fx.Provide(ProvideSMTP),
	fx.Provide(ProvideProvider),
)

func ProvideSMTP(cfg config.Config, log *zap.Logger) *SMTPProvider {
	return NewSMTP(Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.SMTPFrom,
	}, log)
}

// ProvideProvider binds the SMTP implementation to the Provider interface
// consumers depend on.
func ProvideProvider(smtp *SMTPProvider) Provider {
	return smtp
}
