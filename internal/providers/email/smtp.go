package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTPProvider struct {
	cfg Config
	log *zap.Logger
}

func NewSMTP(cfg Config, log *zap.Logger) *SMTPProvider {
	return &SMTPProvider{cfg: cfg, log: log.Named("providers.email")}
}

// Enabled reports whether SMTP credentials are configured.
func (p *SMTPProvider) Enabled() bool {
	return p.cfg.Username != "" && p.cfg.Password != ""
}

// Send delivers a multipart/alternative message. When credentials are not
// configured the send is skipped with a warning rather than failing the
// caller's run.
func (p *SMTPProvider) Send(ctx context.Context, to []string, subject, textBody, htmlBody string) error {
	if !p.Enabled() {
		p.log.Warn("smtp credentials not configured, skipping email",
			zap.String("subject", subject),
		)
		return nil
	}

	auth := smtp.PlainAuth("", p.cfg.Username, p.cfg.Password, p.cfg.Host)
	addr := fmt.Sprintf("%s:%d", p.cfg.Host, p.cfg.Port)
	msg := buildMessage(p.cfg.From, to, subject, textBody, htmlBody)

	if err := smtp.SendMail(addr, auth, p.cfg.From, to, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	p.log.Info("email sent",
		zap.Strings("to", to),
		zap.String("subject", subject),
	)
	return nil
}

const boundary = "mixed-boundary-3f1c9d"

func buildMessage(from string, to []string, subject, textBody, htmlBody string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")

	switch {
	case textBody != "" && htmlBody != "":
		fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)
		fmt.Fprintf(&b, "--%s\r\n", boundary)
		b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
		b.WriteString(textBody)
		fmt.Fprintf(&b, "\r\n--%s\r\n", boundary)
		b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
		b.WriteString(htmlBody)
		fmt.Fprintf(&b, "\r\n--%s--\r\n", boundary)
	case htmlBody != "":
		b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
		b.WriteString(htmlBody)
	default:
		b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
		b.WriteString(textBody)
	}
	return []byte(b.String())
}
