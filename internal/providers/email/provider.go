package email

import "context"

type Provider interface {
	// Send delivers a message with both plain-text and HTML bodies. Either
	// body may be empty.
	Send(ctx context.Context, to []string, subject, textBody, htmlBody string) error
}

type NoOpProvider struct{}

func (p *NoOpProvider) Send(ctx context.Context, to []string, subject, textBody, htmlBody string) error {
	return nil
}
