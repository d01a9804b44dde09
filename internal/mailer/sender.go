// Package mailer renders contact submissions and hands them to an email
// provider.
package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/engabdalla/portfolio-api/internal/config"
)

// ErrUnknownProvider is returned by New for an unsupported EMAIL_PROVIDER
var ErrUnknownProvider = errors.New("unknown email provider")

// Message is a single outgoing email
type Message struct {
	To      string
	From    string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers a Message and returns the provider's message id
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// New returns the sender selected by cfg.Provider. It does not check
// credentials; callers decide about degraded mode before sending.
func New(cfg config.ContactConfig) (Sender, error) {
	switch cfg.ProviderName() {
	case config.ProviderResend:
		return NewResendSender(cfg.ResendAPIKey, cfg.SendTimeout), nil
	case config.ProviderSMTP:
		return NewSMTPSender(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			Timeout:  cfg.SendTimeout,
		}), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
