// Package mail implements the Mailer port over SMTP. The automation
// dispatcher calls it for account lifecycle notifications; delivery errors
// are reported to the caller and never retried here.
package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/porchest/portal-api/internal/platform/config"
	"github.com/porchest/portal-api/internal/platform/logging"
	"github.com/porchest/portal-api/internal/ports"
)

// Compile-time check that Mailer implements ports.Mailer.
var _ ports.Mailer = (*Mailer)(nil)

// Mailer sends notification mail through the configured SMTP relay. A fresh
// connection is dialed per message; notification volume is low enough that
// connection reuse is not worth the session management.
type Mailer struct {
	client *gomail.Client
	from   string
	logger *logging.Logger
}

// New creates a Mailer from SMTP settings.
func New(cfg *config.MailConfig, logger *logging.Logger) (*Mailer, error) {
	if logger == nil {
		logger = logging.Default()
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
	}
	if cfg.TLS {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating smtp client: %w", err)
	}

	return &Mailer{
		client: client,
		from:   cfg.From,
		logger: logger,
	}, nil
}

// Send delivers a single plain-text message.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("setting from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending mail to %s: %w", to, err)
	}

	m.logger.Debug("mail sent", logging.Fields{"to": to, "subject": subject})
	return nil
}

// Name identifies the mailer in the health registry.
func (m *Mailer) Name() string {
	return "smtp"
}

// HealthCheck dials the SMTP relay without sending. Used by the readiness
// endpoint when mail is enabled.
func (m *Mailer) HealthCheck(ctx context.Context) error {
	if err := m.client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	return m.client.Close()
}
