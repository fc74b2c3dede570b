package ports

import (
	"context"

	"github.com/porchest/portal-api/internal/domain"
)

// Mailer defines the client port for outbound notification mail.
// Implemented by the SMTP adapter; called by the automation dispatcher.
type Mailer interface {
	// Send delivers a single message. Implementations respect context
	// cancellation; the dispatcher treats errors as non-fatal.
	Send(ctx context.Context, to, subject, body string) error
}

// Notifier defines the client port for webhook event delivery.
// Implemented by the webhook adapter; called by the automation dispatcher.
type Notifier interface {
	// Notify posts the event to the configured webhook endpoint.
	Notify(ctx context.Context, event domain.Event) error
}
