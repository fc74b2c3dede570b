// Package webhook implements the Notifier port. Automation events are posted
// as JSON to a configured endpoint through the instrumented HTTP client, so
// deliveries get retry, circuit breaking, and tracing for free.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/porchest/portal-api/internal/domain"
	"github.com/porchest/portal-api/internal/platform/httpclient"
	"github.com/porchest/portal-api/internal/platform/logging"
	"github.com/porchest/portal-api/internal/ports"
)

// Compile-time check that Notifier implements ports.Notifier.
var _ ports.Notifier = (*Notifier)(nil)

// payload is the wire form of an automation event.
type payload struct {
	Event      string         `json:"event"`
	UserID     string         `json:"userId"`
	Email      string         `json:"email"`
	Name       string         `json:"name,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// Notifier posts automation events to the configured webhook endpoint.
type Notifier struct {
	client *httpclient.Client
	logger *logging.Logger
}

// New creates a Notifier over the given instrumented client.
func New(client *httpclient.Client, logger *logging.Logger) *Notifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &Notifier{client: client, logger: logger}
}

// Notify posts the event. A non-2xx response is an error so the dispatcher
// logs the failed delivery.
func (n *Notifier) Notify(ctx context.Context, event domain.Event) error {
	body, err := json.Marshal(payload{
		Event:      event.Type.String(),
		UserID:     event.UserID,
		Email:      event.Email,
		Name:       event.Name,
		Data:       event.Payload,
		OccurredAt: event.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("encoding webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.client.BaseURL(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(ctx, req)
	if resp != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	if err != nil {
		return fmt.Errorf("posting webhook: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("webhook endpoint returned %d", resp.StatusCode)
	}

	n.logger.Debug("webhook delivered", logging.Fields{
		"event":  event.Type.String(),
		"status": resp.StatusCode,
	})
	return nil
}

// Name identifies the webhook endpoint in the health registry.
func (n *Notifier) Name() string {
	return n.client.Name()
}

// HealthCheck reports the endpoint's availability from the circuit breaker
// state without making a network call.
func (n *Notifier) HealthCheck(ctx context.Context) error {
	return n.client.HealthCheck(ctx)
}
