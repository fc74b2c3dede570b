// Package automation delivers event-driven notifications. Services emit
// domain events (user verified, payment received) and the dispatcher fans
// them out to registered handlers with bounded concurrency. Delivery is
// best-effort: handler failures are logged and never propagate to the
// request that emitted the event.
package automation

import (
	"context"
	"sync"
	"time"

	"github.com/porchest/portal-api/internal/app/fanout"
	"github.com/porchest/portal-api/internal/domain"
	"github.com/porchest/portal-api/internal/platform/logging"
)

// HandlerFunc processes a single event delivery.
type HandlerFunc func(ctx context.Context, event domain.Event) error

// handler pairs a HandlerFunc with a name for failure logging.
type handler struct {
	name string
	fn   HandlerFunc
}

const (
	// defaultMaxWorkers bounds concurrent handler executions per event.
	defaultMaxWorkers = 4
	// defaultDeliveryTimeout bounds a single event's whole delivery.
	defaultDeliveryTimeout = 30 * time.Second
)

// Dispatcher routes events to handlers registered per event type.
type Dispatcher struct {
	logger     *logging.Logger
	maxWorkers int
	timeout    time.Duration

	mu       sync.RWMutex
	handlers map[domain.EventType][]handler

	inflight sync.WaitGroup
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithMaxWorkers sets the per-event handler concurrency bound.
func WithMaxWorkers(n int) Option {
	return func(d *Dispatcher) {
		if n >= 1 {
			d.maxWorkers = n
		}
	}
}

// WithDeliveryTimeout sets the per-event delivery deadline.
func WithDeliveryTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher(logger *logging.Logger, opts ...Option) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	d := &Dispatcher{
		logger:     logger,
		maxWorkers: defaultMaxWorkers,
		timeout:    defaultDeliveryTimeout,
		handlers:   make(map[domain.EventType][]handler),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Register adds a named handler for the event type. Safe for concurrent use,
// though registration normally happens once at startup.
func (d *Dispatcher) Register(eventType domain.EventType, name string, fn HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventType] = append(d.handlers[eventType], handler{name: name, fn: fn})
}

// Dispatch delivers the event to its handlers in the background and returns
// immediately. Delivery detaches from the request context so an emitted
// event survives the response being written, but keeps its values for
// logging and header propagation.
func (d *Dispatcher) Dispatch(ctx context.Context, event domain.Event) {
	d.mu.RLock()
	hs := make([]handler, len(d.handlers[event.Type]))
	copy(hs, d.handlers[event.Type])
	d.mu.RUnlock()

	if len(hs) == 0 {
		d.logger.Debug("no handlers for event", logging.Fields{"event": event.Type.String()})
		return
	}

	d.inflight.Add(1)
	go func() {
		defer d.inflight.Done()

		deliveryCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		d.deliver(deliveryCtx, event, hs)
	}()
}

// deliver runs every handler for the event with bounded concurrency and
// logs per-handler outcomes.
func (d *Dispatcher) deliver(ctx context.Context, event domain.Event, hs []handler) {
	results := fanout.Run(ctx, d.maxWorkers, hs, func(ctx context.Context, h handler) (struct{}, error) {
		return struct{}{}, h.fn(ctx, event)
	})

	failed := 0
	for i, res := range results {
		if res.Err != nil {
			failed++
			d.logger.Error("automation handler failed", res.Err, logging.Fields{
				"event":   event.Type.String(),
				"handler": hs[i].name,
				"userId":  event.UserID,
			})
		}
	}

	d.logger.Info("automation event delivered", logging.Fields{
		"event":    event.Type.String(),
		"handlers": len(hs),
		"failed":   failed,
	})
}

// Wait blocks until all in-flight deliveries finish. Called during graceful
// shutdown so accepted events are not dropped.
func (d *Dispatcher) Wait() {
	d.inflight.Wait()
}

// NopDispatcher discards every event. Useful in tests and when automation
// is disabled by configuration.
type NopDispatcher struct{}

// Dispatch implements the dispatcher contract with no effect.
func (NopDispatcher) Dispatch(context.Context, domain.Event) {}
