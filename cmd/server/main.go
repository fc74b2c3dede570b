// Package main is the entry point for the portal API. It wires all
// dependencies using samber/do v2, starts the HTTP server, and handles
// graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"

	adapthttp "github.com/porchest/portal-api/internal/adapters/http"
	"github.com/porchest/portal-api/internal/adapters/http/handlers"
	"github.com/porchest/portal-api/internal/adapters/http/middleware"
	"github.com/porchest/portal-api/internal/adapters/http/respond"

	"github.com/porchest/portal-api/internal/adapters/clients/mail"
	"github.com/porchest/portal-api/internal/adapters/clients/webhook"
	storagemongo "github.com/porchest/portal-api/internal/adapters/storage/mongo"
	"github.com/porchest/portal-api/internal/app"
	"github.com/porchest/portal-api/internal/app/automation"
	"github.com/porchest/portal-api/internal/platform/config"
	"github.com/porchest/portal-api/internal/platform/health"
	"github.com/porchest/portal-api/internal/platform/httpclient"
	"github.com/porchest/portal-api/internal/platform/logging"
	"github.com/porchest/portal-api/internal/platform/mongostore"
	"github.com/porchest/portal-api/internal/platform/ratelimit"
	"github.com/porchest/portal-api/internal/platform/telemetry"
	"github.com/porchest/portal-api/internal/ports"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	serverShutdownTimeout  = 15 * time.Second
	mongoDisconnectTimeout = 5 * time.Second
	otelShutdownTimeout    = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return errors.New("APP_PROFILE environment variable is required (e.g. local, prod)")
	}

	// Bootstrap: config, logger, telemetry.
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := newLogger(cfg)

	ctx := context.Background()
	otel, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	// Document store connection is established up front so a bad URI fails
	// startup instead of the first request.
	store, err := mongostore.Connect(ctx, &cfg.Mongo, logger)
	if err != nil {
		return fmt.Errorf("connecting to mongo: %w", err)
	}

	// DI container.
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.metrics)
	do.ProvideValue(injector, store)

	registerDependencies(injector, cfg, logger)

	// Resolve the server (eagerly wires the full graph).
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	// Indexes are idempotent; ensure them on every boot.
	userStore := do.MustInvoke[*storagemongo.UserStore](injector)
	if err := userStore.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensuring mongo indexes: %w", err)
	}

	// Register health checkers after the graph is wired.
	registry := do.MustInvoke[ports.HealthRegistry](injector)
	registry.Register(store)
	if cfg.Mail.Enabled {
		registry.Register(do.MustInvoke[*mail.Mailer](injector))
	}
	if cfg.Webhook.Enabled {
		registry.Register(do.MustInvoke[*httpclient.Client](injector))
	}

	dispatcher := do.MustInvoke[*automation.Dispatcher](injector)

	// Start server in background.
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Wait for shutdown signal or server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", logging.Fields{"signal": sig.String()})
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	// Graceful shutdown: drain HTTP requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", err)
	}

	// Wait for Start() goroutine to return.
	<-serverErr

	// Let in-flight automation deliveries finish before closing outbound
	// connections.
	dispatcher.Wait()

	mongoCtx, mongoCancel := context.WithTimeout(context.Background(), mongoDisconnectTimeout)
	defer mongoCancel()

	if err := store.Disconnect(mongoCtx); err != nil {
		logger.Error("mongo disconnect error", err)
	}

	// Flush telemetry.
	otelCtx, otelCancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer otelCancel()

	if err := otel.Shutdown(otelCtx); err != nil {
		logger.Error("telemetry shutdown error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

// newLogger builds the process logger from the log config. Unknown level
// names fall back to the logger's default threshold.
func newLogger(cfg *config.Config) *logging.Logger {
	lc := logging.Config{Pretty: cfg.Log.Format == "pretty"}
	if lvl, ok := logging.ParseLevel(cfg.Log.Level); ok {
		lc.Level = lvl
	}
	return logging.New(lc)
}

// otelProviders bundles OpenTelemetry provider lifecycle. All fields are nil
// when telemetry is disabled.
type otelProviders struct {
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	metrics *telemetry.Metrics
}

// Shutdown flushes both providers. Nil-safe.
func (o *otelProviders) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracer != nil {
		if err := o.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if o.meter != nil {
		if err := o.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func initTelemetry(ctx context.Context, cfg *config.Config) (*otelProviders, error) {
	if !cfg.Telemetry.Enabled {
		return &otelProviders{}, nil
	}

	tp, err := telemetry.InitTracer(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	mp, err := telemetry.InitMeter(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}

	metrics, err := telemetry.NewMetrics(mp)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, fmt.Errorf("creating metrics: %w", err)
	}

	return &otelProviders{
		tracer:  tp,
		meter:   mp,
		metrics: metrics,
	}, nil
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *logging.Logger) {
	do.Provide(injector, func(i do.Injector) (*storagemongo.UserStore, error) {
		store := do.MustInvoke[*mongostore.Store](i)
		return storagemongo.NewUserStore(store, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (*httpclient.Client, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return httpclient.New(&cfg.Webhook.Client, "webhook", metrics, logger), nil
	})

	do.Provide(injector, func(_ do.Injector) (*mail.Mailer, error) {
		return mail.New(&cfg.Mail, logger)
	})

	do.Provide(injector, func(i do.Injector) (*automation.Dispatcher, error) {
		dispatcher := automation.NewDispatcher(logger)

		var mailer ports.Mailer
		if cfg.Mail.Enabled {
			mailer = do.MustInvoke[*mail.Mailer](i)
		}

		var notifier ports.Notifier
		if cfg.Webhook.Enabled {
			client := do.MustInvoke[*httpclient.Client](i)
			notifier = webhook.New(client, logger)
		}

		automation.RegisterNotificationHandlers(dispatcher, mailer, notifier)
		return dispatcher, nil
	})

	do.Provide(injector, func(i do.Injector) (ports.UserService, error) {
		userStore := do.MustInvoke[*storagemongo.UserStore](i)
		dispatcher := do.MustInvoke[*automation.Dispatcher](i)
		return app.NewUserService(userStore, dispatcher, logger), nil
	})

	do.Provide(injector, func(_ do.Injector) (ports.HealthRegistry, error) {
		return health.New(), nil
	})

	do.Provide(injector, func(_ do.Injector) (*respond.Responder, error) {
		return respond.NewResponder(cfg.Environment, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.UserHandler, error) {
		svc := do.MustInvoke[ports.UserService](i)
		return handlers.NewUserHandler(svc), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		registry := do.MustInvoke[ports.HealthRegistry](i)
		return handlers.NewHealthHandler(registry), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		rp := do.MustInvoke[*respond.Responder](i)
		userH := do.MustInvoke[*handlers.UserHandler](i)
		healthH := do.MustInvoke[*handlers.HealthHandler](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		var profiles *ratelimit.Profiles
		if cfg.RateLimit.Enabled {
			profiles = ratelimit.NewProfiles(cfg.RateLimit)
		}

		return adapthttp.NewRouter(rp, userH, healthH,
			middleware.Recovery(rp, logger),
			middleware.RequestID(),
			middleware.CorrelationID(),
			middleware.OpenTelemetry(metrics),
			middleware.Logging(logger),
			middleware.RateLimit(profiles),
			middleware.Timeout(cfg.Server.WriteTimeout),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}
