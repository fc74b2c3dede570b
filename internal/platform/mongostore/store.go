// Package mongostore provides the portal's document store connection:
// connect with exponential backoff retry, pooling options from config, a
// health checker for the readiness endpoint, and the duplicate-key predicate
// used when translating driver errors.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/porchest/portal-api/internal/platform/config"
	"github.com/porchest/portal-api/internal/platform/logging"
)

// Store wraps a connected Mongo client scoped to the portal database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect establishes the Mongo connection, retrying with exponential
// backoff and jitter on failure. Each attempt dials and pings within the
// configured connect timeout; the context bounds the whole sequence.
func Connect(ctx context.Context, cfg *config.MongoConfig, logger *logging.Logger) (*Store, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetConnectTimeout(cfg.ConnectTimeout)

	var lastErr error

	for attempt := range cfg.Retry.MaxAttempts {
		if attempt > 0 {
			delay := Backoff(attempt, cfg.Retry)
			logger.Warn("retrying database connection", logging.Fields{
				"attempt":     attempt + 1,
				"maxAttempts": cfg.Retry.MaxAttempts,
				"backoff":     delay.String(),
				"error":       lastErr.Error(),
			})

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		client, err := dial(ctx, opts, cfg.ConnectTimeout)
		if err != nil {
			lastErr = err
			continue
		}

		logger.Info("database connected", logging.Fields{"database": cfg.Database})
		return &Store{
			client: client,
			db:     client.Database(cfg.Database),
		}, nil
	}

	return nil, fmt.Errorf("connecting to mongo after %d attempts: %w", cfg.Retry.MaxAttempts, lastErr)
}

// dial connects and pings within a single attempt's timeout. A client that
// connects but fails the ping is torn down before the next attempt.
func dial(ctx context.Context, opts *options.ClientOptions, timeout time.Duration) (*mongo.Client, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(attemptCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("dialing mongo: %w", err)
	}

	if err := client.Ping(attemptCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}

	return client, nil
}

// Collection returns a handle to the named collection in the portal database.
func (s *Store) Collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// Database returns the underlying database handle.
func (s *Store) Database() *mongo.Database {
	return s.db
}

// Disconnect closes the connection pool.
func (s *Store) Disconnect(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Name identifies the store in the health registry.
func (s *Store) Name() string {
	return "mongo"
}

// HealthCheck pings the primary. Used by the readiness endpoint.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo: %w", err)
	}
	return nil
}

// IsDuplicateKey reports whether err is a unique index violation (the driver
// 11000 error family). Storage adapters use it to translate driver errors
// into domain conflicts.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
