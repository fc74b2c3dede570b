package middleware

import (
	"net/http"
	"time"

	"github.com/porchest/portal-api/internal/platform/logging"
)

// Logging returns middleware that logs request start and completion events.
// It branches a child logger carrying the request ID and correlation ID,
// stores it via logging.WithLogger for downstream use, and logs completion
// with method, path, status code, and duration.
func Logging(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := r.Context()

			child := logger.Child(logging.Fields{
				"requestId":     RequestIDFromContext(ctx),
				"correlationId": CorrelationIDFromContext(ctx),
			})
			ctx = logging.WithLogger(ctx, child)

			child.Info("request started", logging.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
			})
			child.Debug("request headers", RedactHeaders(r.Header))

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r.WithContext(ctx))

			child.Info("request completed", logging.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rw.statusCode,
				"duration": time.Since(start).String(),
			})
		})
	}
}
