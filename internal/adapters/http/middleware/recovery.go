package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/porchest/portal-api/internal/adapters/http/respond"
	"github.com/porchest/portal-api/internal/platform/logging"
)

// Recovery returns middleware that recovers from panics in downstream
// handlers. The panic value and stack trace are logged, then the value is
// routed through the responder's classifier so a thrown error still maps to
// its proper status. If the response headers have already been written, only
// the log entry is emitted.
func Recovery(rp *respond.Responder, logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := newResponseWriter(w)

			defer func() {
				if v := recover(); v != nil {
					logger.Error("panic recovered", nil, logging.Fields{
						"panic":  v,
						"stack":  string(debug.Stack()),
						"method": r.Method,
						"path":   r.URL.Path,
					})

					if !rw.headerWritten {
						resp := rp.HandleError(v)
						if err := resp.Write(rw); err != nil {
							logger.Error("failed to write panic response", err)
						}
					}
				}
			}()

			next.ServeHTTP(rw, r)
		})
	}
}
