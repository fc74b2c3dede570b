// Package http provides the inbound HTTP adapter including routing and server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/porchest/portal-api/internal/adapters/http/handlers"
	"github.com/porchest/portal-api/internal/adapters/http/respond"
)

// NewRouter creates an HTTP handler with all application routes registered.
// Handlers are wrapped by the responder so every error path renders the
// portal envelope. Middleware is applied globally in the order given.
func NewRouter(
	rp *respond.Responder,
	userHandler *handlers.UserHandler,
	healthHandler *handlers.HealthHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	// Health endpoints (outside /api/v1 prefix).
	r.Get("/health/live", rp.Wrap(healthHandler.Liveness))
	r.Get("/health/ready", rp.Wrap(healthHandler.Readiness))

	// API v1 routes.
	r.Route("/api/v1", func(r chi.Router) {
		// Account CRUD.
		r.Post("/users", rp.Wrap(userHandler.Register))
		r.Get("/users", rp.Wrap(userHandler.ListUsers))
		r.Get("/users/{id}", rp.Wrap(userHandler.GetUser))
		r.Patch("/users/{id}", rp.Wrap(userHandler.UpdateUser))
		r.Delete("/users/{id}", rp.Wrap(userHandler.DeleteUser))

		// Verification workflow.
		r.Post("/users/{id}/verify", rp.Wrap(userHandler.VerifyUser))
		r.Post("/users/{id}/reject", rp.Wrap(userHandler.RejectUser))
	})

	return r
}
