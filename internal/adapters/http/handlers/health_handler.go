package handlers

import (
	"net/http"

	"github.com/porchest/portal-api/internal/adapters/http/respond"
	"github.com/porchest/portal-api/internal/ports"
)

const (
	statusOK    = "ok"
	statusReady = "ready"
)

// HealthHandler handles liveness and readiness HTTP endpoints.
type HealthHandler struct {
	registry ports.HealthRegistry
}

// NewHealthHandler creates a new HealthHandler with the given health registry.
func NewHealthHandler(registry ports.HealthRegistry) *HealthHandler {
	return &HealthHandler{registry: registry}
}

// Liveness handles GET /health/live. Always returns 200 OK.
func (h *HealthHandler) Liveness(_ http.ResponseWriter, _ *http.Request) (*respond.Response, error) {
	return respond.Success(map[string]string{"status": statusOK}), nil
}

// Readiness handles GET /health/ready. Returns 200 if all checks pass,
// 503 if any check fails.
func (h *HealthHandler) Readiness(_ http.ResponseWriter, r *http.Request) (*respond.Response, error) {
	results := h.registry.CheckAll(r.Context())

	checks := make(map[string]string, len(results))
	healthy := true
	for name, err := range results {
		if err != nil {
			checks[name] = err.Error()
			healthy = false
		} else {
			checks[name] = statusOK
		}
	}

	if !healthy {
		return respond.Error("Service not ready", http.StatusServiceUnavailable,
			respond.WithDetails(checks)), nil
	}

	return respond.Success(map[string]any{
		"status": statusReady,
		"checks": checks,
	}), nil
}
