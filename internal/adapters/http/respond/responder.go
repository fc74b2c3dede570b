package respond

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/porchest/portal-api/internal/domain"
	"github.com/porchest/portal-api/internal/platform/config"
	"github.com/porchest/portal-api/internal/platform/logging"
)

// Responder owns the environment-gated pieces of the response pipeline:
// internal error rendering and the error classifier. The environment is
// injected so production gating is testable without touching the process
// environment.
type Responder struct {
	env    config.Environment
	logger *logging.Logger
}

// NewResponder creates a Responder for the given environment.
func NewResponder(env config.Environment, logger *logging.Logger) *Responder {
	if logger == nil {
		logger = logging.Default()
	}
	return &Responder{env: env, logger: logger}
}

// InternalServerError builds a 500 envelope. The failure is always logged
// with full diagnostics; details reach the response body only outside
// production, where the key is absent entirely rather than null.
func (rp *Responder) InternalServerError(message string, details any) *Response {
	if message == "" {
		message = "Internal server error"
	}

	err, isErr := details.(error)
	meta := logging.Fields{"message": message}
	if !isErr && details != nil {
		meta["details"] = details
	}
	if isErr {
		rp.logger.Error("Internal Server Error", err, meta)
	} else {
		rp.logger.Error("Internal Server Error", nil, meta)
	}

	opts := []ErrorOption{WithCode(CodeInternalError)}
	if !rp.env.IsProduction() && details != nil {
		body := details
		if isErr {
			body = err.Error()
		}
		opts = append(opts, WithDetails(body))
	}

	return Error(message, http.StatusInternalServerError, opts...)
}

// HandleError classifies an arbitrary failure value into a response. It is
// total: any input produces a well-formed envelope. Classification order,
// most to least specific:
//
//  1. field validation failure
//  2. storage uniqueness violation (driver duplicate-key or domain conflict)
//  3. caller-declared status-bearing error
//  4. remaining domain sentinels (not found, forbidden)
//  5. generic error, message echoed
//  6. unrecognized value, fixed message so raw internals never reach clients
func (rp *Responder) HandleError(v any) *Response {
	err, ok := v.(error)
	if !ok || err == nil {
		return rp.InternalServerError("An unexpected error occurred", nil)
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return ValidationFailed(verr)
	}

	if mongo.IsDuplicateKeyError(err) || errors.Is(err, domain.ErrConflict) {
		return Conflict("A record with this value already exists")
	}

	var serr *domain.StatusError
	if errors.As(err, &serr) {
		return Error(serr.Message, serr.Status)
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return NotFound("Resource")
	case errors.Is(err, domain.ErrForbidden):
		return Forbidden(err.Error())
	}

	return rp.InternalServerError(err.Error(), err)
}

// HandlerFunc is an HTTP handler that returns its response instead of
// writing it, leaving error normalization to the Responder.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) (*Response, error)

// Wrap adapts a HandlerFunc into a standard http.HandlerFunc. Errors are
// routed through HandleError so individual handlers need no error-to-status
// mapping of their own. A nil response with a nil error means the handler
// wrote directly; nothing more is sent.
func (rp *Responder) Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h(w, r)
		if err != nil {
			resp = rp.HandleError(err)
		}
		if resp == nil {
			return
		}
		if writeErr := resp.Write(w); writeErr != nil {
			logging.FromContext(r.Context()).Error("failed to write response", writeErr)
		}
	}
}
