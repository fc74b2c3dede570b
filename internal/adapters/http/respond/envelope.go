// Package respond builds the portal's uniform API envelope. Every handler
// returns a *Response produced by one of the constructor families here; the
// Responder owns environment-gated behavior and the error classifier that
// turns arbitrary failures into well-formed envelopes.
package respond

import (
	"encoding/json"
	"net/http"
	"time"
)

// Envelope is the uniform JSON wrapper for every API response. Data and Error
// are mutually exclusive: success responses carry Data, failure responses
// carry Error.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
	Meta    Meta       `json:"meta"`
}

// ErrorBody is the failure payload inside an Envelope. Code is a stable
// machine-readable string for programmatic branching; Message is safe to
// display to users.
type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Meta carries response metadata. Every envelope gets a timestamp; callers
// may add extras such as requestId.
type Meta map[string]any

// Stable machine-readable error codes.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeConflict        = "CONFLICT"
	CodeBadRequest      = "BAD_REQUEST"
	CodeTooManyRequests = "TOO_MANY_REQUESTS"
	CodeInternalError   = "INTERNAL_ERROR"
)

// timestampLayout renders ISO-8601 with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// newMeta builds envelope metadata stamped with the current time.
func newMeta(extra Meta) Meta {
	m := Meta{"timestamp": time.Now().UTC().Format(timestampLayout)}
	for k, v := range extra {
		m[k] = v
	}
	return m
}

// Response is a fully built API response: status, headers, and an optional
// envelope body. It is inert until written; header decorators may be chained
// before the handler returns it.
type Response struct {
	status int
	header http.Header
	body   *Envelope
}

func newResponse(status int, body *Envelope) *Response {
	return &Response{
		status: status,
		header: make(http.Header),
		body:   body,
	}
}

// StatusCode returns the HTTP status the response will be written with.
func (r *Response) StatusCode() int {
	return r.status
}

// Header returns the response's header map for inspection or mutation.
func (r *Response) Header() http.Header {
	return r.header
}

// Envelope returns the response body, or nil for bodyless responses (204).
func (r *Response) Envelope() *Envelope {
	return r.body
}

// Write sends the response: accumulated headers first, then the status, then
// the JSON-encoded envelope. Bodyless responses write no payload at all.
func (r *Response) Write(w http.ResponseWriter) error {
	for key, values := range r.header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	if r.body == nil {
		w.WriteHeader(r.status)
		return nil
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(r.status)
	return json.NewEncoder(w).Encode(r.body)
}
