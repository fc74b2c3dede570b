package respond

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/porchest/portal-api/internal/domain"
)

// ErrorOption customizes an error-family response.
type ErrorOption func(*errorOptions)

type errorOptions struct {
	code    string
	details any
}

// WithCode sets the machine-readable error code.
func WithCode(code string) ErrorOption {
	return func(o *errorOptions) {
		o.code = code
	}
}

// WithDetails attaches diagnostic details to the error body.
func WithDetails(details any) ErrorOption {
	return func(o *errorOptions) {
		o.details = details
	}
}

// Error builds a failure envelope with the given message and status. It is
// the generic building block under the named constructors.
func Error(message string, status int, opts ...ErrorOption) *Response {
	o := &errorOptions{}
	for _, opt := range opts {
		opt(o)
	}

	return newResponse(status, &Envelope{
		Success: false,
		Error: &ErrorBody{
			Message: message,
			Code:    o.code,
			Details: o.details,
		},
		Meta: newMeta(nil),
	})
}

// NotFound builds a 404 for the named resource ("User not found").
func NotFound(resource string) *Response {
	return Error(resource+" not found", http.StatusNotFound, WithCode(CodeNotFound))
}

// Unauthorized builds a 401. An empty message falls back to the portal's
// standard wording.
func Unauthorized(message string) *Response {
	if message == "" {
		message = "Unauthorized access"
	}
	return Error(message, http.StatusUnauthorized, WithCode(CodeUnauthorized))
}

// Forbidden builds a 403.
func Forbidden(message string) *Response {
	return Error(message, http.StatusForbidden, WithCode(CodeForbidden))
}

// Conflict builds a 409.
func Conflict(message string) *Response {
	return Error(message, http.StatusConflict, WithCode(CodeConflict))
}

// BadRequest builds a 400.
func BadRequest(message string) *Response {
	return Error(message, http.StatusBadRequest, WithCode(CodeBadRequest))
}

// TooManyRequests builds a 429 with a Retry-After header holding the integer
// seconds value.
func TooManyRequests(message string, retryAfterSeconds int) *Response {
	resp := Error(message, http.StatusTooManyRequests, WithCode(CodeTooManyRequests))
	resp.header.Set("Retry-After", strconv.Itoa(retryAfterSeconds))
	return resp
}

// ValidationDetail is one field-level failure inside a validation error
// response. Field is the dotted/indexed path of the offending input
// ("user.name", "items.0").
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationFailed builds the 400 validation envelope: fixed message, stable
// code, and field details ordered by path so output is deterministic.
func ValidationFailed(verr *domain.ValidationError) *Response {
	details := make([]ValidationDetail, 0, len(verr.Fields))
	for field, msg := range verr.Fields {
		details = append(details, ValidationDetail{Field: field, Message: msg})
	}
	sort.Slice(details, func(i, j int) bool {
		return details[i].Field < details[j].Field
	})

	return Error("Validation failed", http.StatusBadRequest,
		WithCode(CodeValidationError),
		WithDetails(details),
	)
}
