package respond

import (
	"net/http"
	"strconv"
)

// SuccessOption customizes a success-family response.
type SuccessOption func(*successOptions)

type successOptions struct {
	status int
	meta   Meta
}

// WithStatus overrides the response status. Pass-through statuses like 206
// stay within the success family.
func WithStatus(status int) SuccessOption {
	return func(o *successOptions) {
		o.status = status
	}
}

// WithMeta merges extra keys into the envelope metadata.
func WithMeta(meta Meta) SuccessOption {
	return func(o *successOptions) {
		o.meta = meta
	}
}

// Success builds a 200 envelope around data. Options override the status and
// extend the metadata.
func Success(data any, opts ...SuccessOption) *Response {
	o := &successOptions{status: http.StatusOK}
	for _, opt := range opts {
		opt(o)
	}

	return newResponse(o.status, &Envelope{
		Success: true,
		Data:    data,
		Meta:    newMeta(o.meta),
	})
}

// Created builds a 201 envelope around data with a Location header pointing
// at the new resource.
func Created(data any, location string) *Response {
	resp := newResponse(http.StatusCreated, &Envelope{
		Success: true,
		Data:    data,
		Meta:    newMeta(nil),
	})
	resp.header.Set("Location", location)
	return resp
}

// NoContent builds a 204 response. The body is entirely absent, not an empty
// envelope.
func NoContent() *Response {
	return newResponse(http.StatusNoContent, nil)
}

// Pagination describes a result window. All fields are supplied by the
// caller and passed through verbatim; nothing is recomputed here.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// Page is the data payload of a paginated response.
type Page struct {
	Items      any        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// Paginated builds a success envelope whose data is a Page.
func Paginated(page Page, opts ...SuccessOption) *Response {
	return Success(page, opts...)
}

// WithCacheHeaders sets Cache-Control on the response and returns it for
// chaining. A zero maxAge forbids caching entirely; otherwise the response is
// publicly cacheable for maxAge seconds, with an optional shared-cache
// override.
func (r *Response) WithCacheHeaders(maxAgeSeconds int, sMaxAgeSeconds ...int) *Response {
	if maxAgeSeconds == 0 {
		r.header.Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
		return r
	}

	value := "public, max-age=" + strconv.Itoa(maxAgeSeconds)
	if len(sMaxAgeSeconds) > 0 {
		value += ", s-maxage=" + strconv.Itoa(sMaxAgeSeconds[0])
	}
	r.header.Set("Cache-Control", value)
	return r
}

// WithCORSHeaders sets the portal's fixed CORS policy for the given origin
// and returns the response for chaining. An empty origin allows any.
func (r *Response) WithCORSHeaders(origin string) *Response {
	if origin == "" {
		origin = "*"
	}
	r.header.Set("Access-Control-Allow-Origin", origin)
	r.header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	r.header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	return r
}
