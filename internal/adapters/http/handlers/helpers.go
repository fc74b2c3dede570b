package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/porchest/portal-api/internal/domain"
)

// maxJSONBodyBytes is the maximum allowed size for a JSON request body (1 MB).
const maxJSONBodyBytes = 1 << 20

// validatable is implemented by request DTOs that support validation.
type validatable interface {
	Validate() error
}

// decodeAndValidate decodes the JSON request body into dst and validates it.
// The body is limited to maxJSONBodyBytes to prevent resource exhaustion.
// Failures come back as validation errors for the responder to classify.
func decodeAndValidate[T validatable](w http.ResponseWriter, r *http.Request, dst T) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &domain.ValidationError{
			Fields: map[string]string{"body": "invalid JSON"},
		}
	}
	return dst.Validate()
}

// queryInt reads an integer query parameter, falling back when the parameter
// is absent or malformed.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
