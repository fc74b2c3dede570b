package middleware

import (
	"net/http"
	"strings"

	"github.com/porchest/portal-api/internal/platform/logging"
)

// sensitiveHeaders is the set of header names (lowercase) that must be
// redacted before logging. These headers commonly carry credentials.
var sensitiveHeaders = map[string]bool{
	"authorization": true,
	"x-api-key":     true,
	"cookie":        true,
}

// RedactHeaders converts an http.Header map into logging fields. Headers
// whose lowercase name appears in sensitiveHeaders are replaced with
// "[REDACTED]"; all others are included as-is. Multi-value headers are
// joined with a comma.
func RedactHeaders(headers http.Header) logging.Fields {
	fields := make(logging.Fields, len(headers))
	for key, vals := range headers {
		if sensitiveHeaders[strings.ToLower(key)] {
			fields[key] = "[REDACTED]"
		} else {
			fields[key] = strings.Join(vals, ",")
		}
	}
	return fields
}
