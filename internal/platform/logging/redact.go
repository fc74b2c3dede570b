package logging

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/m-mizutani/masq"
)

// RedactedToken replaces the value of every sensitive field in rendered
// output. The literal is a wire contract: operators grep for it.
const RedactedToken = "[REDACTED]"

// SensitiveKeys is the canonical set of field names (lowercase) whose values
// must never reach a log sink. This set is shared with the HTTP middleware's
// header redaction so the two cannot silently drift apart.
var SensitiveKeys = map[string]bool{
	"password":      true,
	"password_hash": true,
	"token":         true,
	"apikey":        true,
	"authorization": true,
	"cookie":        true,
	"secret":        true,
}

// bearerPattern matches "Bearer <token>" strings that appear as raw values.
var bearerPattern = regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9\-._~+/]+=*`)

// jwtPattern matches raw JWT strings (header.payload.signature). Requires at
// least 10 characters per segment to avoid false positives on short
// dot-separated strings like version numbers.
var jwtPattern = regexp.MustCompile(`[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}`)

// apiKeyInlinePattern matches inline "api_key=<value>" or "apikey:<value>"
// patterns that may appear in arbitrary string fields.
var apiKeyInlinePattern = regexp.MustCompile(`(?i)(api[_\-]?key|apikey)\s*[:=]\s*\S+`)

// Redactor scrubs sensitive data from log entry metadata before rendering.
//
// Key-based redaction is a recursive visitor: at every map level, values of
// keys in the sensitive set are replaced with RedactedToken regardless of
// nesting depth. Value-based redaction is delegated to masq, which scrubs
// credential-shaped strings (bearer tokens, JWTs, inline api keys) and walks
// struct values that the visitor does not descend into.
type Redactor struct {
	keys  map[string]bool
	scrub func([]string, slog.Attr) slog.Attr
}

// NewRedactor creates a Redactor for the given sensitive key names.
// Matching is case-insensitive.
func NewRedactor(keys map[string]bool) *Redactor {
	lowered := make(map[string]bool, len(keys))
	opts := make([]masq.Option, 0, len(keys)+3)
	for k := range keys {
		lowered[strings.ToLower(k)] = true
		opts = append(opts, masq.WithFieldName(k))
	}
	opts = append(opts,
		masq.WithRegex(bearerPattern),
		masq.WithRegex(jwtPattern),
		masq.WithRegex(apiKeyInlinePattern),
	)

	return &Redactor{
		keys:  lowered,
		scrub: masq.New(opts...),
	}
}

// defaultRedactor returns the redactor used by loggers that do not inject
// their own.
func defaultRedactor() *Redactor {
	return NewRedactor(SensitiveKeys)
}

// Redact returns a copy of v with every sensitive field's value replaced by
// RedactedToken. The input is never mutated, and redaction never panics:
// a value that cannot be scrubbed passes through unchanged. Non-collection
// inputs (strings, numbers, structs) are handed to the masq layer only.
func (r *Redactor) Redact(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case Fields:
		return Fields(r.redactMap(val))
	case map[string]any:
		return r.redactMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = r.Redact(item)
		}
		return out
	default:
		return r.scrubValue(val)
	}
}

// redactMap shallow-clones m, replacing sensitive keys' values and recursing
// into the rest.
func (r *Redactor) redactMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if r.keys[strings.ToLower(k)] {
			out[k] = RedactedToken
			continue
		}
		out[k] = r.Redact(v)
	}
	return out
}

// scrubValue applies masq's value-pattern and struct-field redaction to a
// leaf value. masq deep-clones its input, so the caller's value is never
// mutated. Any panic from walking an exotic value is swallowed and the
// original value returned: logging must never throw.
func (r *Redactor) scrubValue(v any) (out any) {
	defer func() {
		if recover() != nil {
			out = v
		}
	}()

	attr := r.scrub(nil, slog.Any("v", v))
	return attr.Value.Any()
}
