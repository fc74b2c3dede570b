package logging

import (
	"crypto/rand"
	"fmt"
	"net/http"
	"time"
)

// requestIDAlphabet is the lowercase base36 alphabet for request ID suffixes.
const requestIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// requestIDSuffixLen is the number of random characters appended to the
// millisecond timestamp. Nine base36 characters make same-millisecond
// collisions practically impossible; uniqueness is not cryptographic.
const requestIDSuffixLen = 9

// GenerateRequestID produces a request identifier of the form
// "req_<millisecond-epoch>_<random lowercase alphanumeric suffix>".
func GenerateRequestID() string {
	var buf [requestIDSuffixLen]byte
	_, _ = rand.Read(buf[:])

	suffix := make([]byte, requestIDSuffixLen)
	for i, b := range buf {
		suffix[i] = requestIDAlphabet[int(b)%len(requestIDAlphabet)]
	}

	return fmt.Sprintf("req_%d_%s", time.Now().UnixMilli(), suffix)
}

// RequestLogger builds a child logger seeded with a fresh request ID, the
// HTTP method, the URL path (origin and query string excluded), and the
// User-Agent header when present.
func (l *Logger) RequestLogger(r *http.Request) *Logger {
	ctx := Fields{
		"requestId": GenerateRequestID(),
		"method":    r.Method,
		"path":      r.URL.Path,
	}
	if ua := r.Header.Get("User-Agent"); ua != "" {
		ctx["userAgent"] = ua
	}
	return l.Child(ctx)
}

// NewRequestLogger builds a request-scoped child of the Default logger.
func NewRequestLogger(r *http.Request) *Logger {
	return Default().RequestLogger(r)
}

// StatusCarrier is any response value that can report its HTTP status code.
// It decouples request-lifecycle logging from the response package.
type StatusCarrier interface {
	StatusCode() int
}

// LogAPIRequest runs handler with a request-scoped logger, logging the
// request lifecycle: an info entry at start, an info entry with status and
// elapsed milliseconds on success, and an error entry with elapsed
// milliseconds on failure. The handler's error is returned unchanged.
func LogAPIRequest[R StatusCarrier](r *http.Request, handler func(*Logger) (R, error)) (R, error) {
	reqLogger := NewRequestLogger(r)
	start := time.Now()

	reqLogger.Info("API request started")

	resp, err := handler(reqLogger)
	duration := time.Since(start).Milliseconds()

	if err != nil {
		reqLogger.Error("API request failed", err, Fields{"duration": duration})
		return resp, err
	}

	reqLogger.Info("API request completed", Fields{
		"status":   resp.StatusCode(),
		"duration": duration,
	})
	return resp, nil
}

// TimeFunc runs fn and logs its wall-clock duration: "<name> completed" at
// debug on success, "<name> failed" at error on failure. The error is
// returned unchanged. An optional logger attributes the timing entry;
// otherwise the shared Default instance is used.
func TimeFunc[T any](name string, fn func() (T, error), inst ...*Logger) (T, error) {
	logger := Default()
	if len(inst) > 0 && inst[0] != nil {
		logger = inst[0]
	}

	start := time.Now()
	result, err := fn()
	duration := time.Since(start).Milliseconds()

	if err != nil {
		logger.Error(name+" failed", err, Fields{"duration": duration})
		return result, err
	}

	logger.Debug(name+" completed", Fields{"duration": duration})
	return result, nil
}
