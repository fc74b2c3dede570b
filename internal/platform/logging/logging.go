// Package logging provides the portal's structured logging facade: leveled
// entries with ambient context propagation, recursive PII redaction, and two
// output renderers (pretty for development, single-line flat JSON for log
// aggregation).
//
// Logger construction:
//
//	logger := logging.New(logging.Config{Level: logging.LevelInfo})
//
// Request-scoped usage (middleware derives a child per request):
//
//	reqLogger := logger.RequestLogger(r)
//	reqLogger.Info("API request started")
//
// Context propagation (used by middleware to enrich with request metadata):
//
//	ctx = logging.WithLogger(ctx, reqLogger)
//	reqLogger = logging.FromContext(ctx)
//
// The package-level Default instance is process-lifetime, not request-lifetime.
// It exists for call sites with no natural request scope (startup and shutdown
// logging); request handlers must derive a child via RequestLogger or Child
// instead of mutating the shared instance's context.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Fields is the open-ended set of key/value pairs attached to a log entry.
// Well-known keys include requestId, userId, email, ip, userAgent, method,
// path, and duration.
type Fields map[string]any

// Config controls a Logger's filtering and rendering. The zero value is
// usable: info threshold, JSON rendering, stdout/stderr sinks, default
// redactor.
type Config struct {
	// Level is the minimum severity rendered. Zero means LevelInfo.
	Level Level
	// Pretty selects the human-readable ANSI renderer instead of flat JSON.
	Pretty bool
	// Out receives trace, debug, and info entries. Defaults to os.Stdout.
	Out io.Writer
	// ErrOut receives warn, error, and fatal entries. Defaults to os.Stderr.
	// The sink split is a contract: callers' test doubles rely on it.
	ErrOut io.Writer
	// Redactor scrubs sensitive fields from entry metadata before rendering.
	// Defaults to the package redactor with the portal's sensitive key set.
	Redactor *Redactor
}

// Logger emits leveled, timestamped entries carrying ambient context.
// Context mutation is confined to a single instance; Child produces an
// independent copy-on-branch snapshot.
type Logger struct {
	cfg Config

	mu  sync.Mutex
	ctx Fields
}

// New creates a Logger with the given configuration, filling zero-value
// fields with defaults.
func New(cfg Config) *Logger {
	if cfg.Level == 0 {
		cfg.Level = LevelInfo
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.ErrOut == nil {
		cfg.ErrOut = os.Stderr
	}
	if cfg.Redactor == nil {
		cfg.Redactor = defaultRedactor()
	}
	return &Logger{cfg: cfg, ctx: Fields{}}
}

var (
	defaultOnce   sync.Once
	defaultLogger *Logger
)

// Default returns the shared process-lifetime Logger. It is built once from
// the environment: LOG_LEVEL overrides the minimum severity (INFO in
// production, DEBUG otherwise), and APP_ENV=production disables pretty
// rendering.
func Default() *Logger {
	defaultOnce.Do(func() {
		production := os.Getenv("APP_ENV") == "production"

		level := LevelDebug
		if production {
			level = LevelInfo
		}
		if lvl, ok := ParseLevel(os.Getenv("LOG_LEVEL")); ok {
			level = lvl
		}

		defaultLogger = New(Config{
			Level:  level,
			Pretty: !production,
		})
	})
	return defaultLogger
}

// SetContext shallow-merges patch into the logger's ambient context.
// Later-set keys overwrite earlier ones of the same name.
func (l *Logger) SetContext(patch Fields) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, v := range patch {
		l.ctx[k] = v
	}
}

// Context returns a shallow copy of the current ambient context, never the
// live map.
func (l *Logger) Context() Fields {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(Fields, len(l.ctx))
	for k, v := range l.ctx {
		out[k] = v
	}
	return out
}

// ClearContext resets the ambient context to empty.
func (l *Logger) ClearContext() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ctx = Fields{}
}

// Child returns a new Logger whose initial context is this logger's current
// context shallow-merged with extra. The child is fully independent:
// mutating either logger's context never affects the other.
func (l *Logger) Child(extra Fields) *Logger {
	child := &Logger{cfg: l.cfg, ctx: l.Context()}
	child.SetContext(extra)
	return child
}

// Trace logs at TRACE severity.
func (l *Logger) Trace(msg string, meta ...Fields) {
	l.log(LevelTrace, msg, nil, meta)
}

// Debug logs at DEBUG severity.
func (l *Logger) Debug(msg string, meta ...Fields) {
	l.log(LevelDebug, msg, nil, meta)
}

// Info logs at INFO severity.
func (l *Logger) Info(msg string, meta ...Fields) {
	l.log(LevelInfo, msg, nil, meta)
}

// Warn logs at WARN severity.
func (l *Logger) Warn(msg string, meta ...Fields) {
	l.log(LevelWarn, msg, nil, meta)
}

// Error logs at ERROR severity. err may be nil; when present it is folded
// into the entry metadata under the "error" key.
func (l *Logger) Error(msg string, err error, meta ...Fields) {
	l.log(LevelError, msg, err, meta)
}

// Fatal logs at FATAL severity. Fatal entries always render regardless of
// the configured minimum level: failures at this severity must surface even
// on a misconfigured logger. Fatal does not exit the process.
func (l *Logger) Fatal(msg string, err error, meta ...Fields) {
	l.log(LevelFatal, msg, err, meta)
}

// log merges ambient context with call-site metadata, redacts, renders, and
// writes to the level's sink. It never panics: redaction and rendering are
// defensive against malformed input.
func (l *Logger) log(level Level, msg string, err error, meta []Fields) {
	if level < l.cfg.Level && level != LevelFatal {
		return
	}

	merged := l.Context()
	if err != nil {
		merged["error"] = errorFields(err)
	}
	for _, m := range meta {
		for k, v := range m {
			merged[k] = v
		}
	}

	redacted, ok := l.cfg.Redactor.Redact(merged).(Fields)
	if !ok {
		redacted = merged
	}

	timestamp := time.Now().UTC().Format(timestampLayout)

	var line string
	if l.cfg.Pretty {
		line = renderPretty(timestamp, level, msg, redacted)
	} else {
		line = renderJSON(timestamp, level, msg, redacted)
	}

	_, _ = io.WriteString(l.sink(level), line+"\n")
}

// timestampLayout renders ISO-8601 with millisecond precision ("Z" in UTC).
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// sink returns the output writer for the level: Out for trace/debug/info,
// ErrOut for warn and above.
func (l *Logger) sink(level Level) io.Writer {
	if level >= LevelWarn {
		return l.cfg.ErrOut
	}
	return l.cfg.Out
}

// errorFields converts an error into structured entry metadata.
func errorFields(err error) Fields {
	return Fields{
		"message": err.Error(),
		"type":    fmt.Sprintf("%T", err),
	}
}

// renderPretty produces the development format: colored "[ts] LEVEL: msg"
// followed by an indented JSON block of the context when non-empty.
func renderPretty(timestamp string, level Level, msg string, ctx Fields) string {
	line := fmt.Sprintf("%s[%s] %s%s: %s", level.color(), timestamp, level.String(), colorReset, msg)
	if len(ctx) == 0 {
		return line
	}

	block, err := json.MarshalIndent(ctx, "  ", "  ")
	if err != nil {
		block = []byte(fmt.Sprintf("%v", ctx))
	}
	return line + "\n  " + string(block)
}

// renderJSON produces a single-line JSON object with timestamp, level, and
// message, and the context spread flat at the top level so aggregation
// systems can query fields directly.
func renderJSON(timestamp string, level Level, msg string, ctx Fields) string {
	record := make(map[string]any, len(ctx)+3)
	for k, v := range ctx {
		record[k] = v
	}
	record["timestamp"] = timestamp
	record["level"] = level.String()
	record["message"] = msg

	b, err := json.Marshal(record)
	if err != nil {
		// Unmarshalable values (channels, funcs) are stringified rather than
		// allowed to suppress the entry.
		for k, v := range record {
			record[k] = fmt.Sprint(v)
		}
		b, err = json.Marshal(record)
		if err != nil {
			return fmt.Sprintf(`{"timestamp":%q,"level":%q,"message":%q}`, timestamp, level.String(), msg)
		}
	}
	return string(b)
}

// contextKey is the unexported key type for storing loggers in context.
type contextKey struct{}

// WithLogger returns a new context with the given logger stored in it.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext extracts a *Logger from the context. If no logger is stored,
// it returns the shared Default instance.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(contextKey{}).(*Logger); ok {
		return logger
	}
	return Default()
}
