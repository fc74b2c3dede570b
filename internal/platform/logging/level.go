package logging

// Level is the severity of a log entry. Higher values are more severe.
type Level int

// Severity values, ascending. The numeric spacing mirrors the wire values
// emitted by the portal's previous logging stack so downstream dashboards
// keep working against historical data.
const (
	LevelTrace Level = 10
	LevelDebug Level = 20
	LevelInfo  Level = 30
	LevelWarn  Level = 40
	LevelError Level = 50
	LevelFatal Level = 60
)

// levelNames maps levels to their canonical upper-case names.
var levelNames = map[Level]string{
	LevelTrace: "TRACE",
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
	LevelFatal: "FATAL",
}

// String returns the canonical upper-case name of the level, or "INFO" for
// values outside the known set.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "INFO"
}

// ParseLevel converts a level name to a Level. Matching is case-sensitive:
// the LOG_LEVEL contract accepts only the canonical upper-case names.
// The second return value reports whether the name was recognized.
func ParseLevel(name string) (Level, bool) {
	for lvl, n := range levelNames {
		if n == name {
			return lvl, true
		}
	}
	return LevelInfo, false
}

// ANSI color escapes, one per level, used by the pretty renderer.
const (
	colorReset = "\x1b[0m"

	colorTrace = "\x1b[37m" // white
	colorDebug = "\x1b[36m" // cyan
	colorInfo  = "\x1b[32m" // green
	colorWarn  = "\x1b[33m" // yellow
	colorError = "\x1b[31m" // red
	colorFatal = "\x1b[35m" // magenta
)

// color returns the ANSI escape for the level, or the empty string for
// values outside the known set.
func (l Level) color() string {
	switch l {
	case LevelTrace:
		return colorTrace
	case LevelDebug:
		return colorDebug
	case LevelInfo:
		return colorInfo
	case LevelWarn:
		return colorWarn
	case LevelError:
		return colorError
	case LevelFatal:
		return colorFatal
	default:
		return ""
	}
}
