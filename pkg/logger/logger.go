// Package logger provides the leveled logging used by the splitter and CLI.
// Messages are format keys that may be translated before printing.
package logger

import "strings"

// Level is the severity of a log message
type Level int

const (
	// LevelDebug is for per-stage details
	LevelDebug Level = iota
	// LevelInfo is for progress of a run
	LevelInfo
	// LevelWarn is for recoverable problems such as skipped regions
	LevelWarn
	// LevelError is for failures that stop a run
	LevelError
	// LevelQuiet suppresses all output
	LevelQuiet
)

// String returns the level name
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelQuiet:
		return "quiet"
	default:
		return "unknown"
	}
}

// ParseLevel parses a level name, defaulting to info
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "quiet":
		return LevelQuiet
	default:
		return LevelInfo
	}
}

// Logger is implemented by every log sink
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// WithComponent returns a logger that prefixes messages with component
	WithComponent(component string) Logger
}
