package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/ideamans/go-l10n"
	"github.com/mattn/go-isatty"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGray   = "\033[90m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorCyan   = "\033[36m"
)

// ConsoleLogger writes translated messages to stdout, warnings and errors to
// stderr.
type ConsoleLogger struct {
	level     Level
	component string
	color     bool
	out       io.Writer
	errOut    io.Writer
}

// NewConsole creates a console logger. Color is enabled when stdout is a terminal.
func NewConsole(level Level) *ConsoleLogger {
	fd := os.Stdout.Fd()
	return &ConsoleLogger{
		level:  level,
		color:  isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
		out:    os.Stdout,
		errOut: os.Stderr,
	}
}

// NewWriter creates an uncolored logger writing to the given streams
func NewWriter(level Level, out, errOut io.Writer) *ConsoleLogger {
	return &ConsoleLogger{level: level, out: out, errOut: errOut}
}

// Debug logs a debug message
func (l *ConsoleLogger) Debug(msg string, args ...interface{}) {
	l.log(LevelDebug, msg, args...)
}

// Info logs an informational message
func (l *ConsoleLogger) Info(msg string, args ...interface{}) {
	l.log(LevelInfo, msg, args...)
}

// Warn logs a warning
func (l *ConsoleLogger) Warn(msg string, args ...interface{}) {
	l.log(LevelWarn, msg, args...)
}

// Error logs an error
func (l *ConsoleLogger) Error(msg string, args ...interface{}) {
	l.log(LevelError, msg, args...)
}

// WithComponent returns a logger with the given component prefix
func (l *ConsoleLogger) WithComponent(component string) Logger {
	c := *l
	c.component = component
	return &c
}

func (l *ConsoleLogger) log(level Level, msg string, args ...interface{}) {
	if level < l.level || l.level == LevelQuiet {
		return
	}
	line := l10n.F(msg, args...)

	if l.component != "" {
		if l.color {
			line = fmt.Sprintf("%s[%s]%s %s", colorCyan, l.component, colorReset, line)
		} else {
			line = fmt.Sprintf("[%s] %s", l.component, line)
		}
	}

	if l.color {
		switch level {
		case LevelDebug:
			line = colorGray + line + colorReset
		case LevelWarn:
			line = colorYellow + line + colorReset
		case LevelError:
			line = colorRed + line + colorReset
		}
	}

	if level >= LevelWarn {
		fmt.Fprintln(l.errOut, line)
	} else {
		fmt.Fprintln(l.out, line)
	}
}
