// Package logger provides logging implementations.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ideamans/go-l10n"
	"github.com/mattn/go-isatty"
	"github.com/user/mirrorbeat/pkg/ports"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGray   = "\033[90m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorCyan   = "\033[36m"
)

// ConsoleLogger writes translated messages, info and below to one stream and
// warnings and errors to another.
type ConsoleLogger struct {
	level     ports.LogLevel
	component string
	color     bool
	out       *lockedWriter
	errOut    *lockedWriter
}

// lockedWriter serializes lines from loggers sharing a stream, such as the
// stream driver and a progress callback on another goroutine.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) println(s string) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	fmt.Fprintln(lw.w, s)
}

// NewConsole creates a console logger on stdout and stderr.
// Color output is enabled when stdout is a terminal.
func NewConsole(level ports.LogLevel) *ConsoleLogger {
	fd := os.Stdout.Fd()
	return NewConsoleTo(os.Stdout, os.Stderr, level, isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
}

// NewConsoleTo creates a console logger on the given writers.
func NewConsoleTo(out, errOut io.Writer, level ports.LogLevel, color bool) *ConsoleLogger {
	return &ConsoleLogger{
		level:  level,
		color:  color,
		out:    &lockedWriter{w: out},
		errOut: &lockedWriter{w: errOut},
	}
}

func (l *ConsoleLogger) Debug(msg string, args ...interface{}) { l.log(ports.LevelDebug, msg, args...) }
func (l *ConsoleLogger) Info(msg string, args ...interface{})  { l.log(ports.LevelInfo, msg, args...) }
func (l *ConsoleLogger) Warn(msg string, args ...interface{})  { l.log(ports.LevelWarn, msg, args...) }
func (l *ConsoleLogger) Error(msg string, args ...interface{}) { l.log(ports.LevelError, msg, args...) }

// WithComponent returns a logger that prefixes lines with [component].
// It shares the parent's streams.
func (l *ConsoleLogger) WithComponent(component string) ports.Logger {
	c := *l
	c.component = component
	return &c
}

func (l *ConsoleLogger) log(level ports.LogLevel, msg string, args ...interface{}) {
	if level < l.level {
		return
	}

	line := l10n.F(msg, args...)
	if l.component != "" {
		prefix := "[" + l.component + "]"
		if l.color {
			prefix = colorCyan + prefix + colorReset
		}
		line = prefix + " " + line
	}

	if l.color {
		switch level {
		case ports.LevelDebug:
			line = colorGray + line + colorReset
		case ports.LevelWarn:
			line = colorYellow + line + colorReset
		case ports.LevelError:
			line = colorRed + line + colorReset
		}
	}

	if level >= ports.LevelWarn {
		l.errOut.println(line)
	} else {
		l.out.println(line)
	}
}

var _ ports.Logger = (*ConsoleLogger)(nil)
