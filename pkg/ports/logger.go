// Package ports defines the interfaces between the render pipeline and the
// outside world.
package ports

import "strings"

// LogLevel orders log messages by severity.
type LogLevel int

const (
	LevelDebug LogLevel = iota // per-frame and per-component detail
	LevelInfo                  // session start, selection and completion
	LevelWarn                  // recoverable problems such as a codec fallback
	LevelError                 // failures that end a session
	LevelQuiet                 // nothing is printed
)

var levelNames = []string{"debug", "info", "warn", "error", "quiet"}

func (l LogLevel) String() string {
	if l < LevelDebug || l > LevelQuiet {
		return "unknown"
	}
	return levelNames[l]
}

// ParseLogLevel maps a level name, case-insensitively, to a LogLevel.
// "warning" is accepted for warn; anything unrecognised is info.
func ParseLogLevel(s string) LogLevel {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "warning" {
		return LevelWarn
	}
	for i, n := range levelNames {
		if n == name {
			return LogLevel(i)
		}
	}
	return LevelInfo
}

// Logger writes leveled messages. msg is a message key that implementations
// may translate before formatting it with args.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// WithComponent returns a Logger that tags lines with component.
	WithComponent(component string) Logger
}
