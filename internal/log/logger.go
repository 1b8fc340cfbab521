// Package log wraps slog with a component attribute so every line can
// be traced back to the subsystem that emitted it.
package log

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with a component name.
type Logger struct {
	*slog.Logger
	component string
}

// New creates a text logger on stdout at the given level.
func New(level slog.Level, component string) *Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return &Logger{
		Logger:    slog.New(handler).With("component", component),
		component: component,
	}
}

// WithComponent returns a logger tagged with a different component.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger:    l.Logger.With("component", component),
		component: component,
	}
}

// Component returns the logger's component name.
func (l *Logger) Component() string {
	return l.component
}

// SetDefault installs the logger as the process default so package
// slog calls in the adapters share the same handler.
func SetDefault(l *Logger) {
	slog.SetDefault(l.Logger)
}
