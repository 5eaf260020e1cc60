// Package logging provides a tiny abstraction over slog so downstream
// code can depend on a minimal interface (Logger) while allowing users
// to plug any structured logger. Contextual helpers attach the component
// and thread attributes the engine and responders log with.
package logging

import "log/slog"

// Logger defines the minimal logging interface for AgentRelay.
// This allows users to provide their own logger implementation or use the built-in adapters.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefaultSlogLogger creates a Logger using slog.Default().
func NewDefaultSlogLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// NoOpLogger discards all log messages. It is the default wherever a
// logger was not supplied so callers never nil-check.
type NoOpLogger struct{}

// Debug implements Logger.
func (NoOpLogger) Debug(string, ...any) {}

// Info implements Logger.
func (NoOpLogger) Info(string, ...any) {}

// Warn implements Logger.
func (NoOpLogger) Warn(string, ...any) {}

// Error implements Logger.
func (NoOpLogger) Error(string, ...any) {}

// With returns a logger that attaches the given key/value attributes to
// every entry when the underlying logger supports it (slog-backed
// loggers do); other implementations are returned unchanged.
func With(l Logger, args ...any) Logger {
	if l == nil {
		return NoOpLogger{}
	}
	if sa, ok := l.(*SlogAdapter); ok {
		return &SlogAdapter{Logger: sa.Logger.With(args...)}
	}
	return l
}

// WithComponent tags every entry with the logical component name
// (engine, responder, store).
func WithComponent(l Logger, component string) Logger {
	return With(l, "component", component)
}

// WithThread tags every entry with the run's thread identifier.
func WithThread(l Logger, threadID string) Logger {
	return With(l, "thread_id", threadID)
}
