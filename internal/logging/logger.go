package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// Logger is a thin wrapper around slog.Logger that adds field chaining
type Logger struct {
	*slog.Logger
}

// NewLogger creates a logger. Development uses human-readable text output at
// debug level, everything else emits JSON at info level.
func NewLogger(isDevelopment bool) *Logger {
	if isDevelopment {
		return NewLoggerWithLevel(true, "debug")
	}
	return NewLoggerWithLevel(false, "info")
}

// NewLoggerWithLevel creates a logger with an explicit level (debug, info, warn, error)
func NewLoggerWithLevel(isDevelopment bool, level string) *Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if isDevelopment {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// WithFields returns a child logger carrying the given attributes
func (l *Logger) WithFields(fields map[string]any) *Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{Logger: l.Logger.With(args...)}
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// WithLogger stores the logger in the context
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
