// Package observability provides structured logging and metrics for the
// ranking engine.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog with level/format configuration and context field
// extraction. Engine components receive a *Logger rather than reaching for
// a package-level default, keeping tests quiet and isolated.
type Logger struct {
	logger *slog.Logger
}

// LogConfig configures logging behavior.
type LogConfig struct {
	// Level is the minimum level: "debug", "info", "warn", "error".
	Level string

	// Format is "json" or "text". JSON for production, text for
	// development.
	Format string

	// Output defaults to os.Stderr.
	Output io.Writer
}

// ContextKey is the type for context keys carried into log records.
type ContextKey string

// UserIDKey is the context key for the acting user.
const UserIDKey ContextKey = "user_id"

// NewLogger creates a configured logger.
func NewLogger(cfg LogConfig) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return &Logger{logger: slog.New(handler)}
}

// NewNopLogger returns a logger that discards everything; used in tests.
func NewNopLogger() *Logger {
	return NewLogger(LogConfig{Level: "error", Output: io.Discard})
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Debug logs at debug level with context correlation.
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.logger.DebugContext(ctx, msg, l.withContextFields(ctx, args)...)
}

// Info logs at info level with context correlation.
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.logger.InfoContext(ctx, msg, l.withContextFields(ctx, args)...)
}

// Warn logs at warn level with context correlation.
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.logger.WarnContext(ctx, msg, l.withContextFields(ctx, args)...)
}

// Error logs at error level with context correlation.
func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.logger.ErrorContext(ctx, msg, l.withContextFields(ctx, args)...)
}

// withContextFields appends correlation fields found on the context.
func (l *Logger) withContextFields(ctx context.Context, args []any) []any {
	if ctx == nil {
		return args
	}
	if userID, ok := ctx.Value(UserIDKey).(string); ok && userID != "" {
		args = append(args, "user_id", userID)
	}
	return args
}
