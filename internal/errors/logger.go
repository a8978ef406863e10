package errors

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog with AppError-aware helpers
type Logger struct {
	logger *slog.Logger
}

// NewLogger creates a JSON logger writing to stdout
func NewLogger(level slog.Level) *Logger {
	return newLoggerTo(os.Stdout, level)
}

func newLoggerTo(w io.Writer, level slog.Level) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return &Logger{logger: slog.New(handler)}
}

// NewDiscardLogger returns a logger that drops everything. Used by tests.
func NewDiscardLogger() *Logger {
	return newLoggerTo(io.Discard, slog.LevelError+1)
}

// With returns a child logger that always emits args
func (l *Logger) With(args ...any) *Logger {
	return &Logger{logger: l.logger.With(args...)}
}

// LogError logs err, expanding AppError fields and context
func (l *Logger) LogError(err error, message string, args ...any) {
	appErr, ok := AsAppError(err)
	if !ok {
		l.logger.Error(message, append([]any{"error", err.Error()}, args...)...)
		return
	}

	logArgs := []any{
		"error_type", appErr.Type,
		"error_code", appErr.Code,
		"error_message", appErr.Message,
	}
	if appErr.Cause != nil {
		logArgs = append(logArgs, "error_cause", appErr.Cause.Error())
	}
	for key, value := range appErr.Context {
		logArgs = append(logArgs, key, value)
	}
	logArgs = append(logArgs, args...)

	l.logger.Error(message, logArgs...)
}

func (l *Logger) Info(message string, args ...any) {
	l.logger.Info(message, args...)
}

func (l *Logger) Debug(message string, args ...any) {
	l.logger.Debug(message, args...)
}

func (l *Logger) Warn(message string, args ...any) {
	l.logger.Warn(message, args...)
}

// New creates a logger from a textual level
func New(level string) (*Logger, error) {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	return NewLogger(slogLevel), nil
}
