// Package logger provides structured logging for the mail agent.
//
// It wraps log/slog behind a small package-level API. Initialize once at
// startup; the package falls back to a default text handler on stderr if
// Initialize is never called, so library tests can log without setup.
package logger

import (
	"log/slog"
	"os"
	"sync"
)

var (
	mu           sync.RWMutex
	globalLogger *slog.Logger
)

// Config holds the logger settings.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // text or json
}

// Initialize sets up the global logger based on configuration.
func Initialize(cfg Config) {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Level),
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	mu.Lock()
	globalLogger = slog.New(handler)
	mu.Unlock()
}

// Get returns the global logger, creating a default one if needed.
func Get() *slog.Logger {
	mu.RLock()
	l := globalLogger
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if globalLogger == nil {
		globalLogger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return globalLogger
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Debug logs at debug level with key-value attributes.
func Debug(msg string, args ...any) {
	Get().Debug(msg, args...)
}

// Info logs at info level with key-value attributes.
func Info(msg string, args ...any) {
	Get().Info(msg, args...)
}

// Warn logs at warn level with key-value attributes.
func Warn(msg string, args ...any) {
	Get().Warn(msg, args...)
}

// Error logs at error level with key-value attributes.
func Error(msg string, args ...any) {
	Get().Error(msg, args...)
}

// Fatal logs at error level and exits with a non-zero status.
func Fatal(msg string, args ...any) {
	Get().Error(msg, args...)
	os.Exit(1)
}
