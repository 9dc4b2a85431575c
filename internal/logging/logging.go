// Package logging provides structured logging using slog.
// Logs are appended to .sqwatch/debug.log under the workspace root.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

const (
	// LogFileName is the name of the debug log file.
	LogFileName = "debug.log"
	// StateDir is the directory holding sqwatch's local files.
	StateDir = ".sqwatch"
)

var (
	// defaultLogger is the package-level logger. Nil until Init.
	defaultLogger *slog.Logger
	// logFile is the open debug log, if any.
	logFile *os.File
	// mu protects defaultLogger and logFile.
	mu sync.RWMutex
)

// Init points the logger at <root>/.sqwatch/debug.log, opened in append mode.
// An empty root disables logging. Failing to create the directory or open
// the file is not an error: the logger silently falls back to io.Discard.
// Calling Init again closes the previous file first.
func Init(root string) error {
	mu.Lock()
	defer mu.Unlock()

	// Close any existing log file.
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}

	// Discard unless the file below opens.
	w := io.Writer(io.Discard)
	if root != "" {
		dir := filepath.Join(root, StateDir)
		if err := os.MkdirAll(dir, 0755); err == nil {
			f, err := os.OpenFile(filepath.Join(dir, LogFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err == nil {
				logFile = f
				w = f
			}
		}
	}

	// JSON lines at debug level; the file is for post-mortems, not users.
	defaultLogger = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	return nil
}

// Close closes the log file. Later log calls are discarded until the next
// Init.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	// Drop the logger too so nothing writes to the closed file.
	defaultLogger = nil
	return err
}

// Logger returns the default logger.
// If not initialized, returns a logger that discards everything.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()

	if defaultLogger == nil {
		return slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return defaultLogger
}

// Debug logs at debug level.
func Debug(msg string, args ...any) { Logger().Debug(msg, args...) }

// Info logs at info level.
func Info(msg string, args ...any) { Logger().Info(msg, args...) }

// Warn logs at warning level.
func Warn(msg string, args ...any) { Logger().Warn(msg, args...) }

// Error logs at error level.
func Error(msg string, args ...any) { Logger().Error(msg, args...) }

// DebugContext logs at debug level with context.
func DebugContext(ctx context.Context, msg string, args ...any) {
	Logger().DebugContext(ctx, msg, args...)
}

// InfoContext logs at info level with context.
func InfoContext(ctx context.Context, msg string, args ...any) {
	Logger().InfoContext(ctx, msg, args...)
}

// WarnContext logs at warning level with context.
func WarnContext(ctx context.Context, msg string, args ...any) {
	Logger().WarnContext(ctx, msg, args...)
}

// ErrorContext logs at error level with context.
func ErrorContext(ctx context.Context, msg string, args ...any) {
	Logger().ErrorContext(ctx, msg, args...)
}

// With returns a logger carrying the given attributes.
func With(args ...any) *slog.Logger {
	return Logger().With(args...)
}
