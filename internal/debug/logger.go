// Package debug holds the process-wide slog logger behind the --debug flag.
package debug

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	logger  = newLogger(io.Discard, false)
	enabled bool
	mu      sync.RWMutex
)

// Init sends debug output to os.Stderr when enable is set and silences
// the logger otherwise.
func Init(enable bool) {
	InitWriter(os.Stderr, enable)
}

// InitWriter is like Init but writes to w.
func InitWriter(w io.Writer, enable bool) {
	mu.Lock()
	defer mu.Unlock()

	enabled = enable
	logger = newLogger(w, enable)
}

func newLogger(w io.Writer, enable bool) *slog.Logger {
	level := slog.Level(slog.LevelError + 1) // above any level in use
	if enable {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Enabled reports whether debug output is on.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}

// Info logs at info level.
func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

// Error logs at error level.
func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}

// With returns the current logger with args attached.
func With(args ...any) *slog.Logger {
	return Logger().With(args...)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}
