package logger

import (
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/core"
)

// NoopLogger implements the Logger interface but doesn't do anything
// Useful for testing or when logging is disabled
type NoopLogger struct{}

// NewNoopLogger creates a new no-op logger
func NewNoopLogger() core.Logger {
	return NoopLogger{}
}

func (NoopLogger) Debug(string, map[string]any) {}
func (NoopLogger) Info(string, map[string]any)  {}
func (NoopLogger) Warn(string, map[string]any)  {}
func (NoopLogger) Error(string, map[string]any) {}

// With returns the same no-op logger
func (l NoopLogger) With(map[string]any) core.Logger {
	return l
}

// Flush has nothing to flush
func (NoopLogger) Flush() error {
	return nil
}
