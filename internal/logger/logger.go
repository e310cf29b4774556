// Package logger exposes the process-wide sugared logger used by every
// layer of the service.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is safe to use before Initialize: it starts as a no-op and is
// replaced by a real production logger on successful initialization.
var Log = zap.NewNop().Sugar()

// Initialize replaces Log with a production zap logger filtered at the
// given level ("debug", "info", "warn", "error").
func Initialize(level string) error {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parsed)

	zl, err := cfg.Build()
	if err != nil {
		return err
	}

	Log = zl.Sugar()
	return nil
}
