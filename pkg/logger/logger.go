// Package logger builds the structured loggers used throughout
// vaultlog. It wraps go.uber.org/zap so the rest of the module never
// touches zap's construction API directly.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a SugaredLogger tagged with the given service name.
// Construction never fails in practice (zap.NewProduction only errors
// on a broken sink), so New falls back to a no-op logger rather than
// propagating an error through every call site that wants one.
func New(service string) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	log, err := cfg.Build()
	if err != nil {
		log = zap.NewNop()
	}
	return log.Sugar().With("service", service)
}

// NewNop returns a logger that discards everything, for tests and for
// callers that don't want vaultlog's internal logging.
func NewNop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
