// Package logger constructs the structured logger shared by every tracer
// subsystem. The constructors that log (the allocation index, the
// archiver, the engine) take a *zap.SugaredLogger, and the tracer façade
// builds it here rather than rolling its own.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a *zap.SugaredLogger tagged with the given service name. The
// encoder uses ISO8601 timestamps and a capitalized level name, matching
// the console output every subsystem's Infow/Warnw/Errorw calls expect.
func New(service string) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	base, err := cfg.Build()
	if err != nil {
		// zap's own production config is self-consistent; Build only fails
		// on a malformed config, which NewProductionConfig never produces.
		base = zap.NewNop()
	}

	return base.Named(service).Sugar()
}
