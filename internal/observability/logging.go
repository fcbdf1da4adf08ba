// Package observability provides structured logging for the combat server.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/arkanwolfshade/MythosMUD-sub007/internal/config"
)

// NewLogger builds a zap logger from cfg.
//
// Precondition: cfg.Level is one of "debug", "info", "warn", "error" and
// cfg.Format is "json" or "console".
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var base zap.Config
	switch cfg.Format {
	case "json":
		base = zap.NewProductionConfig()
	case "console":
		base = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	base.Level = zap.NewAtomicLevelAt(level)
	base.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := base.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}
