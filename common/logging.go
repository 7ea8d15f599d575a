// Package common holds small pieces of setup shared by every binary in
// this module: structured logging and build version stamping.
package common

import (
	"log/slog"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// PackageName identifies this module in metrics and log lines.
const PackageName = "svalbard"

// Version is stamped at build time via -ldflags; it defaults to "dev" for
// local builds.
var Version = "dev"

// LoggingOpts controls the logger built by SetupLogger.
type LoggingOpts struct {
	Debug   bool
	JSON    bool
	Service string
	Version string
}

// SetupLogger returns an slog.Logger configured per opts, writing to
// stderr as text or JSON with a leveled "service"/"version" context.
func SetupLogger(opts *LoggingOpts) *slog.Logger {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}

	logger := slog.New(handler)
	if opts.Service != "" {
		logger = logger.With("service", opts.Service)
	}
	if opts.Version != "" {
		logger = logger.With("version", opts.Version)
	}
	return logger
}

// SetupZapLogger mirrors SetupLogger's level/format choice for callers
// that need a *zap.Logger alongside the slog one, such as request-level
// HTTP access logging.
func SetupZapLogger(opts *LoggingOpts) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Debug {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	if !opts.JSON {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	if opts.Service != "" {
		logger = logger.With(zap.String("service", opts.Service))
	}
	if opts.Version != "" {
		logger = logger.With(zap.String("version", opts.Version))
	}
	return logger, nil
}
