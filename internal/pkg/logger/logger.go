// Package logger builds the process-wide structured logger.
//
// Records are encoded by zap; application code logs through *slog.Logger so
// components depend only on the standard logging interface.
package logger

import (
	"fmt"
	"log/slog"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// Logger couples the slog front end with the zap core that writes the records.
type Logger struct {
	*slog.Logger
	zap *zap.Logger
}

// New builds a logger for the given environment and level ("debug", "info", "warn", "error").
// Production uses JSON output, everything else the console encoder.
func New(serviceName, env, level string) (*Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}

	cfg := zap.NewDevelopmentConfig()
	if env == EnvProduction {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stdout"}
	cfg.InitialFields = map[string]any{"service": serviceName}

	z, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}

	return &Logger{
		Logger: slog.New(zapslog.NewHandler(z.Core(), zapslog.WithCaller(env != EnvProduction))),
		zap:    z,
	}, nil
}

// NewNop returns a logger that discards everything. Used by tests.
func NewNop() *slog.Logger {
	return slog.New(zapslog.NewHandler(zapcore.NewNopCore()))
}

// Sync flushes buffered records.
func (l *Logger) Sync() error {
	return l.zap.Sync()
}
