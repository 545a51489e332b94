// Package logging builds the zap loggers shared by the CLI and server.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger for interactive use.
func New(level string) *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	lggr, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return lggr.Sugar()
}

// NewJSON returns a production logger emitting structured JSON.
func NewJSON(level string) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	lggr, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return lggr.Sugar()
}

func parseLevel(s string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
