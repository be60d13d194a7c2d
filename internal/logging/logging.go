// Package logging provides the zap logger used for request diagnostics.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logging configuration.
type Config struct {
	Verbose bool
	Output  io.Writer // defaults to stderr
}

// New builds a logger. Without Verbose it discards everything so command
// output stays clean.
func New(cfg Config) *zap.Logger {
	if !cfg.Verbose {
		return zap.NewNop()
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(out),
		zapcore.DebugLevel,
	)
	return zap.New(core)
}
