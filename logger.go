package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"onepager/internal/config"
)

// logger is replaced by setupLogger; until then logging is a no-op.
var logger = zap.NewNop()

// setupLogger points the application logger at a JSON log file inside the
// configured log directory. Logs never go to the terminal, which belongs
// to the TUI or to command output.
func setupLogger(cfg *config.Config) (*zap.Logger, error) {
	if err := os.MkdirAll(cfg.Log.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log dir: %w", err)
	}
	logPath := filepath.Join(cfg.Log.Dir, "onepager.log")

	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{logPath}
	zcfg.ErrorOutputPaths = []string{logPath}
	zcfg.EncoderConfig.TimeKey = "time"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger = l
	logger.Info("Application started",
		zap.String("source", cfg.Source.Kind),
		zap.String("log_dir", cfg.Log.Dir))
	return logger, nil
}
