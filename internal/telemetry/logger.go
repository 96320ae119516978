// Package telemetry carries the tree manager's ambient logging and
// metrics, adapted from the teacher's internal/logging and
// internal/metrics packages.
package telemetry

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerConfig mirrors internal/logging/logger.go's Config: a format
// and a level, nothing fancier.
type LoggerConfig struct {
	// Format is "json" or "console".
	Format string
	// Level is "debug", "info", "warn", or "error".
	Level string
}

// DefaultLoggerConfig returns the default logger configuration.
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{Format: "json", Level: "info"}
}

// NewLogger builds a zap logger from cfg, writing to stdout.
func NewLogger(cfg LoggerConfig) (*zap.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var encoder zapcore.Encoder
	encCfg := zap.NewProductionEncoderConfig()
	switch cfg.Format {
	case "json", "":
		encoder = zapcore.NewJSONEncoder(encCfg)
	case "console":
		encoder = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, fmt.Errorf("telemetry: unknown log format %q", cfg.Format)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level)
	return zap.New(core), nil
}

func parseLevel(s string) (zapcore.Level, error) {
	switch s {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info", "":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return 0, fmt.Errorf("telemetry: unknown log level %q", s)
	}
}
