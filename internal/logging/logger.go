package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"

	"socialapp/internal/config"
)

// NewLogger builds the process logger. The cleanup flushes buffered entries.
func NewLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.Logging.Level, err)
	}

	zcfg := zap.NewProductionConfig()
	if cfg.IsDevelopment() {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.EncoderConfig.TimeKey = "ts"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	switch strings.ToLower(cfg.Logging.Format) {
	case "console", "text":
		zcfg.Encoding = "console"
	default:
		zcfg.Encoding = "json"
	}

	if out := cfg.Logging.OutputPath; out != "" {
		zcfg.OutputPaths = []string{out}
	}

	logger, err := zcfg.Build(zap.Fields(zap.String("service", "socialapp")))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}

	cleanup := func() {
		_ = logger.Sync()
	}
	return logger, cleanup, nil
}

// GormLevel maps the configured log level onto GORM's logger.
func GormLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return gormlogger.Info
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Warn
	}
}
