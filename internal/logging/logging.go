package logging

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix namespaces the logger's own environment variables.
const EnvPrefix = "MLFS"

// Options controls the logger built by New.
type Options struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// LoadOptions reads MLFS_LOG_LEVEL and MLFS_LOG_DEV.
func LoadOptions() (Options, error) {
	var opts Options
	if err := envconfig.Process(EnvPrefix, &opts); err != nil {
		return Options{}, fmt.Errorf("load logging options: %w", err)
	}
	return opts, nil
}

// New creates a structured logger. Production output is JSON on stderr;
// development mode switches to zap's console encoder.
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	cfg := zap.NewProductionConfig()
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg.Encoding = "json"
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncoderConfig.StacktraceKey = "stacktrace"
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
