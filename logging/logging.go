// Package logging builds the zap loggers used by the CLIs.
package logging

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrInvalidConfig is returned for unknown levels or encodings.
var ErrInvalidConfig = errors.New("invalid logging config")

// Config selects the logger preset and its overrides.
type Config struct {
	// Development switches to zap's development preset: console output,
	// debug level and stack traces on warnings.
	Development bool `mapstructure:"development"`

	// Level is a zap level name. Empty keeps the preset's level.
	Level string `mapstructure:"level"`

	// Encoding is "json" or "console". Empty keeps the preset's encoding.
	Encoding string `mapstructure:"encoding"`

	// OutputPaths defaults to stderr.
	OutputPaths []string `mapstructure:"output_paths"`
}

// Default returns a production configuration at info level.
func Default() Config {
	return Config{Level: "info"}
}

// Validate checks the level and encoding names.
func (c Config) Validate() error {
	if c.Level != "" {
		if _, err := zapcore.ParseLevel(c.Level); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	switch c.Encoding {
	case "", "json", "console":
	default:
		return fmt.Errorf("%w: unknown encoding %q", ErrInvalidConfig, c.Encoding)
	}
	return nil
}

// New builds a logger from cfg.
func New(cfg Config) (*zap.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	if cfg.Level != "" {
		level, _ := zapcore.ParseLevel(cfg.Level)
		zc.Level = zap.NewAtomicLevelAt(level)
	}
	if cfg.Encoding != "" {
		zc.Encoding = cfg.Encoding
	}
	if len(cfg.OutputPaths) > 0 {
		zc.OutputPaths = cfg.OutputPaths
	}
	zc.ErrorOutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}
