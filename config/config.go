// Package config loads the indyctl configuration file.
//
// A configuration file is YAML:
//
//	library:
//	  name: wasm
//	  settings:
//	    path: ./libindy.wasm
//	    mode: compiled
//	logging:
//	  level: debug
//	call_timeout: 30s
//
// Any key can be overridden from the environment with the INDYWASM_ prefix,
// using a double underscore between levels: INDYWASM_LIBRARY__NAME=nullsdk,
// INDYWASM_LIBRARY__SETTINGS__QUEUE_SIZE=64.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/indywasm/indywasm/logging"
	"github.com/indywasm/indywasm/native"
)

// EnvPrefix marks environment variables that override file settings.
const EnvPrefix = "INDYWASM_"

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the indyctl configuration.
type Config struct {
	// Library selects and configures the native SDK.
	Library Library `mapstructure:"library"`

	// Logging configures the zap logger.
	Logging logging.Config `mapstructure:"logging"`

	// CallTimeout bounds how long a CLI call waits for its completion.
	CallTimeout time.Duration `mapstructure:"call_timeout"`
}

// Library names a registered native library and its raw settings, which the
// library's factory decodes.
type Library struct {
	Name     string         `mapstructure:"name"`
	Settings map[string]any `mapstructure:"settings"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Library:     Library{Name: native.DefaultLibrary},
		Logging:     logging.Default(),
		CallTimeout: 30 * time.Second,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Library.Name == "" {
		return fmt.Errorf("%w: library.name is required", ErrInvalidConfig)
	}
	if c.CallTimeout <= 0 {
		return fmt.Errorf("%w: call_timeout must be positive, got %s", ErrInvalidConfig, c.CallTimeout)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("%w: logging: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Load reads path, applies environment overrides and validates the result.
// An empty path loads the defaults and the environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "mapstructure"}); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps INDYWASM_LIBRARY__SETTINGS__PATH to library.settings.path.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}
