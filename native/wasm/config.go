package wasm

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/tetratelabs/wazero"

	"github.com/indywasm/indywasm/native"
)

// Mode selects how wazero executes the guest.
type Mode string

const (
	// ModeInterpreter runs the guest in wazero's interpreter.
	ModeInterpreter Mode = "interpreter"
	// ModeCompiled compiles the guest ahead of time.
	ModeCompiled Mode = "compiled"
)

// Settings configures the library.
type Settings struct {
	// Path to the SDK built as a WASI reactor module.
	Path string `mapstructure:"path"`

	// Mode is interpreter or compiled.
	Mode Mode `mapstructure:"mode"`

	// Env is passed to the guest as KEY=VALUE entries.
	Env []string `mapstructure:"env"`

	// InheritEnv passes the host environment before Env.
	InheritEnv bool `mapstructure:"inherit_env"`

	// QueueSize bounds the calls waiting for the guest.
	QueueSize int `mapstructure:"queue_size"`
}

// Default fills unset fields.
func (s *Settings) Default() {
	if s.Mode == "" {
		s.Mode = ModeInterpreter
	}
	if s.QueueSize == 0 {
		s.QueueSize = 16
	}
}

// Validate validates the settings
func (s *Settings) Validate() error {
	if s.Path == "" {
		return fmt.Errorf("%w: path is required", native.ErrInvalidSettings)
	}
	if _, err := s.Mode.runtimeConfig(); err != nil {
		return err
	}
	if s.QueueSize < 0 {
		return fmt.Errorf("%w: queue_size must not be negative, got %d", native.ErrInvalidSettings, s.QueueSize)
	}
	return nil
}

func (m Mode) runtimeConfig() (wazero.RuntimeConfig, error) {
	switch m {
	case ModeInterpreter, "":
		return wazero.NewRuntimeConfigInterpreter(), nil
	case ModeCompiled:
		return wazero.NewRuntimeConfigCompiler(), nil
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", native.ErrInvalidSettings, m)
	}
}

func decodeSettings(raw map[string]any) (Settings, error) {
	var s Settings
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &s,
	})
	if err != nil {
		return s, err
	}
	if err := dec.Decode(raw); err != nil {
		return s, fmt.Errorf("%w: %w", native.ErrInvalidSettings, err)
	}
	s.Default()
	return s, s.Validate()
}
