package abi

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownFormat   = errors.New("unknown declaration file format")
	ErrInvalidPackage  = errors.New("invalid package name")
	ErrDuplicateSymbol = errors.New("duplicate function declaration")
	ErrUnnamedSymbol   = errors.New("function declaration without a name")
)

// Format is a declaration file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf picks a format from a file extension. JSON is read as YAML.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("abi: %s: %w", path, ErrUnknownFormat)
	}
}

// Load reads and validates a declaration file.
func Load(path string) (*Declarations, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("abi: reading declarations: %w", err)
	}
	decls, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("abi: %s: %w", path, err)
	}
	return decls, nil
}

// Parse decodes declarations, fills defaults and validates them.
func Parse(data []byte, format Format) (*Declarations, error) {
	var decls Declarations
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&decls); err != nil {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &decls)
		if err != nil {
			return nil, fmt.Errorf("decoding toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("decoding toml: unknown key %q", undecoded[0].String())
		}
	default:
		return nil, fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}

	decls.Default()
	if err := decls.Validate(); err != nil {
		return nil, err
	}
	return &decls, nil
}

// Default fills the package and namespace when they are not set.
func (d *Declarations) Default() {
	if d.Package == "" {
		d.Package = "indy"
	}
	if d.Namespace == "" {
		d.Namespace = DefaultNamespace
	}
}

// Validate checks file-level rules. Per-signature rules belong to the generator.
func (d *Declarations) Validate() error {
	if !token.IsIdentifier(d.Package) || token.IsKeyword(d.Package) {
		return fmt.Errorf("%q: %w", d.Package, ErrInvalidPackage)
	}
	seen := make(map[string]struct{}, len(d.Functions))
	for i, fn := range d.Functions {
		if fn.Name == "" {
			return fmt.Errorf("function %d: %w", i, ErrUnnamedSymbol)
		}
		if _, ok := seen[fn.Name]; ok {
			return fmt.Errorf("%s: %w", fn.Name, ErrDuplicateSymbol)
		}
		seen[fn.Name] = struct{}{}
	}
	return nil
}
