package abi

// CallbackType is the type spelling that marks a parameter as a completion
// descriptor. Its Params hold the callback's own arguments.
const CallbackType = "callback"

// DefaultNamespace is stripped from native symbols to form entry names.
const DefaultNamespace = "indy_"

// Declarations is the generator input: an ordered list of native function
// declarations plus naming options.
type Declarations struct {
	// Package is the Go package name of the generated source.
	Package string `yaml:"package" toml:"package"`
	// Namespace is the symbol prefix removed from entry names.
	Namespace string `yaml:"namespace" toml:"namespace"`
	// Skip lists symbols the generator ignores.
	Skip      []string       `yaml:"skip,omitempty" toml:"skip"`
	Functions []FunctionDecl `yaml:"functions" toml:"functions"`
}

// FunctionDecl is one native function as written in the SDK header.
type FunctionDecl struct {
	Name    string      `yaml:"name" toml:"name"`
	Returns string      `yaml:"returns" toml:"returns"`
	Params  []ParamDecl `yaml:"params" toml:"params"`
}

// ParamDecl is one parameter; its position in the parent list is its index.
type ParamDecl struct {
	Name   string      `yaml:"name" toml:"name"`
	Type   string      `yaml:"type" toml:"type"`
	Params []ParamDecl `yaml:"params,omitempty" toml:"params"`
}

// IsCallback reports whether the parameter is a completion descriptor.
func (p ParamDecl) IsCallback() bool {
	return p.Type == CallbackType
}

// Skipped reports whether the named symbol is listed in Skip.
func (d *Declarations) Skipped(name string) bool {
	for _, s := range d.Skip {
		if s == name {
			return true
		}
	}
	return false
}
