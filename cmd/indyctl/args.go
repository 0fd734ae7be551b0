package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mr-tron/base58"
	"gopkg.in/yaml.v3"

	"github.com/indywasm/indywasm/abi"
	"github.com/indywasm/indywasm/bridge"
	"github.com/indywasm/indywasm/native"
)

var errUnsetVariable = errors.New("unset variable")

// step is one call in a run script.
type step struct {
	Call string   `yaml:"call"`
	Args []string `yaml:"args"`
	Save string   `yaml:"save"`
}

func parseScript(data []byte) ([]step, error) {
	var steps []step
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&steps); err != nil {
		return nil, fmt.Errorf("decoding script: %w", err)
	}
	for i, st := range steps {
		if st.Call == "" {
			return nil, fmt.Errorf("step %d: missing call", i+1)
		}
	}
	return steps, nil
}

// expandArgs replaces ${name} references with saved results.
func expandArgs(args []string, saved map[string]string) ([]string, error) {
	var missing []string
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = os.Expand(a, func(name string) string {
			v, ok := saved[name]
			if !ok {
				missing = append(missing, name)
			}
			return v
		})
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", errUnsetVariable, strings.Join(missing, ", "))
	}
	return out, nil
}

// parseArgs converts command line text to the Go values e's entry accepts.
func parseArgs(e bridge.Export, raw []string) ([]any, error) {
	if len(raw) != len(e.Params) {
		return nil, fmt.Errorf("%s: expected %d arguments, got %d", e.Usage, len(e.Params), len(raw))
	}
	args := make([]any, len(raw))
	for i, s := range raw {
		v, err := parseArg(e.Params[i], s)
		if err != nil {
			return nil, fmt.Errorf("%s: arg %d: %w", e.Usage, i, err)
		}
		args[i] = v
	}
	return args, nil
}

func parseArg(t abi.SemanticType, s string) (any, error) {
	switch t {
	case abi.String:
		return s, nil
	case abi.Boolean:
		return strconv.ParseBool(s)
	case abi.Integer:
		return strconv.ParseInt(s, 0, 64)
	case abi.Handle:
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return nil, err
		}
		return native.Handle(n), nil
	case abi.ByteBuffer:
		return parseBuffer(s)
	default:
		return nil, fmt.Errorf("%s cannot be given on the command line", t)
	}
}

func parseBuffer(s string) ([]byte, error) {
	switch {
	case strings.HasPrefix(s, "hex:"):
		return hex.DecodeString(strings.TrimPrefix(s, "hex:"))
	case strings.HasPrefix(s, "b58:"):
		return base58.Decode(strings.TrimPrefix(s, "b58:"))
	case strings.HasPrefix(s, "@"):
		return os.ReadFile(strings.TrimPrefix(s, "@"))
	default:
		return []byte(s), nil
	}
}

// formatResult renders a completion value as one field per payload value.
func formatResult(v any) []string {
	switch v := v.(type) {
	case nil:
		return nil
	case string:
		return []string{v}
	case bool:
		return []string{strconv.FormatBool(v)}
	case native.Handle:
		return []string{strconv.Itoa(int(v))}
	case []byte:
		return []string{formatBuffer(v)}
	case bridge.StringPair:
		return []string{v.First, v.Second}
	case bridge.StringBuffer:
		return []string{v.String, formatBuffer(v.Buffer)}
	default:
		return []string{fmt.Sprint(v)}
	}
}

func formatBuffer(b []byte) string {
	return "b58:" + base58.Encode(b)
}
