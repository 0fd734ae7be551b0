// Package bridgegen turns native SDK declarations into Go bridge source: it
// normalizes each signature, coalesces buffer arguments, checks the callback
// shape and renders entry points, trampolines and an export manifest.
package bridgegen

import (
	"fmt"
	"go/token"
	"regexp"
	"strings"

	"github.com/indywasm/indywasm/abi"
)

var (
	nonTypeChars = regexp.MustCompile(`[^A-Za-z0-9_*]`)
	// The SDK header misspells command_handle in places, including the
	// command_hanlde transposition.
	commandHandleParam    = regexp.MustCompile(`command_han(.l|ld)e$`)
	commandHandleCallback = regexp.MustCompile(`command_handle$`)
)

type rawType struct {
	typ abi.SemanticType
	// pointer marks the pointer half of a pointer/length buffer pair.
	pointer bool
	signed  bool
}

var rawTypes = map[string]rawType{
	"constchar*":      {typ: abi.String},
	"constchar*const": {typ: abi.String},
	"indy_bool_t":     {typ: abi.Boolean},
	"indy_u32_t":      {typ: abi.Integer},
	"indy_i32_t":      {typ: abi.Integer, signed: true},
	"indy_handle_t":   {typ: abi.Handle},
	"indy_error_t":    {typ: abi.ErrorCode},
	"void":            {typ: abi.Void},
	"Buffer":          {typ: abi.ByteBuffer},
	"constindy_u8_t*": {typ: abi.ByteBuffer, pointer: true},
	"indy_u8_t*":      {typ: abi.ByteBuffer, pointer: true},
}

// spelling strips a raw C type down to the characters that identify it.
func spelling(raw string) string {
	return nonTypeChars.ReplaceAllString(raw, "")
}

// Param is a normalized parameter.
type Param struct {
	Name  string           `yaml:"name"`
	Raw   string           `yaml:"raw"`
	Index int              `yaml:"index"`
	Type  abi.SemanticType `yaml:"type"`
	// Signed marks an Integer declared as indy_i32_t.
	Signed bool `yaml:"signed,omitempty"`
	// LenName is the length parameter merged into a ByteBuffer.
	LenName string `yaml:"len,omitempty"`
	// Pending marks a buffer pointer still waiting for its length.
	Pending bool `yaml:"-"`
}

// Signature is a declaration whose calling convention has been checked and
// whose parameter types have been normalized. Params and Callback exclude the
// command handle, the callback itself and the callback's error code.
type Signature struct {
	Name     string
	Entry    string
	Params   []Param
	Callback []Param
}

// Payload returns the callback's payload types.
func (s *Signature) Payload() abi.CallbackShape {
	shape := make(abi.CallbackShape, len(s.Callback))
	for i, p := range s.Callback {
		shape[i] = p.Type
	}
	return shape
}

// Shape returns the supported shape of the callback payload, if it is one.
func (s *Signature) Shape() (abi.Shape, bool) {
	return abi.ShapeOf(s.Payload())
}

// Usage describes the entry point the way callers see it, e.g.
// "create_wallet(config, credentials, cb(err))".
func (s *Signature) Usage() string {
	args := make([]string, 0, len(s.Params)+1)
	for _, p := range s.Params {
		args = append(args, p.Name)
	}
	cb := []string{"err"}
	for _, p := range s.Callback {
		cb = append(cb, p.Name)
	}
	args = append(args, "cb("+strings.Join(cb, ", ")+")")
	return s.Entry + "(" + strings.Join(args, ", ") + ")"
}

// GoName is the exported Go name of the entry point: create_wallet becomes
// CreateWallet.
func (s *Signature) GoName() string {
	var b strings.Builder
	for _, part := range strings.Split(s.Entry, "_") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// Normalize checks fn's calling convention and maps every remaining raw type
// to its semantic type. namespace is stripped from the symbol to form the
// entry name.
func Normalize(fn abi.FunctionDecl, namespace string) (*Signature, error) {
	fail := func(param string, err error, format string, args ...any) error {
		return &GenError{Function: fn.Name, Param: param, Err: err, Detail: fmt.Sprintf(format, args...)}
	}

	if ret, ok := rawTypes[spelling(fn.Returns)]; !ok || ret.typ != abi.ErrorCode {
		return nil, fail("", ErrReturnKind, "returns %q", fn.Returns)
	}
	if len(fn.Params) < 2 {
		return nil, fail("", ErrCallingConvention, "expected a command handle and a callback")
	}

	first := fn.Params[0]
	if spelling(first.Type) != "indy_handle_t" || !commandHandleParam.MatchString(first.Name) {
		return nil, fail(first.Name, ErrCallingConvention, "expected a command_handle as the first argument")
	}
	last := fn.Params[len(fn.Params)-1]
	if !last.IsCallback() {
		return nil, fail(last.Name, ErrCallingConvention, "expected a callback as the last argument")
	}
	if len(last.Params) < 2 ||
		spelling(last.Params[0].Type) != "indy_handle_t" ||
		!commandHandleCallback.MatchString(last.Params[0].Name) ||
		spelling(last.Params[1].Type) != "indy_error_t" {
		return nil, fail(last.Name, ErrCallingConvention, "callback does not start with the command handle and error code")
	}

	sig := &Signature{Name: fn.Name, Entry: strings.TrimPrefix(fn.Name, namespace)}
	if name := sig.GoName(); !token.IsIdentifier(name) {
		return nil, fail("", ErrCallingConvention, "entry name %q is not a Go identifier", name)
	}

	for i, p := range fn.Params[1 : len(fn.Params)-1] {
		param, err := normalizeParam(fn.Name, p, i+1)
		if err != nil {
			return nil, err
		}
		sig.Params = append(sig.Params, param)
	}
	for i, p := range last.Params[2:] {
		param, err := normalizeParam(fn.Name, p, i+2)
		if err != nil {
			return nil, err
		}
		sig.Callback = append(sig.Callback, param)
	}
	return sig, nil
}

func normalizeParam(function string, p abi.ParamDecl, index int) (Param, error) {
	if p.IsCallback() {
		return Param{}, &GenError{Function: function, Param: p.Name, Err: ErrCallingConvention, Detail: "callback must be the last argument"}
	}
	rt, ok := rawTypes[spelling(p.Type)]
	if !ok {
		return Param{}, &GenError{Function: function, Param: p.Name, Err: ErrUnknownType, Detail: fmt.Sprintf("no mapping for %q", p.Type)}
	}
	return Param{
		Name:    p.Name,
		Raw:     p.Type,
		Index:   index,
		Type:    rt.typ,
		Signed:  rt.signed,
		Pending: rt.pointer,
	}, nil
}
