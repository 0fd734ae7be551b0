package bridgegen

import (
	"bytes"
	"embed"
	"fmt"
	"go/format"
	"strings"
	"text/template"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/indywasm/indywasm/abi"
)

//go:embed templates/*.gotmpl
var templates embed.FS

var bridgeTemplate = template.Must(template.ParseFS(templates, "templates/bridge.gotmpl"))

// argCodec is how one caller argument is validated and marshaled.
type argCodec struct {
	validator string
	marshal   string
}

var argCodecs = map[abi.SemanticType]argCodec{
	abi.String:     {validator: "StringArg", marshal: "native.CString"},
	abi.Boolean:    {validator: "BoolArg", marshal: "native.Bool"},
	abi.Integer:    {validator: "Uint32Arg", marshal: "native.Int"},
	abi.Handle:     {validator: "HandleArg", marshal: "native.HandleValue"},
	abi.ByteBuffer: {validator: "BufferArg", marshal: "native.Buffer"},
}

func codecFor(p Param) argCodec {
	codec := argCodecs[p.Type]
	if p.Type == abi.Integer && p.Signed {
		codec.validator = "Int32Arg"
	}
	return codec
}

// Output is the result of a successful generation.
type Output struct {
	Source   []byte
	Manifest Manifest
}

// Manifest lists every generated entry point.
type Manifest struct {
	Package string          `yaml:"package"`
	Exports []ManifestEntry `yaml:"exports"`
}

// ManifestEntry describes one generated entry point.
type ManifestEntry struct {
	Name     string  `yaml:"name"`
	Symbol   string  `yaml:"symbol"`
	Func     string  `yaml:"func"`
	Usage    string  `yaml:"usage"`
	Shape    string  `yaml:"shape"`
	Params   []Param `yaml:"params"`
	Callback []Param `yaml:"callback"`
}

// Marshal renders the manifest as YAML.
func (m Manifest) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// Prepare runs every generation check on one declaration: normalization,
// buffer coalescing on both parameter lists, argument support and the
// callback shape.
func Prepare(fn abi.FunctionDecl, namespace string) (*Signature, error) {
	sig, err := Normalize(fn, namespace)
	if err != nil {
		return nil, err
	}
	if sig.Params, err = Coalesce(fn.Name, sig.Params); err != nil {
		return nil, err
	}
	if sig.Callback, err = Coalesce(fn.Name, sig.Callback); err != nil {
		return nil, err
	}
	for _, p := range sig.Params {
		if _, ok := argCodecs[p.Type]; !ok {
			return nil, &GenError{Function: fn.Name, Param: p.Name, Err: ErrUnknownType, Detail: p.Type.String() + " cannot be passed as an argument"}
		}
	}
	if _, ok := sig.Shape(); !ok {
		return nil, &GenError{Function: fn.Name, Err: ErrUnsupportedShape, Detail: sig.Payload().String()}
	}
	return sig, nil
}

// Check prepares every declaration that is not skipped and returns the
// signatures in declaration order together with all violations found.
func Check(decls *abi.Declarations) ([]*Signature, error) {
	var (
		sigs []*Signature
		errs error
		seen = make(map[string]string)
	)
	for _, fn := range decls.Functions {
		if decls.Skipped(fn.Name) {
			continue
		}
		sig, err := Prepare(fn, decls.Namespace)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if prev, ok := seen[sig.GoName()]; ok {
			errs = multierr.Append(errs, &GenError{Function: fn.Name, Err: ErrDuplicate, Detail: fmt.Sprintf("%s is also generated for %s", sig.GoName(), prev)})
			continue
		}
		seen[sig.GoName()] = fn.Name
		sigs = append(sigs, sig)
	}
	return sigs, errs
}

// Generate renders bridge source for decls. If any declaration fails a check,
// every failure is returned and no source is produced.
func Generate(decls *abi.Declarations) (*Output, error) {
	sigs, err := Check(decls)
	if err != nil {
		return nil, err
	}

	data := templateData{Package: decls.Package}
	manifest := Manifest{Package: decls.Package, Exports: make([]ManifestEntry, 0, len(sigs))}
	for _, sig := range sigs {
		fn, err := newTemplateFunc(sig)
		if err != nil {
			return nil, err
		}
		data.Functions = append(data.Functions, fn)
		if len(fn.Args) > 0 {
			data.NeedsNative = true
		}
		manifest.Exports = append(manifest.Exports, ManifestEntry{
			Name:     sig.Entry,
			Symbol:   sig.Name,
			Func:     fn.Func,
			Usage:    fn.Usage,
			Shape:    sig.Payload().String(),
			Params:   sig.Params,
			Callback: sig.Callback,
		})
	}

	var buf bytes.Buffer
	if err := bridgeTemplate.ExecuteTemplate(&buf, "bridge.gotmpl", data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated source: %w", err)
	}
	return &Output{Source: src, Manifest: manifest}, nil
}

type templateData struct {
	Package     string
	NeedsNative bool
	Functions   []templateFunc
}

type templateFunc struct {
	Name       string
	Symbol     string
	Func       string
	Trampoline string
	Usage      string
	Shape      string
	Types      string
	Args       []templateArg
	Demarshal  string
}

type templateArg struct {
	Index     int
	Validator string
	Marshal   string
}

func newTemplateFunc(sig *Signature) (templateFunc, error) {
	shape, _ := sig.Shape()
	body, err := demarshalBody(shape)
	if err != nil {
		return templateFunc{}, &GenError{Function: sig.Name, Err: err, Detail: shape.String()}
	}

	goName := sig.GoName()
	fn := templateFunc{
		Name:       sig.Entry,
		Symbol:     sig.Name,
		Func:       goName,
		Trampoline: strings.ToLower(goName[:1]) + goName[1:] + "Trampoline",
		Usage:      sig.Usage(),
		Shape:      shape.Ident(),
		Demarshal:  body,
	}
	types := make([]string, len(sig.Params))
	for i, p := range sig.Params {
		codec := codecFor(p)
		fn.Args = append(fn.Args, templateArg{
			Index:     i,
			Validator: codec.validator,
			Marshal:   fmt.Sprintf("%s(arg%d)", codec.marshal, i),
		})
		types[i] = "abi." + p.Type.String()
	}
	fn.Types = strings.Join(types, ", ")
	return fn, nil
}

// demarshalBody returns the trampoline body for a shape. The switch is the
// complete mapping from supported shapes to payload handling.
func demarshalBody(shape abi.Shape) (string, error) {
	switch shape {
	case abi.ShapeNone:
		return "return nil, nil", nil
	case abi.ShapeString:
		return "return bridge.CopyString(c.Payload, 0)", nil
	case abi.ShapeBoolean:
		return "return bridge.ReadBool(c.Payload, 0)", nil
	case abi.ShapeHandle:
		return "return bridge.ReadHandle(c.Payload, 0)", nil
	case abi.ShapeStringString:
		return `first, err := bridge.CopyString(c.Payload, 0)
if err != nil {
return nil, err
}
second, err := bridge.CopyString(c.Payload, 1)
if err != nil {
return nil, err
}
return bridge.StringPair{First: first, Second: second}, nil`, nil
	case abi.ShapeBuffer:
		return "return bridge.CopyBuffer(c.Payload, 0)", nil
	case abi.ShapeStringBuffer:
		return `s, err := bridge.CopyString(c.Payload, 0)
if err != nil {
return nil, err
}
buf, err := bridge.CopyBuffer(c.Payload, 1)
if err != nil {
return nil, err
}
return bridge.StringBuffer{String: s, Buffer: buf}, nil`, nil
	default:
		return "", ErrUnsupportedShape
	}
}
