package bridgegen

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/indywasm/indywasm/abi"
)

func sampleDecls() *abi.Declarations {
	d := &abi.Declarations{
		Package: "sample",
		Skip:    []string{"indy_register_wallet_type"},
		Functions: []abi.FunctionDecl{
			decl("indy_create", []abi.ParamDecl{str("name")}, str("id")),
			decl("indy_close_wallet", []abi.ParamDecl{{Name: "handle", Type: "indy_handle_t"}}),
			decl("indy_open_wallet", []abi.ParamDecl{str("config"), str("credentials")},
				abi.ParamDecl{Name: "handle", Type: "indy_handle_t"}),
			decl("indy_crypto_verify",
				[]abi.ParamDecl{
					str("signer_vk"),
					{Name: "message_raw", Type: "const indy_u8_t*"},
					{Name: "message_len", Type: "indy_u32_t"},
					{Name: "signature_raw", Type: "const indy_u8_t*"},
					{Name: "signature_len", Type: "indy_u32_t"},
				},
				abi.ParamDecl{Name: "valid", Type: "indy_bool_t"}),
			bufferDecl(),
			decl("indy_crypto_auth_decrypt",
				[]abi.ParamDecl{
					{Name: "wallet_handle", Type: "indy_handle_t"},
					str("recipient_vk"),
					{Name: "encrypted_msg_raw", Type: "const indy_u8_t*"},
					{Name: "encrypted_msg_len", Type: "indy_u32_t"},
				},
				str("sender_vk"),
				abi.ParamDecl{Name: "msg_data", Type: "const indy_u8_t*"},
				abi.ParamDecl{Name: "msg_len", Type: "indy_u32_t"}),
			decl("indy_key_for_local_did", []abi.ParamDecl{{Name: "wallet_handle", Type: "indy_handle_t"}, str("did")},
				str("did"), str("verkey")),
			decl("indy_set_flag", []abi.ParamDecl{
				{Name: "on", Type: "indy_bool_t"},
				{Name: "n", Type: "indy_u32_t"},
				{Name: "delta", Type: "indy_i32_t"},
			}),
			{
				Name:    "indy_register_wallet_type",
				Returns: "indy_error_t",
			},
		},
	}
	d.Default()
	return d
}

func parse(t *testing.T, src []byte) *ast.File {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), "bridge.go", src, parser.ParseComments)
	require.NoError(t, err, "generated source:\n%s", src)
	return f
}

func funcDecl(f *ast.File, name string) *ast.FuncDecl {
	for _, d := range f.Decls {
		if fd, ok := d.(*ast.FuncDecl); ok && fd.Name.Name == name {
			return fd
		}
	}
	return nil
}

// bridgeCalls counts calls to bridge.<sel> for any selector matching match.
func bridgeCalls(fd *ast.FuncDecl, match func(string) bool) int {
	n := 0
	ast.Inspect(fd, func(node ast.Node) bool {
		call, ok := node.(*ast.CallExpr)
		if !ok {
			return true
		}
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if pkg, ok := sel.X.(*ast.Ident); ok && pkg.Name == "bridge" && match(sel.Sel.Name) {
			n++
		}
		return true
	})
	return n
}

func isValidator(name string) bool {
	return strings.HasSuffix(name, "Arg") && name != "CheckArgs"
}

func TestGenerateEmitsOneValidatorPerArgument(t *testing.T) {
	decls := sampleDecls()
	out, err := Generate(decls)
	require.NoError(t, err)

	f := parse(t, out.Source)
	assert.Equal(t, "sample", f.Name.Name)

	sigs, err := Check(decls)
	require.NoError(t, err)
	require.Len(t, sigs, 8)

	for i, fn := range decls.Functions[:8] {
		sig := sigs[i]
		fd := funcDecl(f, sig.GoName())
		require.NotNil(t, fd, "missing entry for %s", fn.Name)

		declared := len(fn.Params) - 2
		coalesced := declared
		for _, p := range fn.Params {
			if strings.HasSuffix(p.Name, "_len") {
				coalesced--
			}
		}
		assert.Equal(t, coalesced, bridgeCalls(fd, isValidator), "validators for %s", fn.Name)
		assert.Equal(t, len(sig.Params), coalesced)

		require.NotNil(t, funcDecl(f, strings.ToLower(sig.GoName()[:1])+sig.GoName()[1:]+"Trampoline"))
	}
	assert.Nil(t, funcDecl(f, "RegisterWalletType"), "skipped declarations must not be generated")
}

func TestGenerateTrampolineUsesShapeReaders(t *testing.T) {
	out, err := Generate(sampleDecls())
	require.NoError(t, err)
	f := parse(t, out.Source)

	tests := []struct {
		trampoline string
		reader     string
		calls      int
	}{
		{trampoline: "createTrampoline", reader: "CopyString", calls: 1},
		{trampoline: "openWalletTrampoline", reader: "ReadHandle", calls: 1},
		{trampoline: "cryptoVerifyTrampoline", reader: "ReadBool", calls: 1},
		{trampoline: "cryptoSignTrampoline", reader: "CopyBuffer", calls: 1},
		{trampoline: "keyForLocalDidTrampoline", reader: "CopyString", calls: 2},
		{trampoline: "cryptoAuthDecryptTrampoline", reader: "CopyBuffer", calls: 1},
		{trampoline: "closeWalletTrampoline", reader: "CopyString", calls: 0},
	}
	for _, tt := range tests {
		t.Run(tt.trampoline, func(t *testing.T) {
			fd := funcDecl(f, tt.trampoline)
			require.NotNil(t, fd)
			assert.Equal(t, tt.calls, bridgeCalls(fd, func(name string) bool { return name == tt.reader }))
		})
	}

	src := string(out.Source)
	assert.True(t, strings.HasPrefix(src, "// Code generated by bridgegen. DO NOT EDIT.\n"))
	assert.Contains(t, src, `const usage = "crypto_sign(wallet_handle, signer_vk, message_raw, cb(err, signature_raw))"`)
	assert.Contains(t, src, "native.Buffer(arg2)")
	assert.Contains(t, src, "native.Int(arg1)")
	assert.Contains(t, src, "native.Int(arg2)")
	assert.Contains(t, src, "bridge.StringBuffer{String: s, Buffer: buf}")
}

func TestGenerateIntegerRanges(t *testing.T) {
	out, err := Generate(sampleDecls())
	require.NoError(t, err)
	f := parse(t, out.Source)

	fd := funcDecl(f, "SetFlag")
	require.NotNil(t, fd)
	assert.Equal(t, 1, bridgeCalls(fd, func(name string) bool { return name == "Uint32Arg" }))
	assert.Equal(t, 1, bridgeCalls(fd, func(name string) bool { return name == "Int32Arg" }))

	src := string(out.Source)
	assert.Contains(t, src, "arg1, err := bridge.Uint32Arg(usage, args, 1)")
	assert.Contains(t, src, "arg2, err := bridge.Int32Arg(usage, args, 2)")

	flag := out.Manifest.Exports[7]
	require.Len(t, flag.Params, 3)
	assert.False(t, flag.Params[1].Signed)
	assert.True(t, flag.Params[2].Signed)
}

func TestGenerateIsDeterministic(t *testing.T) {
	first, err := Generate(sampleDecls())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Generate(sampleDecls())
		require.NoError(t, err)
		assert.Equal(t, first.Source, again.Source)
	}
}

func TestGenerateRejectsUnsupportedShape(t *testing.T) {
	decls := sampleDecls()
	decls.Functions = append(decls.Functions,
		decl("indy_three_strings", nil, str("a"), str("b"), str("c")))

	out, err := Generate(decls)
	require.ErrorIs(t, err, ErrUnsupportedShape)
	assert.Nil(t, out)
	assert.Contains(t, err.Error(), "indy_three_strings")
	assert.Contains(t, err.Error(), "(String,String,String)")
}

func TestGenerateRejectsIntegerPayload(t *testing.T) {
	decls := &abi.Declarations{Functions: []abi.FunctionDecl{
		decl("indy_count", nil, abi.ParamDecl{Name: "n", Type: "indy_u32_t"}),
	}}
	decls.Default()

	_, err := Generate(decls)
	assert.ErrorIs(t, err, ErrUnsupportedShape)
}

func TestGenerateReportsEveryViolation(t *testing.T) {
	decls := &abi.Declarations{Functions: []abi.FunctionDecl{
		decl("indy_ok", []abi.ParamDecl{str("name")}),
		decl("indy_bad_type", []abi.ParamDecl{{Name: "x", Type: "float"}}),
		decl("indy_bad_buffer", []abi.ParamDecl{{Name: "data_raw", Type: "const indy_u8_t*"}}),
		decl("indy_error_arg", []abi.ParamDecl{{Name: "code", Type: "indy_error_t"}}),
		decl("ok", []abi.ParamDecl{str("name")}),
	}}
	decls.Default()

	out, err := Generate(decls)
	require.Error(t, err)
	assert.Nil(t, out)

	errs := multierr.Errors(err)
	require.Len(t, errs, 4)
	assert.ErrorIs(t, errs[0], ErrUnknownType)
	assert.ErrorIs(t, errs[1], ErrUnpairedBuffer)
	assert.ErrorIs(t, errs[2], ErrUnknownType)
	assert.ErrorIs(t, errs[3], ErrDuplicate)
}

func TestGenerateEmpty(t *testing.T) {
	decls := &abi.Declarations{}
	decls.Default()

	out, err := Generate(decls)
	require.NoError(t, err)
	f := parse(t, out.Source)
	require.Len(t, f.Imports, 1)
	assert.Equal(t, `"github.com/indywasm/indywasm/bridge"`, f.Imports[0].Path.Value)
	assert.Empty(t, out.Manifest.Exports)
}

func TestGenerateImportsNativeOnlyWithArguments(t *testing.T) {
	decls := &abi.Declarations{Functions: []abi.FunctionDecl{decl("indy_ping", nil)}}
	decls.Default()

	out, err := Generate(decls)
	require.NoError(t, err)
	f := parse(t, out.Source)
	for _, imp := range f.Imports {
		assert.NotContains(t, imp.Path.Value, "/native")
	}
	assert.Contains(t, string(out.Source), `rt.Dispatch(ctx, "indy_ping", abi.ShapeNone, pingTrampoline, done)`)
}

func TestManifest(t *testing.T) {
	out, err := Generate(sampleDecls())
	require.NoError(t, err)

	require.Len(t, out.Manifest.Exports, 8)
	e := out.Manifest.Exports[5]
	assert.Equal(t, "crypto_auth_decrypt", e.Name)
	assert.Equal(t, "indy_crypto_auth_decrypt", e.Symbol)
	assert.Equal(t, "CryptoAuthDecrypt", e.Func)
	assert.Equal(t, "(String,ByteBuffer)", e.Shape)

	data, err := out.Manifest.Marshal()
	require.NoError(t, err)

	var decoded struct {
		Package string `yaml:"package"`
		Exports []struct {
			Name   string `yaml:"name"`
			Params []struct {
				Name string `yaml:"name"`
				Type string `yaml:"type"`
				Len  string `yaml:"len"`
			} `yaml:"params"`
		} `yaml:"exports"`
	}
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "sample", decoded.Package)
	require.Len(t, decoded.Exports, 8)
	sign := decoded.Exports[4]
	assert.Equal(t, "crypto_sign", sign.Name)
	require.Len(t, sign.Params, 3)
	assert.Equal(t, "ByteBuffer", sign.Params[2].Type)
	assert.Equal(t, "message_len", sign.Params[2].Len)
}
