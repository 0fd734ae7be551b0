package indy

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/indywasm/indywasm/abi"
	"github.com/indywasm/indywasm/bridge"
	"github.com/indywasm/indywasm/bridgegen"
	"github.com/indywasm/indywasm/native"
	"github.com/indywasm/indywasm/native/nullsdk"
)

const (
	walletConfig = `{"id":"alice"}`
	walletCreds  = `{"key":"alice-key"}`

	stewardSeed   = "000000000000000000000000Steward1"
	stewardDid    = "Th7MpTaRZVRYnPiabds81Y"
	stewardVerkey = "FYmoFw55GeQH7SRFa37dkx1d2dZ3zUF8ckg7wmL7ofN4"
)

func newRuntime(t *testing.T, lib native.Library) *bridge.Runtime {
	t.Helper()
	rt := bridge.NewRuntime(lib)
	ctx, cancel := context.WithCancel(context.Background())
	go rt.Run(ctx)
	t.Cleanup(func() {
		cancel()
		require.NoError(t, rt.Close(context.Background()))
	})
	return rt
}

func newSDKRuntime(t *testing.T) *bridge.Runtime {
	t.Helper()
	return newRuntime(t, nullsdk.New(nullsdk.Settings{Workers: 2, QueueSize: 8}, nil))
}

func invoke(t *testing.T, rt *bridge.Runtime, entry bridge.Entry, args ...any) (any, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	v, err := bridge.Invoke(ctx, rt, entry, args...)
	require.NotErrorIs(t, err, context.DeadlineExceeded)
	return v, err
}

func openWallet(t *testing.T, rt *bridge.Runtime) native.Handle {
	t.Helper()
	_, err := invoke(t, rt, CreateWallet, walletConfig, walletCreds)
	require.NoError(t, err)
	v, err := invoke(t, rt, OpenWallet, walletConfig, walletCreds)
	require.NoError(t, err)
	require.IsType(t, native.Handle(0), v)
	return v.(native.Handle)
}

func TestExportsMatchDeclarations(t *testing.T) {
	decls, err := abi.Load("indy.yaml")
	require.NoError(t, err)
	out, err := bridgegen.Generate(decls)
	require.NoError(t, err)

	require.Len(t, Exports, len(out.Manifest.Exports))
	for i, want := range out.Manifest.Exports {
		got := Exports[i]
		assert.Equal(t, want.Name, got.Name)
		assert.Equal(t, want.Symbol, got.Symbol)
		assert.Equal(t, want.Usage, got.Usage)
		assert.Equal(t, want.Shape, got.Shape.String(), want.Name)
		types := make([]abi.SemanticType, len(want.Params))
		for j, p := range want.Params {
			types[j] = p.Type
		}
		assert.Equal(t, types, got.Params, want.Name)
	}

	generated := declaredFuncs(t, "generated.go", out.Source)
	checkedIn := declaredFuncs(t, "indy_bridge.go", nil)
	assert.Equal(t, generated, checkedIn, "indy_bridge.go is stale, run go generate")
}

func declaredFuncs(t *testing.T, filename string, src []byte) []string {
	t.Helper()
	var source any
	if src != nil {
		source = src
	}
	f, err := parser.ParseFile(token.NewFileSet(), filename, source, 0)
	require.NoError(t, err)
	var names []string
	for _, decl := range f.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok {
			names = append(names, fn.Name.Name)
		}
	}
	sort.Strings(names)
	return names
}

func TestSkippedDeclarationsAreNotExported(t *testing.T) {
	for _, e := range Exports {
		assert.NotEqual(t, "indy_register_wallet_type", e.Symbol)
	}
	e, err := bridge.Lookup(Exports, "crypto_sign")
	require.NoError(t, err)
	assert.Equal(t, abi.ShapeBuffer, e.Shape)
	assert.Equal(t, []abi.SemanticType{abi.Handle, abi.String, abi.ByteBuffer}, e.Params)
}

func TestWalletLifecycle(t *testing.T) {
	rt := newSDKRuntime(t)

	wh := openWallet(t, rt)
	assert.Positive(t, wh)

	_, err := invoke(t, rt, CreateWallet, walletConfig, walletCreds)
	assert.ErrorIs(t, err, &bridge.Error{Code: native.WalletAlreadyExistsError})

	_, err = invoke(t, rt, DeleteWallet, walletConfig, walletCreds)
	assert.ErrorIs(t, err, &bridge.Error{Code: native.CommonInvalidState})

	v, err := invoke(t, rt, CloseWallet, wh)
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = invoke(t, rt, DeleteWallet, walletConfig, walletCreds)
	require.NoError(t, err)

	_, err = invoke(t, rt, OpenWallet, walletConfig, walletCreds)
	var indyErr *bridge.Error
	require.ErrorAs(t, err, &indyErr)
	assert.Equal(t, native.WalletNotFoundError, indyErr.Code)
	assert.Contains(t, indyErr.Message, "alice")
}

func TestDidsAndKeys(t *testing.T) {
	rt := newSDKRuntime(t)
	wh := openWallet(t, rt)

	v, err := invoke(t, rt, CreateAndStoreMyDid, wh, fmt.Sprintf(`{"seed":%q}`, stewardSeed))
	require.NoError(t, err)
	assert.Equal(t, bridge.StringPair{First: stewardDid, Second: stewardVerkey}, v)

	v, err = invoke(t, rt, KeyForLocalDid, wh, stewardDid)
	require.NoError(t, err)
	assert.Equal(t, stewardVerkey, v)

	v, err = invoke(t, rt, AbbreviateVerkey, stewardDid, stewardVerkey)
	require.NoError(t, err)
	require.IsType(t, "", v)
	assert.Equal(t, byte('~'), v.(string)[0])

	_, err = invoke(t, rt, KeyForLocalDid, wh, "UnknownDid1111111111")
	assert.ErrorIs(t, err, &bridge.Error{Code: native.WalletItemNotFound})
}

func TestSignAndEncrypt(t *testing.T) {
	rt := newSDKRuntime(t)
	wh := openWallet(t, rt)
	msg := []byte("hello from alice")

	v, err := invoke(t, rt, CreateKey, wh, fmt.Sprintf(`{"seed":%q}`, stewardSeed))
	require.NoError(t, err)
	vk := v.(string)
	assert.Equal(t, stewardVerkey, vk)

	v, err = invoke(t, rt, CreateKey, wh, "{}")
	require.NoError(t, err)
	otherVk := v.(string)

	sig, err := invoke(t, rt, CryptoSign, wh, vk, msg)
	require.NoError(t, err)
	require.IsType(t, []byte(nil), sig)
	assert.Len(t, sig, 64)

	ok, err := invoke(t, rt, CryptoVerify, vk, msg, sig)
	require.NoError(t, err)
	assert.Equal(t, true, ok)

	ok, err = invoke(t, rt, CryptoVerify, otherVk, msg, sig)
	require.NoError(t, err)
	assert.Equal(t, false, ok)

	sealed, err := invoke(t, rt, CryptoAnonCrypt, otherVk, msg)
	require.NoError(t, err)
	opened, err := invoke(t, rt, CryptoAnonDecrypt, wh, otherVk, sealed)
	require.NoError(t, err)
	assert.Equal(t, msg, opened)

	sealed, err = invoke(t, rt, CryptoAuthCrypt, wh, vk, otherVk, msg)
	require.NoError(t, err)
	v, err = invoke(t, rt, CryptoAuthDecrypt, wh, otherVk, sealed)
	require.NoError(t, err)
	assert.Equal(t, bridge.StringBuffer{String: vk, Buffer: msg}, v)
}

func TestConcurrentCalls(t *testing.T) {
	rt := newSDKRuntime(t)
	wh := openWallet(t, rt)

	const n = 32
	verkeys := make([]string, n)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	for i := range n {
		g.Go(func() error {
			v, err := bridge.Invoke(ctx, rt, CreateKey, wh, "{}")
			if err != nil {
				return err
			}
			verkeys[i] = v.(string)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	seen := make(map[string]struct{}, n)
	for _, vk := range verkeys {
		seen[vk] = struct{}{}
	}
	assert.Len(t, seen, n)
	assert.Zero(t, rt.Registry().Len())
}

// countingLibrary fails every call and counts how many reached it.
type countingLibrary struct {
	calls atomic.Int32
}

func (l *countingLibrary) Call(context.Context, string, native.Handle, []native.Value, native.Callback) (native.ErrorCode, error) {
	l.calls.Add(1)
	return native.Success, native.ErrSymbolNotFound
}

func (l *countingLibrary) Close(context.Context) error { return nil }

func TestArgumentErrorsNeverReachLibrary(t *testing.T) {
	lib := &countingLibrary{}
	rt := newRuntime(t, lib)
	ctx := context.Background()
	noop := func(any, error) {}

	tests := []struct {
		name  string
		entry bridge.Entry
		args  []any
		want  string
	}{
		{name: "too few", entry: CreateWallet, args: []any{walletConfig}, want: "expected 2 arguments, got 1"},
		{name: "not a string", entry: CreateWallet, args: []any{walletConfig, 7}, want: "expected String for arg 1"},
		{name: "not a buffer", entry: CryptoSign, args: []any{1, "vk", "message"}, want: "arg 2"},
		{name: "not a handle", entry: CloseWallet, args: []any{"1"}, want: "arg 0"},
		{name: "nul in string", entry: AbbreviateVerkey, args: []any{"did\x00", "vk"}, want: "without NUL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry(ctx, rt, tt.args, noop)
			require.ErrorIs(t, err, bridge.ErrInvalidArgument)
			assert.ErrorContains(t, err, tt.want)
		})
	}

	err := CreateWallet(ctx, rt, []any{walletConfig, walletCreds}, nil)
	assert.ErrorIs(t, err, bridge.ErrInvalidArgument)
	assert.Zero(t, lib.calls.Load())
}
