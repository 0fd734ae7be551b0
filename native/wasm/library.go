// Package wasm runs the native SDK compiled to WebAssembly on wazero.
//
// The guest is a WASI reactor. It exports its memory, an allocator
// (indy_alloc) and one function per SDK symbol taking the command handle,
// the arguments and a callback index, returning the immediate error code.
// Strings are passed as pointers to NUL-terminated UTF-8 and buffers as a
// pointer and a length. The guest reports completions by calling the
// complete* functions of the "indy" host module with the callback index.
package wasm

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/stealthrocket/wasi-go"
	wasigo "github.com/stealthrocket/wasi-go/imports"
	"github.com/stealthrocket/wasi-go/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapio"

	"github.com/indywasm/indywasm/native"
)

// Name is the name the library is registered under.
const Name = native.DefaultLibrary

func init() {
	native.Register(Name, Factory)
}

// Factory decodes settings and loads the module at Settings.Path.
func Factory(ctx context.Context, settings map[string]any, logger *zap.Logger) (native.Library, error) {
	s, err := decodeSettings(settings)
	if err != nil {
		return nil, err
	}
	binary, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("wasm: reading module: %w", err)
	}
	return New(ctx, binary, s, logger)
}

// Library is an instantiated SDK module. Guest code only ever runs on the
// library's worker goroutine, which is where completions are delivered.
type Library struct {
	logger  *zap.Logger
	runtime wazero.Runtime
	sys     wasi.System
	mod     api.Module
	ctx     context.Context
	stdout  *zapio.Writer
	stderr  *zapio.Writer

	alloc        api.Function
	free         api.Function
	currentError api.Function
	symbols      map[string]api.FunctionDefinition
	funcs        map[string]api.Function

	jobs   chan func()
	quit   chan struct{}
	done   chan struct{}
	closed atomic.Bool

	mu           sync.Mutex
	callbacks    map[uint32]native.Callback
	lastCallback uint32
	lastErr      *native.ErrorDetails
	callErrs     map[native.Handle]native.ErrorDetails
}

// New compiles and instantiates binary.
func New(ctx context.Context, binary []byte, s Settings, logger *zap.Logger) (*Library, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s.Default()
	rc, err := s.Mode.runtimeConfig()
	if err != nil {
		return nil, err
	}

	l := &Library{
		logger:    logger,
		runtime:   wazero.NewRuntimeWithConfig(ctx, rc),
		stdout:    &zapio.Writer{Log: logger.Named("guest"), Level: zap.InfoLevel},
		stderr:    &zapio.Writer{Log: logger.Named("guest"), Level: zap.WarnLevel},
		funcs:     make(map[string]api.Function),
		jobs:      make(chan func(), s.QueueSize),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
		callbacks: make(map[uint32]native.Callback),
		callErrs:  make(map[native.Handle]native.ErrorDetails),
	}
	if err := l.instantiate(ctx, binary, s); err != nil {
		return nil, multierr.Append(err, l.runtime.Close(ctx))
	}

	go l.work()
	logger.Info("loaded sdk module", zap.Int("symbols", len(l.symbols)), zap.String("mode", string(s.Mode)))
	return l, nil
}

func (l *Library) instantiate(ctx context.Context, binary []byte, s Settings) error {
	compiled, err := l.runtime.CompileModule(ctx, binary)
	if err != nil {
		return fmt.Errorf("wasm: error compiling module: %w", err)
	}
	if _, ok := compiled.ExportedMemories()[guestExportMemory]; !ok {
		return fmt.Errorf("wasm: guest doesn't export memory[%s]: %w", guestExportMemory, ErrMemoryExportNotFound)
	}
	exports := compiled.ExportedFunctions()
	if _, ok := exports[guestExportAlloc]; !ok {
		return fmt.Errorf("wasm: %s is not exported: %w", guestExportAlloc, ErrRequiredFunctionNotExported)
	}

	env := s.Env
	if s.InheritEnv {
		env = append(os.Environ(), s.Env...)
	}
	ctx, sys, err := wasigo.NewBuilder().
		WithSocketsExtension(wasmEdgeV2Extension, compiled).
		WithEnv(env...).
		Instantiate(ctx, l.runtime)
	if err != nil {
		return fmt.Errorf("wasm: wasi instantiation failed: %w", err)
	}
	wasiModule, ok := moduleInstanceFor[*wasi_snapshot_preview1.Module](ctx)
	if !ok {
		return multierr.Append(fmt.Errorf("wasm: wasi host module instance not found"), sys.Close(ctx))
	}

	if _, err := l.instantiateHostModule(ctx, l.runtime); err != nil {
		return multierr.Append(fmt.Errorf("wasm: host module instantiation failed: %w", err), sys.Close(ctx))
	}

	config := wazero.NewModuleConfig().
		WithStartFunctions("_initialize"). // reactor module
		WithStdout(l.stdout).
		WithStderr(l.stderr)
	mod, err := l.runtime.InstantiateModule(ctx, compiled, config)
	if err != nil {
		return multierr.Append(fmt.Errorf("wasm: guest module instantiation failed: %w", err), sys.Close(ctx))
	}

	l.sys = sys
	l.mod = mod
	l.ctx = withModuleInstance(context.Background(), wasiModule)
	l.alloc = mod.ExportedFunction(guestExportAlloc)
	l.free = mod.ExportedFunction(guestExportFree)
	l.currentError = mod.ExportedFunction(guestExportCurrentError)
	l.symbols = make(map[string]api.FunctionDefinition, len(exports))
	for name, def := range exports {
		switch name {
		case guestExportAlloc, guestExportFree, guestExportCurrentError, "_initialize":
			continue
		}
		l.symbols[name] = def
	}
	return nil
}

// Symbols returns the sorted SDK symbols the module exports.
func (l *Library) Symbols() []string {
	return slices.Sorted(maps.Keys(l.symbols))
}

func (l *Library) work() {
	defer close(l.done)
	for {
		select {
		case job := <-l.jobs:
			job()
		case <-l.quit:
			return
		}
	}
}

type callResult struct {
	code native.ErrorCode
	err  error
}

// Call implements native.Library. It blocks until the guest function returns;
// completions may be delivered before that, on the worker goroutine.
func (l *Library) Call(ctx context.Context, symbol string, h native.Handle, args []native.Value, cb native.Callback) (native.ErrorCode, error) {
	if l.closed.Load() {
		return native.Success, native.ErrClosed
	}
	def, ok := l.symbols[symbol]
	if !ok {
		return native.Success, fmt.Errorf("%s: %w", symbol, native.ErrSymbolNotFound)
	}
	if cb == nil {
		return native.Success, fmt.Errorf("%s: nil callback: %w", symbol, native.ErrInvalidArguments)
	}
	if want, got := len(def.ParamTypes()), paramSlots(args); want != got || len(def.ResultTypes()) != 1 {
		return native.Success, fmt.Errorf("%s takes %d parameters, arguments need %d: %w", symbol, want, got, ErrSignatureMismatch)
	}

	res := make(chan callResult, 1)
	job := func() {
		code, err := l.invoke(symbol, h, args, cb)
		res <- callResult{code: code, err: err}
	}
	select {
	case l.jobs <- job:
	case <-l.quit:
		return native.Success, native.ErrClosed
	case <-ctx.Done():
		return native.Success, ctx.Err()
	}

	select {
	case r := <-res:
		return r.code, r.err
	case <-l.done:
		select {
		case r := <-res:
			return r.code, r.err
		default:
			return native.Success, native.ErrClosed
		}
	}
}

// paramSlots counts the i32 parameters args occupy, command handle and
// callback index included.
func paramSlots(args []native.Value) int {
	n := 2
	for _, v := range args {
		n++
		if v.Kind == native.KindBuffer {
			n++
		}
	}
	return n
}

// invoke runs on the worker goroutine.
func (l *Library) invoke(symbol string, h native.Handle, args []native.Value, cb native.Callback) (native.ErrorCode, error) {
	ctx := l.ctx
	fn, ok := l.funcs[symbol]
	if !ok {
		fn = l.mod.ExportedFunction(symbol)
		l.funcs[symbol] = fn
	}

	l.forgetCallError(h)
	params := make([]uint64, 0, paramSlots(args))
	params = append(params, api.EncodeI32(int32(h)))
	var allocated []uint32
	defer func() { l.release(ctx, allocated) }()
	for i, v := range args {
		switch v.Kind {
		case native.KindCString, native.KindBuffer:
			ptr, err := copyToGuest(ctx, l.mod, l.alloc, v.Bytes)
			if err != nil {
				return native.Success, err
			}
			if ptr != 0 {
				allocated = append(allocated, ptr)
			}
			params = append(params, api.EncodeU32(ptr))
			if v.Kind == native.KindBuffer {
				params = append(params, api.EncodeU32(uint32(len(v.Bytes))))
			}
		case native.KindBool, native.KindInt, native.KindHandle:
			params = append(params, api.EncodeU32(uint32(v.Num)))
		default:
			return native.Success, fmt.Errorf("%s: argument %d has kind %s: %w", symbol, i, v.Kind, native.ErrInvalidArguments)
		}
	}

	index := l.addCallback(cb)
	params = append(params, api.EncodeU32(index))
	res, err := fn.Call(ctx, params...)
	if err != nil {
		l.dropCallback(index)
		return native.Success, fmt.Errorf("wasm: calling %s: %w", symbol, err)
	}
	code := native.ErrorCode(api.DecodeI32(res[0]))
	if code != native.Success {
		l.dropCallback(index)
		l.fetchCurrentError(ctx, l.mod, h)
	}
	return code, nil
}

// release hands argument memory back to the guest when it exports indy_free.
func (l *Library) release(ctx context.Context, ptrs []uint32) {
	if l.free == nil {
		return
	}
	for _, ptr := range ptrs {
		if _, err := l.free.Call(ctx, api.EncodeU32(ptr)); err != nil {
			l.logger.Warn("freeing guest memory failed", zap.Uint32("ptr", ptr), zap.Error(err))
			return
		}
	}
}

func (l *Library) addCallback(cb native.Callback) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	for {
		l.lastCallback++
		if l.lastCallback == 0 {
			continue
		}
		if _, busy := l.callbacks[l.lastCallback]; !busy {
			l.callbacks[l.lastCallback] = cb
			return l.lastCallback
		}
	}
}

func (l *Library) takeCallback(index uint32) (native.Callback, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cb, ok := l.callbacks[index]
	delete(l.callbacks, index)
	return cb, ok
}

func (l *Library) dropCallback(index uint32) {
	l.takeCallback(index)
}

// CurrentError implements native.ErrorReporter with the description the
// guest gave for its most recent failure.
func (l *Library) CurrentError() (native.ErrorDetails, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.lastErr == nil {
		return native.ErrorDetails{}, false
	}
	return *l.lastErr, true
}

// CallError implements native.CallErrorReporter with the description the
// guest gave when call h failed.
func (l *Library) CallError(h native.Handle) (native.ErrorDetails, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	details, ok := l.callErrs[h]
	delete(l.callErrs, h)
	return details, ok
}

// setError records details as the current error and, when the guest gave
// one, as the error of call h.
func (l *Library) setError(h native.Handle, details *native.ErrorDetails) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastErr = details
	if details != nil {
		l.callErrs[h] = *details
	}
}

func (l *Library) forgetCallError(h native.Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.callErrs, h)
}

// Close stops the worker and releases the runtime. Callbacks the guest never
// completed are discarded.
func (l *Library) Close(ctx context.Context) error {
	if !l.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(l.quit)
	<-l.done

	l.mu.Lock()
	if n := len(l.callbacks); n > 0 {
		l.logger.Info("closed with uncompleted callbacks", zap.Int("callbacks", n))
	}
	l.mu.Unlock()

	return multierr.Combine(
		l.sys.Close(ctx),
		l.runtime.Close(ctx),
		l.stdout.Close(),
		l.stderr.Close(),
	)
}
