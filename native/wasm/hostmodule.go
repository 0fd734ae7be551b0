package wasm

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/stealthrocket/wazergo"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/indywasm/indywasm/native"
)

const (
	// hostModuleName is the module the guest imports completions from.
	hostModuleName = "indy"

	// Guest exports
	guestExportMemory       = "memory"
	guestExportAlloc        = "indy_alloc"
	guestExportFree         = "indy_free"
	guestExportCurrentError = "indy_get_current_error"

	// hostFunctionLog receives guest log records:
	// (level, target, message, file, line).
	hostFunctionLog = "log"

	// wasmEdgeV2Extension is the WASI sockets extension name
	wasmEdgeV2Extension = "wasmedgev2"
)

// completion is one host function the guest calls to report a result:
// (cb_index, command_handle, error_code, payload...).
type completion struct {
	name    string
	payload []native.Kind
}

var completions = []completion{
	{name: "complete"},
	{name: "complete_str", payload: []native.Kind{native.KindCString}},
	{name: "complete_bool", payload: []native.Kind{native.KindBool}},
	{name: "complete_handle", payload: []native.Kind{native.KindHandle}},
	{name: "complete_str_str", payload: []native.Kind{native.KindCString, native.KindCString}},
	{name: "complete_buf", payload: []native.Kind{native.KindBuffer}},
	{name: "complete_str_buf", payload: []native.Kind{native.KindCString, native.KindBuffer}},
}

// params returns the i32 parameters of the host function.
func (c completion) params() []api.ValueType {
	params := []api.ValueType{api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32}
	for _, k := range c.payload {
		params = append(params, api.ValueTypeI32)
		if k == native.KindBuffer {
			params = append(params, api.ValueTypeI32)
		}
	}
	return params
}

// instantiateHostModule registers the completion and log functions with the
// runtime.
func (l *Library) instantiateHostModule(ctx context.Context, r wazero.Runtime) (api.Module, error) {
	builder := r.NewHostModuleBuilder(hostModuleName)
	for _, c := range completions {
		builder = builder.NewFunctionBuilder().
			WithGoModuleFunction(l.completeFn(c), c.params(), []api.ValueType{}).
			Export(c.name)
	}
	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(l.logFn),
			[]api.ValueType{api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32},
			[]api.ValueType{}).
		Export(hostFunctionLog)
	return builder.Instantiate(ctx)
}

// logFn writes a guest log record to the library's logger, named after the
// record's target with "::" replaced by ".".
func (l *Library) logFn(_ context.Context, mod api.Module, stack []uint64) {
	level := native.LogLevel(api.DecodeI32(stack[0]))
	mem := mod.Memory()
	logger := l.logger.Named("guest")
	if target := readCString(mem, api.DecodeU32(stack[1])).Text(); len(target) > 0 {
		logger = logger.Named(strings.ReplaceAll(string(target), "::", "."))
	}
	if ce := logger.Check(level.ZapLevel(), string(readCString(mem, api.DecodeU32(stack[2])).Text())); ce != nil {
		ce.Write(
			zap.String("file", string(readCString(mem, api.DecodeU32(stack[3])).Text())),
			zap.Int32("line", api.DecodeI32(stack[4])))
	}
}

func (l *Library) completeFn(c completion) api.GoModuleFunc {
	return func(ctx context.Context, mod api.Module, stack []uint64) {
		index := api.DecodeU32(stack[0])
		h := native.Handle(api.DecodeI32(stack[1]))
		code := native.ErrorCode(api.DecodeI32(stack[2]))

		var payload []native.Value
		if code == native.Success {
			payload = readPayload(mod.Memory(), c.payload, stack[3:])
		} else {
			l.fetchCurrentError(ctx, mod, h)
		}

		cb, ok := l.takeCallback(index)
		if !ok {
			l.forgetCallError(h)
			l.logger.Warn("guest completed an unknown callback",
				zap.String("function", c.name),
				zap.Uint32("cb_index", index),
				zap.Int32("command_handle", int32(h)))
			return
		}
		cb(h, code, payload)
	}
}

func readPayload(mem api.Memory, kinds []native.Kind, stack []uint64) []native.Value {
	payload := make([]native.Value, 0, len(kinds))
	for _, k := range kinds {
		switch k {
		case native.KindCString:
			payload = append(payload, readCString(mem, api.DecodeU32(stack[0])))
		case native.KindBool:
			payload = append(payload, native.Bool(api.DecodeU32(stack[0]) != 0))
		case native.KindHandle:
			payload = append(payload, native.HandleValue(native.Handle(api.DecodeI32(stack[0]))))
		case native.KindBuffer:
			payload = append(payload, readBuffer(mem, api.DecodeU32(stack[0]), api.DecodeU32(stack[1])))
			stack = stack[1:]
		}
		stack = stack[1:]
	}
	return payload
}

// fetchCurrentError asks the guest for its error description, if it exports
// indy_get_current_error, and records it for call h. It runs on the worker
// goroutine only.
func (l *Library) fetchCurrentError(ctx context.Context, mod api.Module, h native.Handle) {
	if l.currentError == nil {
		return
	}
	res, err := l.currentError.Call(ctx)
	if err != nil {
		l.logger.Warn("reading guest error failed", zap.Error(err))
		return
	}
	ptr := api.DecodeU32(res[0])
	if ptr == 0 {
		l.setError(h, nil)
		return
	}
	var details native.ErrorDetails
	if err := json.Unmarshal(readCString(mod.Memory(), ptr).Text(), &details); err != nil {
		l.logger.Warn("guest error is not valid JSON", zap.Error(err))
		return
	}
	l.setError(h, &details)
}

// moduleInstanceFor returns the module instance from the context that contains
// the internal state required for WASI host functions.
// NOTE: wasi-go returns a context holding internal state when it instantiates
// the host module, and calls into wasi functions need that same state.
func moduleInstanceFor[T wazergo.Module](ctx context.Context) (res T, ok bool) {
	res, ok = ctx.Value((*wazergo.ModuleInstance[T])(nil)).(T)
	return
}

// withModuleInstance returns a context inheriting from ctx that carries the
// WASI module instance, so guest calls made later can reach WASI functions.
func withModuleInstance[T wazergo.Module](ctx context.Context, instance T) context.Context {
	return context.WithValue(ctx, (*wazergo.ModuleInstance[T])(nil), instance)
}
