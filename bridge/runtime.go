// Package bridge is the runtime support that generated entry points call into:
// argument validation, dispatch to a native library and completion handling.
package bridge

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/indywasm/indywasm/abi"
	"github.com/indywasm/indywasm/native"
	"github.com/indywasm/indywasm/pending"
)

// Receiver is the caller's completion receiver. It runs on the loop.
type Receiver = pending.Resolver

// Trampoline is the generated per-symbol completion handler. It runs on the
// goroutine the native library completes on.
type Trampoline func(c *Completion)

// Runtime ties a native library to the pending-call registry and the loop
// that resolves callers.
type Runtime struct {
	lib      native.Library
	loop     *pending.Loop
	registry *pending.Registry
	logger   *zap.Logger
}

type runtimeOptions struct {
	logger     *zap.Logger
	registerer prometheus.Registerer
}

// Option configures a Runtime.
type Option func(*runtimeOptions)

// WithLogger sets the runtime's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *runtimeOptions) {
		o.logger = logger
	}
}

// WithMetrics registers the pending-call metrics on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *runtimeOptions) {
		o.registerer = reg
	}
}

// NewRuntime returns a runtime dispatching to lib. The runtime owns lib and
// closes it in Close.
func NewRuntime(lib native.Library, opts ...Option) *Runtime {
	o := runtimeOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	loop := pending.NewLoop()
	regOpts := []pending.Option{pending.WithLogger(o.logger.Named("pending"))}
	if o.registerer != nil {
		regOpts = append(regOpts, pending.WithMetrics(o.registerer))
	}
	return &Runtime{
		lib:      lib,
		loop:     loop,
		registry: pending.NewRegistry(loop, regOpts...),
		logger:   o.logger,
	}
}

// Loop returns the loop receivers run on.
func (rt *Runtime) Loop() *pending.Loop {
	return rt.loop
}

// Registry returns the pending-call registry.
func (rt *Runtime) Registry() *pending.Registry {
	return rt.registry
}

// Run runs the loop until ctx is done or the runtime is closed.
func (rt *Runtime) Run(ctx context.Context) error {
	return rt.loop.Run(ctx)
}

// Dispatch registers a pending call for done and invokes symbol. Failures to
// reach the library and non-zero immediate return codes reject the call
// through done; Dispatch only returns an error when no call was registered.
func (rt *Runtime) Dispatch(ctx context.Context, symbol string, shape abi.Shape, tramp Trampoline, done Receiver, args ...native.Value) error {
	h, err := rt.registry.Register(shape, done)
	if err != nil {
		return fmt.Errorf("registering %s: %w", symbol, err)
	}
	rt.logger.Debug("dispatching native call",
		zap.String("symbol", symbol),
		zap.Int32("command_handle", int32(h)))

	code, err := rt.lib.Call(ctx, symbol, h, args, func(ch native.Handle, code native.ErrorCode, payload []native.Value) {
		tramp(&Completion{rt: rt, Handle: ch, Code: code, Payload: payload})
	})
	switch {
	case err != nil:
		rt.logger.Warn("native call failed", zap.String("symbol", symbol), zap.Error(err))
		rt.registry.Complete(h, func(*pending.Call) (any, error) {
			return nil, fmt.Errorf("calling %s: %w", symbol, err)
		})
	case code != native.Success:
		failure := rt.nativeError(h, code)
		rt.registry.Complete(h, func(*pending.Call) (any, error) {
			return nil, failure
		})
	}
	return nil
}

// nativeError builds the error for a non-zero code on call h, using the
// library's own description when it has one.
func (rt *Runtime) nativeError(h native.Handle, code native.ErrorCode) error {
	e := NewError(code)
	if details, ok := rt.errorDetails(h); ok && details.Message != "" {
		e.Message = details.Message
		e.Backtrace = details.Backtrace
	}
	return e
}

// errorDetails prefers the details recorded for h. CurrentError is only
// consulted for libraries that cannot tell calls apart.
func (rt *Runtime) errorDetails(h native.Handle) (native.ErrorDetails, bool) {
	switch reporter := rt.lib.(type) {
	case native.CallErrorReporter:
		return reporter.CallError(h)
	case native.ErrorReporter:
		return reporter.CurrentError()
	default:
		return native.ErrorDetails{}, false
	}
}

// Close drops outstanding calls, stops the loop and closes the library.
func (rt *Runtime) Close(ctx context.Context) error {
	var errs error
	if n := rt.registry.Close(); n > 0 {
		errs = multierr.Append(errs, fmt.Errorf("%d native calls never completed", n))
	}
	rt.loop.Stop()
	return multierr.Append(errs, rt.lib.Close(ctx))
}

// Completion is one native callback invocation.
type Completion struct {
	rt *Runtime

	Handle  native.Handle
	Code    native.ErrorCode
	Payload []native.Value
}

// Resolve completes the call registered under c.Handle. A non-zero code
// rejects the call without demarshaling; a call registered with a different
// shape is rejected with ErrShapeMismatch. Otherwise demarshal runs on the
// current goroutine and must copy anything it keeps out of the payload.
// Resolve reports whether a pending call was found.
func (c *Completion) Resolve(shape abi.Shape, demarshal func() (any, error)) bool {
	var failure error
	if c.Code != native.Success {
		failure = c.rt.nativeError(c.Handle, c.Code)
	}
	return c.rt.registry.Complete(c.Handle, func(call *pending.Call) (any, error) {
		if failure != nil {
			return nil, failure
		}
		if call.Shape != shape {
			return nil, fmt.Errorf("%w: registered %s, completed as %s", ErrShapeMismatch, call.Shape, shape)
		}
		return demarshal()
	})
}
