// Package pending correlates native completions with the callers that issued
// the calls, and hands each outcome back to the host's execution context.
package pending

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/indywasm/indywasm/abi"
	"github.com/indywasm/indywasm/native"
)

var (
	ErrHandlesExhausted = errors.New("no free command handle")
	ErrRegistryClosed   = errors.New("registry closed")
)

// Resolver receives the outcome of a call. It runs on the loop, exactly once.
type Resolver func(value any, err error)

// Call is a registered, not yet completed native call.
type Call struct {
	Handle native.Handle
	Shape  abi.Shape

	resolve Resolver
}

// Outcome produces the value or error for a call being completed. It runs on
// the goroutine that delivered the completion.
type Outcome func(call *Call) (any, error)

// Registry maps command handles to outstanding calls.
type Registry struct {
	loop    *Loop
	logger  *zap.Logger
	metrics *metrics

	// dropLog limits how often dropped completions are logged.
	dropLog rate.Sometimes

	mu        sync.Mutex
	calls     map[native.Handle]*Call
	last      native.Handle
	maxHandle native.Handle
	closed    bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for dropped completions.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithMetrics registers the registry's collectors on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(r *Registry) {
		r.metrics = newMetrics(reg)
	}
}

// NewRegistry returns an empty registry delivering outcomes through loop.
func NewRegistry(loop *Loop, opts ...Option) *Registry {
	r := &Registry{
		loop:      loop,
		logger:    zap.NewNop(),
		dropLog:   rate.Sometimes{First: 10, Interval: 10 * time.Second},
		calls:     make(map[native.Handle]*Call),
		maxHandle: math.MaxInt32,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.metrics == nil {
		r.metrics = newMetrics(nil)
	}
	return r
}

// Register records a call expecting a completion of the given shape and
// returns its command handle.
func (r *Registry) Register(shape abi.Shape, resolve Resolver) (native.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, ErrRegistryClosed
	}
	h, err := r.allocate()
	if err != nil {
		return 0, err
	}
	r.calls[h] = &Call{Handle: h, Shape: shape, resolve: resolve}
	r.metrics.pending.Inc()
	return h, nil
}

// allocate returns the next handle after the last one issued, wrapping from
// maxHandle back to 1 and skipping handles that are still outstanding.
// Callers hold r.mu.
func (r *Registry) allocate() (native.Handle, error) {
	if len(r.calls) >= int(r.maxHandle) {
		return 0, fmt.Errorf("%w: %d calls outstanding", ErrHandlesExhausted, len(r.calls))
	}
	for {
		if r.last >= r.maxHandle || r.last < 0 {
			r.last = 0
		}
		r.last++
		if _, busy := r.calls[r.last]; !busy {
			return r.last, nil
		}
	}
}

// Take removes and returns the call registered under h.
func (r *Registry) Take(h native.Handle) (*Call, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	call, ok := r.calls[h]
	if !ok {
		return nil, false
	}
	delete(r.calls, h)
	r.metrics.pending.Dec()
	return call, true
}

// Complete delivers the outcome of the call registered under h. The record is
// removed before outcome runs, so concurrent or repeated completions for the
// same handle resolve the caller at most once. A completion for an unknown
// handle is dropped and Complete returns false.
//
// The resolver is never invoked here: it is posted to the loop.
func (r *Registry) Complete(h native.Handle, outcome Outcome) bool {
	call, ok := r.Take(h)
	if !ok {
		r.metrics.completed(OutcomeDropped)
		r.dropLog.Do(func() {
			r.logger.Warn("dropping completion for unknown command handle",
				zap.Int32("command_handle", int32(h)))
		})
		return false
	}

	value, err := outcome(call)
	if err != nil {
		r.metrics.completed(OutcomeRejected)
		value = nil
	} else {
		r.metrics.completed(OutcomeResolved)
	}

	resolve := call.resolve
	r.loop.Post(func() { resolve(value, err) })
	return true
}

// Len returns the number of outstanding calls.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// Close drops every outstanding call without resolving it and refuses new
// registrations. It returns how many calls were dropped.
func (r *Registry) Close() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.calls)
	r.closed = true
	r.calls = make(map[native.Handle]*Call)
	r.metrics.pending.Set(0)
	if n > 0 {
		r.logger.Info("dropped outstanding native calls on shutdown", zap.Int("calls", n))
	}
	return n
}
