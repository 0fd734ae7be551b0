package bridge

import (
	"context"
	"sync"
)

// Future is a Receiver whose outcome can be awaited.
type Future struct {
	done  chan struct{}
	value any
	err   error
}

// NewFuture returns a future and the receiver that settles it. Only the first
// invocation of the receiver has any effect.
func NewFuture() (*Future, Receiver) {
	f := &Future{done: make(chan struct{})}
	var once sync.Once
	return f, func(value any, err error) {
		once.Do(func() {
			f.value, f.err = value, err
			close(f.done)
		})
	}
}

// Done is closed once the future is settled.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future settles or ctx is done. Giving up on a
// future does not cancel the native call.
func (f *Future) Await(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Invoke calls entry and waits for its outcome. The runtime's loop must be
// running on another goroutine.
func Invoke(ctx context.Context, rt *Runtime, entry Entry, args ...any) (any, error) {
	f, done := NewFuture()
	if err := entry(ctx, rt, args, done); err != nil {
		return nil, err
	}
	return f.Await(ctx)
}
