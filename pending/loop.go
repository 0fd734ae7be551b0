package pending

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrLoopRunning is returned when Run is entered twice.
var ErrLoopRunning = errors.New("loop already running")

// Loop is the host's single-threaded execution context. Completions produced
// on foreign goroutines are posted to it and run, in post order, by whichever
// goroutine is inside Run.
type Loop struct {
	mu    sync.Mutex
	queue []func()

	// wake has capacity one: any number of posts between two drains collapse
	// into a single wakeup.
	wake chan struct{}

	stopOnce sync.Once
	stop     chan struct{}
	running  atomic.Bool
}

// NewLoop returns an idle loop.
func NewLoop() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
		stop: make(chan struct{}),
	}
}

// Post queues fn for execution inside Run. It is safe to call from any
// goroutine and never blocks.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run executes posted functions on the calling goroutine until ctx is done or
// Stop is called.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.running.Store(false)

	for {
		l.RunPending()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.stop:
			l.RunPending()
			return nil
		case <-l.wake:
		}
	}
}

// RunPending executes everything queued so far and returns how many functions
// ran. Hosts that own their own event loop call it on each tick instead of Run.
func (l *Loop) RunPending() int {
	l.mu.Lock()
	batch := l.queue
	l.queue = nil
	l.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Queued returns the number of functions waiting to run.
func (l *Loop) Queued() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Wake returns the channel signalled after a post, for hosts driving the loop
// with RunPending from their own select.
func (l *Loop) Wake() <-chan struct{} {
	return l.wake
}

// Stop makes Run return after a final drain.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}
