package platform

import (
	"context"
	"sync"
)

// Dispatcher schedules callback on the host's UI thread.
type Dispatcher func(callback func())

// Synchronous runs callbacks on the calling goroutine.
func Synchronous(callback func()) { callback() }

var (
	dispatchMu   sync.RWMutex
	dispatchFunc Dispatcher
)

// RegisterDispatch sets the dispatch function used when a MountingBridge is
// created without one. Hosts call it once during initialization.
func RegisterDispatch(fn Dispatcher) {
	dispatchMu.Lock()
	dispatchFunc = fn
	dispatchMu.Unlock()
}

// Dispatch schedules a callback with the registered dispatch function.
// Returns true if the callback was scheduled, false if no dispatch function
// is registered or the callback is nil.
func Dispatch(callback func()) bool {
	dispatchMu.RLock()
	fn := dispatchFunc
	dispatchMu.RUnlock()
	if fn == nil || callback == nil {
		return false
	}
	fn(callback)
	return true
}

// UIThread is a single goroutine that runs dispatched callbacks in order.
// It stands in for a host UI thread in tools and tests.
type UIThread struct {
	queue chan func()
	done  chan struct{}
}

// NewUIThread returns a thread with room for size queued callbacks. Call
// Run to start it.
func NewUIThread(size int) *UIThread {
	if size <= 0 {
		size = 64
	}
	return &UIThread{queue: make(chan func(), size), done: make(chan struct{})}
}

// Dispatch queues callback. It blocks while the queue is full.
func (u *UIThread) Dispatch(callback func()) {
	u.queue <- callback
}

// Run executes callbacks until ctx is done. Callbacks still queued at that
// point are dropped.
func (u *UIThread) Run(ctx context.Context) {
	defer close(u.done)
	for {
		select {
		case cb := <-u.queue:
			cb()
		case <-ctx.Done():
			return
		}
	}
}

// Done is closed when Run returns.
func (u *UIThread) Done() <-chan struct{} { return u.done }

// Flush blocks until every callback queued before the call has run or the
// thread stopped. It must not be called from the UI thread itself.
func (u *UIThread) Flush() {
	ran := make(chan struct{})
	select {
	case u.queue <- func() { close(ran) }:
	case <-u.done:
		return
	}
	select {
	case <-ran:
	case <-u.done:
	}
}
