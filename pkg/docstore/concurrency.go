package docstore

import (
	"sync"
	"sync/atomic"
)

// atomicOffset is the shared tail-offset counter. Producers reserve a
// disjoint byte range with [atomicOffset.reserve], a single fetch-add,
// so two concurrent producers can never compute overlapping offsets.
type atomicOffset struct {
	v atomic.Uint64
}

// set initializes the offset, used once when a page is created or loaded.
func (o *atomicOffset) set(v uint64) {
	o.v.Store(v)
}

// load returns the current tail offset.
func (o *atomicOffset) load() uint64 {
	return o.v.Load()
}

// reserve atomically advances the offset by size and returns the
// pre-advance value, i.e. the start offset of the reserved range
// [start, start+size).
func (o *atomicOffset) reserve(size uint64) uint64 {
	return o.v.Add(size) - size
}

// atomicFlag is a simple lock-free boolean, used for the consumer's
// exit signal.
type atomicFlag struct {
	v atomic.Bool
}

func (f *atomicFlag) set(val bool) { f.v.Store(val) }
func (f *atomicFlag) get() bool    { return f.v.Load() }

// atomicError holds the last error observed by a background goroutine,
// for the LastError observability hook exposed by [Bucket].
type atomicError struct {
	mu  sync.Mutex
	err error
}

func (e *atomicError) set(err error) {
	e.mu.Lock()
	e.err = err
	e.mu.Unlock()
}

func (e *atomicError) get() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.err
}

// booleanSemaphore is an optional wake-up primitive the queued writer can
// use instead of polling: producers signal after enqueueing, and the
// consumer waits on it instead of sleeping a fixed interval. Implemented
// as a single-slot channel so repeated signals before a wait coalesce
// into one wake-up, matching a counting semaphore capped at 1.
type booleanSemaphore struct {
	ch chan struct{}
}

func newBooleanSemaphore() *booleanSemaphore {
	return &booleanSemaphore{ch: make(chan struct{}, 1)}
}

// signal wakes a waiter, if any. Non-blocking: a pending unconsumed
// signal is not duplicated.
func (s *booleanSemaphore) signal() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// wait returns, without blocking, the channel a waiter receives from to
// block until signaled, so it can be composed in a select alongside other
// wake conditions (e.g. an exit flag poll).
func (s *booleanSemaphore) wait() <-chan struct{} {
	return s.ch
}
