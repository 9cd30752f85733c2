package docstore

import "sync"

// pool is a fixed-capacity stack of pre-built, reusable values of type T.
// Go has no destructors, so the handle returned by pull carries an
// explicit Release method instead of an RAII guard; callers MUST call
// it, typically via defer.
//
// pull on an empty pool panics: an empty pool means the caller requested
// more concurrent handles than the pool was sized for, which is a
// programmer error, not a runtime condition to recover from.
type pool[T any] struct {
	mu    sync.Mutex
	stack []T
}

// newPool builds a pool of the given capacity, calling init once per
// slot to construct each pooled value up front.
func newPool[T any](capacity int, init func() T) *pool[T] {
	p := &pool[T]{stack: make([]T, 0, capacity)}
	for i := 0; i < capacity; i++ {
		p.stack = append(p.stack, init())
	}

	return p
}

// isEmpty reports whether the pool currently has no value available.
func (p *pool[T]) isEmpty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.stack) == 0
}

// pull removes and returns a handle wrapping one value from the pool.
// Panics if the pool is empty.
func (p *pool[T]) pull() *reusable[T] {
	p.mu.Lock()
	n := len(p.stack)
	if n == 0 {
		p.mu.Unlock()
		panic("docstore: pull from empty pool")
	}
	v := p.stack[n-1]
	p.stack = p.stack[:n-1]
	p.mu.Unlock()

	return &reusable[T]{pool: p, data: v}
}

// attach returns a value to the pool, making it available to the next
// pull. Called by [reusable.Release].
func (p *pool[T]) attach(v T) {
	p.mu.Lock()
	p.stack = append(p.stack, v)
	p.mu.Unlock()
}

// reusable is a handle on a value pulled from a [pool]. The zero value is
// not usable; obtain one via [pool.pull]. Release must be called exactly
// once to return the value to its pool — typically via defer immediately
// after pull.
type reusable[T any] struct {
	pool *pool[T]
	data T
}

// Get returns the wrapped value.
func (r *reusable[T]) Get() T {
	return r.data
}

// Release returns the value to its originating pool. The handle must not
// be used again afterward.
func (r *reusable[T]) Release() {
	r.pool.attach(r.data)
}
