// Package history provides the bounded append-only buffers used for decision
// logs and experiment session logs.
package history

import "sync"

// Buffer is an append-only collection with a fixed capacity.
type Buffer[T any] interface {
	Append(v T)
	Items() []T
	Len() int
}

// Ring keeps the last Cap appended values and drops the oldest on overflow.
type Ring[T any] struct {
	mu    sync.Mutex
	buf   []T
	start int
	size  int
}

// NewRing creates a ring with the given capacity. Capacity below 1 is raised to 1.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{buf: make([]T, capacity)}
}

// Append adds v, evicting the oldest value when the ring is full.
func (r *Ring[T]) Append(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.size < len(r.buf) {
		r.buf[(r.start+r.size)%len(r.buf)] = v
		r.size++
		return
	}
	r.buf[r.start] = v
	r.start = (r.start + 1) % len(r.buf)
}

// Items returns a copy of the stored values, oldest first.
func (r *Ring[T]) Items() []T {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]T, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.buf[(r.start+i)%len(r.buf)]
	}
	return out
}

// Len returns the number of stored values.
func (r *Ring[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

// Cap returns the capacity of the ring.
func (r *Ring[T]) Cap() int {
	return len(r.buf)
}
