// Package ring provides a fixed-capacity generic ring buffer.
package ring

import "errors"

// Errors returned by Put and Get.
var (
	ErrFull  = errors.New("ring: buffer full")
	ErrEmpty = errors.New("ring: buffer empty")
)

// Ring is a fixed-capacity FIFO buffer. It is not safe for concurrent
// use; callers serialize access.
type Ring[T any] struct {
	buf   []T
	head  int // index of the oldest element
	count int
}

// New creates a ring with room for n elements. n must be positive.
func New[T any](n int) *Ring[T] {
	if n <= 0 {
		panic("ring: non-positive capacity")
	}
	return &Ring[T]{buf: make([]T, n)}
}

// Put appends v, failing when the buffer is full.
func (r *Ring[T]) Put(v T) error {
	if r.count == len(r.buf) {
		return ErrFull
	}
	r.buf[(r.head+r.count)%len(r.buf)] = v
	r.count++
	return nil
}

// ForcePut appends v, overwriting the oldest element when full.
func (r *Ring[T]) ForcePut(v T) {
	if r.count < len(r.buf) {
		r.buf[(r.head+r.count)%len(r.buf)] = v
		r.count++
		return
	}
	r.buf[r.head] = v
	r.head = (r.head + 1) % len(r.buf)
}

// Get removes and returns the oldest element.
func (r *Ring[T]) Get() (T, error) {
	var zero T
	if r.count == 0 {
		return zero, ErrEmpty
	}
	v := r.buf[r.head]
	r.buf[r.head] = zero
	r.head = (r.head + 1) % len(r.buf)
	r.count--
	return v, nil
}

// Len returns the number of buffered elements.
func (r *Ring[T]) Len() int { return r.count }

// Cap returns the buffer capacity.
func (r *Ring[T]) Cap() int { return len(r.buf) }

// Empty reports whether the buffer holds no elements.
func (r *Ring[T]) Empty() bool { return r.count == 0 }

// Full reports whether the buffer is at capacity.
func (r *Ring[T]) Full() bool { return r.count == len(r.buf) }

// Reset drops all buffered elements.
func (r *Ring[T]) Reset() {
	var zero T
	for i := range r.buf {
		r.buf[i] = zero
	}
	r.head = 0
	r.count = 0
}

// Values returns the buffered elements oldest first.
func (r *Ring[T]) Values() []T {
	out := make([]T, r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	return out
}
