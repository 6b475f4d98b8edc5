// SPDX-License-Identifier: EPL-2.0

// Package ring provides a fixed-capacity circular vector.
package ring

// Ring is a fixed-capacity FIFO. PushBack on a full ring discards the
// oldest element. The zero value is unusable; use New.
type Ring[T any] struct {
	items []T
	front int
	size  int
}

func New[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &Ring[T]{items: make([]T, capacity)}
}

func (r *Ring[T]) Cap() int    { return len(r.items) }
func (r *Ring[T]) Len() int    { return r.size }
func (r *Ring[T]) Empty() bool { return r.size == 0 }
func (r *Ring[T]) Full() bool  { return r.size == len(r.items) }

// PushBack appends v. It reports true when the oldest element was
// overwritten to make room.
func (r *Ring[T]) PushBack(v T) bool {
	back := (r.front + r.size) % len(r.items)
	r.items[back] = v
	if r.size == len(r.items) {
		r.front = (r.front + 1) % len(r.items)
		return true
	}
	r.size++
	return false
}

// PopFront removes and returns the oldest element.
func (r *Ring[T]) PopFront() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}
	v := r.items[r.front]
	r.items[r.front] = zero
	r.front = (r.front + 1) % len(r.items)
	r.size--
	return v, true
}

// At returns the i-th element counted from the front.
func (r *Ring[T]) At(i int) T {
	return r.items[(r.front+i)%len(r.items)]
}

// Clone returns an independent copy with the same capacity and contents.
func (r *Ring[T]) Clone() *Ring[T] {
	c := New[T](len(r.items))
	for i := range r.size {
		c.PushBack(r.At(i))
	}
	return c
}

func (r *Ring[T]) Clear() {
	clear(r.items)
	r.front = 0
	r.size = 0
}
