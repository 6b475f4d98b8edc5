// SPDX-License-Identifier: EPL-2.0

// Package dbuf exchanges immutable state snapshots between control
// goroutines and a single reader without locks.
package dbuf

import "sync/atomic"

// Mailbox holds at most one pending snapshot. Writers publish, the reader
// takes the latest one. A published snapshot must not be modified.
type Mailbox[T any] struct {
	p atomic.Pointer[T]
}

// Publish replaces any pending snapshot with v.
func (m *Mailbox[T]) Publish(v *T) {
	m.p.Store(v)
}

// Update publishes fn(pending) atomically against concurrent writers and
// the reader. fn may run more than once and must not modify pending.
func (m *Mailbox[T]) Update(fn func(pending *T) *T) {
	for {
		old := m.p.Load()
		if m.p.CompareAndSwap(old, fn(old)) {
			return
		}
	}
}

// Peek returns the pending snapshot without taking it.
func (m *Mailbox[T]) Peek() *T {
	return m.p.Load()
}

// Take removes and returns the pending snapshot, or nil.
func (m *Mailbox[T]) Take() *T {
	return m.p.Swap(nil)
}

// Ack clears the pending snapshot only if it is still v. It reports false
// when a newer snapshot arrived after v was read with Peek.
func (m *Mailbox[T]) Ack(v *T) bool {
	return m.p.CompareAndSwap(v, nil)
}
