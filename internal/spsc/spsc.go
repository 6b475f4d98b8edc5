// SPDX-License-Identifier: EPL-2.0

// Package spsc provides a lock-free byte ring for one producer and one
// consumer goroutine.
package spsc

import "sync/atomic"

// Ring is a power-of-two byte FIFO. Write and Free belong to the producer,
// Read and Available to the consumer.
type Ring struct {
	// Positions grow monotonically and sit on separate cache lines.
	write atomic.Uint64
	_     [56]byte
	read  atomic.Uint64
	_     [56]byte

	buf  []byte
	mask uint64
}

// New returns a ring holding at least size bytes.
func New(size int) *Ring {
	n := 1
	for n < size {
		n <<= 1
	}
	return &Ring{buf: make([]byte, n), mask: uint64(n - 1)}
}

func (r *Ring) Cap() int { return len(r.buf) }

// Write copies as much of p as fits and returns the count written.
func (r *Ring) Write(p []byte) int {
	w, rd := r.write.Load(), r.read.Load()
	n := min(uint64(len(p)), uint64(len(r.buf))-(w-rd))
	if n == 0 {
		return 0
	}

	pos := w & r.mask
	if first := uint64(len(r.buf)) - pos; first >= n {
		copy(r.buf[pos:pos+n], p[:n])
	} else {
		copy(r.buf[pos:], p[:first])
		copy(r.buf[:n-first], p[first:n])
	}
	r.write.Store(w + n)
	return int(n)
}

// Read copies up to len(p) buffered bytes into p and returns the count read.
func (r *Ring) Read(p []byte) int {
	rd, w := r.read.Load(), r.write.Load()
	n := min(uint64(len(p)), w-rd)
	if n == 0 {
		return 0
	}

	pos := rd & r.mask
	if first := uint64(len(r.buf)) - pos; first >= n {
		copy(p[:n], r.buf[pos:pos+n])
	} else {
		copy(p[:first], r.buf[pos:])
		copy(p[first:n], r.buf[:n-first])
	}
	r.read.Store(rd + n)
	return int(n)
}

func (r *Ring) Available() int { return int(r.write.Load() - r.read.Load()) }
func (r *Ring) Free() int      { return len(r.buf) - r.Available() }
