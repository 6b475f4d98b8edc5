// SPDX-License-Identifier: EPL-2.0

package spsc

import (
	"bytes"
	"sync"
	"testing"
)

func TestNewRoundsUp(t *testing.T) {
	t.Parallel()

	tests := []struct{ size, want int }{
		{0, 1}, {1, 1}, {3, 4}, {4096, 4096}, {4097, 8192},
	}
	for _, tt := range tests {
		if got := New(tt.size).Cap(); got != tt.want {
			t.Errorf("New(%d).Cap() = %d, want %d", tt.size, got, tt.want)
		}
	}
}

func TestRing_WrapAround(t *testing.T) {
	t.Parallel()

	r := New(8)
	if n := r.Write([]byte("abcdef")); n != 6 {
		t.Fatalf("Write() = %d, want 6", n)
	}
	p := make([]byte, 4)
	r.Read(p)

	if n := r.Write([]byte("ghijklmn")); n != 6 {
		t.Fatalf("Write() = %d into 6 free bytes, want 6", n)
	}
	if r.Free() != 0 || r.Available() != 8 {
		t.Fatalf("Free() = %d, Available() = %d", r.Free(), r.Available())
	}

	out := make([]byte, 16)
	n := r.Read(out)
	if got := string(out[:n]); got != "efghijkl" {
		t.Errorf("Read() = %q, want %q", got, "efghijkl")
	}
	if r.Read(out) != 0 {
		t.Error("Read() on an empty ring returned data")
	}
}

func TestRing_Concurrent(t *testing.T) {
	t.Parallel()

	const total = 1 << 16
	src := make([]byte, total)
	for i := range src {
		src[i] = byte(i * 7)
	}

	r := New(1024)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for off := 0; off < total; {
			off += r.Write(src[off:min(off+300, total)])
		}
	}()

	got := make([]byte, 0, total)
	chunk := make([]byte, 257)
	for len(got) < total {
		n := r.Read(chunk)
		got = append(got, chunk[:n]...)
	}
	wg.Wait()

	if !bytes.Equal(got, src) {
		t.Error("bytes read differ from bytes written")
	}
}
