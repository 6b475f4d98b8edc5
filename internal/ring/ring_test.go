// SPDX-License-Identifier: EPL-2.0

package ring

import "testing"

func TestRing_FIFO(t *testing.T) {
	t.Parallel()

	r := New[int](4)
	for i := range 3 {
		if r.PushBack(i) {
			t.Fatalf("PushBack(%d) overwrote on a non-full ring", i)
		}
	}

	if r.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", r.Len())
	}

	for want := range 3 {
		got, ok := r.PopFront()
		if !ok || got != want {
			t.Errorf("PopFront() = %d, %v, want %d, true", got, ok, want)
		}
	}

	if _, ok := r.PopFront(); ok {
		t.Error("PopFront() on empty ring returned ok=true")
	}
}

func TestRing_OverwriteOldest(t *testing.T) {
	t.Parallel()

	r := New[int](4)
	for i := range 4 {
		r.PushBack(i)
	}
	if !r.Full() {
		t.Fatal("Full() = false after 4 pushes")
	}

	if !r.PushBack(4) {
		t.Error("PushBack() on full ring did not report an overwrite")
	}

	want := []int{1, 2, 3, 4}
	for i, w := range want {
		if got := r.At(i); got != w {
			t.Errorf("At(%d) = %d, want %d", i, got, w)
		}
	}
}

func TestRing_Clone(t *testing.T) {
	t.Parallel()

	r := New[string](2)
	r.PushBack("a")
	c := r.Clone()
	c.PushBack("b")

	if r.Len() != 1 {
		t.Errorf("original Len() = %d after cloning, want 1", r.Len())
	}
	if c.Len() != 2 || c.At(0) != "a" || c.At(1) != "b" {
		t.Errorf("clone = [%q %q], want [a b]", c.At(0), c.At(1))
	}
}

func TestRing_Clear(t *testing.T) {
	t.Parallel()

	r := New[int](3)
	r.PushBack(1)
	r.PushBack(2)
	r.Clear()

	if !r.Empty() {
		t.Errorf("Len() = %d after Clear, want 0", r.Len())
	}
	r.PushBack(7)
	if got, _ := r.PopFront(); got != 7 {
		t.Errorf("PopFront() after Clear = %d, want 7", got)
	}
}
