// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"errors"
	"math"
	"testing"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/engine"
)

func toneGraph(t *testing.T) (*Graph, *Output) {
	t.Helper()

	g := New()
	sine := NewSine()
	sine.Frequency.SetDefault(441)
	volume := NewParameter("volume", 1)
	mul := NewMultiply()
	out := NewOutput()
	if err := g.Add(sine, volume, mul, out); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	mustConnect(g, sine.Out, mul.A)
	mustConnect(g, volume.Out, mul.B)
	mustConnect(g, mul.Out, out.In)
	return g, out
}

func TestNewBuffer(t *testing.T) {
	t.Parallel()

	g, out := toneGraph(t)

	if _, err := NewBuffer(g, nil, BufferOptions{}); !errors.Is(err, ErrNoOutput) {
		t.Errorf("NewBuffer(nil output) error = %v, want ErrNoOutput", err)
	}
	if _, err := NewBuffer(g, NewOutput(), BufferOptions{}); !errors.Is(err, ErrForeignPin) {
		t.Errorf("NewBuffer(foreign output) error = %v, want ErrForeignPin", err)
	}

	if _, err := NewBuffer(g, out, BufferOptions{BlockSize: 510}); err != nil {
		t.Fatalf("NewBuffer() error = %v", err)
	}
	if !g.Frozen() {
		t.Error("graph not frozen by NewBuffer()")
	}
	if err := g.Add(NewConstant(1)); !errors.Is(err, ErrFrozen) {
		t.Errorf("Add() after NewBuffer() error = %v, want ErrFrozen", err)
	}
}

func TestBuffer_Block(t *testing.T) {
	t.Parallel()

	g, out := toneGraph(t)
	buf, err := NewBuffer(g, out, BufferOptions{SampleRate: 44100, BlockSize: 100, Category: "tone"})
	if err != nil {
		t.Fatalf("NewBuffer() error = %v", err)
	}

	cur, err := buf.CreateCursor()
	if err != nil {
		t.Fatalf("CreateCursor() error = %v", err)
	}

	var b audio.Block
	if !buf.Block(cur, mixer, &b) {
		t.Fatal("Block() = false")
	}
	if b.SamplesCount != 100 || b.SampleRate != 44100 || b.Category != "tone" {
		t.Fatalf("block = %d samples, %d Hz, %q", b.SamplesCount, b.SampleRate, b.Category)
	}

	e := cur.(*Cursor).Evaluator()
	if got, want := e.Time(), 100.0/44100; math.Abs(got-want) > 1e-12 {
		t.Errorf("Time() = %v, want %v", got, want)
	}

	cur.SetParameter("volume", 0)
	buf.Block(cur, mixer, &b)
	for i, v := range b.Channel(0) {
		if v != 0 {
			t.Fatalf("sample %d = %v with volume 0", i, v)
		}
	}

	cur.Reset()
	if e.Time() != 0 {
		t.Errorf("Time() = %v after Reset(), want 0", e.Time())
	}
}

func TestBuffer_PlaysOnChannel(t *testing.T) {
	t.Parallel()

	g, out := toneGraph(t)
	buf, err := NewBuffer(g, out, BufferOptions{SampleRate: 22050, BlockSize: 512})
	if err != nil {
		t.Fatalf("NewBuffer() error = %v", err)
	}

	ch := engine.NewChannel(0, 44100, 1024)
	if err := ch.Play(buf, engine.PlayOptions{}); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	ch.SetParameter("volume", 0.5)

	var frame audio.Block
	for i := range 8 {
		if !ch.Block(mixer, &frame) {
			t.Fatalf("frame %d: Block() = false for an endless graph", i)
		}
	}
	peak := float32(0)
	for _, v := range frame.Channel(0) {
		peak = max(peak, float32(math.Abs(float64(v))))
	}
	if peak < 0.45 || peak > 0.5 {
		t.Errorf("peak = %v, want about 0.5", peak)
	}
}
