// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"errors"
	"math"
	"testing"

	"github.com/ik5/audmix/audio"
)

func constPCM(t *testing.T, rate, channels, frames int, v float32) *PCM {
	t.Helper()

	data := make([][]float32, channels)
	for c := range data {
		data[c] = make([]float32, frames)
		for i := range data[c] {
			data[c][i] = v
		}
	}
	pcm, err := NewPCM(rate, data)
	if err != nil {
		t.Fatalf("NewPCM() error = %v", err)
	}
	return pcm
}

func TestSound_BlocksCoverAllFrames(t *testing.T) {
	t.Parallel()

	s := New(constPCM(t, 44100, 2, 4096, 0.25), Options{Category: "music"})
	cur, err := s.CreateCursor()
	if err != nil {
		t.Fatalf("CreateCursor() error = %v", err)
	}

	var blk audio.Block
	blocks := 0
	for s.Block(cur, audio.DefaultMixer{}, &blk) {
		blocks++
		if blk.SamplesCount != DefaultBlockSize {
			t.Errorf("block %d SamplesCount = %d, want %d", blocks, blk.SamplesCount, DefaultBlockSize)
		}
		if blk.Channels != 2 || blk.SampleRate != 44100 || blk.Category != "music" {
			t.Errorf("block %d header = %+v", blocks, blk)
		}
	}

	if blocks != 4 {
		t.Errorf("produced %d blocks, want 4", blocks)
	}
}

func TestSound_LastBlockPadded(t *testing.T) {
	t.Parallel()

	s := New(constPCM(t, 8000, 1, 10, 1), Options{BlockSize: 8})
	cur, _ := s.CreateCursor()

	var blk audio.Block
	s.Block(cur, audio.DefaultMixer{}, &blk)
	if !s.Block(cur, audio.DefaultMixer{}, &blk) {
		t.Fatal("second Block() = false, want the 2-frame tail")
	}

	if blk.SamplesCount != 4 {
		t.Fatalf("tail SamplesCount = %d, want 4", blk.SamplesCount)
	}
	want := []float32{1, 1, 0, 0}
	for i, w := range want {
		if blk.Samples[0][i] != w {
			t.Errorf("tail[%d] = %v, want %v", i, blk.Samples[0][i], w)
		}
	}
	if s.Block(cur, audio.DefaultMixer{}, &blk) {
		t.Error("Block() after the tail = true, want false")
	}
}

func TestSound_CursorsAreIndependent(t *testing.T) {
	t.Parallel()

	s := New(constPCM(t, 8000, 1, 16, 0.5), Options{BlockSize: 8})
	a, _ := s.CreateCursor()
	b, _ := s.CreateCursor()

	var blk audio.Block
	s.Block(a, audio.DefaultMixer{}, &blk)
	s.Block(a, audio.DefaultMixer{}, &blk)

	if s.Block(a, audio.DefaultMixer{}, &blk) {
		t.Error("cursor a not exhausted after two blocks")
	}
	if !s.Block(b, audio.DefaultMixer{}, &blk) {
		t.Error("cursor b affected by cursor a")
	}

	a.Reset()
	if !s.Block(a, audio.DefaultMixer{}, &blk) {
		t.Error("Block() after Reset() = false")
	}
}

func TestSound_BlockIsCallerOwned(t *testing.T) {
	t.Parallel()

	pcm := constPCM(t, 8000, 1, 8, 0.5)
	s := New(pcm, Options{BlockSize: 8})
	cur, _ := s.CreateCursor()

	var blk audio.Block
	s.Block(cur, audio.DefaultMixer{}, &blk)
	blk.Samples[0][0] = 9

	if pcm.Data[0][0] != 0.5 {
		t.Error("modifying a block changed the sound's PCM")
	}
}

func TestSound_EmptyCannotPlay(t *testing.T) {
	t.Parallel()

	s := New(&PCM{SampleRate: 8000}, Options{})
	if _, err := s.CreateCursor(); !errors.Is(err, ErrEmptySound) {
		t.Errorf("CreateCursor() error = %v, want ErrEmptySound", err)
	}
}

func TestSound_Gain(t *testing.T) {
	t.Parallel()

	s := New(constPCM(t, 8000, 1, 4, 1), Options{GainDB: -20})
	if math.Abs(float64(s.Gain()-0.1)) > 1e-4 {
		t.Errorf("Gain() = %v, want 0.1", s.Gain())
	}
	if s.GainDB() != -20 {
		t.Errorf("GainDB() = %v, want -20", s.GainDB())
	}
}
