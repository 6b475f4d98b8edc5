// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"errors"
	"testing"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/internal/audiotest"
	"github.com/ik5/audmix/sound"
)

func TestPlayer_PicksIdleChannels(t *testing.T) {
	t.Parallel()

	sys, _ := newGatedSystem(t, testConfig(nil))
	p := NewPlayer(sys)

	buf := audiotest.NewConstantBuffer(44100, 1, 1<<20, 1)
	h0, err := p.Play(buf, PlayOptions{})
	if err != nil {
		t.Fatalf("Play() #1 error = %v", err)
	}
	h1, err := p.Play(buf, PlayOptions{})
	if err != nil {
		t.Fatalf("Play() #2 error = %v", err)
	}
	if h0.Channel().ID() != 0 || h1.Channel().ID() != 1 {
		t.Errorf("channels = %d, %d, want 0, 1", h0.Channel().ID(), h1.Channel().ID())
	}

	if _, err := p.Play(buf, PlayOptions{}); !errors.Is(err, ErrNoFreeChannel) {
		t.Errorf("Play() #3 error = %v, want ErrNoFreeChannel", err)
	}
	if _, err := p.Play(nil, PlayOptions{}); !errors.Is(err, audio.ErrNilBuffer) {
		t.Errorf("Play(nil) error = %v, want ErrNilBuffer", err)
	}
}

func TestHandle_GoesStale(t *testing.T) {
	t.Parallel()

	cfg := testConfig(nil)
	cfg.Channels = 1
	sys, _ := newGatedSystem(t, cfg)
	p := NewPlayer(sys)

	buf := audiotest.NewConstantBuffer(44100, 1, 1<<20, 1)
	old, err := p.Play(buf, PlayOptions{})
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if !old.IsPlaying() {
		t.Fatal("IsPlaying() = false right after Play()")
	}

	old.Stop()
	if old.IsPlaying() {
		t.Fatal("IsPlaying() = true after Stop()")
	}

	cur, err := p.Play(buf, PlayOptions{})
	if err != nil {
		t.Fatalf("Play() on the freed channel error = %v", err)
	}

	old.Stop()
	old.FadeOff(0)
	if !cur.IsPlaying() {
		t.Error("stale handle stopped the new playback")
	}
	if old.IsPlaying() {
		t.Error("stale handle reports the new playback")
	}
}

func TestHandle_FadeOffZeroStops(t *testing.T) {
	t.Parallel()

	sys, _ := newGatedSystem(t, testConfig(nil))
	h, err := NewPlayer(sys).Play(audiotest.NewConstantBuffer(44100, 1, 1<<20, 1), PlayOptions{})
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	h.FadeOff(0)
	if h.IsPlaying() {
		t.Error("IsPlaying() = true after FadeOff(0)")
	}
}

func TestPlayer_DefaultsFromSound(t *testing.T) {
	t.Parallel()

	pcm, err := sound.NewPCM(44100, [][]float32{make([]float32, 4096)})
	if err != nil {
		t.Fatalf("NewPCM() error = %v", err)
	}
	snd := sound.New(pcm, sound.Options{Category: "music", GainDB: -6})

	ch := NewChannel(0, 44100, 1024)
	sys := &System{channels: []*Channel{ch}}

	if _, err := NewPlayer(sys).Play(snd, PlayOptions{}); err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	pending := ch.sound.Peek()
	if pending == nil {
		t.Fatal("no sound published")
	}
	if pending.category != "music" {
		t.Errorf("category = %q, want music", pending.category)
	}
	if pending.gain != snd.Gain() {
		t.Errorf("gain = %v, want %v", pending.gain, snd.Gain())
	}
}

func TestPlayer_Closed(t *testing.T) {
	t.Parallel()

	sys, _ := newGatedSystem(t, testConfig(nil))
	sys.Close()

	if _, err := NewPlayer(sys).Play(audiotest.NewConstantBuffer(44100, 1, 1024, 1), PlayOptions{}); !errors.Is(err, ErrClosed) {
		t.Errorf("Play() after Close() error = %v, want ErrClosed", err)
	}
}
