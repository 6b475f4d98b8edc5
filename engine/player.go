// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"sync"
	"time"

	"github.com/ik5/audmix/audio"
)

// Player assigns sounds to idle channels of a System.
type Player struct {
	sys *System
	mu  sync.Mutex
}

func NewPlayer(sys *System) *Player {
	return &Player{sys: sys}
}

// Buffers such as sound.Sound carry a default category and gain.
type (
	categorized interface {
		Category() string
	}
	gained interface {
		GainDB() float32
	}
)

// Play starts buf on the first idle channel. An empty opts.Category or a
// zero opts.GainDB is taken from buf when it carries one.
func (p *Player) Play(buf audio.Buffer, opts PlayOptions) (*Handle, error) {
	if buf == nil {
		return nil, audio.ErrNilBuffer
	}
	if opts.Category == "" {
		if c, ok := buf.(categorized); ok {
			opts.Category = c.Category()
		}
	}
	if opts.GainDB == 0 {
		if g, ok := buf.(gained); ok {
			opts.GainDB = g.GainDB()
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	n := p.sys.ChannelCount()
	if n == 0 {
		return nil, ErrClosed
	}
	for id := range n {
		ch := p.sys.Channel(id)
		if ch == nil || ch.IsPlaying() {
			continue
		}
		seq, err := ch.play(buf, opts)
		if err != nil {
			return nil, err
		}
		return &Handle{ch: ch, seq: seq}, nil
	}
	return nil, ErrNoFreeChannel
}

// Handle controls one playback started by a Player. Once its channel is
// reused for another sound the handle goes stale and its methods do
// nothing.
type Handle struct {
	ch  *Channel
	seq uint64
}

func (h *Handle) current() bool {
	return h.ch.seq.Load() == h.seq
}

func (h *Handle) Stop() {
	h.ch.stopIf(h.seq)
}

// FadeOff fades the sound out over d and then stops it. A zero duration
// stops immediately.
func (h *Handle) FadeOff(d time.Duration) {
	if !h.current() {
		return
	}
	samples := int(d.Seconds() * float64(h.ch.SampleRate()))
	if samples <= 0 {
		h.Stop()
		return
	}
	h.ch.FadeOff(samples)
}

func (h *Handle) SetParameter(id string, value float32) {
	if h.current() {
		h.ch.SetParameter(id, value)
	}
}

func (h *Handle) DisableRepeat() {
	if h.current() {
		h.ch.DisableRepeat()
	}
}

func (h *Handle) IsPlaying() bool {
	return h.current() && h.ch.IsPlaying()
}

// Channel returns the channel the handle plays on.
func (h *Handle) Channel() *Channel { return h.ch }
