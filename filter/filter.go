// SPDX-License-Identifier: EPL-2.0

// Package filter provides block filters usable on a channel or inside a
// graph Filter node.
package filter

import (
	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/internal/sample"
)

// Gain scales every channel by a fixed amount in decibels.
type Gain struct {
	DB float32
}

func (g Gain) NewInstance() (audio.FilterInstance, error) {
	return gainInstance{factor: sample.DBToGain(g.DB)}, nil
}

type gainInstance struct {
	factor float32
}

func (g gainInstance) Apply(m audio.Mixer, b *audio.Block) {
	for c := range b.Channels {
		if ch := b.Channel(c); ch != nil {
			m.MulConst(ch, g.factor)
		}
	}
}

// LowPass is a one-pole low-pass: y[n] = alpha*x[n] + (1-alpha)*y[n-1].
// Alpha is clamped to (0, 1].
type LowPass struct {
	Alpha float32
}

func (f LowPass) NewInstance() (audio.FilterInstance, error) {
	alpha := sample.Clamp01(f.Alpha)
	if alpha == 0 {
		return nil, ErrInvalidCoefficient
	}
	return &onePole{alpha: alpha}, nil
}

// HighPass subtracts the one-pole low-pass response from the input.
type HighPass struct {
	Alpha float32
}

func (f HighPass) NewInstance() (audio.FilterInstance, error) {
	alpha := sample.Clamp01(f.Alpha)
	if alpha == 0 {
		return nil, ErrInvalidCoefficient
	}
	return &onePole{alpha: alpha, high: true}, nil
}

type onePole struct {
	alpha  float32
	high   bool
	state  [audio.MaxChannel]float32
	primed [audio.MaxChannel]bool
}

func (f *onePole) Apply(_ audio.Mixer, b *audio.Block) {
	for c := range b.Channels {
		ch := b.Channel(c)
		if ch == nil {
			continue
		}

		// Seed the state with the first sample to avoid a warm-up transient.
		if !f.primed[c] && len(ch) > 0 {
			f.state[c] = ch[0]
			f.primed[c] = true
		}

		y := f.state[c]
		for i, x := range ch {
			y = f.alpha*x + (1-f.alpha)*y
			if f.high {
				ch[i] = x - y
			} else {
				ch[i] = y
			}
		}
		f.state[c] = y
	}
}
