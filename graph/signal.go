// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"math"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/sound"
)

// Output is the sink of a graph Buffer. It forwards its input unchanged
// and fails when the input fails.
type Output struct {
	base
	In *InputPin
}

func NewOutput() *Output {
	n := &Output{base: base{name: "output"}}
	n.In = n.input(n, "in", Signal)
	return n
}

func (n *Output) Block(e *Evaluator, _ audio.Cursor, m audio.Mixer, _ *OutputPin, out *audio.Block) bool {
	return e.EvaluateBlock(m, n.In, out)
}

// Filter runs its input through an audio.Filter. Each playback gets its own
// filter instance, created with the evaluator.
type Filter struct {
	base
	Filter audio.Filter
	In     *InputPin
	Out    *OutputPin
}

func NewFilter(f audio.Filter) *Filter {
	n := &Filter{base: base{name: "filter"}, Filter: f}
	n.In = n.input(n, "in", Signal)
	n.Out = n.output(n, "out", Signal)
	return n
}

type filterCursor struct {
	audio.NopCursor
	inst audio.FilterInstance
}

func (n *Filter) CreateCursor() (audio.Cursor, error) {
	if n.Filter == nil {
		return &filterCursor{}, nil
	}
	inst, err := n.Filter.NewInstance()
	if err != nil {
		return nil, err
	}
	return &filterCursor{inst: inst}, nil
}

func (n *Filter) Block(e *Evaluator, cur audio.Cursor, m audio.Mixer, _ *OutputPin, out *audio.Block) bool {
	if !e.EvaluateBlock(m, n.In, out) {
		return false
	}
	if fc := cur.(*filterCursor); fc.inst != nil {
		fc.inst.Apply(m, out)
	}
	return true
}

// Pitch rescales the sample rate of its input by Factor. Samples are left
// untouched; the channel resamples when it meets a rate differing from the
// hardware rate.
type Pitch struct {
	base
	In     *InputPin
	Factor *InputPin
	Out    *OutputPin
}

func NewPitch() *Pitch {
	n := &Pitch{base: base{name: "pitch"}}
	n.In = n.input(n, "in", Signal)
	n.Factor = n.input(n, "factor", Scalar).SetDefault(1)
	n.Out = n.output(n, "out", Signal)
	return n
}

func (n *Pitch) Block(e *Evaluator, _ audio.Cursor, m audio.Mixer, _ *OutputPin, out *audio.Block) bool {
	f, ok := e.EvaluateScalar(n.Factor)
	if !ok || f <= 0 {
		return false
	}
	if !e.EvaluateBlock(m, n.In, out) {
		return false
	}
	rate := out.SampleRate
	if rate == 0 {
		rate = e.SampleRate()
	}
	out.SampleRate = int(math.Round(float64(rate) * float64(f)))
	return out.SampleRate > 0
}

// Sine generates a tone at Frequency Hz with peak Amplitude. As a signal it
// produces blocks of the evaluator format on Channels identical channels;
// as a scalar it yields the instantaneous value at the evaluator clock.
type Sine struct {
	base
	Channels  int
	Frequency *InputPin
	Amplitude *InputPin
	Out       *OutputPin
}

func NewSine() *Sine {
	n := &Sine{base: base{name: "sine"}, Channels: 1}
	n.Frequency = n.input(n, "frequency", Scalar).SetDefault(440)
	n.Amplitude = n.input(n, "amplitude", Scalar).SetDefault(1)
	n.Out = n.output(n, "out", Any)
	return n
}

type sineCursor struct {
	audio.NopCursor
	phase   float64
	storage audio.Storage
}

func (c *sineCursor) Reset() { c.phase = 0 }

func (n *Sine) CreateCursor() (audio.Cursor, error) { return &sineCursor{}, nil }

func (n *Sine) OutputType(*Evaluator, *OutputPin) PinType { return Signal }

func (n *Sine) params(e *Evaluator) (freq, amp float32, ok bool) {
	if freq, ok = e.EvaluateScalar(n.Frequency); !ok {
		return 0, 0, false
	}
	if amp, ok = e.EvaluateScalar(n.Amplitude); !ok {
		return 0, 0, false
	}
	return freq, amp, true
}

func (n *Sine) Scalar(e *Evaluator, _ audio.Cursor, _ *OutputPin) (float32, bool) {
	freq, amp, ok := n.params(e)
	if !ok {
		return 0, false
	}
	return amp * float32(math.Sin(2*math.Pi*float64(freq)*e.Time())), true
}

func (n *Sine) Block(e *Evaluator, cur audio.Cursor, _ audio.Mixer, _ *OutputPin, out *audio.Block) bool {
	sc := cur.(*sineCursor)
	freq, amp, ok := n.params(e)
	if !ok {
		return false
	}

	channels := min(max(n.Channels, 1), audio.MaxChannel)
	rate := e.SampleRate()
	sc.storage.View(out, channels, e.BlockSize())

	step := 2 * math.Pi * float64(freq) / float64(rate)
	first := out.Samples[0]
	for i := range first {
		first[i] = amp * float32(math.Sin(sc.phase))
		sc.phase += step
	}
	sc.phase = math.Mod(sc.phase, 2*math.Pi)
	for c := 1; c < channels; c++ {
		copy(out.Samples[c], first)
	}

	out.SampleRate = rate
	out.Category = ""
	return true
}

// Source plays a decoded sound, applying its static gain.
type Source struct {
	base
	Sound *sound.Sound
	Out   *OutputPin
}

func NewSource(snd *sound.Sound) *Source {
	n := &Source{base: base{name: "source"}, Sound: snd}
	n.Out = n.output(n, "out", Signal)
	return n
}

func (n *Source) CreateCursor() (audio.Cursor, error) {
	if n.Sound == nil {
		return nil, sound.ErrEmptySound
	}
	return n.Sound.CreateCursor()
}

func (n *Source) Block(_ *Evaluator, cur audio.Cursor, m audio.Mixer, _ *OutputPin, out *audio.Block) bool {
	if !n.Sound.Block(cur, m, out) {
		return false
	}
	if g := n.Sound.Gain(); g != 1 {
		for c := range out.Channels {
			if s := out.Channel(c); s != nil {
				m.MulConst(s, g)
			}
		}
	}
	return true
}

// Applier processes blocks for a Custom node. Apply works in place and
// reports false to drop the block.
type Applier interface {
	Apply(m audio.Mixer, b *audio.Block) bool
}

// ParameterApplier is an Applier that also receives parameter writes.
type ParameterApplier interface {
	Applier
	SetParameter(id string, value float32)
}

// Custom hands its input to an Applier built per playback by New. It is
// the extension point for processing the node library does not cover.
type Custom struct {
	base
	New func() (Applier, error)
	In  *InputPin
	Out *OutputPin
}

func NewCustom(name string, factory func() (Applier, error)) *Custom {
	n := &Custom{base: base{name: name}, New: factory}
	n.In = n.input(n, "in", Signal)
	n.Out = n.output(n, "out", Signal)
	return n
}

type customCursor struct {
	audio.NopCursor
	applier Applier
}

func (c *customCursor) SetParameter(id string, value float32) {
	if p, ok := c.applier.(ParameterApplier); ok {
		p.SetParameter(id, value)
	}
}

func (n *Custom) CreateCursor() (audio.Cursor, error) {
	if n.New == nil {
		return nil, ErrNoApplier
	}
	a, err := n.New()
	if err != nil {
		return nil, err
	}
	return &customCursor{applier: a}, nil
}

func (n *Custom) Block(e *Evaluator, cur audio.Cursor, m audio.Mixer, _ *OutputPin, out *audio.Block) bool {
	if !e.EvaluateBlock(m, n.In, out) {
		return false
	}
	return cur.(*customCursor).applier.Apply(m, out)
}
