// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"strconv"

	"github.com/ik5/audmix/audio"
)

// pair holds the two input blocks pulled by the block arithmetic nodes.
type pair struct {
	audio.NopCursor
	a, b audio.Block
}

func newPair() (audio.Cursor, error) { return &pair{}, nil }

// resolve returns the kind an Any output of a binary node carries: a
// scalar only when both inputs are scalars.
func (n *binary) resolve(e *Evaluator) PinType {
	a, b := e.SourceType(n.A), e.SourceType(n.B)
	switch {
	case a == Invalid || b == Invalid:
		return Invalid
	case a == Scalar && b == Scalar:
		return Scalar
	default:
		return Signal
	}
}

// Add sums its inputs. Two signals are summed sample by sample; a channel
// present on one side only passes through. A scalar added to a signal is a
// DC offset. When one signal input produces nothing the other passes
// through.
type Add struct{ binary }

func NewAdd() *Add {
	n := &Add{}
	n.init(n, "add", Any, Any)
	return n
}

func (n *Add) CreateCursor() (audio.Cursor, error) { return newPair() }

func (n *Add) OutputType(e *Evaluator, _ *OutputPin) PinType { return n.resolve(e) }

func (n *Add) Scalar(e *Evaluator, _ audio.Cursor, _ *OutputPin) (float32, bool) {
	a, b, ok := n.scalars(e)
	return a + b, ok
}

func (n *Add) Block(e *Evaluator, cur audio.Cursor, m audio.Mixer, _ *OutputPin, out *audio.Block) bool {
	p := cur.(*pair)
	ta, tb := e.SourceType(n.A), e.SourceType(n.B)

	switch {
	case ta == Signal && tb == Scalar:
		return offset(e, m, n.A, n.B, out)
	case ta == Scalar && tb == Signal:
		return offset(e, m, n.B, n.A, out)
	case ta != Signal || tb != Signal:
		return false
	}

	okA := e.EvaluateBlock(m, n.A, &p.a)
	okB := e.EvaluateBlock(m, n.B, &p.b)
	switch {
	case okA && okB:
		combine(&p.a, &p.b, func(dst, src []float32) { m.AddMulConst(dst, src, 1) })
		*out = p.a
	case okA:
		*out = p.a
	case okB:
		*out = p.b
	default:
		return false
	}
	return true
}

// offset pulls sig into out and adds the scalar k to every sample.
func offset(e *Evaluator, m audio.Mixer, sig, k *InputPin, out *audio.Block) bool {
	v, ok := e.EvaluateScalar(k)
	if !ok || !e.EvaluateBlock(m, sig, out) {
		return false
	}
	if v == 0 {
		return true
	}
	for c := range out.Channels {
		for i, s := range out.Channel(c) {
			out.Samples[c][i] = s + v
		}
	}
	return true
}

// combine folds b into a channel by channel over the shorter of the two
// blocks. Channels only b carries are moved over to a.
func combine(a, b *audio.Block, op func(dst, src []float32)) {
	n := min(a.SamplesCount, b.SamplesCount)
	for c := range b.Channels {
		src := b.Channel(c)
		if src == nil {
			continue
		}
		if dst := a.Channel(c); dst != nil {
			op(dst[:n], src[:n])
			continue
		}
		a.Samples[c] = src
	}
	a.Channels = max(a.Channels, b.Channels)
	a.SamplesCount = n
}

// Multiply multiplies its inputs. The operation depends on the kinds
// flowing in: scalar by scalar yields a scalar, a signal scaled by a scalar
// or two signals multiplied sample by sample yield a signal. Other
// combinations produce nothing.
type Multiply struct{ binary }

func NewMultiply() *Multiply {
	n := &Multiply{}
	n.init(n, "multiply", Any, Any)
	return n
}

func (n *Multiply) CreateCursor() (audio.Cursor, error) { return newPair() }

func (n *Multiply) OutputType(e *Evaluator, _ *OutputPin) PinType { return n.resolve(e) }

func (n *Multiply) Scalar(e *Evaluator, _ audio.Cursor, _ *OutputPin) (float32, bool) {
	if e.SourceType(n.A) != Scalar || e.SourceType(n.B) != Scalar {
		return 0, false
	}
	a, b, ok := n.scalars(e)
	return a * b, ok
}

func (n *Multiply) Block(e *Evaluator, cur audio.Cursor, m audio.Mixer, _ *OutputPin, out *audio.Block) bool {
	p := cur.(*pair)

	switch ta, tb := e.SourceType(n.A), e.SourceType(n.B); {
	case ta == Signal && tb == Scalar:
		return scale(e, m, n.A, n.B, out)
	case ta == Scalar && tb == Signal:
		return scale(e, m, n.B, n.A, out)
	case ta == Signal && tb == Signal:
	default:
		return false
	}

	okA := e.EvaluateBlock(m, n.A, &p.a)
	okB := e.EvaluateBlock(m, n.B, &p.b)
	switch {
	case okA && okB:
		combine(&p.a, &p.b, func(dst, src []float32) {
			for i := range dst {
				dst[i] *= src[i]
			}
		})
		*out = p.a
	case okA:
		*out = p.a
	case okB:
		*out = p.b
	default:
		return false
	}
	return true
}

func scale(e *Evaluator, m audio.Mixer, sig, k *InputPin, out *audio.Block) bool {
	v, ok := e.EvaluateScalar(k)
	if !ok || !e.EvaluateBlock(m, sig, out) {
		return false
	}
	if v == 1 {
		return true
	}
	for c := range out.Channels {
		if s := out.Channel(c); s != nil {
			m.MulConst(s, v)
		}
	}
	return true
}

// Blend interpolates (1-w)*A + w*B with w clamped to [0, 1]. For signals a
// missing side is treated as silence.
type Blend struct {
	base
	A, B   *InputPin
	Weight *InputPin
	Out    *OutputPin
}

func NewBlend() *Blend {
	n := &Blend{base: base{name: "blend"}}
	n.A = n.input(n, "a", Any)
	n.B = n.input(n, "b", Any)
	n.Weight = n.input(n, "weight", Scalar)
	n.Out = n.output(n, "out", Any)
	return n
}

type blendCursor struct {
	audio.NopCursor
	a, b    audio.Block
	storage audio.Storage
}

func (n *Blend) CreateCursor() (audio.Cursor, error) { return &blendCursor{}, nil }

func (n *Blend) OutputType(e *Evaluator, _ *OutputPin) PinType {
	a, b := e.SourceType(n.A), e.SourceType(n.B)
	if a == Scalar && b == Scalar {
		return Scalar
	}
	return Signal
}

func (n *Blend) weight(e *Evaluator) (float32, bool) {
	w, ok := e.EvaluateScalar(n.Weight)
	return min(max(w, 0), 1), ok
}

func (n *Blend) Scalar(e *Evaluator, _ audio.Cursor, _ *OutputPin) (float32, bool) {
	w, ok := n.weight(e)
	if !ok {
		return 0, false
	}
	a, okA := e.EvaluateScalar(n.A)
	b, okB := e.EvaluateScalar(n.B)
	if !okA || !okB {
		return 0, false
	}
	return (1-w)*a + w*b, true
}

func (n *Blend) Block(e *Evaluator, cur audio.Cursor, m audio.Mixer, _ *OutputPin, out *audio.Block) bool {
	bc := cur.(*blendCursor)
	w, ok := n.weight(e)
	if !ok {
		return false
	}

	okA := e.EvaluateBlock(m, n.A, &bc.a)
	okB := e.EvaluateBlock(m, n.B, &bc.b)
	if !okA && !okB {
		return false
	}
	if !okA {
		bc.a = audio.Block{}
	}
	if !okB {
		bc.b = audio.Block{}
	}

	count := bc.a.SamplesCount
	rate := bc.a.SampleRate
	switch {
	case !okA:
		count, rate = bc.b.SamplesCount, bc.b.SampleRate
	case okB:
		count = min(count, bc.b.SamplesCount)
	}

	channels := max(bc.a.Channels, bc.b.Channels)
	bc.storage.View(out, channels, count)
	for c := range channels {
		dst := out.Samples[c]
		a, b := bc.a.Channel(c), bc.b.Channel(c)
		switch {
		case a != nil && b != nil:
			m.MulConstTo(dst, a[:count], 1-w)
			m.AddMulConst(dst, b[:count], w)
		case a != nil:
			m.MulConstTo(dst, a[:count], 1-w)
		case b != nil:
			m.MulConstTo(dst, b[:count], w)
		default:
			m.Mute(dst)
		}
	}
	out.SampleRate = rate
	out.Category = ""
	return true
}

// Mix sums any number of signal inputs over the shortest block. Inputs
// producing nothing count as silence; Mix fails only when every input fails.
type Mix struct {
	base
	In  []*InputPin
	Out *OutputPin
}

func NewMix(inputs int) *Mix {
	n := &Mix{base: base{name: "mix"}}
	for i := range max(inputs, 1) {
		n.In = append(n.In, n.input(n, "in"+strconv.Itoa(i), Signal))
	}
	n.Out = n.output(n, "out", Signal)
	return n
}

type mixCursor struct {
	audio.NopCursor
	in      audio.Block
	storage audio.Storage
}

func (n *Mix) CreateCursor() (audio.Cursor, error) { return &mixCursor{}, nil }

func (n *Mix) Block(e *Evaluator, cur audio.Cursor, m audio.Mixer, _ *OutputPin, out *audio.Block) bool {
	mc := cur.(*mixCursor)
	mixed := false
	for _, in := range n.In {
		if !e.EvaluateBlock(m, in, &mc.in) {
			continue
		}

		if !mixed {
			mc.storage.View(out, mc.in.Channels, mc.in.SamplesCount)
			for c := range out.Channels {
				if src := mc.in.Channel(c); src != nil {
					m.MulConstTo(out.Samples[c], src, 1)
				} else {
					m.Mute(out.Samples[c])
				}
			}
			out.SampleRate = mc.in.SampleRate
			out.Category = ""
			mixed = true
			continue
		}

		if old := out.Channels; mc.in.Channels > old {
			mc.storage.View(out, mc.in.Channels, out.SamplesCount)
			for c := old; c < out.Channels; c++ {
				m.Mute(out.Samples[c])
			}
		}
		count := min(out.SamplesCount, mc.in.SamplesCount)
		for c := range mc.in.Channels {
			if src := mc.in.Channel(c); src != nil {
				m.AddMulConst(out.Samples[c][:count], src[:count], 1)
			}
		}
		out.SamplesCount = count
	}
	return mixed
}
