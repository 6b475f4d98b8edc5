// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"errors"

	"github.com/ik5/audmix/audio"
)

var mixer audio.DefaultMixer

// probe is a signal source producing blocks of value whose sample i is
// value+i, counting every pull.
type probe struct {
	base
	value    float32
	channels int
	size     int
	limit    int
	pulls    int
	Out      *OutputPin
}

func newProbe(value float32) *probe {
	n := &probe{base: base{name: "probe"}, value: value, channels: 1, size: 16, limit: -1}
	n.Out = n.output(n, "out", Signal)
	return n
}

type probeCursor struct {
	audio.NopCursor
	served  int
	resets  int
	params  map[string]float32
	storage audio.Storage
}

func (c *probeCursor) Reset() {
	c.served = 0
	c.resets++
}

func (c *probeCursor) SetParameter(id string, v float32) {
	if c.params == nil {
		c.params = make(map[string]float32)
	}
	c.params[id] = v
}

func (n *probe) CreateCursor() (audio.Cursor, error) { return &probeCursor{}, nil }

func (n *probe) Block(_ *Evaluator, cur audio.Cursor, _ audio.Mixer, _ *OutputPin, out *audio.Block) bool {
	pc := cur.(*probeCursor)
	if n.limit >= 0 && pc.served >= n.limit {
		return false
	}
	n.pulls++
	pc.served++
	pc.storage.View(out, n.channels, n.size)
	for c := range n.channels {
		for i := range out.Samples[c] {
			out.Samples[c][i] = n.value + float32(i)
		}
	}
	out.SampleRate = 44100
	out.Category = ""
	return true
}

// sink is a signal consumer that scales its input in place and keeps a copy
// of what it received.
type sink struct {
	base
	factor float32
	seen   []float32
	In     *InputPin
	Out    *OutputPin
}

func newSink(factor float32) *sink {
	n := &sink{base: base{name: "sink"}, factor: factor}
	n.In = n.input(n, "in", Signal)
	n.Out = n.output(n, "out", Signal)
	return n
}

func (n *sink) Block(e *Evaluator, _ audio.Cursor, m audio.Mixer, _ *OutputPin, out *audio.Block) bool {
	if !e.EvaluateBlock(m, n.In, out) {
		return false
	}
	n.seen = append(n.seen[:0], out.Channel(0)...)
	m.MulConst(out.Samples[0][:out.SamplesCount], n.factor)
	return true
}

// failing refuses to create cursors.
type failing struct {
	base
	Out *OutputPin
}

func newFailing() *failing {
	n := &failing{base: base{name: "failing"}}
	n.Out = n.output(n, "out", Signal)
	return n
}

func (*failing) CreateCursor() (audio.Cursor, error) { return nil, errors.New("no state") }

func (*failing) Block(*Evaluator, audio.Cursor, audio.Mixer, *OutputPin, *audio.Block) bool {
	return false
}

func mustConnect(g *Graph, out *OutputPin, in *InputPin) {
	if err := g.Connect(out, in); err != nil {
		panic(err)
	}
}

func mustEvaluator(g *Graph) *Evaluator {
	e, err := NewEvaluator(g)
	if err != nil {
		panic(err)
	}
	return e
}

// pull evaluates out as if it fed a fresh input pin.
func pull(e *Evaluator, out *OutputPin, b *audio.Block) bool {
	in := &InputPin{}
	e.sources[in] = out
	defer delete(e.sources, in)
	return e.EvaluateBlock(mixer, in, b)
}

// scalar evaluates out as if it fed a fresh input pin.
func scalar(e *Evaluator, out *OutputPin) (float32, bool) {
	in := &InputPin{}
	e.sources[in] = out
	defer delete(e.sources, in)
	return e.EvaluateScalar(in)
}
