// SPDX-License-Identifier: EPL-2.0

package graph

import "github.com/ik5/audmix/audio"

// PinType is the kind of value carried by a pin.
type PinType int

const (
	// Invalid is reported for inputs with neither a source nor a default.
	Invalid PinType = iota
	Scalar
	Signal
	// Any pins accept both kinds; the kind flowing through is known only at
	// evaluation time.
	Any
)

func (t PinType) String() string {
	switch t {
	case Scalar:
		return "scalar"
	case Signal:
		return "signal"
	case Any:
		return "any"
	default:
		return "invalid"
	}
}

func compatible(out, in PinType) bool {
	return out == Any || in == Any || out == in
}

// InputPin is a node input. It has at most one source.
type InputPin struct {
	node   Node
	name   string
	typ    PinType
	def    float32
	hasDef bool
}

func (p *InputPin) Node() Node       { return p.node }
func (p *InputPin) Name() string     { return p.name }
func (p *InputPin) Type() PinType    { return p.typ }
func (p *InputPin) Default() float32 { return p.def }

// SetDefault gives the pin a scalar value used while it is unconnected.
func (p *InputPin) SetDefault(v float32) *InputPin {
	p.def = v
	p.hasDef = true
	return p
}

// HasDefault reports whether SetDefault was called.
func (p *InputPin) HasDefault() bool { return p.hasDef }

// OutputPin is a node output.
type OutputPin struct {
	node Node
	name string
	typ  PinType
}

func (p *OutputPin) Node() Node    { return p.node }
func (p *OutputPin) Name() string  { return p.name }
func (p *OutputPin) Type() PinType { return p.typ }

// Node is a graph vertex. Per-playback state lives in the cursor returned by
// CreateCursor; the node itself is shared by every playback.
//
// A node implements ScalarNode, SignalNode or both for the capabilities its
// outputs support.
type Node interface {
	Name() string
	Inputs() []*InputPin
	Outputs() []*OutputPin
	CreateCursor() (audio.Cursor, error)
}

// ScalarNode produces one value for out per request. Scalars are
// recomputed on every request and must be free of side effects.
type ScalarNode interface {
	Node
	Scalar(e *Evaluator, cur audio.Cursor, out *OutputPin) (float32, bool)
}

// SignalNode fills b with the next block of out. b follows the audio.Buffer
// ownership rules.
type SignalNode interface {
	Node
	Block(e *Evaluator, cur audio.Cursor, m audio.Mixer, out *OutputPin, b *audio.Block) bool
}

// TypeResolver resolves the kind flowing out of an Any output.
type TypeResolver interface {
	OutputType(e *Evaluator, out *OutputPin) PinType
}

// base implements the pin bookkeeping shared by the node library.
type base struct {
	name string
	ins  []*InputPin
	outs []*OutputPin
}

func (b *base) Name() string          { return b.name }
func (b *base) Inputs() []*InputPin   { return b.ins }
func (b *base) Outputs() []*OutputPin { return b.outs }

func (b *base) CreateCursor() (audio.Cursor, error) { return audio.NopCursor{}, nil }

func (b *base) input(self Node, name string, typ PinType) *InputPin {
	p := &InputPin{node: self, name: name, typ: typ}
	b.ins = append(b.ins, p)
	return p
}

func (b *base) output(self Node, name string, typ PinType) *OutputPin {
	p := &OutputPin{node: self, name: name, typ: typ}
	b.outs = append(b.outs, p)
	return p
}
