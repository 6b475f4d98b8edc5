// SPDX-License-Identifier: EPL-2.0

package graph

import "github.com/ik5/audmix/audio"

// Constant produces a fixed scalar.
type Constant struct {
	base
	Value float32
	Out   *OutputPin
}

func NewConstant(v float32) *Constant {
	n := &Constant{base: base{name: "constant"}, Value: v}
	n.Out = n.output(n, "out", Scalar)
	return n
}

func (n *Constant) Scalar(*Evaluator, audio.Cursor, *OutputPin) (float32, bool) {
	return n.Value, true
}

// Parameter reads a value injected with Evaluator.SetParameter, falling
// back to Default until one is set.
type Parameter struct {
	base
	ID      string
	Default float32
	Out     *OutputPin
}

func NewParameter(id string, def float32) *Parameter {
	n := &Parameter{base: base{name: "parameter"}, ID: id, Default: def}
	n.Out = n.output(n, "out", Scalar)
	return n
}

func (n *Parameter) Scalar(e *Evaluator, _ audio.Cursor, _ *OutputPin) (float32, bool) {
	if v, ok := e.Parameter(n.ID); ok {
		return v, true
	}
	return n.Default, true
}

// Time produces the evaluator clock in seconds.
type Time struct {
	base
	Out *OutputPin
}

func NewTime() *Time {
	n := &Time{base: base{name: "time"}}
	n.Out = n.output(n, "out", Scalar)
	return n
}

func (n *Time) Scalar(e *Evaluator, _ audio.Cursor, _ *OutputPin) (float32, bool) {
	return float32(e.Time()), true
}

// binary is the two-input scalar layout shared by the arithmetic nodes.
type binary struct {
	base
	A, B *InputPin
	Out  *OutputPin
}

func (n *binary) init(self Node, name string, in, out PinType) {
	n.name = name
	n.A = n.input(self, "a", in)
	n.B = n.input(self, "b", in)
	n.Out = n.output(self, "out", out)
}

func (n *binary) scalars(e *Evaluator) (a, b float32, ok bool) {
	if a, ok = e.EvaluateScalar(n.A); !ok {
		return 0, 0, false
	}
	if b, ok = e.EvaluateScalar(n.B); !ok {
		return 0, 0, false
	}
	return a, b, true
}

// Subtract produces a - b.
type Subtract struct{ binary }

func NewSubtract() *Subtract {
	n := &Subtract{}
	n.init(n, "subtract", Scalar, Scalar)
	return n
}

func (n *Subtract) Scalar(e *Evaluator, _ audio.Cursor, _ *OutputPin) (float32, bool) {
	a, b, ok := n.scalars(e)
	return a - b, ok
}

// Divide produces a / b. A zero divisor yields no value.
type Divide struct{ binary }

func NewDivide() *Divide {
	n := &Divide{}
	n.init(n, "divide", Scalar, Scalar)
	return n
}

func (n *Divide) Scalar(e *Evaluator, _ audio.Cursor, _ *OutputPin) (float32, bool) {
	a, b, ok := n.scalars(e)
	if !ok || b == 0 {
		return 0, false
	}
	return a / b, true
}
