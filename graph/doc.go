// SPDX-License-Identifier: EPL-2.0

// Package graph evaluates directed graphs of audio nodes into blocks.
//
// Nodes expose typed pins. Scalar pins carry one float per evaluation,
// Signal pins carry a Block. A node's output may feed any number of inputs,
// an input has at most one source:
//
//	g := graph.New()
//	sine := graph.NewSine()
//	sine.Frequency.SetDefault(220)
//	gain := graph.NewParameter("volume", 0.5)
//	mul := graph.NewMultiply()
//	out := graph.NewOutput()
//	g.Add(sine, gain, mul, out)
//	g.Connect(sine.Out, mul.A)
//	g.Connect(gain.Out, mul.B)
//	g.Connect(mul.Out, out.In)
//
//	buf, err := graph.NewBuffer(g, out, graph.BufferOptions{SampleRate: 44100})
//
// The resulting Buffer plays on an engine Channel like any other sound.
// Every playback gets its own Evaluator holding one cursor per node, so
// nodes keep their per-playback state (oscillator phase, filter memory,
// stream position) in cursors rather than in themselves.
//
// An output feeding two or more inputs is evaluated once per pass; the
// Evaluator caches the block for the remaining consumers until
// FlushCachedBlocks.
package graph
