// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"fmt"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/internal/logging"
)

// BufferOptions set the format of blocks generated inside the graph.
// Zero values select 44100 Hz and 1024 samples.
type BufferOptions struct {
	SampleRate int
	BlockSize  int
	// Category tags blocks that carry none.
	Category string
}

// Buffer plays a graph as an audio.Buffer. Each cursor owns an Evaluator.
type Buffer struct {
	g    *Graph
	out  *Output
	opts BufferOptions
}

var _ audio.Buffer = (*Buffer)(nil)

// NewBuffer freezes g and wraps it with out as the sink.
func NewBuffer(g *Graph, out *Output, opts BufferOptions) (*Buffer, error) {
	if out == nil {
		return nil, ErrNoOutput
	}
	if !g.Contains(out) {
		return nil, fmt.Errorf("%w: output node", ErrForeignPin)
	}
	if opts.SampleRate <= 0 {
		opts.SampleRate = defaultSampleRate
	}
	if opts.BlockSize <= 0 {
		opts.BlockSize = defaultBlockSize
	}
	opts.BlockSize = audio.AlignedCount(opts.BlockSize)

	g.freeze()
	logging.Logger().Debug("graph buffer created",
		"nodes", len(g.Nodes()),
		"sample_rate", opts.SampleRate,
		"block_size", opts.BlockSize,
	)
	return &Buffer{g: g, out: out, opts: opts}, nil
}

func (b *Buffer) Graph() *Graph    { return b.g }
func (b *Buffer) Category() string { return b.opts.Category }

// Cursor is the per-playback state of a graph Buffer.
type Cursor struct {
	e *Evaluator
}

// Evaluator exposes the playback evaluator, for inspection from the mixer
// goroutine only.
func (c *Cursor) Evaluator() *Evaluator { return c.e }

func (c *Cursor) SetParameter(id string, value float32) { c.e.SetParameter(id, value) }
func (c *Cursor) DisableRepeat()                        { c.e.DisableRepeat() }
func (c *Cursor) Reset()                                { c.e.Reset() }

func (b *Buffer) CreateCursor() (audio.Cursor, error) {
	e, err := NewEvaluator(b.g)
	if err != nil {
		return nil, err
	}
	e.SetFormat(b.opts.SampleRate, b.opts.BlockSize)
	return &Cursor{e: e}, nil
}

// Block runs one evaluation pass and advances the evaluator clock by the
// duration of the block produced.
func (b *Buffer) Block(cur audio.Cursor, m audio.Mixer, out *audio.Block) bool {
	c, ok := cur.(*Cursor)
	if !ok {
		return false
	}
	e := c.e

	e.FlushCachedBlocks()
	if !b.out.Block(e, e.Cursor(b.out), m, nil, out) {
		return false
	}
	if out.SampleRate <= 0 {
		out.SampleRate = e.SampleRate()
	}
	if out.Category == "" {
		out.Category = b.opts.Category
	}
	e.Advance(float64(out.SamplesCount) / float64(out.SampleRate))
	return true
}
