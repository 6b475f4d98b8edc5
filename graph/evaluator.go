// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"fmt"
	"maps"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/internal/logging"
)

// ArenaCapacity is the number of blocks the fan-out cache holds per pass.
const ArenaCapacity = 128

const (
	defaultSampleRate = 44100
	defaultBlockSize  = 1024
)

type arenaSlot struct {
	storage audio.Storage
	block   audio.Block
}

type cacheEntry struct {
	slot      int
	remaining int
}

// Evaluator runs one playback of a graph. It is not safe for concurrent
// use; the mixer goroutine owns it between CreateCursor and the end of the
// playback.
type Evaluator struct {
	sources map[*InputPin]*OutputPin
	fanout  map[*OutputPin]int
	nodes   []Node
	cursors map[Node]audio.Cursor

	params     map[string]float32
	time       float64
	sampleRate int
	blockSize  int

	cache     map[*OutputPin]*cacheEntry
	arena     [ArenaCapacity]arenaSlot
	used      int
	overflows uint64
}

// NewEvaluator snapshots the edges of g and creates one cursor per node.
// It fails if any node cursor cannot be created.
func NewEvaluator(g *Graph) (*Evaluator, error) {
	g.mu.RLock()
	e := &Evaluator{
		sources:    maps.Clone(g.sources),
		fanout:     maps.Clone(g.fanout),
		nodes:      append([]Node(nil), g.nodes...),
		cursors:    make(map[Node]audio.Cursor, len(g.nodes)),
		params:     make(map[string]float32),
		sampleRate: defaultSampleRate,
		blockSize:  defaultBlockSize,
		cache:      make(map[*OutputPin]*cacheEntry),
	}
	g.mu.RUnlock()

	for _, n := range e.nodes {
		cur, err := n.CreateCursor()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrNodeCursor, n.Name(), err)
		}
		if cur == nil {
			cur = audio.NopCursor{}
		}
		e.cursors[n] = cur
	}

	logging.Logger().Debug("graph evaluator created", "nodes", len(e.nodes))
	return e, nil
}

// SetFormat sets the rate and size of blocks generated by source nodes.
func (e *Evaluator) SetFormat(sampleRate, blockSize int) {
	if sampleRate > 0 {
		e.sampleRate = sampleRate
	}
	if blockSize > 0 {
		e.blockSize = audio.AlignedCount(blockSize)
	}
}

func (e *Evaluator) SampleRate() int { return e.sampleRate }
func (e *Evaluator) BlockSize() int  { return e.blockSize }

// Cursor returns the cursor created for n.
func (e *Evaluator) Cursor(n Node) audio.Cursor { return e.cursors[n] }

// SourceType returns the kind of value that in receives: the type of its
// source, resolved through TypeResolver for Any outputs, Scalar for an
// unconnected input with a default, and Invalid otherwise.
func (e *Evaluator) SourceType(in *InputPin) PinType {
	src := e.sources[in]
	if src == nil {
		if in.hasDef {
			return Scalar
		}
		return Invalid
	}
	if src.typ != Any {
		return src.typ
	}
	if r, ok := src.node.(TypeResolver); ok {
		return r.OutputType(e, src)
	}
	if _, ok := src.node.(SignalNode); ok {
		return Signal
	}
	return Scalar
}

// EvaluateScalar returns the value flowing into in. An unconnected input
// yields its default.
func (e *Evaluator) EvaluateScalar(in *InputPin) (float32, bool) {
	src := e.sources[in]
	if src == nil {
		return in.def, in.hasDef
	}
	n, ok := src.node.(ScalarNode)
	if !ok {
		return 0, false
	}
	return n.Scalar(e, e.cursors[src.node], src)
}

// EvaluateBlock fills b with the block flowing into in. Outputs with two or
// more destinations are pulled once per pass and served from the cache; a
// failed pull fails every destination of that pass.
func (e *Evaluator) EvaluateBlock(m audio.Mixer, in *InputPin, b *audio.Block) bool {
	src := e.sources[in]
	if src == nil {
		return false
	}
	n, ok := src.node.(SignalNode)
	if !ok {
		return false
	}

	consumers := e.fanout[src]
	if consumers < 2 {
		return n.Block(e, e.cursors[src.node], m, src, b)
	}

	if ent, ok := e.cache[src]; ok {
		ent.remaining--
		if ent.slot < 0 {
			return false
		}
		cached := &e.arena[ent.slot].block
		if ent.remaining == 0 {
			*b = *cached
			return true
		}
		slot, ok := e.alloc()
		if !ok {
			return n.Block(e, e.cursors[src.node], m, src, b)
		}
		s := &e.arena[slot]
		s.storage.CopyBlock(&s.block, cached)
		*b = s.block
		return true
	}

	if !n.Block(e, e.cursors[src.node], m, src, b) {
		e.cache[src] = &cacheEntry{slot: -1, remaining: consumers - 1}
		return false
	}
	slot, ok := e.alloc()
	if !ok {
		return true
	}
	s := &e.arena[slot]
	s.storage.CopyBlock(&s.block, b)
	e.cache[src] = &cacheEntry{slot: slot, remaining: consumers - 1}
	return true
}

func (e *Evaluator) alloc() (int, bool) {
	if e.used == len(e.arena) {
		e.overflows++
		return 0, false
	}
	e.used++
	return e.used - 1, true
}

// FlushCachedBlocks ends an evaluation pass. Cached blocks never outlive
// the pass that produced them.
func (e *Evaluator) FlushCachedBlocks() {
	clear(e.cache)
	e.used = 0
}

// CacheOverflows counts pulls that bypassed the cache because the arena was
// full.
func (e *Evaluator) CacheOverflows() uint64 { return e.overflows }

// SetParameter records id for Parameter nodes and forwards it to every node
// cursor.
func (e *Evaluator) SetParameter(id string, value float32) {
	e.params[id] = value
	for _, n := range e.nodes {
		e.cursors[n].SetParameter(id, value)
	}
}

func (e *Evaluator) Parameter(id string) (float32, bool) {
	v, ok := e.params[id]
	return v, ok
}

// Time returns the evaluator clock in seconds.
func (e *Evaluator) Time() float64 { return e.time }

// Advance moves the clock forward.
func (e *Evaluator) Advance(seconds float64) { e.time += seconds }

// Reset rewinds the clock and every node cursor. Parameters are kept.
func (e *Evaluator) Reset() {
	e.time = 0
	e.FlushCachedBlocks()
	for _, n := range e.nodes {
		e.cursors[n].Reset()
	}
}

func (e *Evaluator) DisableRepeat() {
	for _, n := range e.nodes {
		e.cursors[n].DisableRepeat()
	}
}
