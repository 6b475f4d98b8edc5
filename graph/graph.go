// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"fmt"
	"sync"
)

// Graph is a set of nodes and the edges between their pins. It is mutable
// until a Buffer wraps it, then frozen.
type Graph struct {
	mu      sync.RWMutex
	nodes   []Node
	members map[Node]struct{}
	sources map[*InputPin]*OutputPin
	fanout  map[*OutputPin]int
	frozen  bool
}

func New() *Graph {
	return &Graph{
		members: make(map[Node]struct{}),
		sources: make(map[*InputPin]*OutputPin),
		fanout:  make(map[*OutputPin]int),
	}
}

// Add inserts nodes. Nodes already in the graph are skipped.
func (g *Graph) Add(nodes ...Node) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.frozen {
		return ErrFrozen
	}
	for _, n := range nodes {
		if _, ok := g.members[n]; ok {
			continue
		}
		g.members[n] = struct{}{}
		g.nodes = append(g.nodes, n)
	}
	return nil
}

// Connect makes out the source of in.
func (g *Graph) Connect(out *OutputPin, in *InputPin) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.frozen {
		return ErrFrozen
	}
	if _, ok := g.members[out.node]; !ok {
		return fmt.Errorf("%w: %s.%s", ErrForeignPin, out.node.Name(), out.name)
	}
	if _, ok := g.members[in.node]; !ok {
		return fmt.Errorf("%w: %s.%s", ErrForeignPin, in.node.Name(), in.name)
	}
	if _, ok := g.sources[in]; ok {
		return fmt.Errorf("%w: %s.%s", ErrPinTaken, in.node.Name(), in.name)
	}
	if !compatible(out.typ, in.typ) {
		return fmt.Errorf("%w: %s.%s (%s) to %s.%s (%s)", ErrPinType,
			out.node.Name(), out.name, out.typ, in.node.Name(), in.name, in.typ)
	}
	if g.dependsOn(out.node, in.node) {
		return fmt.Errorf("%w: %s to %s", ErrCycle, out.node.Name(), in.node.Name())
	}

	g.sources[in] = out
	g.fanout[out]++
	return nil
}

// dependsOn reports whether from is target or transitively reads from it.
func (g *Graph) dependsOn(from, target Node) bool {
	seen := make(map[Node]bool)
	stack := []Node{from}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == target {
			return true
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		for _, in := range n.Inputs() {
			if src, ok := g.sources[in]; ok {
				stack = append(stack, src.node)
			}
		}
	}
	return false
}

// SourcePin returns the producer connected to in, or nil.
func (g *Graph) SourcePin(in *InputPin) *OutputPin {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.sources[in]
}

// DestinationCount returns the number of inputs fed by out.
func (g *Graph) DestinationCount(out *OutputPin) int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.fanout[out]
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return append([]Node(nil), g.nodes...)
}

// Contains reports whether n was added to the graph.
func (g *Graph) Contains(n Node) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, ok := g.members[n]
	return ok
}

func (g *Graph) Frozen() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.frozen
}

func (g *Graph) freeze() {
	g.mu.Lock()
	g.frozen = true
	g.mu.Unlock()
}
