package view

import (
	"sort"

	"github.com/matzehuels/vibegraph/pkg/graph"
)

// Pins holds fixed-position overrides keyed by node id. Rebuilds replace every
// node value, so the id is the only identity that survives them.
type Pins struct {
	pos graph.Positions
}

// NewPins returns a pin set seeded with a copy of initial.
func NewPins(initial graph.Positions) *Pins {
	return &Pins{pos: initial.Clone()}
}

// Set pins id at p, replacing any previous pin.
func (p *Pins) Set(id string, pos graph.Position) {
	if p.pos == nil {
		p.pos = make(graph.Positions)
	}
	p.pos[id] = pos
}

// Get returns the pin for id.
func (p *Pins) Get(id string) (graph.Position, bool) {
	pos, ok := p.pos[id]
	return pos, ok
}

// Delete removes the pin for id and reports whether one existed.
func (p *Pins) Delete(id string) bool {
	if _, ok := p.pos[id]; !ok {
		return false
	}
	delete(p.pos, id)
	return true
}

// Clear removes all pins.
func (p *Pins) Clear() {
	p.pos = make(graph.Positions)
}

// Len returns the number of pins.
func (p *Pins) Len() int {
	return len(p.pos)
}

// IDs returns the pinned node ids in sorted order.
func (p *Pins) IDs() []string {
	ids := make([]string, 0, len(p.pos))
	for id := range p.pos {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Positions returns a copy of all pins.
func (p *Pins) Positions() graph.Positions {
	return p.pos.Clone()
}

// In returns the pins whose node is part of g. Pins for nodes of the other
// view mode stay in the set but are not applied.
func (p *Pins) In(g graph.GraphData) graph.Positions {
	out := make(graph.Positions)
	for _, n := range g.Nodes {
		if pos, ok := p.pos[n.ID]; ok {
			out[n.ID] = pos
		}
	}
	return out
}
