package graph

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// =============================================================================
// Positions
// =============================================================================

// Position is a point in layout space.
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Positions maps node ids to coordinates. Because node objects are discarded
// on every rebuild, anything positional is stored here under the stable id.
type Positions map[string]Position

// Clone returns a copy of p. A nil map clones to an empty one.
func (p Positions) Clone() Positions {
	out := make(Positions, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// PlacedNode is a node with the coordinates a layout engine assigned to it.
type PlacedNode struct {
	Node     `bson:",inline"`
	Position `bson:",inline"`
	Pinned   bool `json:"pinned,omitempty" bson:"pinned,omitempty"`
}

// =============================================================================
// Layout
// =============================================================================

// Layout is a static placement of every node of a graph in a frame.
type Layout struct {
	Width     float64   `json:"width" bson:"width"`
	Height    float64   `json:"height" bson:"height"`
	Positions Positions `json:"positions" bson:"positions"`
	Pinned    []string  `json:"pinned,omitempty" bson:"pinned,omitempty"`
}

// Place computes a deterministic placement for g: vibe and artist hubs on a
// ring around the frame center, songs in a small ring around their cluster
// hub, and songs without a placed hub on an outer ring. Positions present in
// pins override the computed ones.
func Place(g GraphData, width, height float64, pins Positions) Layout {
	l := Layout{Width: width, Height: height, Positions: make(Positions, len(g.Nodes))}
	cx, cy := width/2, height/2
	span := math.Min(width, height)

	var hubs, songs []Node
	for _, n := range g.Nodes {
		if n.IsSecondary() {
			hubs = append(hubs, n)
		} else {
			songs = append(songs, n)
		}
	}

	for i, n := range hubs {
		l.Positions[n.ID] = onRing(cx, cy, 0.3*span, i, len(hubs))
	}

	members := make(map[string][]string)
	var loose []string
	for _, n := range songs {
		if _, ok := l.Positions[n.Cluster]; ok && n.Cluster != "" {
			members[n.Cluster] = append(members[n.Cluster], n.ID)
		} else {
			loose = append(loose, n.ID)
		}
	}
	for _, hub := range hubs {
		ids := members[hub.ID]
		c := l.Positions[hub.ID]
		for i, id := range ids {
			l.Positions[id] = onRing(c.X, c.Y, 0.12*span, i, len(ids))
		}
	}
	for i, id := range loose {
		l.Positions[id] = onRing(cx, cy, 0.45*span, i, len(loose))
	}

	for _, n := range g.Nodes {
		if p, ok := pins[n.ID]; ok {
			l.Positions[n.ID] = p
			l.Pinned = append(l.Pinned, n.ID)
		}
	}
	return l
}

// Placed attaches the layout's coordinates to the nodes of g. Nodes without a
// position are placed at the origin.
func (l Layout) Placed(g GraphData) []PlacedNode {
	pinned := make(map[string]bool, len(l.Pinned))
	for _, id := range l.Pinned {
		pinned[id] = true
	}
	out := make([]PlacedNode, len(g.Nodes))
	for i, n := range g.Nodes {
		out[i] = PlacedNode{Node: n, Position: l.Positions[n.ID], Pinned: pinned[n.ID]}
	}
	return out
}

func onRing(cx, cy, r float64, i, n int) Position {
	a := 2*math.Pi*float64(i)/float64(n) - math.Pi/2
	return Position{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if l.Width <= 0 || l.Height <= 0 {
		return Layout{}, fmt.Errorf("layout must have a positive frame, got %gx%g", l.Width, l.Height)
	}
	if l.Positions == nil {
		l.Positions = Positions{}
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
