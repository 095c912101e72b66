// Package sizing maps graph nodes to render sizes.
//
// Song nodes have a fixed size. Vibe and artist hubs grow with the square
// root of their connection count, so a vibe tagged on 40 songs is noticeably
// larger than one tagged on 4 without dwarfing the canvas:
//
//	size = BaseSize + sqrt(count) * ScaleFactor
//
// Size is non-decreasing in count for hubs and independent of count for
// songs.
package sizing

import (
	"math"

	verrors "github.com/matzehuels/vibegraph/pkg/errors"
	"github.com/matzehuels/vibegraph/pkg/graph"
)

// Default policy values.
const (
	DefaultSongSize    = 6.0
	DefaultBaseSize    = 15.0
	DefaultScaleFactor = 0.5
)

// Func returns the render size of a node. It is what renderers consume.
type Func func(nodeID string, t graph.NodeType) float64

// Policy holds the sizing constants.
type Policy struct {
	SongSize    float64 `json:"song_size" toml:"song_size"`
	BaseSize    float64 `json:"base_size" toml:"base_size"`
	ScaleFactor float64 `json:"scale_factor" toml:"scale_factor"`
}

// Default returns the standard policy.
func Default() Policy {
	return Policy{SongSize: DefaultSongSize, BaseSize: DefaultBaseSize, ScaleFactor: DefaultScaleFactor}
}

// WithDefaults fills zero fields from Default. ScaleFactor is only filled when
// every field is zero, since a zero scale is a valid flat policy.
func (p Policy) WithDefaults() Policy {
	d := Default()
	if p == (Policy{}) {
		return d
	}
	if p.SongSize == 0 {
		p.SongSize = d.SongSize
	}
	if p.BaseSize == 0 {
		p.BaseSize = d.BaseSize
	}
	return p
}

// Validate requires positive sizes and a non-negative scale factor.
func (p Policy) Validate() error {
	switch {
	case !(p.SongSize > 0) || math.IsInf(p.SongSize, 0):
		return verrors.New(verrors.ErrCodeInvalidSizing, "song size must be positive, got %g", p.SongSize)
	case !(p.BaseSize > 0) || math.IsInf(p.BaseSize, 0):
		return verrors.New(verrors.ErrCodeInvalidSizing, "base size must be positive, got %g", p.BaseSize)
	case !(p.ScaleFactor >= 0) || math.IsInf(p.ScaleFactor, 0):
		return verrors.New(verrors.ErrCodeInvalidSizing, "scale factor must not be negative, got %g", p.ScaleFactor)
	}
	return nil
}

// Size returns the size of a node given the current connection counts.
// A missing or negative count is treated as zero.
func (p Policy) Size(nodeID string, t graph.NodeType, counts graph.ConnectionCounts) float64 {
	if t == graph.NodeSong {
		return p.SongSize
	}
	n := counts[nodeID]
	if n < 0 {
		n = 0
	}
	return p.BaseSize + math.Sqrt(float64(n))*p.ScaleFactor
}

// Sizer binds counts into a Func.
func (p Policy) Sizer(counts graph.ConnectionCounts) Func {
	return func(nodeID string, t graph.NodeType) float64 {
		return p.Size(nodeID, t, counts)
	}
}

// Sizes computes the size of every node in g.
func (p Policy) Sizes(g graph.GraphData, counts graph.ConnectionCounts) map[string]float64 {
	out := make(map[string]float64, len(g.Nodes))
	for _, n := range g.Nodes {
		out[n.ID] = p.Size(n.ID, n.Type, counts)
	}
	return out
}
