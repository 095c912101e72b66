package graph

import (
	"strings"

	"github.com/matzehuels/vibegraph/pkg/catalog"
	verrors "github.com/matzehuels/vibegraph/pkg/errors"
)

// =============================================================================
// Constants
// =============================================================================

// NodeType is the entity kind a node was derived from.
type NodeType string

// Node types.
const (
	NodeSong   NodeType = "song"
	NodeArtist NodeType = "artist"
	NodeVibe   NodeType = "vibe"
)

// ColorArtistLink colors every song -> artist link.
const ColorArtistLink = "#6366f1" // indigo-500

// PlaceholderLabel labels synthesized nodes whose record is unknown.
const PlaceholderLabel = "<unknown>"

// DefaultColor returns the fixed color used for nodes of type t. Vibe nodes
// normally carry their own color; this is the fallback.
func DefaultColor(t NodeType) string {
	switch t {
	case NodeSong:
		return catalog.ColorSong
	case NodeArtist:
		return catalog.ColorArtist
	default:
		return catalog.ColorVibeDefault
	}
}

// =============================================================================
// View mode
// =============================================================================

// ViewMode selects which secondary entity songs are grouped by.
type ViewMode string

// View modes. ModeVibe is the initial mode of a view.
const (
	ModeVibe   ViewMode = "vibe"
	ModeArtist ViewMode = "artist"
)

// ParseViewMode parses a mode name. The empty string selects ModeVibe.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeVibe:
		return ModeVibe, nil
	case ModeArtist:
		return ModeArtist, nil
	}
	return "", verrors.New(verrors.ErrCodeInvalidViewMode, "unknown view mode %q (want vibe or artist)", s)
}

// Valid reports whether m is one of the known modes.
func (m ViewMode) Valid() bool {
	return m == ModeVibe || m == ModeArtist
}

// Other returns the mode a toggle switches to.
func (m ViewMode) Other() ViewMode {
	if m == ModeArtist {
		return ModeVibe
	}
	return ModeArtist
}

// Secondary returns the node type the mode groups songs by.
func (m ViewMode) Secondary() NodeType {
	if m == ModeArtist {
		return NodeArtist
	}
	return NodeVibe
}

func (m ViewMode) String() string { return string(m) }

// =============================================================================
// Node ids
// =============================================================================

// Node ids are namespaced by type so records of different kinds may share
// the same underlying id.

func SongID(id string) string   { return NodeID(NodeSong, id) }
func ArtistID(id string) string { return NodeID(NodeArtist, id) }
func VibeID(id string) string   { return NodeID(NodeVibe, id) }

// NodeID namespaces a record id with its node type.
func NodeID(t NodeType, id string) string {
	return string(t) + "-" + id
}

// SplitNodeID reverses NodeID. ok is false for ids without a known prefix.
func SplitNodeID(nodeID string) (t NodeType, id string, ok bool) {
	for _, typ := range []NodeType{NodeSong, NodeArtist, NodeVibe} {
		if rest, found := strings.CutPrefix(nodeID, string(typ)+"-"); found {
			return typ, rest, true
		}
	}
	return "", "", false
}

// =============================================================================
// Graph entities
// =============================================================================

// Node is a graph vertex. Nodes are regenerated on every build; anything
// that must survive a rebuild is keyed by ID.
type Node struct {
	ID      string   `json:"id" bson:"id"`
	Label   string   `json:"label" bson:"label"`
	Color   string   `json:"color" bson:"color"`
	Type    NodeType `json:"type" bson:"type"`
	Cluster string   `json:"cluster,omitempty" bson:"cluster,omitempty"` // layout hint only
}

// IsSecondary reports whether the node is a vibe or artist hub.
func (n Node) IsSecondary() bool { return n.Type != NodeSong }

// Link always points from a song node to an artist or vibe node. Renderers
// treat it as undirected.
type Link struct {
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
	Color  string `json:"color" bson:"color"`
}

// GraphData is the node-link structure handed to a layout engine.
type GraphData struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Links []Link `json:"links" bson:"links"`
}

// IsEmpty reports whether the graph has no nodes and no links.
func (g GraphData) IsEmpty() bool { return len(g.Nodes) == 0 && len(g.Links) == 0 }

// Node returns the node with the given id.
func (g GraphData) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Index maps node ids to their position in Nodes.
func (g GraphData) Index() map[string]int {
	idx := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		idx[n.ID] = i
	}
	return idx
}

// Validate checks that node ids are unique and types are known.
func (g GraphData) Validate() error {
	seen := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			return verrors.New(verrors.ErrCodeInvalidInput, "node with empty id")
		}
		if _, dup := seen[n.ID]; dup {
			return verrors.New(verrors.ErrCodeInvalidInput, "duplicate node id %q", n.ID)
		}
		seen[n.ID] = struct{}{}
		switch n.Type {
		case NodeSong, NodeArtist, NodeVibe:
		default:
			return verrors.New(verrors.ErrCodeInvalidInput, "node %q: unknown type %q", n.ID, n.Type)
		}
	}
	return nil
}

// ConnectionCounts maps node ids to the number of links touching them.
type ConnectionCounts map[string]int

// Get returns the count for id, zero when absent.
func (c ConnectionCounts) Get(id string) int { return c[id] }

// CountLinks recomputes connection counts from scratch: every node starts at
// zero and each link adds one to both endpoints.
func CountLinks(g GraphData) ConnectionCounts {
	counts := make(ConnectionCounts, len(g.Nodes))
	for _, n := range g.Nodes {
		counts[n.ID] = 0
	}
	for _, l := range g.Links {
		counts[l.Source]++
		counts[l.Target]++
	}
	return counts
}
