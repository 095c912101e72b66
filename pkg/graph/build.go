package graph

import (
	"strings"

	"github.com/matzehuels/vibegraph/pkg/catalog"
	verrors "github.com/matzehuels/vibegraph/pkg/errors"
)

// =============================================================================
// Dangling references
// =============================================================================

// DanglingPolicy decides what happens to a link whose target record is not
// part of the snapshot.
type DanglingPolicy string

// Dangling policies. DanglingDrop is the default.
const (
	DanglingDrop        DanglingPolicy = "drop"        // omit the link
	DanglingKeep        DanglingPolicy = "keep"        // emit the link without a target node
	DanglingPlaceholder DanglingPolicy = "placeholder" // synthesize the missing node
	DanglingStrict      DanglingPolicy = "strict"      // fail the build
)

// ParseDanglingPolicy parses a policy name. The empty string selects
// DanglingDrop.
func ParseDanglingPolicy(s string) (DanglingPolicy, error) {
	switch p := DanglingPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DanglingDrop, nil
	case DanglingDrop, DanglingKeep, DanglingPlaceholder, DanglingStrict:
		return p, nil
	}
	return "", verrors.New(verrors.ErrCodeInvalidDanglingPolicy,
		"unknown dangling policy %q (want drop, keep, placeholder or strict)", s)
}

// DanglingRef records one link attempt whose target was missing.
type DanglingRef struct {
	Song   string   `json:"song"`   // song node id
	Target string   `json:"target"` // missing node id
	Type   NodeType `json:"type"`
}

// =============================================================================
// Options
// =============================================================================

// Options configures Build.
type Options struct {
	Dangling DanglingPolicy
}

// Option mutates Options.
type Option func(*Options)

// WithDangling sets the dangling reference policy.
func WithDangling(p DanglingPolicy) Option {
	return func(o *Options) { o.Dangling = p }
}

// Result is the output of one build.
type Result struct {
	Mode     ViewMode         `json:"mode"`
	Graph    GraphData        `json:"graph"`
	Counts   ConnectionCounts `json:"counts"`
	Dangling []DanglingRef    `json:"dangling,omitempty"`
}

// =============================================================================
// Build
// =============================================================================

// Build derives the graph for one view mode from a catalogue snapshot.
//
// Every song yields one node, in snapshot order, followed by one node per
// vibe or artist depending on mode. Links run from songs to their vibes (one
// per membership) or to their artist (exactly one). Counts holds an entry
// for every emitted node and equals the number of links touching it.
//
// Build is pure: the same snapshot and mode always produce the same result.
// Records with an id already seen are skipped so node ids stay unique.
func Build(snap catalog.Snapshot, mode ViewMode, opts ...Option) (Result, error) {
	o := Options{Dangling: DanglingDrop}
	for _, opt := range opts {
		opt(&o)
	}
	policy, err := ParseDanglingPolicy(string(o.Dangling))
	if err != nil {
		return Result{}, err
	}

	strat, err := strategyFor(mode)
	if err != nil {
		return Result{}, err
	}

	b := &builder{
		strat:     strat,
		policy:    policy,
		index:     make(map[string]int),
		synthetic: make(map[string]bool),
		counts:    make(ConnectionCounts),
	}
	b.out.Graph.Nodes = []Node{}
	b.out.Graph.Links = []Link{}
	b.out.Mode = mode

	songs := make([]catalog.Song, 0, len(snap.Songs))
	for _, s := range snap.Songs {
		n := Node{
			ID:      SongID(s.ID),
			Label:   s.Title,
			Color:   catalog.ColorSong,
			Type:    NodeSong,
			Cluster: strat.cluster(s),
		}
		if b.addNode(n) {
			songs = append(songs, s)
		}
	}
	for _, n := range strat.collectSecondaryNodes(snap) {
		b.addNode(n)
	}

	for _, s := range songs {
		var linkErr error
		strat.linkSong(s, func(t target) {
			if linkErr == nil {
				linkErr = b.link(SongID(s.ID), t)
			}
		})
		if linkErr != nil {
			return Result{}, linkErr
		}
	}

	b.out.Counts = b.counts
	return b.out, nil
}

// builder accumulates one Build.
type builder struct {
	strat     strategy
	policy    DanglingPolicy
	index     map[string]int
	synthetic map[string]bool // placeholder node ids
	counts    ConnectionCounts
	out       Result
}

// addNode appends n and seeds its count with zero. It returns false when a
// node with the same id already exists.
func (b *builder) addNode(n Node) bool {
	if _, dup := b.index[n.ID]; dup {
		return false
	}
	b.index[n.ID] = len(b.out.Graph.Nodes)
	b.out.Graph.Nodes = append(b.out.Graph.Nodes, n)
	b.counts[n.ID] = 0
	return true
}

func (b *builder) link(source string, t target) error {
	i, found := b.index[t.id]
	if !found || b.synthetic[t.id] {
		ref := DanglingRef{Song: source, Target: t.id, Type: b.strat.secondaryType()}
		if b.policy == DanglingStrict {
			return verrors.New(verrors.ErrCodeDanglingReference,
				"%s references missing %s %q", source, ref.Type, t.id)
		}
		b.out.Dangling = append(b.out.Dangling, ref)
		switch b.policy {
		case DanglingDrop:
			return nil
		case DanglingPlaceholder:
			if !found {
				label := t.name
				if label == "" {
					label = PlaceholderLabel
				}
				b.addNode(Node{ID: t.id, Label: label, Color: DefaultColor(ref.Type), Type: ref.Type})
				b.synthetic[t.id] = true
				i, found = b.index[t.id], true
			}
		}
	}

	color := t.color
	if found {
		color = b.strat.linkColor(b.out.Graph.Nodes[i])
	}
	b.out.Graph.Links = append(b.out.Graph.Links, Link{Source: source, Target: t.id, Color: color})
	b.counts[source]++
	b.counts[t.id]++
	return nil
}

// =============================================================================
// Strategies
// =============================================================================

// target is a link endpoint as a song references it. color and name come
// from the song's embedded ref and are used only when the target node is
// missing.
type target struct {
	id    string
	name  string
	color string
}

// strategy is the per-mode half of Build.
type strategy interface {
	secondaryType() NodeType
	collectSecondaryNodes(snap catalog.Snapshot) []Node
	linkSong(s catalog.Song, emit func(target))
	linkColor(secondary Node) string
	cluster(s catalog.Song) string
}

func strategyFor(mode ViewMode) (strategy, error) {
	switch mode {
	case ModeVibe:
		return vibeStrategy{}, nil
	case ModeArtist:
		return artistStrategy{}, nil
	}
	return nil, verrors.New(verrors.ErrCodeInvalidViewMode, "unknown view mode %q", mode)
}

// vibeStrategy links each song to every vibe it carries.
type vibeStrategy struct{}

func (vibeStrategy) secondaryType() NodeType { return NodeVibe }

func (vibeStrategy) collectSecondaryNodes(snap catalog.Snapshot) []Node {
	nodes := make([]Node, len(snap.Vibes))
	for i, v := range snap.Vibes {
		nodes[i] = Node{ID: VibeID(v.ID), Label: v.Name, Color: catalog.VibeColor(v.Color), Type: NodeVibe}
	}
	return nodes
}

func (vibeStrategy) linkSong(s catalog.Song, emit func(target)) {
	for _, v := range s.Vibes {
		emit(target{id: VibeID(v.ID), name: v.Name, color: catalog.VibeColor(v.Color)})
	}
}

func (vibeStrategy) linkColor(n Node) string { return n.Color }

func (vibeStrategy) cluster(s catalog.Song) string {
	if len(s.Vibes) == 0 {
		return ""
	}
	return VibeID(s.Vibes[0].ID)
}

// artistStrategy links each song to its single artist.
type artistStrategy struct{}

func (artistStrategy) secondaryType() NodeType { return NodeArtist }

func (artistStrategy) collectSecondaryNodes(snap catalog.Snapshot) []Node {
	nodes := make([]Node, len(snap.Artists))
	for i, a := range snap.Artists {
		nodes[i] = Node{ID: ArtistID(a.ID), Label: a.Name, Color: catalog.ColorArtist, Type: NodeArtist}
	}
	return nodes
}

func (artistStrategy) linkSong(s catalog.Song, emit func(target)) {
	emit(target{id: ArtistID(s.ArtistID), name: s.ArtistName(), color: ColorArtistLink})
}

func (artistStrategy) linkColor(Node) string { return ColorArtistLink }

func (artistStrategy) cluster(s catalog.Song) string { return ArtistID(s.ArtistID) }
