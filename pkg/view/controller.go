package view

import (
	"context"
	"fmt"

	"github.com/matzehuels/vibegraph/pkg/catalog"
	verrors "github.com/matzehuels/vibegraph/pkg/errors"
	"github.com/matzehuels/vibegraph/pkg/graph"
	"github.com/matzehuels/vibegraph/pkg/observability"
	"github.com/matzehuels/vibegraph/pkg/sizing"
)

// Default frame used by Positioned for nodes without a pin.
const (
	DefaultWidth  = 800.0
	DefaultHeight = 600.0
)

// =============================================================================
// Options
// =============================================================================

// Option configures a Controller.
type Option func(*Controller)

// WithMode sets the initial view mode. The default is vibe.
func WithMode(m graph.ViewMode) Option {
	return func(c *Controller) { c.mode = m }
}

// WithDangling sets the builder's dangling-reference policy.
func WithDangling(p graph.DanglingPolicy) Option {
	return func(c *Controller) { c.dangling = p }
}

// WithSizing sets the sizing policy. Zero fields take the defaults.
func WithSizing(p sizing.Policy) Option {
	return func(c *Controller) { c.sizing = p.WithDefaults() }
}

// WithPins seeds the pin set, for example from a stored session.
func WithPins(p graph.Positions) Option {
	return func(c *Controller) { c.pins = NewPins(p) }
}

// WithFrame sets the frame unpinned nodes are placed in.
func WithFrame(width, height float64) Option {
	return func(c *Controller) { c.width, c.height = width, height }
}

// WithContext sets the context passed to interaction hooks.
func WithContext(ctx context.Context) Option {
	return func(c *Controller) { c.ctx = ctx }
}

// =============================================================================
// Controller
// =============================================================================

// Controller owns the view mode of one viewer and rebuilds the graph whenever
// the mode or the snapshot changes. It forwards clicks and item selections to
// host callbacks and keeps drag-end pins across rebuilds.
//
// A Controller is not safe for concurrent use.
type Controller struct {
	ctx      context.Context
	snap     catalog.Snapshot
	mode     graph.ViewMode
	dangling graph.DanglingPolicy
	sizing   sizing.Policy
	width    float64
	height   float64

	res   graph.Result
	size  sizing.Func
	index map[string]int
	pins  *Pins

	onClick   []func(graph.PlacedNode)
	onSelect  []func(catalog.Item)
	onRebuild []func(graph.Result)
}

// New returns a controller for snap and performs the initial build.
func New(snap catalog.Snapshot, opts ...Option) (*Controller, error) {
	c := &Controller{
		ctx:    context.Background(),
		snap:   snap,
		mode:   graph.ModeVibe,
		sizing: sizing.Default(),
		width:  DefaultWidth,
		height: DefaultHeight,
		pins:   NewPins(nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.sizing.Validate(); err != nil {
		return nil, err
	}
	if err := c.rebuild(c.snap, c.mode); err != nil {
		return nil, err
	}
	return c, nil
}

// rebuild builds snap in mode and swaps the result in. On error the previous
// state is kept.
func (c *Controller) rebuild(snap catalog.Snapshot, mode graph.ViewMode) error {
	res, err := graph.Build(snap, mode, graph.WithDangling(c.dangling))
	if err != nil {
		return err
	}
	c.snap, c.mode, c.res = snap, mode, res
	c.size = c.sizing.Sizer(res.Counts)
	c.index = res.Graph.Index()
	for _, fn := range c.onRebuild {
		fn(res)
	}
	return nil
}

// Mode returns the current view mode.
func (c *Controller) Mode() graph.ViewMode { return c.mode }

// SetMode switches to m and rebuilds. Setting the current mode rebuilds as
// well; rebuilds are idempotent.
func (c *Controller) SetMode(m graph.ViewMode) error {
	if !m.Valid() {
		return verrors.New(verrors.ErrCodeInvalidViewMode, "unknown view mode %q", m)
	}
	from := c.mode
	if err := c.rebuild(c.snap, m); err != nil {
		return err
	}
	if from != m {
		observability.Interaction().OnModeChange(c.ctx, from.String(), m.String())
	}
	return nil
}

// Toggle switches to the other view mode.
func (c *Controller) Toggle() error {
	return c.SetMode(c.mode.Other())
}

// Snapshot returns the snapshot the current graph was built from.
func (c *Controller) Snapshot() catalog.Snapshot { return c.snap }

// SetSnapshot replaces the snapshot and rebuilds in the current mode.
func (c *Controller) SetSnapshot(snap catalog.Snapshot) error {
	return c.rebuild(snap, c.mode)
}

// Result returns the full build result.
func (c *Controller) Result() graph.Result { return c.res }

// Graph returns the current graph.
func (c *Controller) Graph() graph.GraphData { return c.res.Graph }

// Counts returns the connection counts of the current graph.
func (c *Controller) Counts() graph.ConnectionCounts { return c.res.Counts }

// Dangling returns the unresolved references of the last build.
func (c *Controller) Dangling() []graph.DanglingRef { return c.res.Dangling }

// Sizer returns the size function for the current graph.
func (c *Controller) Sizer() sizing.Func { return c.size }

// Size returns the render size of a node in the current graph.
func (c *Controller) Size(nodeID string) (float64, error) {
	n, err := c.Node(nodeID)
	if err != nil {
		return 0, err
	}
	return c.size(n.ID, n.Type), nil
}

// Node returns the node with the given id.
func (c *Controller) Node(nodeID string) (graph.Node, error) {
	i, ok := c.index[nodeID]
	if !ok {
		return graph.Node{}, verrors.New(verrors.ErrCodeNodeNotFound, "node %q not in %s view", nodeID, c.mode)
	}
	return c.res.Graph.Nodes[i], nil
}

// Layout places the current graph in the controller's frame, honoring pins.
func (c *Controller) Layout() graph.Layout {
	return graph.Place(c.res.Graph, c.width, c.height, c.pins.In(c.res.Graph))
}

// Positioned returns every node with a position attached. Pinned nodes carry
// their pin.
func (c *Controller) Positioned() []graph.PlacedNode {
	return c.Layout().Placed(c.res.Graph)
}

// =============================================================================
// Interaction
// =============================================================================

// OnNodeClick registers a callback for node clicks.
func (c *Controller) OnNodeClick(fn func(graph.PlacedNode)) {
	c.onClick = append(c.onClick, fn)
}

// OnItemSelect registers a callback for list/search selections.
func (c *Controller) OnItemSelect(fn func(catalog.Item)) {
	c.onSelect = append(c.onSelect, fn)
}

// OnRebuild registers a callback invoked after every successful rebuild.
func (c *Controller) OnRebuild(fn func(graph.Result)) {
	c.onRebuild = append(c.onRebuild, fn)
}

// Click forwards a click on nodeID at pos to the click callbacks and returns
// the clicked node.
func (c *Controller) Click(nodeID string, pos graph.Position) (graph.PlacedNode, error) {
	n, err := c.Node(nodeID)
	if err != nil {
		return graph.PlacedNode{}, err
	}
	_, pinned := c.pins.Get(nodeID)
	placed := graph.PlacedNode{Node: n, Position: pos, Pinned: pinned}
	observability.Interaction().OnNodeClick(c.ctx, nodeID)
	for _, fn := range c.onClick {
		fn(placed)
	}
	return placed, nil
}

// DragEnd pins nodeID at pos. The pin is keyed by node id and survives
// rebuilds and mode switches.
func (c *Controller) DragEnd(nodeID string, pos graph.Position) error {
	if _, err := c.Node(nodeID); err != nil {
		return err
	}
	c.pins.Set(nodeID, pos)
	observability.Interaction().OnPin(c.ctx, nodeID, pos.X, pos.Y)
	return nil
}

// Unpin releases the pin on nodeID and reports whether it was pinned.
func (c *Controller) Unpin(nodeID string) bool {
	if !c.pins.Delete(nodeID) {
		return false
	}
	observability.Interaction().OnUnpin(c.ctx, nodeID)
	return true
}

// ClearPins releases every pin and returns how many were released.
func (c *Controller) ClearPins() int {
	ids := c.pins.IDs()
	c.pins.Clear()
	for _, id := range ids {
		observability.Interaction().OnUnpin(c.ctx, id)
	}
	return len(ids)
}

// Pins returns a copy of all pins, including pins for nodes of the other mode.
func (c *Controller) Pins() graph.Positions {
	return c.pins.Positions()
}

// SelectItem forwards a list/search selection to the select callbacks. The
// item must still resolve in the current snapshot.
func (c *Controller) SelectItem(it catalog.Item) error {
	if _, ok := c.snap.Lookup(it); !ok {
		return verrors.New(verrors.ErrCodeNotFound, "%s %q not in catalog", it.Kind, it.ID)
	}
	observability.Interaction().OnItemSelect(c.ctx, string(it.Kind), it.ID)
	for _, fn := range c.onSelect {
		fn(it)
	}
	return nil
}

// String implements fmt.Stringer.
func (c *Controller) String() string {
	return fmt.Sprintf("view(%s, %d nodes, %d links, %d pins)",
		c.mode, len(c.res.Graph.Nodes), len(c.res.Graph.Links), c.pins.Len())
}
