package view

import (
	"context"
	"math"
	"testing"

	"github.com/matzehuels/vibegraph/pkg/catalog"
	verrors "github.com/matzehuels/vibegraph/pkg/errors"
	"github.com/matzehuels/vibegraph/pkg/graph"
	"github.com/matzehuels/vibegraph/pkg/observability"
	"github.com/matzehuels/vibegraph/pkg/sizing"
)

func singleSongSnapshot() catalog.Snapshot {
	return catalog.Snapshot{
		Songs: []catalog.Song{{
			ID: "s1", Title: "X", Duration: 200, ArtistID: "a1",
			Vibes: []catalog.VibeRef{{ID: "v1", Name: "Chill", Color: "#4A90E2"}},
		}},
		Artists: []catalog.Artist{{ID: "a1", Name: "Band"}},
		Vibes:   []catalog.Vibe{{ID: "v1", Name: "Chill", Color: "#4A90E2"}},
	}
}

func TestNewStartsInVibeMode(t *testing.T) {
	c, err := New(catalog.Sample())
	if err != nil {
		t.Fatal(err)
	}
	if c.Mode() != graph.ModeVibe {
		t.Errorf("Mode() = %s, want vibe", c.Mode())
	}
	if got, want := len(c.Graph().Nodes), 84+10; got != want {
		t.Errorf("nodes = %d, want %d", got, want)
	}
	if got := len(c.Graph().Links); got != 165 {
		t.Errorf("links = %d, want 165", got)
	}
}

func TestNewInvalidMode(t *testing.T) {
	_, err := New(catalog.Sample(), WithMode("genre"))
	if !verrors.Is(err, verrors.ErrCodeInvalidViewMode) {
		t.Errorf("err = %v, want INVALID_VIEW_MODE", err)
	}
}

func TestNewInvalidSizing(t *testing.T) {
	_, err := New(catalog.Sample(), WithSizing(sizing.Policy{SongSize: 6, BaseSize: 15, ScaleFactor: -1}))
	if !verrors.Is(err, verrors.ErrCodeInvalidSizing) {
		t.Errorf("err = %v, want INVALID_SIZING", err)
	}
}

func TestSetModeRebuilds(t *testing.T) {
	c, err := New(singleSongSnapshot())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Node("vibe-v1"); err != nil {
		t.Fatalf("vibe node missing in vibe mode: %v", err)
	}

	if err := c.SetMode(graph.ModeArtist); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Node("vibe-v1"); !verrors.Is(err, verrors.ErrCodeNodeNotFound) {
		t.Errorf("vibe node still present after switch: %v", err)
	}
	n, err := c.Node("artist-a1")
	if err != nil {
		t.Fatal(err)
	}
	if n.Label != "Band" {
		t.Errorf("artist label = %q", n.Label)
	}
	if got := c.Graph().Links[0].Color; got != graph.ColorArtistLink {
		t.Errorf("link color = %q, want %q", got, graph.ColorArtistLink)
	}

	if err := c.Toggle(); err != nil {
		t.Fatal(err)
	}
	if c.Mode() != graph.ModeVibe {
		t.Errorf("Toggle() left mode %s", c.Mode())
	}
}

func TestSetModeInvalidKeepsState(t *testing.T) {
	c, err := New(singleSongSnapshot())
	if err != nil {
		t.Fatal(err)
	}
	before := c.Graph()
	if err := c.SetMode("genre"); !verrors.Is(err, verrors.ErrCodeInvalidViewMode) {
		t.Fatalf("err = %v", err)
	}
	if c.Mode() != graph.ModeVibe || len(c.Graph().Nodes) != len(before.Nodes) {
		t.Error("state changed after a failed SetMode")
	}
}

func TestSetSnapshot(t *testing.T) {
	c, err := New(singleSongSnapshot(), WithMode(graph.ModeArtist))
	if err != nil {
		t.Fatal(err)
	}
	var rebuilds int
	c.OnRebuild(func(graph.Result) { rebuilds++ })

	if err := c.SetSnapshot(catalog.Sample()); err != nil {
		t.Fatal(err)
	}
	if rebuilds != 1 {
		t.Errorf("rebuilds = %d, want 1", rebuilds)
	}
	if c.Mode() != graph.ModeArtist {
		t.Errorf("mode changed to %s", c.Mode())
	}
	if got := len(c.Graph().Links); got != 84 {
		t.Errorf("links = %d, want one per song", got)
	}
}

func TestSetSnapshotStrictKeepsState(t *testing.T) {
	c, err := New(singleSongSnapshot(), WithDangling(graph.DanglingStrict))
	if err != nil {
		t.Fatal(err)
	}
	broken := singleSongSnapshot()
	broken.Vibes = nil

	if err := c.SetSnapshot(broken); !verrors.Is(err, verrors.ErrCodeDanglingReference) {
		t.Fatalf("err = %v, want DANGLING_REFERENCE", err)
	}
	if _, err := c.Node("vibe-v1"); err != nil {
		t.Error("previous graph was discarded")
	}
}

func TestDanglingReported(t *testing.T) {
	snap := singleSongSnapshot()
	snap.Vibes = nil
	c, err := New(snap)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(c.Dangling()); got != 1 {
		t.Fatalf("dangling = %d, want 1", got)
	}
	if len(c.Graph().Links) != 0 {
		t.Error("dangling link was kept")
	}
}

func TestSize(t *testing.T) {
	c, err := New(catalog.Sample())
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.Size("vibe-chill")
	if err != nil {
		t.Fatal(err)
	}
	if want := 15 + math.Sqrt(21)*0.5; math.Abs(got-want) > 1e-9 {
		t.Errorf("Size(vibe-chill) = %v, want %v", got, want)
	}
	got, err = c.Size("song-neon-nights")
	if err != nil {
		t.Fatal(err)
	}
	if got != 6 {
		t.Errorf("song size = %v, want 6", got)
	}
	if _, err := c.Size("song-missing"); !verrors.Is(err, verrors.ErrCodeNodeNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestClickForwardsNode(t *testing.T) {
	c, err := New(singleSongSnapshot())
	if err != nil {
		t.Fatal(err)
	}
	var clicked []graph.PlacedNode
	c.OnNodeClick(func(n graph.PlacedNode) { clicked = append(clicked, n) })

	got, err := c.Click("song-s1", graph.Position{X: 10, Y: 20})
	if err != nil {
		t.Fatal(err)
	}
	if len(clicked) != 1 {
		t.Fatalf("callback calls = %d, want 1", len(clicked))
	}
	if clicked[0] != got {
		t.Error("callback and return value differ")
	}
	if got.ID != "song-s1" || got.Label != "X" || got.X != 10 || got.Y != 20 {
		t.Errorf("clicked = %+v", got)
	}

	if _, err := c.Click("song-nope", graph.Position{}); !verrors.Is(err, verrors.ErrCodeNodeNotFound) {
		t.Errorf("err = %v, want NODE_NOT_FOUND", err)
	}
	if len(clicked) != 1 {
		t.Error("callback invoked for unknown node")
	}
}

func TestPinsSurviveModeSwitch(t *testing.T) {
	c, err := New(singleSongSnapshot())
	if err != nil {
		t.Fatal(err)
	}
	songPin := graph.Position{X: 100, Y: 200}
	vibePin := graph.Position{X: 300, Y: 50}
	if err := c.DragEnd("song-s1", songPin); err != nil {
		t.Fatal(err)
	}
	if err := c.DragEnd("vibe-v1", vibePin); err != nil {
		t.Fatal(err)
	}

	if err := c.Toggle(); err != nil {
		t.Fatal(err)
	}
	placed := byID(c.Positioned())
	if p := placed["song-s1"]; !p.Pinned || p.Position != songPin {
		t.Errorf("song pin lost after switch: %+v", p)
	}
	if p := placed["artist-a1"]; p.Pinned {
		t.Error("artist node pinned without a drag")
	}
	if _, ok := c.Pins()["vibe-v1"]; !ok {
		t.Error("pin for hidden vibe node was dropped")
	}

	if err := c.Toggle(); err != nil {
		t.Fatal(err)
	}
	placed = byID(c.Positioned())
	if p := placed["vibe-v1"]; !p.Pinned || p.Position != vibePin {
		t.Errorf("vibe pin lost after round trip: %+v", p)
	}
}

func TestDragEndUnknownNode(t *testing.T) {
	c, err := New(singleSongSnapshot())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.DragEnd("artist-a1", graph.Position{}); !verrors.Is(err, verrors.ErrCodeNodeNotFound) {
		t.Errorf("err = %v, want NODE_NOT_FOUND", err)
	}
	if len(c.Pins()) != 0 {
		t.Error("pin stored for unknown node")
	}
}

func TestUnpinAndClear(t *testing.T) {
	c, err := New(singleSongSnapshot(), WithPins(graph.Positions{"song-s1": {X: 1, Y: 1}, "vibe-v1": {X: 2, Y: 2}}))
	if err != nil {
		t.Fatal(err)
	}
	if !c.Unpin("song-s1") {
		t.Error("Unpin(song-s1) = false")
	}
	if c.Unpin("song-s1") {
		t.Error("second Unpin(song-s1) = true")
	}
	if n := c.ClearPins(); n != 1 {
		t.Errorf("ClearPins() = %d, want 1", n)
	}
	if n := c.ClearPins(); n != 0 {
		t.Errorf("second ClearPins() = %d, want 0", n)
	}
	if len(c.Pins()) != 0 {
		t.Errorf("pins after clear = %v", c.Pins())
	}
	for _, p := range c.Positioned() {
		if p.Pinned {
			t.Errorf("%s still pinned", p.ID)
		}
	}
}

func TestSelectItem(t *testing.T) {
	c, err := New(catalog.Sample())
	if err != nil {
		t.Fatal(err)
	}
	var got []catalog.Item
	c.OnItemSelect(func(it catalog.Item) { got = append(got, it) })

	items := catalog.Search(c.Snapshot(), "electric")
	if len(items) == 0 {
		t.Fatal("no search results")
	}
	if err := c.SelectItem(items[0]); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != items[0] {
		t.Errorf("selected = %v", got)
	}

	err = c.SelectItem(catalog.Item{Kind: catalog.KindVibe, ID: "polka"})
	if !verrors.Is(err, verrors.ErrCodeNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestInteractionHooks(t *testing.T) {
	rec := &recordingHooks{}
	observability.SetInteractionHooks(rec)
	defer observability.Reset()

	c, err := New(singleSongSnapshot(), WithContext(context.Background()))
	if err != nil {
		t.Fatal(err)
	}
	_ = c.SetMode(graph.ModeVibe)
	_ = c.Toggle()
	_, _ = c.Click("song-s1", graph.Position{})
	_ = c.DragEnd("song-s1", graph.Position{X: 1})
	c.Unpin("song-s1")

	want := []string{"mode vibe->artist", "click song-s1", "pin song-s1", "unpin song-s1"}
	if len(rec.events) != len(want) {
		t.Fatalf("events = %v, want %v", rec.events, want)
	}
	for i := range want {
		if rec.events[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, rec.events[i], want[i])
		}
	}
}

func byID(nodes []graph.PlacedNode) map[string]graph.PlacedNode {
	m := make(map[string]graph.PlacedNode, len(nodes))
	for _, n := range nodes {
		m[n.ID] = n
	}
	return m
}

type recordingHooks struct {
	observability.NoopInteractionHooks
	events []string
}

func (r *recordingHooks) OnModeChange(_ context.Context, from, to string) {
	r.events = append(r.events, "mode "+from+"->"+to)
}

func (r *recordingHooks) OnNodeClick(_ context.Context, id string) {
	r.events = append(r.events, "click "+id)
}

func (r *recordingHooks) OnPin(_ context.Context, id string, _, _ float64) {
	r.events = append(r.events, "pin "+id)
}

func (r *recordingHooks) OnUnpin(_ context.Context, id string) {
	r.events = append(r.events, "unpin "+id)
}
