package canvas

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/vibegraph/pkg/catalog"
	"github.com/matzehuels/vibegraph/pkg/graph"
	"github.com/matzehuels/vibegraph/pkg/sizing"
)

func TestSVGSurfaceShapes(t *testing.T) {
	s := NewSVGSurface(200, 100, "")
	s.SetFillStyle("#22c55e")
	s.BeginPath()
	s.Arc(50, 50, 10, 0, 2*math.Pi)
	s.Fill()

	s.SetFillStyle("#4f46e5")
	s.BeginPath()
	s.Rect(0, 0, 4, 2)
	s.Fill()

	s.SetFont("12px Inter")
	s.SetTextAlign(AlignCenter)
	s.SetTextBaseline(BaselineMiddle)
	s.SetFillStyle("#fff")
	s.FillText("Brass & Soul", 50, 74)

	out := string(s.Bytes())
	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 200.00 100.00" width="200" height="100">`,
		`<path d="M60.00 50.00 A10.00 10.00 0 1 1 40.00 50.00 A10.00 10.00 0 1 1 60.00 50.00 Z" fill="#22c55e"/>`,
		`<path d="M0 0 h4.00 v2.00 h-4.00 Z" fill="#4f46e5"/>`,
		`font-family="Inter" font-size="12.00" text-anchor="middle" dominant-baseline="middle" fill="#fff">Brass &amp; Soul</text>`,
		"</svg>\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestSVGSurfaceEmptyPathNotEmitted(t *testing.T) {
	s := NewSVGSurface(10, 10, "")
	s.BeginPath()
	s.Fill()
	s.Stroke()
	if strings.Contains(string(s.Bytes()), "<path") {
		t.Error("empty path produced an element")
	}
}

func TestSVGSurfaceIgnoresBadFont(t *testing.T) {
	s := NewSVGSurface(10, 10, "")
	s.SetFont("bold")
	s.SetFont("large Inter")
	s.FillText("x", 0, 0)
	if !strings.Contains(string(s.Bytes()), `font-family="sans-serif" font-size="10.00"`) {
		t.Errorf("font changed by malformed input:\n%s", s.Bytes())
	}
}

func TestRenderFrame(t *testing.T) {
	res, err := graph.Build(catalog.Sample(), graph.ModeArtist)
	if err != nil {
		t.Fatal(err)
	}
	l := graph.Place(res.Graph, 800, 600, nil)
	p := NewPainter(sizing.Default().Sizer(res.Counts))

	svg := RenderFrame(p, res.Graph, l, 2, WithLegend())

	if !bytes.HasPrefix(svg, []byte("<svg")) {
		t.Fatalf("not an SVG document: %.80s", svg)
	}
	if !bytes.Contains(svg, []byte(`fill="#111827"`)) {
		t.Error("background missing")
	}
	if !bytes.Contains(svg, []byte("scale(2)")) {
		t.Error("zoom transform missing")
	}
	if got := bytes.Count(svg, []byte(`stroke="#6366f1"`)); got != len(res.Graph.Links) {
		t.Errorf("link strokes = %d, want %d", got, len(res.Graph.Links))
	}
	// one label per node, plus four legend texts
	if got, want := bytes.Count(svg, []byte("<text")), len(res.Graph.Nodes)+4; got != want {
		t.Errorf("texts = %d, want %d", got, want)
	}
	if !bytes.Contains(svg, []byte(">Electric Dreams</text>")) {
		t.Error("artist label missing")
	}
}

func TestRenderFrameSkipsUnplacedLinks(t *testing.T) {
	g := graph.GraphData{
		Nodes: []graph.Node{{ID: "song-a", Type: graph.NodeSong, Color: "#9333ea"}},
		Links: []graph.Link{{Source: "song-a", Target: "vibe-missing", Color: "#22c55e"}},
	}
	l := graph.Layout{Width: 100, Height: 100, Positions: graph.Positions{"song-a": {X: 50, Y: 50}}}

	svg := RenderFrame(NewPainter(nil), g, l, 1, WithBackground(""))
	if bytes.Contains(svg, []byte("stroke=")) {
		t.Error("link to unplaced node was drawn")
	}
	if bytes.Contains(svg, []byte("<rect")) {
		t.Error("transparent frame has a background rect")
	}
}
