package canvas

import (
	"fmt"
	"math"

	"github.com/matzehuels/vibegraph/pkg/catalog"
	"github.com/matzehuels/vibegraph/pkg/graph"
)

// DefaultBackground is the frame background color.
const DefaultBackground = "#111827" // gray-900

// FrameOption configures RenderFrame.
type FrameOption func(*frameConfig)

type frameConfig struct {
	background string
	legend     bool
	linkWidth  float64
}

// WithBackground sets the frame background; "" leaves it transparent.
func WithBackground(color string) FrameOption {
	return func(c *frameConfig) { c.background = color }
}

// WithLegend draws the node type legend in the top-right corner.
func WithLegend() FrameOption {
	return func(c *frameConfig) { c.legend = true }
}

// WithLinkWidth sets the link stroke width in screen pixels.
func WithLinkWidth(w float64) FrameOption {
	return func(c *frameConfig) { c.linkWidth = w }
}

// RenderFrame draws one still frame of the graph as the interactive view
// would show it at the given camera zoom: links first, then nodes, all
// scaled about the frame center.
func RenderFrame(p Painter, g graph.GraphData, l graph.Layout, zoom float64, opts ...FrameOption) []byte {
	cfg := frameConfig{background: DefaultBackground, linkWidth: DefaultLinkWidth}
	for _, opt := range opts {
		opt(&cfg)
	}
	zoom = normZoom(zoom)

	s := NewSVGSurface(l.Width, l.Height, cfg.background)
	DrawFrame(s, p, g, l, zoom, cfg.linkWidth)

	if cfg.legend {
		drawLegend(s, l.Width)
	}
	return s.Bytes()
}

// DrawFrame draws links and nodes onto s inside a zoom transform. Links whose
// endpoints are not placed are skipped.
func DrawFrame(s *SVGSurface, p Painter, g graph.GraphData, l graph.Layout, zoom, linkWidth float64) {
	zoom = normZoom(zoom)
	cx, cy := l.Width/2, l.Height/2
	s.BeginGroup(fmt.Sprintf("translate(%s %s) scale(%g) translate(%s %s)",
		num(cx), num(cy), zoom, num(-cx), num(-cy)))

	for _, link := range g.Links {
		from, ok1 := l.Positions[link.Source]
		to, ok2 := l.Positions[link.Target]
		if !ok1 || !ok2 {
			continue
		}
		p.DrawLink(s, from, to, link.Color, linkWidth/zoom)
	}
	for _, n := range l.Placed(g) {
		p.DrawNode(s, n, zoom)
	}
	s.EndGroup()
}

// drawLegend mirrors the on-screen legend: one swatch per node type.
func drawLegend(s *SVGSurface, width float64) {
	x, y := width-130, 20.0
	s.SetFillStyle("#1f2937") // gray-800
	s.BeginPath()
	s.Rect(x-10, y-10, 120, 100)
	s.Fill()

	s.SetFont(Font(14, DefaultFontFamily))
	s.SetTextAlign(AlignLeft)
	s.SetTextBaseline(BaselineMiddle)
	s.SetFillStyle(DefaultLabelColor)
	s.FillText("Legend", x, y+5)

	entries := []struct {
		label string
		t     graph.NodeType
		color string
	}{
		{"Vibe", graph.NodeVibe, catalog.ColorVibeDefault},
		{"Song", graph.NodeSong, catalog.ColorSong},
		{"Artist", graph.NodeArtist, catalog.ColorArtist},
	}
	for i, e := range entries {
		ey := y + 30 + float64(i)*22
		s.SetFillStyle(e.color)
		s.BeginPath()
		switch e.t {
		case graph.NodeVibe:
			s.Arc(x+8, ey, 8, 0, 2*math.Pi)
		case graph.NodeSong:
			s.MoveTo(x+8, ey-7)
			s.LineTo(x+15, ey+7)
			s.LineTo(x+1, ey+7)
		default:
			s.Rect(x, ey-8, 16, 16)
		}
		s.Fill()
		s.SetFillStyle(DefaultLabelColor)
		s.FillText(e.label, x+24, ey)
	}
}
