package canvas

import (
	"math"
	"strconv"

	"github.com/matzehuels/vibegraph/pkg/graph"
	"github.com/matzehuels/vibegraph/pkg/sizing"
)

// Painter defaults.
const (
	DefaultFontFamily = "Inter"
	DefaultLabelColor = "#fff"
	DefaultLinkWidth  = 1.5
)

const (
	hubFontSize  = 14.0
	songFontSize = 12.0

	triangleRatio = 0.8
	squareRatio   = 1.5
	hitAreaRatio  = 1.5
)

// Painter draws nodes onto a Surface. Shapes depend only on the node type
// and the size returned by Size, so two painters with the same sizing draw
// identical frames.
type Painter struct {
	Size       sizing.Func
	FontFamily string
	LabelColor string
}

// NewPainter returns a painter with the default font and label color.
func NewPainter(size sizing.Func) Painter {
	return Painter{Size: size, FontFamily: DefaultFontFamily, LabelColor: DefaultLabelColor}
}

// FontSize returns the label font size for a node type at the given camera
// zoom. Dividing by zoom keeps labels at a constant apparent size on screen.
// Non-positive zoom is treated as 1.
func FontSize(t graph.NodeType, zoom float64) float64 {
	zoom = normZoom(zoom)
	if t == graph.NodeVibe || t == graph.NodeArtist {
		return hubFontSize / zoom
	}
	return songFontSize / zoom
}

// DrawNode paints the node glyph and its label:
//
//	vibe    circle of radius size
//	song    upward triangle with half-extent 0.8*size
//	artist  square of side 1.5*size centered on the node
//
// The label is centered below the glyph at y + size + fontSize.
func (p Painter) DrawNode(s Surface, n graph.PlacedNode, zoom float64) {
	size := p.size(n.Node)
	x, y := n.X, n.Y

	s.SetFillStyle(n.Color)
	s.BeginPath()
	switch n.Type {
	case graph.NodeVibe:
		s.Arc(x, y, size, 0, 2*math.Pi)
	case graph.NodeSong:
		t := size * triangleRatio
		s.MoveTo(x, y-t)
		s.LineTo(x+t, y+t)
		s.LineTo(x-t, y+t)
	case graph.NodeArtist:
		side := size * squareRatio
		s.Rect(x-side/2, y-side/2, side, side)
	}
	s.Fill()

	fontSize := FontSize(n.Type, zoom)
	s.SetFont(Font(fontSize, p.fontFamily()))
	s.SetFillStyle(p.labelColor())
	s.SetTextAlign(AlignCenter)
	s.SetTextBaseline(BaselineMiddle)
	s.FillText(n.Label, x, y+size+fontSize)
}

// PaintPointerArea paints the hit-test region of a node: a circle of radius
// 1.5*size in the given color, whatever the drawn shape.
func (p Painter) PaintPointerArea(s Surface, n graph.PlacedNode, color string) {
	s.SetFillStyle(color)
	s.BeginPath()
	s.Arc(n.X, n.Y, p.size(n.Node)*hitAreaRatio, 0, 2*math.Pi)
	s.Fill()
}

// DrawLink strokes a straight segment between two positions.
func (p Painter) DrawLink(s Surface, from, to graph.Position, color string, width float64) {
	s.SetStrokeStyle(color)
	s.SetLineWidth(width)
	s.BeginPath()
	s.MoveTo(from.X, from.Y)
	s.LineTo(to.X, to.Y)
	s.Stroke()
}

// HitRadius returns the pointer-area radius of a node.
func (p Painter) HitRadius(n graph.Node) float64 {
	return p.size(n) * hitAreaRatio
}

// Font formats a canvas font string such as "14px Inter".
func Font(size float64, family string) string {
	return strconv.FormatFloat(size, 'f', -1, 64) + "px " + family
}

func (p Painter) size(n graph.Node) float64 {
	if p.Size == nil {
		return sizing.Default().Size(n.ID, n.Type, nil)
	}
	return p.Size(n.ID, n.Type)
}

func (p Painter) fontFamily() string {
	if p.FontFamily == "" {
		return DefaultFontFamily
	}
	return p.FontFamily
}

func (p Painter) labelColor() string {
	if p.LabelColor == "" {
		return DefaultLabelColor
	}
	return p.LabelColor
}

func normZoom(zoom float64) float64 {
	if !(zoom > 0) || math.IsInf(zoom, 0) {
		return 1
	}
	return zoom
}
