package canvas

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SVGSurface is a Surface that writes SVG elements. Each Fill or Stroke
// emits one <path> for the current path; FillText emits one <text>.
type SVGSurface struct {
	width, height float64

	body bytes.Buffer
	path strings.Builder

	fill, stroke string
	lineWidth    float64
	fontSize     float64
	fontFamily   string
	align        string
	baseline     string
}

var _ Surface = (*SVGSurface)(nil)

// NewSVGSurface returns an empty surface of the given size. A non-empty
// background paints the whole frame first.
func NewSVGSurface(width, height float64, background string) *SVGSurface {
	s := &SVGSurface{
		width:      width,
		height:     height,
		fill:       "#000",
		stroke:     "#000",
		lineWidth:  1,
		fontSize:   10,
		fontFamily: "sans-serif",
		align:      "start",
		baseline:   BaselineAlphabetic,
	}
	if background != "" {
		fmt.Fprintf(&s.body, `  <rect x="0" y="0" width="%s" height="%s" fill="%s"/>`+"\n",
			num(width), num(height), attr(background))
	}
	return s
}

func (s *SVGSurface) SetFillStyle(color string)   { s.fill = color }
func (s *SVGSurface) SetStrokeStyle(color string) { s.stroke = color }
func (s *SVGSurface) SetLineWidth(w float64)      { s.lineWidth = w }
func (s *SVGSurface) SetTextAlign(align string)   { s.align = align }
func (s *SVGSurface) SetTextBaseline(b string)    { s.baseline = b }

func (s *SVGSurface) BeginPath() { s.path.Reset() }

func (s *SVGSurface) MoveTo(x, y float64) {
	fmt.Fprintf(&s.path, "M%s %s ", num(x), num(y))
}

func (s *SVGSurface) LineTo(x, y float64) {
	fmt.Fprintf(&s.path, "L%s %s ", num(x), num(y))
}

func (s *SVGSurface) Rect(x, y, w, h float64) {
	fmt.Fprintf(&s.path, "M%s %s h%s v%s h%s Z ", num(x), num(y), num(w), num(h), num(-w))
}

// Arc appends a clockwise arc. Sweeps of a full turn or more become a
// closed circle, since a single SVG arc cannot describe one.
func (s *SVGSurface) Arc(x, y, r, start, end float64) {
	sweep := end - start
	if sweep >= 2*math.Pi {
		fmt.Fprintf(&s.path, "M%s %s A%s %s 0 1 1 %s %s A%s %s 0 1 1 %s %s Z ",
			num(x+r), num(y), num(r), num(r), num(x-r), num(y), num(r), num(r), num(x+r), num(y))
		return
	}
	x0, y0 := x+r*math.Cos(start), y+r*math.Sin(start)
	x1, y1 := x+r*math.Cos(end), y+r*math.Sin(end)
	large := 0
	if sweep > math.Pi {
		large = 1
	}
	fmt.Fprintf(&s.path, "M%s %s A%s %s 0 %d 1 %s %s ", num(x0), num(y0), num(r), num(r), large, num(x1), num(y1))
}

func (s *SVGSurface) Fill() {
	if d := strings.TrimSpace(s.path.String()); d != "" {
		fmt.Fprintf(&s.body, `  <path d="%s" fill="%s"/>`+"\n", d, attr(s.fill))
	}
}

func (s *SVGSurface) Stroke() {
	if d := strings.TrimSpace(s.path.String()); d != "" {
		fmt.Fprintf(&s.body, `  <path d="%s" fill="none" stroke="%s" stroke-width="%s"/>`+"\n",
			d, attr(s.stroke), num(s.lineWidth))
	}
}

// SetFont accepts canvas font strings of the form "<size>px <family>".
// Anything else is ignored.
func (s *SVGSurface) SetFont(font string) {
	sizePart, family, ok := strings.Cut(strings.TrimSpace(font), " ")
	if !ok {
		return
	}
	size, err := strconv.ParseFloat(strings.TrimSuffix(sizePart, "px"), 64)
	if err != nil {
		return
	}
	s.fontSize, s.fontFamily = size, family
}

func (s *SVGSurface) FillText(text string, x, y float64) {
	var esc bytes.Buffer
	_ = xml.EscapeText(&esc, []byte(text))
	fmt.Fprintf(&s.body,
		`  <text x="%s" y="%s" font-family="%s" font-size="%s" text-anchor="%s" dominant-baseline="%s" fill="%s">%s</text>`+"\n",
		num(x), num(y), attr(s.fontFamily), num(s.fontSize), anchor(s.align), dominantBaseline(s.baseline), attr(s.fill), esc.String())
}

// BeginGroup opens a <g> with the given transform. Calls must be balanced
// with EndGroup.
func (s *SVGSurface) BeginGroup(transform string) {
	fmt.Fprintf(&s.body, `  <g transform="%s">`+"\n", attr(transform))
}

// EndGroup closes the innermost group.
func (s *SVGSurface) EndGroup() {
	s.body.WriteString("  </g>\n")
}

// Bytes returns the complete SVG document.
func (s *SVGSurface) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%.0f" height="%.0f">`+"\n",
		num(s.width), num(s.height), s.width, s.height)
	buf.Write(s.body.Bytes())
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func num(f float64) string {
	if math.Abs(f) < 1e-9 {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func attr(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func anchor(align string) string {
	switch align {
	case AlignCenter:
		return "middle"
	case AlignRight, "end":
		return "end"
	default:
		return "start"
	}
}

func dominantBaseline(b string) string {
	switch b {
	case BaselineTop, "hanging":
		return "hanging"
	case BaselineMiddle:
		return "middle"
	case BaselineBottom:
		return "text-after-edge"
	default:
		return "alphabetic"
	}
}
