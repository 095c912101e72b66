package canvas

// Text alignment values accepted by Surface.SetTextAlign.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// Text baseline values accepted by Surface.SetTextBaseline.
const (
	BaselineTop        = "top"
	BaselineMiddle     = "middle"
	BaselineAlphabetic = "alphabetic"
	BaselineBottom     = "bottom"
)

// Surface is the subset of a 2D canvas context the painters draw with.
// Paths follow canvas semantics: BeginPath clears the current path, shape
// calls extend it, and Fill or Stroke paint it without clearing it.
type Surface interface {
	SetFillStyle(color string)
	SetStrokeStyle(color string)
	SetLineWidth(w float64)
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Arc(x, y, r, startAngle, endAngle float64)
	Rect(x, y, w, h float64)
	Fill()
	Stroke()
	SetFont(font string)
	SetTextAlign(align string)
	SetTextBaseline(baseline string)
	FillText(text string, x, y float64)
}
