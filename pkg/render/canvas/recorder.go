package canvas

// Op is one recorded Surface call. Numeric arguments go in Args, string
// arguments in Text.
type Op struct {
	Op   string    `json:"op"`
	Args []float64 `json:"args,omitempty"`
	Text string    `json:"text,omitempty"`
}

// Recorder is a Surface that records every call. A remote canvas can replay
// the ops verbatim.
type Recorder struct {
	Ops []Op
}

var _ Surface = (*Recorder)(nil)

func (r *Recorder) add(op string, text string, args ...float64) {
	r.Ops = append(r.Ops, Op{Op: op, Args: args, Text: text})
}

func (r *Recorder) SetFillStyle(color string)   { r.add("fillStyle", color) }
func (r *Recorder) SetStrokeStyle(color string) { r.add("strokeStyle", color) }
func (r *Recorder) SetLineWidth(w float64)      { r.add("lineWidth", "", w) }
func (r *Recorder) BeginPath()                  { r.add("beginPath", "") }
func (r *Recorder) MoveTo(x, y float64)         { r.add("moveTo", "", x, y) }
func (r *Recorder) LineTo(x, y float64)         { r.add("lineTo", "", x, y) }
func (r *Recorder) Rect(x, y, w, h float64)     { r.add("rect", "", x, y, w, h) }
func (r *Recorder) Fill()                       { r.add("fill", "") }
func (r *Recorder) Stroke()                     { r.add("stroke", "") }
func (r *Recorder) SetFont(font string)         { r.add("font", font) }
func (r *Recorder) SetTextAlign(align string)   { r.add("textAlign", align) }
func (r *Recorder) SetTextBaseline(b string)    { r.add("textBaseline", b) }

func (r *Recorder) Arc(x, y, radius, start, end float64) {
	r.add("arc", "", x, y, radius, start, end)
}

func (r *Recorder) FillText(text string, x, y float64) {
	r.add("fillText", text, x, y)
}

// Reset drops all recorded ops.
func (r *Recorder) Reset() { r.Ops = r.Ops[:0] }

// Find returns the recorded ops with the given name, in order.
func (r *Recorder) Find(op string) []Op {
	var out []Op
	for _, o := range r.Ops {
		if o.Op == op {
			out = append(out, o)
		}
	}
	return out
}
