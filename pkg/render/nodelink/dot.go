package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/vibegraph/pkg/graph"
	"github.com/matzehuels/vibegraph/pkg/render"
	"github.com/matzehuels/vibegraph/pkg/sizing"
)

// Engines understood by ToDOT. Neato and fdp are spring models, which is what
// the interactive view uses.
const (
	EngineNeato = "neato"
	EngineFDP   = "fdp"
	EngineSFDP  = "sfdp"
)

// pointsPerInch converts pixel-like sizes to Graphviz inches.
const pointsPerInch = 72.0

// Options configures node-link diagram rendering.
type Options struct {
	// Pins fixes nodes at the given positions (pixels, y down).
	Pins graph.Positions

	// Detailed appends the node id and connection count to labels.
	Detailed bool
	Counts   graph.ConnectionCounts

	// Engine is the Graphviz layout engine. Defaults to neato.
	Engine string

	// Background is the canvas color. Defaults to the view's dark gray.
	Background string
}

// ToDOT converts a vibe graph to Graphviz DOT. Vibes are circles, songs
// triangles and artists squares, sized with size and filled with the node
// color. Labels sit outside the glyph. Links are undirected and colored like
// their hub.
func ToDOT(g graph.GraphData, size sizing.Func, opts Options) string {
	if size == nil {
		size = sizing.Default().Sizer(opts.Counts)
	}
	engine := opts.Engine
	if engine == "" {
		engine = EngineNeato
	}
	bg := opts.Background
	if bg == "" {
		bg = "#111827"
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  layout=%s;\n", engine)
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", bg)
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  forcelabels=true;\n")
	buf.WriteString("  node [style=filled, fixedsize=true, penwidth=0, label=\"\", fontname=\"Inter\", fontcolor=\"#ffffff\"];\n")
	buf.WriteString("  edge [penwidth=1.5];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		attrs := fmtAttrs(n, size(n.ID, n.Type), fmtLabel(n, opts))
		if p, ok := opts.Pins[n.ID]; ok {
			attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", fmtNum(p.X), fmtNum(-p.Y)))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, l := range g.Links {
		fmt.Fprintf(&buf, "  %q -- %q [color=%q];\n", l.Source, l.Target, l.Color)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n graph.Node, opts Options) string {
	if !opts.Detailed {
		return n.Label
	}
	return fmt.Sprintf("%s\n%s (%d)", n.Label, n.ID, opts.Counts[n.ID])
}

func fmtAttrs(n graph.Node, size float64, label string) []string {
	var shape string
	var width float64
	fontsize := 12.0
	switch n.Type {
	case graph.NodeVibe:
		shape, width, fontsize = "circle", 2*size, 14
	case graph.NodeArtist:
		shape, width, fontsize = "square", 1.5*size, 14
	default:
		shape, width = "triangle", 1.6*size
	}
	return []string{
		"shape=" + shape,
		"width=" + fmtNum(width/pointsPerInch),
		fmt.Sprintf("fillcolor=%q", n.Color),
		fmt.Sprintf("xlabel=%q", label),
		"fontsize=" + fmtNum(fontsize),
	}
}

func fmtNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// =============================================================================
// Rendering
// =============================================================================

var layoutRe = regexp.MustCompile(`(?m)^\s*layout\s*=\s*"?([a-z0-9]+)"?\s*;`)

// RenderSVG lays out and renders a DOT graph to SVG with Graphviz, in process.
// The engine is taken from the graph's layout attribute.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := renderDOT(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG lays out and renders a DOT graph to PNG with Graphviz, in process.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	engine := EngineNeato
	if m := layoutRe.FindStringSubmatch(dot); m != nil {
		engine = m[1]
	}
	gv.SetLayout(graphviz.Layout(engine))

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
