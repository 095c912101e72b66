// Package nodelink renders vibe graphs as static node-link diagrams using
// Graphviz.
//
// # Overview
//
// The interactive view hands nodes to a force-directed engine in the
// browser. For static output (CLI artifacts, the SVG endpoint) Graphviz's
// spring model plays that role:
//
//	GraphData -> ToDOT() -> DOT -> RenderSVG() / RenderPNG() -> bytes
//
// The DOT source is the intermediate representation and can be cached or
// saved and processed with external Graphviz tools.
//
// # Visual Encoding
//
// Shapes and colors follow the canvas painter: vibes are circles, songs are
// triangles and artists are squares, sized by the sizing policy. Links carry
// the color of their hub.
//
// # Pins
//
// Positions in [Options.Pins] are emitted as pos="x,y!", which neato and fdp
// treat as fixed. Canvas y grows downwards and Graphviz y grows upwards, so y
// is negated.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering. PDF conversion requires librsvg (rsvg-convert).
package nodelink
