// Package canvas defines how graph nodes are drawn.
//
// # Overview
//
// A force-directed engine owns node positions and calls back into this
// package once per node per animation tick. The drawing is expressed against
// [Surface], a small interface mirroring a 2D canvas context, so the same
// [Painter] serves a browser canvas (through recorded [Op] values), an SVG
// snapshot ([SVGSurface]) or a test double.
//
// # Shapes
//
//	vibe    filled circle, radius = size
//	song    filled upward triangle, half-extent = 0.8 * size
//	artist  filled square, side = 1.5 * size, centered
//
// Size comes from [sizing.Func]. Labels are drawn centered below the glyph
// in a font of 14/zoom (vibe, artist) or 12/zoom (song) pixels, so they keep
// a constant apparent size as the camera zooms.
//
// # Hit Testing
//
// [Painter.PaintPointerArea] paints a circle of radius 1.5 * size in a
// per-node color, larger than the glyph so small song nodes stay easy to
// grab.
//
// # Frames
//
// [RenderFrame] draws a whole graph at fixed positions to an SVG document:
//
//	layout := graph.Place(res.Graph, 800, 600, pins)
//	svg := canvas.RenderFrame(canvas.NewPainter(size), res.Graph, layout, 1)
//
// [sizing.Func]: github.com/matzehuels/vibegraph/pkg/sizing#Func
package canvas
