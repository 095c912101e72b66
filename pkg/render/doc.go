// Package render turns vibe graphs into pictures.
//
// # Overview
//
// Two renderers share the sizing policy and visual encoding:
//
//   - [canvas]: the per-node drawing contract used by the interactive view,
//     plus still SVG frames drawn through the same painter
//   - [nodelink]: Graphviz node-link diagrams laid out by a spring model
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// (from librsvg). They serve canvas frames, which Graphviz cannot rasterize.
//
//	svg := canvas.RenderFrame(painter, g, layout, 1)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [canvas]: github.com/matzehuels/vibegraph/pkg/render/canvas
// [nodelink]: github.com/matzehuels/vibegraph/pkg/render/nodelink
package render
