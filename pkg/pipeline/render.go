package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/vibegraph/pkg/graph"
	"github.com/matzehuels/vibegraph/pkg/observability"
	"github.com/matzehuels/vibegraph/pkg/render/canvas"
	"github.com/matzehuels/vibegraph/pkg/render/nodelink"
	"github.com/matzehuels/vibegraph/pkg/sizing"
)

// Document is the JSON artifact: the graph with every node's size and
// connection count resolved.
type Document struct {
	Mode     graph.ViewMode      `json:"mode"`
	Nodes    []DocumentNode      `json:"nodes"`
	Links    []graph.Link        `json:"links"`
	Dangling []graph.DanglingRef `json:"dangling,omitempty"`
}

// DocumentNode is a node with its rendering size.
type DocumentNode struct {
	graph.Node
	Size        float64 `json:"size"`
	Connections int     `json:"connections"`
}

// NewDocument resolves res against the sizing policy.
func NewDocument(res graph.Result, policy sizing.Policy) Document {
	size := policy.Sizer(res.Counts)
	nodes := make([]DocumentNode, len(res.Graph.Nodes))
	for i, n := range res.Graph.Nodes {
		nodes[i] = DocumentNode{Node: n, Size: size(n.ID, n.Type), Connections: res.Counts.Get(n.ID)}
	}
	links := res.Graph.Links
	if links == nil {
		links = []graph.Link{}
	}
	return Document{Mode: res.Mode, Nodes: nodes, Links: links, Dangling: res.Dangling}
}

// Render generates every requested format without caching.
func Render(ctx context.Context, res graph.Result, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := renderAll(ctx, res, opts)

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func renderAll(ctx context.Context, res graph.Result, opts Options) (map[string][]byte, error) {
	size := opts.Sizing.Sizer(res.Counts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	// DOT is shared by the Graphviz formats.
	var dot string
	toDOT := func() string {
		if dot == "" {
			dot = nodelink.ToDOT(res.Graph, size, nodelink.Options{
				Pins:     opts.Pins,
				Detailed: opts.Detailed,
				Counts:   res.Counts,
			})
		}
		return dot
	}

	for _, format := range opts.Formats {
		if _, done := artifacts[format]; done {
			continue
		}
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatJSON:
			data, err = json.MarshalIndent(NewDocument(res, opts.Sizing), "", "  ")
		case FormatDOT:
			data = []byte(toDOT())
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, toDOT())
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, toDOT())
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, toDOT())
		case FormatFrame:
			data = RenderFrame(res, opts)
		default:
			err = ValidateFormat(format)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFrame draws the still frame the interactive view would show for
// res, with opts.Pins applied on top of the computed placement.
func RenderFrame(res graph.Result, opts Options) []byte {
	opts.SetRenderDefaults()
	layout := graph.Place(res.Graph, opts.Width, opts.Height, opts.Pins)
	painter := canvas.NewPainter(opts.Sizing.Sizer(res.Counts))

	var frameOpts []canvas.FrameOption
	if opts.Legend {
		frameOpts = append(frameOpts, canvas.WithLegend())
	}
	return canvas.RenderFrame(painter, res.Graph, layout, opts.Zoom, frameOpts...)
}
