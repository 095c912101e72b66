package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	verrors "github.com/matzehuels/vibegraph/pkg/errors"
	"github.com/matzehuels/vibegraph/pkg/graph"
	"github.com/matzehuels/vibegraph/pkg/pipeline"
	"github.com/matzehuels/vibegraph/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	source   sourceFlags
	mode     string
	dangling string
	formats  string  // comma-separated output formats
	output   string  // output directory
	name     string  // base file name
	width    float64 // frame width in pixels
	height   float64 // frame height in pixels
	zoom     float64 // camera zoom for frames
	detailed bool    // ids and connection counts in DOT labels
	legend   bool    // node type legend on frames
	pins     string  // layout JSON whose positions are pinned
	framePNG bool    // rasterize the frame with rsvg-convert
	noCache  bool
}

// renderCommand creates the render command for generating outputs.
//
// Default settings:
//   - format: svg
//   - width: 800px, height: 600px, zoom: 1
//   - output: current directory, files named graph.<ext>
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		width:  pipeline.DefaultWidth,
		height: pipeline.DefaultHeight,
		zoom:   pipeline.DefaultZoom,
		output: ".",
		name:   "graph",
	}

	cmd := &cobra.Command{
		Use:   "render [catalog.json]",
		Short: "Render the song graph to files",
		Long: `Render the song graph of a catalogue.

Formats:
  json   graph document with node sizes and connection counts
  dot    Graphviz source
  svg    Graphviz neato drawing
  png    Graphviz neato drawing
  pdf    Graphviz neato drawing
  frame  one frame of the interactive view, drawn as SVG`,
		Example: `  vibegraph render catalog.json -f svg,frame --legend
  vibegraph render --source mongo --mode artist -f json,dot -o out/
  vibegraph render -f frame --pins layout.json --zoom 2`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return c.runRender(cmd.Context(), path, opts)
		},
	}

	opts.source.register(cmd)
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", "view mode: vibe or artist (default from config)")
	cmd.Flags().StringVar(&opts.dangling, "dangling", "", "dangling reference policy: drop, placeholder or strict")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), json, dot, png, pdf, frame (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output directory")
	cmd.Flags().StringVar(&opts.name, "name", opts.name, "base name of the output files")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "frame width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "frame height")
	cmd.Flags().Float64Var(&opts.zoom, "zoom", opts.zoom, "camera zoom for frames")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node ids and connection counts (dot, svg, png, pdf)")
	cmd.Flags().BoolVar(&opts.legend, "legend", false, "draw a node type legend (frame)")
	cmd.Flags().StringVar(&opts.pins, "pins", "", "layout file whose positions are pinned")
	cmd.Flags().BoolVar(&opts.framePNG, "frame-png", false, "also convert the frame to PNG (needs rsvg-convert)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, path string, opts renderOpts) error {
	popts := c.buildOptions(opts.mode, opts.dangling)
	popts.Formats = parseFormats(opts.formats)
	popts.Width = opts.width
	popts.Height = opts.height
	popts.Zoom = opts.zoom
	popts.Detailed = opts.detailed
	popts.Legend = opts.legend
	popts.Refresh = opts.source.refresh

	if opts.pins != "" {
		l, err := graph.ReadLayoutFile(opts.pins)
		if err != nil {
			return fmt.Errorf("read pins: %w", err)
		}
		popts.Pins = l.Positions
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	snap, err := c.loadCatalog(ctx, runner, path, opts.source)
	if err != nil {
		return err
	}

	var result *pipeline.Result
	err = runWithSpinner(ctx, fmt.Sprintf("Rendering %s graph...", popts.Mode), func() (err error) {
		result, err = runner.Execute(ctx, snap, popts)
		return err
	})
	if err != nil {
		return err
	}

	artifacts := result.Artifacts
	if opts.framePNG {
		artifacts = c.rasterizeFrame(artifacts, opts.zoom)
	}
	paths, err := writeArtifacts(opts.output, opts.name, artifacts)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s graph", result.Build.Mode)
	printStats(result.Stats.NodeCount, result.Stats.LinkCount, result.Stats.DanglingCount, result.CacheInfo.BuildHit && result.CacheInfo.RenderHit)
	printDangling(result.Build.Dangling, popts.Dangling)
	for _, p := range paths {
		printFile(p)
	}
	c.Logger.Debug("render timings", "build", result.Stats.BuildTime, "render", result.Stats.RenderTime)
	return nil
}

// frameRasterFormat is the artifact key of the rasterized frame.
const frameRasterFormat = "frame-png"

// rasterizeFrame adds a PNG copy of the frame artifact. A missing converter
// is reported as a warning and the SVG frame is kept.
func (c *CLI) rasterizeFrame(artifacts map[string][]byte, zoom float64) map[string][]byte {
	frame, ok := artifacts[pipeline.FormatFrame]
	if !ok {
		printWarning("--frame-png needs -f frame")
		return artifacts
	}
	png, err := render.ToPNG(frame, max(zoom, 1))
	if err != nil {
		if verrors.Is(err, verrors.ErrCodeUnsupported) {
			printWarning("%s", verrors.UserMessage(err))
			return artifacts
		}
		c.Logger.Error("frame conversion failed", "error", err)
		return artifacts
	}
	out := make(map[string][]byte, len(artifacts)+1)
	for f, data := range artifacts {
		out[f] = data
	}
	out[frameRasterFormat] = png
	return out
}

// artifactExtension maps an artifact key to its file extension.
func artifactExtension(format string) string {
	if format == frameRasterFormat {
		return "frame.png"
	}
	return pipeline.Extension(format)
}

// writeArtifacts writes each artifact to dir/name.<ext> and returns the paths
// in format order.
func writeArtifacts(dir, name string, artifacts map[string][]byte) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		p := filepath.Join(dir, name+"."+artifactExtension(f))
		if err := os.WriteFile(p, artifacts[f], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", f, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
