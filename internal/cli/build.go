package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/vibegraph/pkg/graph"
	"github.com/matzehuels/vibegraph/pkg/pipeline"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	source   sourceFlags
	mode     string
	dangling string
	output   string // graph JSON; stdout when empty
	layout   string // optional layout JSON with node positions
	noCache  bool
}

// buildCommand creates the build command, which writes the graph of a
// catalogue as JSON.
func (c *CLI) buildCommand() *cobra.Command {
	var opts buildOpts

	cmd := &cobra.Command{
		Use:   "build [catalog.json]",
		Short: "Build the song graph of a catalogue",
		Long: `Build the node-link graph of a catalogue and write it as JSON.

In vibe mode every song links to each of its vibes; in artist mode every song
links to its artist. References to missing vibes or artists follow the
--dangling policy: drop skips the link, placeholder adds a stand-in node and
strict fails the build.`,
		Example: `  vibegraph build catalog.json -o graph.json
  vibegraph build --source sample --mode artist
  vibegraph build --source sqlite --dangling strict --layout layout.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return c.runBuild(cmd.Context(), path, opts)
		},
	}

	opts.source.register(cmd)
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", "view mode: vibe or artist (default from config)")
	cmd.Flags().StringVar(&opts.dangling, "dangling", "", "dangling reference policy: drop, placeholder or strict")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.layout, "layout", "", "also write node positions to this file")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// buildOptions resolves the mode and dangling flags against the config.
func (c *CLI) buildOptions(mode, dangling string) pipeline.Options {
	cfg := c.settings()
	opts := pipeline.Options{
		Mode:     cfg.DefaultMode(),
		Dangling: cfg.DanglingPolicy(),
		Sizing:   cfg.Sizing,
		Logger:   c.Logger,
	}
	if mode != "" {
		opts.Mode = graph.ViewMode(mode)
	}
	if dangling != "" {
		opts.Dangling = graph.DanglingPolicy(dangling)
	}
	return opts
}

func (c *CLI) runBuild(ctx context.Context, path string, opts buildOpts) error {
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := c.buildOptions(opts.mode, opts.dangling)
	if err := popts.ValidateForBuild(); err != nil {
		return err
	}

	snap, err := c.loadCatalog(ctx, runner, path, opts.source)
	if err != nil {
		return err
	}
	snapHash, err := pipeline.SnapshotHash(snap)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	res, hit, err := runner.BuildWithCacheInfo(ctx, snap, snapHash, popts)
	if err != nil {
		return err
	}
	prog.done("Built graph", "mode", res.Mode, "nodes", len(res.Graph.Nodes), "links", len(res.Graph.Links), "cached", hit)

	if opts.output == "" {
		if err := graph.WriteGraph(res.Graph, os.Stdout); err != nil {
			return err
		}
	} else {
		if err := graph.WriteGraphFile(res.Graph, opts.output); err != nil {
			return err
		}
		printSuccess("Graph built")
		printStats(len(res.Graph.Nodes), len(res.Graph.Links), len(res.Dangling), hit)
		printDangling(res.Dangling, popts.Dangling)
		printFile(opts.output)
	}

	if opts.layout != "" {
		l := graph.Place(res.Graph, pipeline.DefaultWidth, pipeline.DefaultHeight, nil)
		if err := graph.WriteLayoutFile(l, opts.layout); err != nil {
			return err
		}
		c.Logger.Infof("Wrote layout %s", opts.layout)
	}

	if opts.output != "" {
		printNewline()
		printNextStep("Render it", "vibegraph render -f svg,frame")
	}
	return nil
}
