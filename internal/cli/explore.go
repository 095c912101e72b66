package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/vibegraph/pkg/graph"
	"github.com/matzehuels/vibegraph/pkg/session"
	"github.com/matzehuels/vibegraph/pkg/view"
)

type exploreOpts struct {
	source  sourceFlags
	mode    string
	reset   bool
	noCache bool
}

// exploreCommand creates the interactive explore command. The mode and pins
// are kept in a local session so the next run resumes where this one stopped.
func (c *CLI) exploreCommand() *cobra.Command {
	var opts exploreOpts

	cmd := &cobra.Command{
		Use:   "explore [catalog.json]",
		Short: "Browse the song graph interactively",
		Long: `Browse the hubs of the song graph in the terminal.

Keys:
  ↑/↓, j/k   move
  enter      open the hub and list its songs
  p          pin or unpin the hub at its current position
  r          release every pin
  tab, m     switch between vibe and artist view (v, a pick one)
  q          quit

The view mode and pins are saved between runs; --reset starts over.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return c.runExplore(cmd.Context(), path, opts)
		},
	}

	opts.source.register(cmd)
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", "start in this view mode instead of the saved one")
	cmd.Flags().BoolVar(&opts.reset, "reset", false, "discard the saved mode and pins")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, path string, opts exploreOpts) error {
	dir, err := stateDir()
	if err != nil {
		return fmt.Errorf("get state dir: %w", err)
	}
	store, err := session.NewCLIStore(dir)
	if err != nil {
		return err
	}
	if opts.reset {
		if err := store.Reset(ctx); err != nil {
			return err
		}
	}
	sess, err := store.Load(ctx)
	if err != nil {
		return err
	}
	if opts.mode != "" {
		mode, err := graph.ParseViewMode(opts.mode)
		if err != nil {
			return err
		}
		sess.Mode = mode
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

	cfg := c.settings()
	ctrl, err := view.New(snap,
		view.WithMode(sess.Mode),
		view.WithPins(sess.Pins),
		view.WithDangling(cfg.DanglingPolicy()),
		view.WithSizing(cfg.Sizing),
		view.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	for _, d := range ctrl.Dangling() {
		c.Logger.Debug("dangling reference", "song", d.Song, "target", d.Target)
	}

	save := func(mode graph.ViewMode, pins graph.Positions) error {
		sess.Mode = mode
		sess.Pins = pins
		return store.Save(ctx, sess)
	}
	if err := save(ctrl.Mode(), ctrl.Pins()); err != nil {
		return err
	}

	final, err := tea.NewProgram(NewExploreModel(ctrl, save), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("explore: %w", err)
	}
	if m, ok := final.(ExploreModel); ok {
		printSuccess("Saved %s view with %d pins", m.Ctrl.Mode(), len(m.Ctrl.Pins()))
		printDetail("Session: %s", store.Path())
	}
	return nil
}
