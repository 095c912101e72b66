package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/vibegraph/pkg/catalog"
	"github.com/matzehuels/vibegraph/pkg/catalog/source"
)

type seedOpts struct {
	to   string // destination kind; default from config
	from string // catalogue file to import instead of the sample
}

// seedCommand creates the seed command, which writes a catalogue into a
// file, SQLite database or MongoDB.
func (c *CLI) seedCommand() *cobra.Command {
	var opts seedOpts

	cmd := &cobra.Command{
		Use:   "seed [path]",
		Short: "Write the sample catalogue to a file or database",
		Long: `Write the built-in sample catalogue, or the catalogue file given with
--from, to the configured source. The destination contents are replaced.`,
		Example: `  vibegraph seed catalog.json
  vibegraph seed --to sqlite
  vibegraph seed --to mongo --from catalog.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return c.runSeed(cmd.Context(), path, opts)
		},
	}

	cmd.Flags().StringVar(&opts.to, "to", "", "destination: file, sqlite or mongo (default from config)")
	cmd.Flags().StringVar(&opts.from, "from", "", "catalogue file to import instead of the sample")

	return cmd
}

func (c *CLI) runSeed(ctx context.Context, path string, opts seedOpts) error {
	snap := catalog.Sample()
	if opts.from != "" {
		from := source.NewFileSource(opts.from)
		loaded, err := source.LoadWithRetry(ctx, from)
		if err != nil {
			return err
		}
		snap = loaded
	}

	cfg := *c.settings()
	if opts.to != "" {
		cfg.Source.Kind = strings.ToLower(opts.to)
	}
	sc := cfg.SourceConfig(path)
	if sc.Kind == source.KindSample {
		return fmt.Errorf("the sample source is read-only; pick file, sqlite or mongo with --to")
	}

	dst, err := source.Open(ctx, sc)
	if err != nil {
		return err
	}
	defer dst.Close()

	w, ok := dst.(source.Writer)
	if !ok {
		return fmt.Errorf("%s cannot be written", dst.Name())
	}

	err = runWithSpinner(ctx, "Writing "+dst.Name()+"...", func() error {
		return w.Save(ctx, snap)
	})
	if err != nil {
		return fmt.Errorf("seed %s: %w", dst.Name(), err)
	}

	songs, artists, vibes := snap.Counts()
	printSuccess("Seeded %s", dst.Name())
	printDetail("%d songs, %d artists, %d vibes", songs, artists, vibes)
	return nil
}
