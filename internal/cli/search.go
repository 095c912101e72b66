package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/vibegraph/pkg/catalog"
)

type searchOpts struct {
	source  sourceFlags
	catalog string
	kind    string
	limit   int
	noCache bool
}

// searchCommand creates the search command, the terminal rendition of the
// list view.
func (c *CLI) searchCommand() *cobra.Command {
	var opts searchOpts

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "List songs, artists and vibes matching a query",
		Long: `Search the catalogue the way the list view does: case-insensitive
substring matches on song titles, artist names and vibe names. An empty
query lists everything.`,
		Example: `  vibegraph search electric
  vibegraph search --kind vibe
  vibegraph search --catalog catalog.json "night"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var query string
			if len(args) == 1 {
				query = args[0]
			}
			return c.runSearch(cmd.Context(), query, opts)
		},
	}

	opts.source.register(cmd)
	cmd.Flags().StringVar(&opts.catalog, "catalog", "", "catalogue file or database path")
	cmd.Flags().StringVar(&opts.kind, "kind", "", "only show song, artist or vibe items")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "maximum number of rows (0 for all)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runSearch(ctx context.Context, query string, opts searchOpts) error {
	kind, err := parseKind(opts.kind)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	snap, err := c.loadCatalog(ctx, runner, opts.catalog, opts.source)
	if err != nil {
		return err
	}

	items := filterItems(searchItems(snap, query, kind), kind, opts.limit)
	if len(items) == 0 {
		printInfo("No matches for %q", query)
		return nil
	}
	fmt.Println(searchTable(items))
	printDetail("%d results", len(items))
	return nil
}

// parseKind validates the --kind flag. An empty kind matches everything.
func parseKind(s string) (catalog.Kind, error) {
	switch k := catalog.Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "", catalog.KindSong, catalog.KindArtist, catalog.KindVibe:
		return k, nil
	default:
		return "", fmt.Errorf("invalid kind: %s (must be 'song', 'artist' or 'vibe')", s)
	}
}

// searchItems runs catalog.Search. An empty query lists songs only, so a
// blank artist or vibe search lists every record of that kind instead.
func searchItems(snap catalog.Snapshot, query string, kind catalog.Kind) []catalog.Item {
	if strings.TrimSpace(query) != "" {
		return catalog.Search(snap, query)
	}
	var items []catalog.Item
	switch kind {
	case catalog.KindArtist:
		for _, a := range snap.Artists {
			items = append(items, catalog.ArtistItem(a))
		}
	case catalog.KindVibe:
		for _, v := range snap.Vibes {
			items = append(items, catalog.VibeItem(v))
		}
	default:
		items = catalog.Search(snap, query)
	}
	return items
}

// filterItems keeps the items of kind (all when empty), at most limit of them
// when limit is positive.
func filterItems(items []catalog.Item, kind catalog.Kind, limit int) []catalog.Item {
	out := items[:0:0]
	for _, it := range items {
		if kind != "" && it.Kind != kind {
			continue
		}
		out = append(out, it)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// searchTable renders items as a bordered table with a color swatch per row.
func searchTable(items []catalog.Item) string {
	rows := make([][]string, len(items))
	for i, it := range items {
		rows[i] = []string{swatch(it.Color), string(it.Kind), it.Name, it.Subtext}
	}

	t := newTable(func(row, col int) lipgloss.Style {
		switch col {
		case 1:
			if row >= 0 && row < len(rows) {
				return kindStyle(rows[row][1])
			}
		case 2:
			return StyleValue
		case 3:
			return styleCount
		}
		return lipgloss.NewStyle()
	}, "", "Kind", "Name", "Detail").Rows(rows...)
	return t.Render()
}
