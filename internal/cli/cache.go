package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/vibegraph/internal/config"
	"github.com/matzehuels/vibegraph/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the catalogue, graph and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheStatsCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached catalogue, graph and artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := c.newCache(cmd.Context(), false)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer ch.Close()
			if cache.Disabled(ch) {
				printInfo("Cache is disabled")
				return nil
			}

			clearer, ok := ch.(cache.Clearer)
			if !ok {
				return fmt.Errorf("cache backend cannot be cleared")
			}
			if err := clearer.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared cache")
			if fc, ok := ch.(*cache.FileCache); ok {
				printDetail("Directory: %s", fc.Dir())
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.settings()
			if cfg.Cache.Kind == config.CacheRedis {
				fmt.Printf("redis://%s (prefix %q)\n", cfg.Redis.Addr, cfg.Redis.Prefix)
				return nil
			}
			dir := cfg.Cache.Dir
			if dir == "" {
				d, err := cacheDir()
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
				dir = d
			}
			fmt.Println(dir)
			return nil
		},
	}
}

// cacheStatsCommand creates the "cache stats" subcommand.
func (c *CLI) cacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count cached entries per kind",
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := c.newCache(cmd.Context(), false)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer ch.Close()
			if cache.Disabled(ch) {
				printInfo("Cache is disabled")
				return nil
			}
			fc, ok := ch.(*cache.FileCache)
			if !ok {
				printInfo("Stats are only kept for the file cache")
				return nil
			}

			stats, err := fc.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("read cache: %w", err)
			}
			if len(stats) == 0 {
				printInfo("Cache is empty")
				printDetail("Directory: %s", fc.Dir())
				return nil
			}
			fmt.Println(newTable(func(row, col int) lipgloss.Style {
				if col == 0 {
					return StyleValue
				}
				return styleCount
			}, "Kind", "Entries", "Size", "Expired").Rows(cacheStatsRows(stats)...).Render())
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cacheStatsRows orders stats as catalog, graph, artifact, then the rest by
// name.
func cacheStatsRows(stats map[string]cache.KindStats) [][]string {
	order := []string{cache.KindCatalog, cache.KindGraph, cache.KindArtifact}
	kinds := make([]string, 0, len(stats))
	for kind := range stats {
		kinds = append(kinds, kind)
	}
	slices.SortFunc(kinds, func(a, b string) int {
		ia, ib := slices.Index(order, a), slices.Index(order, b)
		if ia < 0 {
			ia = len(order)
		}
		if ib < 0 {
			ib = len(order)
		}
		if ia != ib {
			return ia - ib
		}
		return strings.Compare(a, b)
	})

	rows := make([][]string, 0, len(kinds))
	for _, kind := range kinds {
		s := stats[kind]
		rows = append(rows, []string{kind, strconv.Itoa(s.Entries), formatBytes(s.Bytes), strconv.Itoa(s.Expired)})
	}
	return rows
}

// formatBytes renders n as B, KiB or MiB.
func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}
