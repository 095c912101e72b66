package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/vibegraph/internal/config"
	"github.com/matzehuels/vibegraph/pkg/buildinfo"
	"github.com/matzehuels/vibegraph/pkg/cache"
	"github.com/matzehuels/vibegraph/pkg/catalog"
	"github.com/matzehuels/vibegraph/pkg/catalog/source"
	"github.com/matzehuels/vibegraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "vibegraph"

	// cliKeyPrefix scopes CLI cache entries when the backend is shared with a server.
	cliKeyPrefix = "cli:"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any command runs. Commands invoked outside
	// RootCommand (tests) fall back to config.Default.
	Config *config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               appName,
		Short:             "Vibegraph explores a music catalogue as a song graph",
		Long:              `Vibegraph turns a catalogue of songs, artists and vibes into a node-link graph. Songs link to their vibes or to their artist, hubs grow with their song count, and the graph can be rendered, served over HTTP or explored in the terminal.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/vibegraph/config.toml)")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.seedCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// settings returns the loaded configuration or the defaults.
func (c *CLI) settings() *config.Config {
	if c.Config == nil {
		def := config.Default()
		c.Config = &def
	}
	return c.Config
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), cliKeyPrefix)
	return pipeline.NewRunner(ch, keyer, c.Logger), nil
}

// newCache opens the configured cache backend.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg := c.settings()
	switch cfg.Cache.Kind {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cfg.RedisConfig())
	}
	dir := cfg.Cache.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Catalogue Loading
// =============================================================================

// sourceFlags selects the catalogue for commands that read one.
type sourceFlags struct {
	kind    string // overrides source.kind from the config
	refresh bool   // bypass the catalogue cache
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.kind, "source", "", "catalogue source: file, mongo, sqlite or sample")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "reload the catalogue instead of using the cache")
}

// openSource opens the catalogue named by path and the source flags. A file
// source without a path falls back to the built-in sample.
func (c *CLI) openSource(ctx context.Context, path string, flags sourceFlags) (source.Source, error) {
	cfg := *c.settings()
	if flags.kind != "" {
		cfg.Source.Kind = strings.ToLower(flags.kind)
	}
	sc := cfg.SourceConfig(path)
	if (sc.Kind == "" || sc.Kind == source.KindFile) && sc.Path == "" {
		c.Logger.Info("No catalogue given, using the built-in sample")
		sc.Kind = source.KindSample
	}
	return source.Open(ctx, sc)
}

// loadCatalog opens the source and loads a snapshot through the runner cache.
func (c *CLI) loadCatalog(ctx context.Context, runner *pipeline.Runner, path string, flags sourceFlags) (catalog.Snapshot, error) {
	src, err := c.openSource(ctx, path, flags)
	if err != nil {
		return catalog.Snapshot{}, err
	}
	defer src.Close()

	prog := newProgress(c.Logger)
	snap, hit, err := runner.Load(ctx, src, flags.refresh)
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("load %s: %w", src.Name(), err)
	}
	songs, artists, vibes := snap.Counts()
	if hit {
		c.Logger.Debug("catalogue cache hit", "source", src.Name())
	}
	prog.done("Loaded catalogue", "source", src.Name(), "songs", songs, "artists", artists, "vibes", vibes)
	return snap, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/vibegraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// stateDir returns the directory of the explore session (~/.local/state/vibegraph/).
func stateDir() (string, error) {
	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		return filepath.Join(stateHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
