package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/vibegraph/internal/config"
	"github.com/matzehuels/vibegraph/pkg/cache"
	"github.com/matzehuels/vibegraph/pkg/pipeline"
	"github.com/matzehuels/vibegraph/pkg/server"
	"github.com/matzehuels/vibegraph/pkg/session"
)

type serveOpts struct {
	source  sourceFlags
	catalog string
	addr    string
	noCache bool
}

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the catalogue, the rendered graph and per-viewer sessions over HTTP.

The catalogue is loaded once at startup. Sessions live in memory or in Redis
(server.session_store); the artifact cache follows cache.kind.`,
		Example: `  vibegraph serve --addr :9000
  vibegraph serve --source mongo
  vibegraph --config prod.toml serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	opts.source.register(cmd)
	cmd.Flags().StringVar(&opts.catalog, "catalog", "", "catalogue file or database path")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cfg := c.settings()

	ch, err := c.newCache(ctx, opts.noCache)
	if err != nil {
		return err
	}
	logger := loggerFromContext(ctx)
	runner := pipeline.NewRunner(ch, nil, logger)
	defer runner.Close()

	store, err := c.sessionStore(ctx, ch)
	if err != nil {
		return err
	}

	snap, err := c.loadCatalog(ctx, runner, opts.catalog, opts.source)
	if err != nil {
		return err
	}

	srv, err := server.New(snap, cfg.ServerConfig(opts.addr),
		server.WithRunner(runner),
		server.WithSessionStore(store),
		server.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	printSuccess("Serving %s", StyleLink.Render("http://"+displayAddr(cfg.ServerConfig(opts.addr).Addr)))
	printDetail("Sessions: %s, cache: %s", cfg.Server.SessionStore, cacheKind(cfg, opts.noCache))
	return srv.ListenAndServe(ctx)
}

// sessionStore opens the configured session store. A Redis store reuses the
// cache connection when the cache is Redis-backed.
func (c *CLI) sessionStore(ctx context.Context, ch cache.Cache) (session.Store, error) {
	cfg := c.settings()
	if cfg.Server.SessionStore != config.SessionRedis {
		return session.NewMemoryStore(), nil
	}
	if rc, ok := ch.(*cache.RedisCache); ok {
		return session.NewRedisStore(rc.Client(), ""), nil
	}
	rc, err := cache.NewRedisCache(ctx, cfg.RedisConfig())
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}
	return session.NewRedisStore(rc.Client(), ""), nil
}

func cacheKind(cfg *config.Config, noCache bool) string {
	if noCache {
		return config.CacheNone
	}
	return cfg.Cache.Kind
}

// displayAddr turns a listen address such as ":8080" into a host:port.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
