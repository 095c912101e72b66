package config

import (
	"github.com/matzehuels/vibegraph/pkg/cache"
	"github.com/matzehuels/vibegraph/pkg/catalog/source"
	"github.com/matzehuels/vibegraph/pkg/graph"
	"github.com/matzehuels/vibegraph/pkg/server"
)

// SourceConfig returns the catalogue source settings. path, when set,
// overrides the configured file or database path.
func (c *Config) SourceConfig(path string) source.Config {
	sc := source.Config{
		Kind:          c.Source.Kind,
		Path:          c.Source.Path,
		MongoURI:      c.Mongo.URI,
		MongoDatabase: c.Mongo.Database,
		MongoTimeout:  c.Mongo.Timeout,
	}
	if sc.Kind == source.KindSQLite {
		sc.Path = c.SQLite.Path
	}
	if path != "" {
		sc.Path = path
	}
	return sc
}

// RedisConfig returns the shared Redis connection settings.
func (c *Config) RedisConfig() cache.RedisConfig {
	return cache.RedisConfig{
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
		Prefix:   c.Redis.Prefix,
	}
}

// ServerConfig returns the HTTP server settings. addr, when set, overrides
// the configured listen address.
func (c *Config) ServerConfig(addr string) server.Config {
	sc := server.Config{
		Addr:        c.Server.Addr,
		CORSOrigins: c.Server.CORSOrigins,
		Sizing:      c.Sizing,
		Dangling:    graph.DanglingPolicy(c.Graph.Dangling),
		SessionTTL:  c.Server.SessionTTL,
	}
	if addr != "" {
		sc.Addr = addr
	}
	return sc
}

// DefaultMode returns the configured initial view mode.
func (c *Config) DefaultMode() graph.ViewMode {
	m, _ := graph.ParseViewMode(c.Graph.DefaultMode)
	return m
}

// DanglingPolicy returns the configured dangling reference policy.
func (c *Config) DanglingPolicy() graph.DanglingPolicy {
	p, _ := graph.ParseDanglingPolicy(c.Graph.Dangling)
	return p
}
