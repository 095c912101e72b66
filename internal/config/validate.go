package config

import (
	"fmt"

	"github.com/matzehuels/vibegraph/pkg/graph"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case "file", "mongo", "sqlite", "sample":
	default:
		return fmt.Errorf("source.kind must be file, mongo, sqlite or sample, got %q", c.Source.Kind)
	}
	if c.Source.Kind == "sqlite" && c.SQLite.Path == "" {
		return fmt.Errorf("sqlite.path must be set when source.kind is sqlite")
	}

	switch c.Cache.Kind {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return fmt.Errorf("cache.kind must be file, redis or none, got %q", c.Cache.Kind)
	}
	switch c.Server.SessionStore {
	case SessionMemory, SessionRedis:
	default:
		return fmt.Errorf("server.session_store must be memory or redis, got %q", c.Server.SessionStore)
	}
	if c.UsesRedis() && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr must be set when redis is used")
	}
	if c.Server.SessionTTL < 0 {
		return fmt.Errorf("server.session_ttl must not be negative")
	}

	if _, err := graph.ParseViewMode(c.Graph.DefaultMode); err != nil {
		return fmt.Errorf("graph.default_mode: %w", err)
	}
	if _, err := graph.ParseDanglingPolicy(c.Graph.Dangling); err != nil {
		return fmt.Errorf("graph.dangling: %w", err)
	}
	if err := c.Sizing.Validate(); err != nil {
		return fmt.Errorf("sizing: %w", err)
	}
	return nil
}

// UsesRedis reports whether the cache or the session store is Redis-backed.
func (c *Config) UsesRedis() bool {
	return c.Cache.Kind == CacheRedis || c.Server.SessionStore == SessionRedis
}
