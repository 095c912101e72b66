// Package config loads the vibegraph TOML configuration.
//
// The file is looked up in this order: the --config flag, the
// VIBEGRAPH_CONFIG environment variable, ~/.config/vibegraph/config.toml and
// ./vibegraph.toml. A missing file is not an error; [Default] values apply.
// Unknown keys are rejected so typos do not silently fall back to defaults.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/vibegraph/pkg/graph"
	"github.com/matzehuels/vibegraph/pkg/sizing"
)

// EnvConfig names the environment variable holding the config path.
const EnvConfig = "VIBEGRAPH_CONFIG"

//go:embed sample_config.toml
var sampleConfig string

// SampleConfig returns a commented config file with every default spelled out.
func SampleConfig() string { return sampleConfig }

// Server configures `vibegraph serve`.
type Server struct {
	Addr         string        `toml:"addr"`
	CORSOrigins  []string      `toml:"cors_origins"`
	SessionTTL   time.Duration `toml:"session_ttl"`
	SessionStore string        `toml:"session_store"` // memory or redis
}

// Source selects where the catalogue is loaded from.
type Source struct {
	Kind string `toml:"kind"` // file, mongo, sqlite or sample
	Path string `toml:"path"` // JSON file for kind = "file"
}

// Mongo configures the MongoDB catalogue source.
type Mongo struct {
	URI      string        `toml:"uri"`
	Database string        `toml:"database"`
	Timeout  time.Duration `toml:"timeout"`
}

// SQLite configures the SQLite catalogue source.
type SQLite struct {
	Path string `toml:"path"`
}

// Redis configures the Redis connection shared by the cache and sessions.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// Cache selects the artifact cache backend.
type Cache struct {
	Kind string `toml:"kind"` // file, redis or none
	Dir  string `toml:"dir"`
}

// Graph holds the graph build defaults.
type Graph struct {
	DefaultMode string `toml:"default_mode"`
	Dangling    string `toml:"dangling"`
}

// Config encapsulates all configuration values for vibegraph.
type Config struct {
	Server Server        `toml:"server"`
	Source Source        `toml:"source"`
	Mongo  Mongo         `toml:"mongo"`
	SQLite SQLite        `toml:"sqlite"`
	Redis  Redis         `toml:"redis"`
	Cache  Cache         `toml:"cache"`
	Graph  Graph         `toml:"graph"`
	Sizing sizing.Policy `toml:"sizing"`
}

// Backend kinds.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"

	SessionMemory = "memory"
	SessionRedis  = "redis"
)

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: Server{
			Addr:         ":8080",
			SessionTTL:   24 * time.Hour,
			SessionStore: SessionMemory,
		},
		Source: Source{Kind: "file"},
		Mongo: Mongo{
			URI:      "mongodb://localhost:27017",
			Database: "vibegraph",
			Timeout:  10 * time.Second,
		},
		SQLite: SQLite{Path: "~/.local/share/vibegraph/catalog.db"},
		Redis:  Redis{Addr: "localhost:6379", Prefix: "vibegraph:"},
		Cache:  Cache{Kind: CacheFile, Dir: "~/.cache/vibegraph"},
		Graph:  Graph{DefaultMode: string(graph.ModeVibe), Dangling: string(graph.DanglingDrop)},
		Sizing: sizing.Default(),
	}
}

// DefaultConfigPath returns the per-user config file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/vibegraph/config.toml")
}

// Load locates, parses, normalizes and validates the configuration. It also
// returns the resolved path and whether a file existed there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		md, err := toml.DecodeFile(resolved, &cfg)
		if err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, "", false, fmt.Errorf("config %s: unknown keys: %s", resolved, strings.Join(keys, ", "))
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, fmt.Errorf("config %s: %w", resolved, err)
	}
	return &cfg, resolved, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("vibegraph.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// normalize lowercases enum values and expands paths.
func (c *Config) normalize() error {
	lower := func(s *string) { *s = strings.ToLower(strings.TrimSpace(*s)) }
	lower(&c.Source.Kind)
	lower(&c.Cache.Kind)
	lower(&c.Server.SessionStore)
	lower(&c.Graph.DefaultMode)
	lower(&c.Graph.Dangling)

	for _, p := range []*string{&c.Source.Path, &c.SQLite.Path, &c.Cache.Dir} {
		expanded, err := expandPath(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	c.Sizing = c.Sizing.WithDefaults()
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath applies the config path rules (~ expansion, absolute paths).
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
