package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/vibegraph/internal/config"
	"github.com/matzehuels/vibegraph/pkg/graph"
	"github.com/matzehuels/vibegraph/pkg/sizing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.EnvConfig, "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if resolved != filepath.Join(home, ".config", "vibegraph", "config.toml") {
		t.Errorf("resolved = %q", resolved)
	}
	if cfg.Server.Addr != ":8080" || cfg.Server.SessionTTL != 24*time.Hour {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Cache.Dir != filepath.Join(home, ".cache", "vibegraph") {
		t.Errorf("cache dir = %q", cfg.Cache.Dir)
	}
	if cfg.DefaultMode() != graph.ModeVibe || cfg.DanglingPolicy() != graph.DanglingDrop {
		t.Errorf("graph = %+v", cfg.Graph)
	}
	if cfg.Sizing != sizing.Default() {
		t.Errorf("sizing = %+v", cfg.Sizing)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
[server]
addr = ":9090"
cors_origins = ["http://localhost:3000"]
session_ttl = "2h"
session_store = "Redis"

[source]
kind = "SQLite"

[sqlite]
path = "/tmp/vibes.db"

[cache]
kind = "none"

[graph]
default_mode = "artist"
dangling = "placeholder"

[sizing]
scale_factor = 2.0
`)
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !exists || resolved != path {
		t.Errorf("resolved = %q, exists = %v", resolved, exists)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.SessionTTL != 2*time.Hour || cfg.Server.SessionStore != "redis" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if !cfg.UsesRedis() {
		t.Error("redis session store should use redis")
	}
	if cfg.DefaultMode() != graph.ModeArtist || cfg.DanglingPolicy() != graph.DanglingPlaceholder {
		t.Errorf("graph = %+v", cfg.Graph)
	}
	want := sizing.Policy{SongSize: sizing.DefaultSongSize, BaseSize: sizing.DefaultBaseSize, ScaleFactor: 2}
	if cfg.Sizing != want {
		t.Errorf("sizing = %+v, want %+v", cfg.Sizing, want)
	}

	sc := cfg.SourceConfig("")
	if sc.Kind != "sqlite" || sc.Path != "/tmp/vibes.db" {
		t.Errorf("source config = %+v", sc)
	}
	if got := cfg.SourceConfig("/other.db").Path; got != "/other.db" {
		t.Errorf("override path = %q", got)
	}

	srv := cfg.ServerConfig(":7000")
	if srv.Addr != ":7000" || len(srv.CORSOrigins) != 1 || srv.Dangling != graph.DanglingPlaceholder {
		t.Errorf("server config = %+v", srv)
	}
}

func TestLoadFromEnv(t *testing.T) {
	path := writeConfig(t, "[server]\naddr = \":1234\"\n")
	t.Setenv(config.EnvConfig, path)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if !exists || resolved != path || cfg.Server.Addr != ":1234" {
		t.Errorf("resolved = %q, exists = %v, addr = %q", resolved, exists, cfg.Server.Addr)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"unknown key", "[server]\nadress = \":1\"\n", "unknown keys: server.adress"},
		{"bad toml", "[server\n", "parse config"},
		{"source kind", "[source]\nkind = \"postgres\"\n", "source.kind"},
		{"cache kind", "[cache]\nkind = \"memcached\"\n", "cache.kind"},
		{"session store", "[server]\nsession_store = \"file\"\n", "server.session_store"},
		{"mode", "[graph]\ndefault_mode = \"grid\"\n", "graph.default_mode"},
		{"dangling", "[graph]\ndangling = \"ignore\"\n", "graph.dangling"},
		{"sizing", "[sizing]\nsong_size = -1.0\n", "sizing"},
		{"redis without addr", "[cache]\nkind = \"redis\"\n[redis]\naddr = \"\"\n", "redis.addr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := config.Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSampleConfigMatchesDefaults(t *testing.T) {
	var cfg config.Config
	if _, err := toml.Decode(config.SampleConfig(), &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	def := config.Default()
	if cfg.Server.Addr != def.Server.Addr || cfg.Server.SessionTTL != def.Server.SessionTTL {
		t.Errorf("server = %+v, want %+v", cfg.Server, def.Server)
	}
	if cfg.Cache != def.Cache || cfg.Graph != def.Graph || cfg.Sizing != def.Sizing {
		t.Error("sample config disagrees with Default()")
	}
	if cfg.Mongo != def.Mongo || cfg.Redis != def.Redis {
		t.Error("sample backends disagree with Default()")
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := config.ExpandPath("~/x/y.json")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, "x", "y.json") {
		t.Errorf("ExpandPath = %q", got)
	}
	if got, _ := config.ExpandPath(""); got != "" {
		t.Errorf("ExpandPath(\"\") = %q", got)
	}
}
