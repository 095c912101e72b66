package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/vibegraph/pkg/cache"
	"github.com/matzehuels/vibegraph/pkg/catalog"
	"github.com/matzehuels/vibegraph/pkg/catalog/source"
	"github.com/matzehuels/vibegraph/pkg/graph"
)

func TestBuildCommand(t *testing.T) {
	tests := []struct {
		mode      string
		wantNodes int
		wantLinks int
	}{
		{"vibe", 94, 165},
		{"artist", 94, 84},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			dir := t.TempDir()
			out := filepath.Join(dir, "graph.json")
			layout := filepath.Join(dir, "layout.json")

			if _, err := runCLI(t, "build", "--source", "sample", "--no-cache", "--mode", tt.mode, "-o", out, "--layout", layout); err != nil {
				t.Fatal(err)
			}

			g, err := graph.ReadGraphFile(out)
			if err != nil {
				t.Fatal(err)
			}
			if len(g.Nodes) != tt.wantNodes || len(g.Links) != tt.wantLinks {
				t.Errorf("graph = %d nodes, %d links; want %d, %d", len(g.Nodes), len(g.Links), tt.wantNodes, tt.wantLinks)
			}

			l, err := graph.ReadLayoutFile(layout)
			if err != nil {
				t.Fatal(err)
			}
			if len(l.Positions) != tt.wantNodes {
				t.Errorf("layout has %d positions, want %d", len(l.Positions), tt.wantNodes)
			}
		})
	}
}

func TestBuildCommandInvalidMode(t *testing.T) {
	if _, err := runCLI(t, "build", "--source", "sample", "--no-cache", "--mode", "genre"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestBuildCommandFromFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.json")
	if err := source.NewFileSource(catalogPath).Save(ctx, catalog.Sample()); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "graph.json")
	if _, err := runCLI(t, "build", catalogPath, "--no-cache", "-o", out); err != nil {
		t.Fatal(err)
	}
	g, err := graph.ReadGraphFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Links) != 165 {
		t.Errorf("links = %d, want 165", len(g.Links))
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	if _, err := runCLI(t, "render", "--source", "sample", "--no-cache", "-f", "json,dot,frame", "--legend", "-o", dir); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"graph.json", "graph.dot", "graph.frame.svg"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
	dot, err := os.ReadFile(filepath.Join(dir, "graph.dot"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(dot), "graph G {") {
		t.Errorf("dot output starts with %q", string(dot[:min(20, len(dot))]))
	}
	frame, err := os.ReadFile(filepath.Join(dir, "graph.frame.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(frame), "<svg") {
		t.Error("frame is not an SVG")
	}
}

func TestRenderCommandPins(t *testing.T) {
	dir := t.TempDir()
	pins := filepath.Join(dir, "pins.json")
	l := graph.Layout{Width: 800, Height: 600, Positions: graph.Positions{graph.VibeID("chill"): {X: 10, Y: 20}}}
	if err := graph.WriteLayoutFile(l, pins); err != nil {
		t.Fatal(err)
	}

	if _, err := runCLI(t, "render", "--source", "sample", "--no-cache", "-f", "dot", "--pins", pins, "-o", dir); err != nil {
		t.Fatal(err)
	}
	dot, err := os.ReadFile(filepath.Join(dir, "graph.dot"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(dot), `pos="10,-20!"`) {
		t.Error("pinned position missing from dot output")
	}
}

func TestRenderCommandInvalidFormat(t *testing.T) {
	if _, err := runCLI(t, "render", "--source", "sample", "--no-cache", "-f", "gif", "-o", t.TempDir()); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	paths, err := writeArtifacts(dir, "g", map[string][]byte{
		"svg":   []byte("<svg/>"),
		"frame": []byte("<svg/>"),
		"dot":   []byte("graph G {}"),
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "g.dot"),
		filepath.Join(dir, "g.frame.svg"),
		filepath.Join(dir, "g.svg"),
	}
	if strings.Join(paths, ",") != strings.Join(want, ",") {
		t.Errorf("paths = %v, want %v", paths, want)
	}
}

func TestArtifactExtension(t *testing.T) {
	tests := map[string]string{
		"svg":             "svg",
		"frame":           "frame.svg",
		frameRasterFormat: "frame.png",
	}
	for format, want := range tests {
		if got := artifactExtension(format); got != want {
			t.Errorf("artifactExtension(%q) = %q, want %q", format, got, want)
		}
	}
}

func TestRasterizeFrameWithoutFrame(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	in := map[string][]byte{"json": []byte("{}")}
	out := c.rasterizeFrame(in, 1)
	if len(out) != 1 {
		t.Errorf("artifacts = %d, want 1", len(out))
	}
	if _, ok := out[frameRasterFormat]; ok {
		t.Error("no frame, so no PNG expected")
	}
}

func TestSeedCommand(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "catalog.json")
	if _, err := runCLI(t, "seed", jsonPath); err != nil {
		t.Fatal(err)
	}
	snap, err := source.NewFileSource(jsonPath).Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Songs) != 84 {
		t.Errorf("file songs = %d, want 84", len(snap.Songs))
	}

	dbPath := filepath.Join(dir, "catalog.db")
	if _, err := runCLI(t, "seed", "--to", "sqlite", "--from", jsonPath, dbPath); err != nil {
		t.Fatal(err)
	}
	db, err := source.OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	snap, err = db.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Songs) != 84 {
		t.Errorf("sqlite songs = %d, want 84", len(snap.Songs))
	}
}

func TestSeedCommandRejectsSample(t *testing.T) {
	if _, err := runCLI(t, "seed", "--to", "sample"); err == nil {
		t.Error("expected error when seeding the sample source")
	}
}

func TestCacheClear(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	path := writeTestConfig(t, "[cache]\nkind = \"file\"\ndir = \""+filepath.ToSlash(dir)+"\"\n")

	c := New(&strings.Builder{}, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"--config", path, "build", "--source", "sample", "-o", filepath.Join(t.TempDir(), "g.json")})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) == 0 {
		t.Fatal("build should have populated the cache")
	}

	root = c.RootCommand()
	root.SetArgs([]string{"--config", path, "cache", "clear"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("cache dir has %d entries after clear", len(entries))
	}
}

func TestCacheStatsRows(t *testing.T) {
	rows := cacheStatsRows(map[string]cache.KindStats{
		"other":             {Entries: 1, Bytes: 10},
		cache.KindArtifact: {Entries: 3, Bytes: 3 << 10, Expired: 1},
		cache.KindCatalog:  {Entries: 1, Bytes: 2 << 20},
		cache.KindGraph:    {Entries: 2, Bytes: 512},
	})
	want := [][]string{
		{"catalog", "1", "2.0 MiB", "0"},
		{"graph", "2", "512 B", "0"},
		{"artifact", "3", "3.0 KiB", "1"},
		{"other", "1", "10 B", "0"},
	}
	if len(rows) != len(want) {
		t.Fatalf("rows = %v", rows)
	}
	for i := range want {
		if strings.Join(rows[i], "|") != strings.Join(want[i], "|") {
			t.Errorf("row %d = %v, want %v", i, rows[i], want[i])
		}
	}
}

func TestCacheStatsCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	path := writeTestConfig(t, "[cache]\nkind = \"file\"\ndir = \""+filepath.ToSlash(dir)+"\"\n")

	c := New(&strings.Builder{}, LogInfo)
	for _, args := range [][]string{
		{"--config", path, "cache", "stats"},
		{"--config", path, "build", "--source", "sample", "-o", filepath.Join(t.TempDir(), "g.json")},
		{"--config", path, "cache", "stats"},
	} {
		root := c.RootCommand()
		root.SetArgs(args)
		if err := root.ExecuteContext(context.Background()); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	stats, err := fc.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats[cache.KindGraph].Entries != 1 {
		t.Errorf("stats after build = %+v", stats)
	}
}
