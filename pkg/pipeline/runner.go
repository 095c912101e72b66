package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vibegraph/pkg/cache"
	"github.com/matzehuels/vibegraph/pkg/catalog"
	"github.com/matzehuels/vibegraph/pkg/catalog/source"
	"github.com/matzehuels/vibegraph/pkg/graph"
	"github.com/matzehuels/vibegraph/pkg/observability"
)

// Cache key types reported to observability.CacheHooks.
const (
	keyTypeCatalog  = "catalog"
	keyTypeGraph    = "graph"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the build → render pipeline on snap with caching.
func (r *Runner) Execute(ctx context.Context, snap catalog.Snapshot, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	snapHash, err := SnapshotHash(snap)
	if err != nil {
		return nil, err
	}
	result.SnapshotHash = snapHash

	// Stage 1: Build
	buildStart := time.Now()
	res, buildHit, err := r.BuildWithCacheInfo(ctx, snap, snapHash, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Build = res
	result.Stats.SongCount = len(snap.Songs)
	result.Stats.NodeCount = len(res.Graph.Nodes)
	result.Stats.LinkCount = len(res.Graph.Links)
	result.Stats.DanglingCount = len(res.Dangling)
	result.Stats.BuildTime = time.Since(buildStart)
	result.CacheInfo.BuildHit = buildHit

	if result.GraphHash, err = graph.Hash(res.Graph); err != nil {
		return nil, fmt.Errorf("hash graph: %w", err)
	}

	r.Logger.Info("built graph",
		"mode", res.Mode,
		"nodes", result.Stats.NodeCount,
		"links", result.Stats.LinkCount,
		"dangling", result.Stats.DanglingCount,
		"cached", buildHit,
		"duration", result.Stats.BuildTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, res, result.GraphHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// SnapshotHash returns the content hash of a catalogue snapshot.
func SnapshotHash(snap catalog.Snapshot) (string, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("hash snapshot: %w", err)
	}
	return cache.Hash(data), nil
}

// =============================================================================
// Load
// =============================================================================

// Load reads a snapshot from src. Snapshots from remote sources are cached
// under the source name for cache.TTLCatalog; local files and the sample
// catalogue are always read fresh. refresh bypasses the cache.
func (r *Runner) Load(ctx context.Context, src source.Source, refresh bool) (catalog.Snapshot, bool, error) {
	cacheable := isRemote(src)
	key := r.Keyer.CatalogKey(src.Name())
	hooks := observability.Cache()

	if cacheable && !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var snap catalog.Snapshot
			if err := json.Unmarshal(data, &snap); err == nil {
				hooks.OnCacheHit(ctx, keyTypeCatalog)
				r.Logger.Debug("catalog from cache", "source", src.Name())
				return snap.Denormalize(), true, nil
			}
		}
		hooks.OnCacheMiss(ctx, keyTypeCatalog)
	}

	snap, err := source.LoadWithRetry(ctx, src)
	if err != nil {
		return catalog.Snapshot{}, false, err
	}
	r.Logger.Info("loaded catalog", "source", src.Name(), "songs", len(snap.Songs))

	if cacheable {
		if data, err := json.Marshal(snap); err == nil {
			if err := r.Cache.Set(ctx, key, data, cache.TTLCatalog); err == nil {
				hooks.OnCacheSet(ctx, keyTypeCatalog, len(data))
			}
		}
	}
	return snap, false, nil
}

func isRemote(src source.Source) bool {
	switch src.(type) {
	case source.SampleSource, *source.FileSource, *source.SQLiteSource:
		return false
	}
	return true
}

// =============================================================================
// Build
// =============================================================================

// BuildWithCacheInfo builds the graph with caching and returns cache hit info.
// snapHash is the [SnapshotHash] of snap.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, snap catalog.Snapshot, snapHash string, opts Options) (graph.Result, bool, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return graph.Result{}, false, err
	}
	cacheKey := r.Keyer.GraphKey(snapHash, opts.GraphKeyOpts())
	hooks := observability.Cache()

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached graph.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				hooks.OnCacheHit(ctx, keyTypeGraph)
				return cached, true, nil
			}
			// If deserialization fails, fall through to rebuild
		}
		hooks.OnCacheMiss(ctx, keyTypeGraph)
	}

	res, err := Build(ctx, snap, opts)
	if err != nil {
		return graph.Result{}, false, err
	}

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLGraph); err == nil {
			hooks.OnCacheSet(ctx, keyTypeGraph, len(data))
		}
	}
	return res, false, nil
}

// Build derives the graph without caching, reporting to the pipeline hooks.
func Build(ctx context.Context, snap catalog.Snapshot, opts Options) (graph.Result, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return graph.Result{}, err
	}
	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, string(opts.Mode), len(snap.Songs))
	start := time.Now()

	res, err := graph.Build(snap, opts.Mode, graph.WithDangling(opts.Dangling))

	hooks.OnBuildComplete(ctx, string(opts.Mode), len(res.Graph.Nodes), len(res.Graph.Links), time.Since(start), err)
	if err != nil {
		return graph.Result{}, err
	}
	for _, d := range res.Dangling {
		opts.Logger.Warn("dangling reference", "song", d.Song, "target", d.Target, "policy", opts.Dangling)
	}
	return res, nil
}

// =============================================================================
// Render
// =============================================================================

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info. graphHash is the graph.Hash of res.Graph. The hit flag is only set
// when every requested format came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res graph.Result, graphHash string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	hooks := observability.Cache()

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(graphHash, opts.ResultKeyOpts(res, format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		hooks.OnCacheHit(ctx, keyTypeArtifact)
		return artifacts, true, nil
	}
	hooks.OnCacheMiss(ctx, keyTypeArtifact)

	rendered, err := Render(ctx, res, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(graphHash, opts.ResultKeyOpts(res, format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			hooks.OnCacheSet(ctx, keyTypeArtifact, len(data))
		}
	}
	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
