// Package source loads catalogue snapshots from storage backends.
//
// A [Source] returns the whole catalogue at once as a [catalog.Snapshot] with
// embedded refs filled in. Backends:
//   - [FileSource]: a JSON document {"songs":[],"artists":[],"vibes":[]}
//   - [MongoSource]: collections songs, artists and vibes
//   - [SQLiteSource]: tables songs, artists, vibes and song_vibes
//
// Every backend also implements [Writer] so the CLI can seed it.
package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/vibegraph/pkg/cache"
	"github.com/matzehuels/vibegraph/pkg/catalog"
	verrors "github.com/matzehuels/vibegraph/pkg/errors"
	"github.com/matzehuels/vibegraph/pkg/observability"
)

// Source kinds.
const (
	KindFile   = "file"
	KindMongo  = "mongo"
	KindSQLite = "sqlite"
	KindSample = "sample"
)

// Source loads a catalogue snapshot.
type Source interface {
	// Load returns the full, denormalized snapshot.
	Load(ctx context.Context) (catalog.Snapshot, error)

	// Name identifies the source in logs and cache keys.
	Name() string

	// Close releases connections held by the source.
	Close() error
}

// Writer is implemented by sources that can store a snapshot, replacing the
// previous contents.
type Writer interface {
	Save(ctx context.Context, snap catalog.Snapshot) error
}

// Config selects and configures a source.
type Config struct {
	Kind string

	// Path is the JSON file or SQLite database.
	Path string

	MongoURI      string
	MongoDatabase string
	MongoTimeout  time.Duration
}

// Open creates the source described by cfg.
func Open(ctx context.Context, cfg Config) (Source, error) {
	switch strings.ToLower(cfg.Kind) {
	case "", KindFile:
		if cfg.Path == "" {
			return nil, verrors.New(verrors.ErrCodeInvalidInput, "file source requires a path")
		}
		return NewFileSource(cfg.Path), nil
	case KindSQLite:
		if cfg.Path == "" {
			return nil, verrors.New(verrors.ErrCodeInvalidInput, "sqlite source requires a path")
		}
		return OpenSQLite(ctx, cfg.Path)
	case KindMongo:
		return NewMongoSource(ctx, MongoConfig{URI: cfg.MongoURI, Database: cfg.MongoDatabase, Timeout: cfg.MongoTimeout})
	case KindSample:
		return Sample(), nil
	default:
		return nil, verrors.New(verrors.ErrCodeInvalidInput, "unknown source kind %q (want file, sqlite, mongo or sample)", cfg.Kind)
	}
}

// retryDelay is the first backoff delay of LoadWithRetry.
var retryDelay = time.Second

// LoadWithRetry loads from src, retrying transient failures with exponential
// backoff. The loaded snapshot is validated.
func LoadWithRetry(ctx context.Context, src Source) (catalog.Snapshot, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, src.Name())
	start := time.Now()

	var snap catalog.Snapshot
	err := cache.Retry(ctx, 3, retryDelay, func() error {
		var err error
		snap, err = src.Load(ctx)
		return err
	})
	if err == nil {
		err = snap.Validate()
	}
	hooks.OnLoadComplete(ctx, src.Name(), len(snap.Songs), time.Since(start), err)
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("load %s: %w", src.Name(), err)
	}
	return snap, nil
}

// =============================================================================
// Sample source
// =============================================================================

// SampleSource serves the built-in demo catalogue.
type SampleSource struct{}

// Sample returns a source for the demo catalogue.
func Sample() SampleSource { return SampleSource{} }

// Load returns catalog.Sample().
func (SampleSource) Load(context.Context) (catalog.Snapshot, error) { return catalog.Sample(), nil }

// Name returns "sample".
func (SampleSource) Name() string { return KindSample }

// Close does nothing.
func (SampleSource) Close() error { return nil }

var _ Source = SampleSource{}
