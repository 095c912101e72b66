// Package cache provides the byte cache shared by the CLI, the API server and
// the pipeline.
//
// Entries are opaque byte slices stored under string keys produced by a
// [Keyer]. Backends:
//   - [FileCache]: one JSON file per entry, for CLI usage
//   - [RedisCache]: Redis-backed, for servers
//   - [NullCache]: stores nothing, for --no-cache and tests
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	// TTLCatalog bounds how long a snapshot loaded from a remote source is
	// reused before the source is queried again.
	TTLCatalog = 10 * time.Minute

	// TTLGraph is the lifetime of a build result. Builds are keyed by the
	// snapshot hash, so a changed catalogue never hits a stale entry.
	TTLGraph = 24 * time.Hour

	// TTLArtifact is the lifetime of a rendered artifact.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores byte payloads under string keys.
type Cache interface {
	// Get returns the entry for key. A miss is reported as hit == false with
	// a nil error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl <= 0 stores without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}
