package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. It backs --no-cache runs and cache.kind = "none",
// so the pipeline can treat every run as a miss without nil checks.
type NullCache struct{}

// NewNullCache returns a cache that never hits.
func NewNullCache() Cache { return NullCache{} }

// Disabled reports whether c stores nothing, that is c is nil or a NullCache.
func Disabled(c Cache) bool {
	switch c.(type) {
	case nil, NullCache, *NullCache:
		return true
	}
	return false
}

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NullCache) Delete(context.Context, string) error { return nil }

func (NullCache) Clear(context.Context) error { return nil }

func (NullCache) Close() error { return nil }

var (
	_ Cache   = NullCache{}
	_ Clearer = NullCache{}
)
