package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.CatalogKey("mongo"); got != "catalog:mongo" {
		t.Errorf("CatalogKey unexpected: %s", got)
	}

	// GraphKey should include options in hash
	gk1 := k.GraphKey("hash123", GraphKeyOpts{Mode: "vibe", Dangling: "drop"})
	gk2 := k.GraphKey("hash123", GraphKeyOpts{Mode: "artist", Dangling: "drop"})
	if gk1 == gk2 {
		t.Error("Different GraphKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(gk1, "graph:") || len(gk1) != len("graph:")+64 {
		t.Errorf("GraphKey malformed: %s", gk1)
	}
	if gk1 != k.GraphKey("hash123", GraphKeyOpts{Mode: "vibe", Dangling: "drop"}) {
		t.Error("GraphKey should be deterministic")
	}

	// ArtifactKey
	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg", Zoom: 1})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png", Zoom: 1})
	ak3 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg", Zoom: 1, Pins: "abc"})
	if ak1 == ak2 || ak1 == ak3 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "tenant:123:")

	// All keys should be prefixed
	if got := scoped.CatalogKey("sqlite"); got != "tenant:123:catalog:sqlite" {
		t.Errorf("ScopedKeyer CatalogKey unexpected: %s", got)
	}

	graphKey := scoped.GraphKey("hash", GraphKeyOpts{})
	if graphKey != "tenant:123:"+inner.GraphKey("hash", GraphKeyOpts{}) {
		t.Errorf("ScopedKeyer GraphKey should be prefixed: %s", graphKey)
	}
	artifactKey := scoped.ArtifactKey("hash", ArtifactKeyOpts{Format: "svg"})
	if !strings.HasPrefix(artifactKey, "tenant:123:artifact:") {
		t.Errorf("ScopedKeyer ArtifactKey should be prefixed: %s", artifactKey)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.CatalogKey("file")
	if key != "prefix:catalog:file" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "k"); err != nil || hit {
		t.Fatalf("Get on empty cache = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, "k", []byte("payload"), time.Hour); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "payload" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry survived Delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "old", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "old"); hit {
		t.Error("expired entry returned")
	}

	if err := c.Set(ctx, "forever", []byte("x"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl missing")
	}
}

func TestFileCacheCorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("x"), 0); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.path("k"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if _, hit, _ := c.Get(ctx, k); hit {
			t.Errorf("%s survived Clear", k)
		}
	}
	if err := c.Set(ctx, "a", []byte("a"), 0); err != nil {
		t.Errorf("Set after Clear: %v", err)
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	ctx := context.Background()
	_, err := NewRedisCache(ctx, RedisConfig{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond})
	if err == nil {
		t.Fatal("expected error for unreachable redis")
	}
	if !IsRetryable(err) {
		t.Errorf("connection error should be retryable: %v", err)
	}
}

func TestRedisCacheKeyPrefix(t *testing.T) {
	c := NewRedisCacheFromClient(nil, "")
	if got := c.key("graph:abc"); got != "vibegraph:graph:abc" {
		t.Errorf("key = %q", got)
	}
	c = NewRedisCacheFromClient(nil, "test:")
	if got := c.key("x"); got != "test:x" {
		t.Errorf("key = %q", got)
	}
}

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(ErrUnavailable)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != ErrUnavailable.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(ErrNotFound) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Success on first try
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return ErrNotFound
	})
	if err != ErrNotFound {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrUnavailable)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrUnavailable)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestRetryAttempts(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return Retryable(ErrUnavailable)
	})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}

	calls = 0
	_ = Retry(context.Background(), 0, time.Millisecond, func() error {
		calls++
		return nil
	})
	if calls != 1 {
		t.Errorf("attempts < 1 should still call once, got %d", calls)
	}
}

func TestDisabled(t *testing.T) {
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		c    Cache
		want bool
	}{
		{"nil", nil, true},
		{"null", NewNullCache(), true},
		{"file", fc, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Disabled(tt.c); got != tt.want {
				t.Errorf("Disabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHashJSON(t *testing.T) {
	for _, v := range []any{nil, []string{}, map[string]int{}} {
		h, err := HashJSON(v)
		if err != nil {
			t.Fatal(err)
		}
		if h != "" {
			t.Errorf("HashJSON(%#v) = %q, want empty", v, h)
		}
	}

	a, _ := HashJSON(map[string]int{"song:1": 0, "song:2": 1, "song:3": 2})
	b, _ := HashJSON(map[string]int{"song:3": 2, "song:1": 0, "song:2": 1})
	if a == "" || a != b {
		t.Errorf("equal pins hash differently: %q vs %q", a, b)
	}
	c, _ := HashJSON(map[string]int{"song:1": 1, "song:2": 0, "song:3": 2})
	if a == c {
		t.Error("reordered pins should hash differently")
	}
}

func TestKeyKind(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"catalog:mongo:vibegraph", KindCatalog},
		{"graph:3fa9", KindGraph},
		{"artifact:075b", KindArtifact},
		{"cli:graph:3fa9", KindGraph},
		{"server:artifact:075b", KindArtifact},
		{"session:abc", ""},
		{"graphs", ""},
	}
	for _, tt := range tests {
		if got := KeyKind(tt.key); got != tt.want {
			t.Errorf("KeyKind(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestFileCacheLayout(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	path := c.path("cli:graph:3fa9")
	if rel, _ := filepath.Rel(dir, path); !strings.HasPrefix(rel, "graph"+string(filepath.Separator)) {
		t.Errorf("graph entry stored at %s", rel)
	}
	if rel, _ := filepath.Rel(dir, c.path("session:abc")); !strings.HasPrefix(rel, "other"+string(filepath.Separator)) {
		t.Errorf("unknown kind stored at %s", rel)
	}
}

func TestFileCacheForeignEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "graph:a", []byte("vibe"), 0); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(c.path("graph:a"))
	if err != nil {
		t.Fatal(err)
	}
	other := c.path("graph:b")
	if err := os.MkdirAll(filepath.Dir(other), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(other, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, ok, err := c.Get(ctx, "graph:b"); err != nil || ok {
		t.Errorf("Get(graph:b) = ok %v, err %v; want miss", ok, err)
	}
	if _, err := os.Stat(other); !os.IsNotExist(err) {
		t.Error("foreign entry should be removed")
	}
	if data, ok, _ := c.Get(ctx, "graph:a"); !ok || string(data) != "vibe" {
		t.Errorf("Get(graph:a) = %q, %v", data, ok)
	}
}

func TestFileCacheStats(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	entries := []struct {
		key string
		ttl time.Duration
	}{
		{"catalog:sqlite:catalog.db", 0},
		{"cli:graph:1", 0},
		{"cli:graph:2", 0},
		{"artifact:1", 0},
		{"artifact:2", time.Nanosecond},
		{"session:abc", 0},
	}
	for _, e := range entries {
		if err := c.Set(ctx, e.key, []byte("{}"), e.ttl); err != nil {
			t.Fatal(err)
		}
	}
	time.Sleep(time.Millisecond)

	stats, err := c.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]KindStats{
		KindCatalog:  {Entries: 1},
		KindGraph:    {Entries: 2},
		KindArtifact: {Entries: 2, Expired: 1},
		"other":      {Entries: 1},
	}
	if len(stats) != len(want) {
		t.Fatalf("stats = %+v", stats)
	}
	for kind, w := range want {
		got := stats[kind]
		if got.Entries != w.Entries || got.Expired != w.Expired {
			t.Errorf("%s = %+v, want entries %d expired %d", kind, got, w.Entries, w.Expired)
		}
		if got.Bytes == 0 {
			t.Errorf("%s bytes = 0", kind)
		}
	}
}
