package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestDiscard(t *testing.T) {
	ctx := context.Background()
	c := Discard
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("Discard.Get should always miss")
	}
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, err := Load(ctx, c, "key"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Load should report ErrCacheMiss, got %v", err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "render:abc", []byte("%PDF"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, err := Load(ctx, c, "render:abc")
	if err != nil || string(data) != "%PDF" {
		t.Fatalf("Load = %q, %v", data, err)
	}

	if err := c.Delete(ctx, "render:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "render:abc"); hit {
		t.Error("entry should be gone after Delete")
	}
	if err := c.Delete(ctx, "render:abc"); err != nil {
		t.Errorf("deleting a missing key should succeed: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
}

func TestFileCacheCorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry should be a clean miss, got hit=%v err=%v", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	for i := range 3 {
		_ = c.Set(ctx, fmt.Sprintf("k%d", i), []byte("v"), 0)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("Clear left %d entries", len(entries))
	}
}

func TestInvalidKey(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	for _, key := range []string{"", "has space", "tab\tkey"} {
		if err := c.Set(ctx, key, nil, 0); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Set(%q) = %v, want ErrInvalidKey", key, err)
		}
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("MATHTYPE_TEST_REDIS")
	if addr == "" {
		t.Skip("MATHTYPE_TEST_REDIS not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, addr, "mathtype-test:")
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if data, err := Load(ctx, c, "k"); err != nil || string(data) != "v" {
		t.Fatalf("Load = %q, %v", data, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := Load(ctx, c, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss after delete, got %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestKey(t *testing.T) {
	k1 := Key("render", `\frac12`, 20.0, "display")
	k2 := Key("render", `\frac12`, 20.0, "text")
	if k1 == k2 {
		t.Error("different parts should produce different keys")
	}
	if k1[:7] != "render:" || len(k1) != 7+64 {
		t.Errorf("unexpected key format: %s", k1)
	}
}

func TestKeySeparatesInputs(t *testing.T) {
	k1 := Key("pdf", "ab", "c")
	if k1 == Key("pdf", "a", "bc") {
		t.Error("shifting characters between inputs should change the key")
	}
	if !strings.HasPrefix(k1, "pdf:") {
		t.Errorf("key %q should start with its kind", k1)
	}
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU[string, int](2)
	c.Add("a", 1)
	c.Add("b", 2)
	c.Get("a")
	c.Add("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("a = %d, %v", v, ok)
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestLRUPurgeAndRemove(t *testing.T) {
	c := NewLRU[string, int](0)
	c.Add("a", 1)
	c.Add("b", 2)
	if c.Len() != 1 {
		t.Errorf("capacity below one should hold one entry, Len = %d", c.Len())
	}
	c.Get("b")
	c.Get("a")
	c.Remove("b")
	if _, ok := c.Get("b"); ok {
		t.Error("b should have been removed")
	}
	c.Add("c", 3)
	c.Purge()
	if hits, misses := c.Stats(); hits != 0 || misses != 0 || c.Len() != 0 {
		t.Errorf("after Purge: Len = %d, Stats = %d/%d", c.Len(), hits, misses)
	}
}

func TestLRUFirstAddWins(t *testing.T) {
	c := NewLRU[string, int](4)
	if _, added := c.Add("k", 1); !added {
		t.Fatal("first Add should insert")
	}
	v, added := c.Add("k", 2)
	if added || v != 1 {
		t.Errorf("second Add = %d, %v; want 1, false", v, added)
	}
}

func TestLRUGetOrCompute(t *testing.T) {
	c := NewLRU[int, string](8)
	calls := 0
	compute := func() (string, error) {
		calls++
		return "x", nil
	}
	if v, hit, err := c.GetOrCompute(1, compute); err != nil || hit || v != "x" {
		t.Fatalf("first call = %q, %v, %v", v, hit, err)
	}
	if _, hit, _ := c.GetOrCompute(1, compute); !hit {
		t.Error("second call should hit")
	}
	if calls != 1 {
		t.Errorf("compute ran %d times", calls)
	}

	boom := errors.New("boom")
	if _, _, err := c.GetOrCompute(2, func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Errorf("error should propagate, got %v", err)
	}
	if _, ok := c.Get(2); ok {
		t.Error("errors must not be cached")
	}
	hits, misses := c.Stats()
	if hits != 1 || misses != 3 {
		t.Errorf("Stats = %d/%d, want 1/3", hits, misses)
	}
}

func TestLRUConcurrentCallersAgree(t *testing.T) {
	c := NewLRU[string, *int](4)
	var wg sync.WaitGroup
	results := make([]*int, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, _, _ := c.GetOrCompute("k", func() (*int, error) {
				n := i
				return &n, nil
			})
			results[i] = v
		}()
	}
	wg.Wait()
	for _, r := range results {
		if r != results[0] {
			t.Fatal("all callers should see the first stored value")
		}
	}
}
