package engine

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func initTestCache(t *testing.T, ttl time.Duration, maxEntries int) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	InitCache(ctx, "", ttl, maxEntries, time.Minute)
	t.Cleanup(func() {
		cancel()
		resultCache = nil
	})
}

func TestCacheKey(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		k1 := CacheKey("google", "golang context", "5")
		k2 := CacheKey("google", "golang context", "5")
		if k1 != k2 {
			t.Errorf("CacheKey not deterministic: %q != %q", k1, k2)
		}
	})

	t.Run("different inputs differ", func(t *testing.T) {
		if CacheKey("google", "golang") == CacheKey("google", "python") {
			t.Error("different inputs produced same key")
		}
	})

	t.Run("has prefix", func(t *testing.T) {
		if k := CacheKey("test"); k[:3] != "ow:" {
			t.Errorf("expected ow: prefix, got %q", k[:3])
		}
	})
}

func TestCacheDisabled(t *testing.T) {
	resultCache = nil
	CacheSet(context.Background(), "k", []byte("v"))
	if _, ok := CacheGet(context.Background(), "k"); ok {
		t.Error("expected miss with cache disabled")
	}
}

func TestCacheGetSet(t *testing.T) {
	initTestCache(t, time.Minute, 100)
	ctx := context.Background()
	key := CacheKey("test", "round-trip")

	if _, ok := CacheGet(ctx, key); ok {
		t.Error("expected cache miss on empty cache")
	}
	CacheSet(ctx, key, []byte("hello"))

	got, ok := CacheGet(ctx, key)
	if !ok {
		t.Fatal("expected cache hit after set")
	}
	if string(got) != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}
}

func TestCacheJSON(t *testing.T) {
	initTestCache(t, time.Minute, 100)
	ctx := context.Background()
	key := CacheKey("json")

	in := SearchResponse{Query: "q", TotalResults: "12", Results: []SearchResult{{Title: "t", Link: "https://a"}}}
	CacheStoreJSON(ctx, key, in)

	out, ok := CacheLoadJSON[SearchResponse](ctx, key)
	if !ok {
		t.Fatal("expected hit")
	}
	if out.Query != "q" || len(out.Results) != 1 || out.Results[0].Link != "https://a" {
		t.Errorf("round trip mismatch: %+v", out)
	}

	CacheSet(ctx, CacheKey("bad"), []byte("{not json"))
	if _, ok := CacheLoadJSON[SearchResponse](ctx, CacheKey("bad")); ok {
		t.Error("expected miss on corrupt entry")
	}
}

func TestCacheExpiration(t *testing.T) {
	initTestCache(t, time.Millisecond, 100)
	ctx := context.Background()
	key := CacheKey("test", "expiry")

	CacheSet(ctx, key, []byte("temp"))
	time.Sleep(5 * time.Millisecond)

	if _, ok := CacheGet(ctx, key); ok {
		t.Error("expected cache miss after TTL expiry")
	}
}

func TestCacheEviction(t *testing.T) {
	initTestCache(t, time.Minute, 3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		CacheSet(ctx, CacheKey("evict", fmt.Sprintf("item-%d", i)), []byte(fmt.Sprintf("v%d", i)))
	}

	count := 0
	resultCache.l1.Range(func(_, _ any) bool {
		count++
		return true
	})
	if count > 3 {
		t.Errorf("expected at most 3 entries after eviction, got %d", count)
	}
}

func TestCacheStats(t *testing.T) {
	initTestCache(t, time.Minute, 100)
	cacheHits.Store(0)
	cacheMisses.Store(0)

	ctx := context.Background()
	key := CacheKey("stats", "test")

	CacheGet(ctx, key)
	if _, misses := CacheStats(); misses != 1 {
		t.Errorf("misses = %d, want 1", misses)
	}

	CacheSet(ctx, key, []byte("x"))
	CacheGet(ctx, key)

	hits, misses := CacheStats()
	if hits != 1 {
		t.Errorf("hits = %d, want 1", hits)
	}
	if misses != 1 {
		t.Errorf("misses = %d, want 1", misses)
	}
}
