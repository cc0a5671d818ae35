// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func newTestMemoryCache(t *testing.T) (*MemoryCache, *time.Time) {
	t.Helper()
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	t.Cleanup(func() { _ = c.Close() })

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestMemoryCache_BasicOperations(t *testing.T) {
	c, _ := newTestMemoryCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "key1", []byte("value1"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, err := c.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(val) != "value1" {
		t.Errorf("expected value1, got %s", val)
	}

	has, err := c.Has(ctx, "key1")
	if err != nil || !has {
		t.Errorf("Has() = %v, %v; want true", has, err)
	}

	if err := c.Delete(ctx, "key1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := c.Get(ctx, "key1"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCache_ValuesAreCopied(t *testing.T) {
	c, _ := newTestMemoryCache(t)
	ctx := context.Background()

	in := []byte("abc")
	_ = c.Set(ctx, "k", in, 0)
	in[0] = 'X'

	out, _ := c.Get(ctx, "k")
	out[1] = 'Y'

	again, _ := c.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("stored value was mutated: %q", again)
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c, now := newTestMemoryCache(t)
	ctx := context.Background()

	_ = c.Set(ctx, "short", []byte("x"), time.Minute)
	_ = c.Set(ctx, "long", []byte("y"), 0)

	*now = now.Add(2 * time.Minute)

	if _, err := c.Get(ctx, "short"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expired entry: got %v, want ErrCacheMiss", err)
	}
	if has, _ := c.Has(ctx, "long"); !has {
		t.Error("entry with default TTL should still be present")
	}

	*now = now.Add(2 * time.Hour)
	c.removeExpired()
	if n := c.Stats().Items; n != 0 {
		t.Errorf("Items after sweep = %d, want 0", n)
	}
}

func TestMemoryCache_ClearAndPrefix(t *testing.T) {
	c, _ := newTestMemoryCache(t)
	ctx := context.Background()

	for _, k := range []string{"record:cv", "record:portfolio", "documents"} {
		_ = c.Set(ctx, k, []byte(k), 0)
	}

	if err := c.DeleteByPrefix(ctx, "record:"); err != nil {
		t.Fatalf("DeleteByPrefix: %v", err)
	}
	if n := c.Stats().Items; n != 1 {
		t.Errorf("Items = %d, want 1", n)
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if has, _ := c.Has(ctx, "documents"); has {
		t.Error("Clear should remove everything")
	}
}

func TestMemoryCache_Stats(t *testing.T) {
	c, _ := newTestMemoryCache(t)
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("v"), 0)
	_, _ = c.Get(ctx, "k")
	_, _ = c.Get(ctx, "k")
	_, _ = c.Get(ctx, "missing")

	s := c.Stats()
	if s.Backend != "memory" || s.Hits != 2 || s.Misses != 1 || s.Sets != 1 || s.Items != 1 {
		t.Errorf("unexpected stats: %+v", s)
	}
	if s.HitRate < 66 || s.HitRate > 67 {
		t.Errorf("HitRate = %v, want ~66.7", s.HitRate)
	}

	c.ResetStats()
	if s := c.Stats(); s.Hits != 0 || s.Misses != 0 || s.Sets != 0 {
		t.Errorf("stats not reset: %+v", s)
	}
}

func TestMemoryCache_Closed(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour, CleanupInterval: time.Millisecond})
	ctx := context.Background()

	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get after Close = %v", err)
	}
	if err := c.Set(ctx, "k", nil, 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set after Close = %v", err)
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i%5))
			for range 100 {
				_ = c.Set(ctx, key, []byte{byte(i)}, 0)
				_, _ = c.Get(ctx, key)
				_ = c.Delete(ctx, key)
			}
		}(i)
	}
	wg.Wait()
}

func TestBackendName(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{})
	defer func() { _ = c.Close() }()

	if got := BackendName(c); got != "memory" {
		t.Errorf("BackendName() = %q, want memory", got)
	}
}

func TestNew_FallsBackToMemory(t *testing.T) {
	c := New(context.Background(), Config{
		RedisURL:   "redis://127.0.0.1:1/0",
		DefaultTTL: time.Minute,
	}, nil)
	defer func() { _ = c.Close() }()

	if _, ok := c.(*MemoryCache); !ok {
		t.Errorf("expected memory fallback, got %T", c)
	}
}
