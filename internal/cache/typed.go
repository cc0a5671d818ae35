// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"
)

// TypedCache stores values of T as JSON in a Cacher.
//
// Every Delete or Clear advances a generation counter. GetOrSet drops the
// value it loaded when the generation moved while fn ran, so a read racing
// an invalidation never re-caches what was just invalidated.
type TypedCache[T any] struct {
	cache      Cacher
	defaultTTL time.Duration

	mu  sync.Mutex
	gen uint64
}

// NewTypedCache creates a new TypedCache wrapping the given cache implementation.
func NewTypedCache[T any](cache Cacher, defaultTTL time.Duration) *TypedCache[T] {
	return &TypedCache[T]{cache: cache, defaultTTL: defaultTTL}
}

// Get returns the cached value. Misses, backend errors and undecodable
// entries all report false.
func (c *TypedCache[T]) Get(ctx context.Context, key string) (T, bool) {
	var value T
	data, err := c.cache.Get(ctx, key)
	if err != nil {
		return value, false
	}
	if err := json.Unmarshal(data, &value); err != nil {
		var zero T
		return zero, false
	}
	return value, true
}

// Set stores a value in the cache with the default TTL.
func (c *TypedCache[T]) Set(ctx context.Context, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.cache.Set(ctx, key, data, c.defaultTTL)
}

// Delete removes a key from the cache.
func (c *TypedCache[T]) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	return c.cache.Delete(ctx, key)
}

// Clear empties the underlying cache.
func (c *TypedCache[T]) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	return c.cache.Clear(ctx)
}

// Invalidate advances the generation without touching the backend. Use it
// when another TypedCache sharing the same Cacher has already cleared it.
func (c *TypedCache[T]) Invalidate() {
	c.mu.Lock()
	c.gen++
	c.mu.Unlock()
}

func (c *TypedCache[T]) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// setIfCurrent stores value unless the generation moved past gen.
func (c *TypedCache[T]) setIfCurrent(ctx context.Context, key string, value T, gen uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return errStale
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.cache.Set(ctx, key, data, c.defaultTTL)
}

var errStale = errors.New("cache: invalidated during load")

// GetOrSet returns the cached value for key, or calls fn and caches its
// result. A failed or skipped cache write does not fail the call.
func (c *TypedCache[T]) GetOrSet(ctx context.Context, key string, fn func(context.Context) (T, error)) (T, error) {
	if value, ok := c.Get(ctx, key); ok {
		return value, nil
	}

	gen := c.generation()
	value, err := fn(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	_ = c.setIfCurrent(ctx, key, value, gen)
	return value, nil
}
