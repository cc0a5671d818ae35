// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

func TestTypedCache_GetOrSet(t *testing.T) {
	mc := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = mc.Close() }()
	tc := NewTypedCache[[]entry](mc, time.Minute)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) ([]entry, error) {
		calls++
		return []entry{{Title: "Notes", Tags: []string{"go"}}}, nil
	}

	got, err := tc.GetOrSet(ctx, "documents", load)
	require.NoError(t, err)
	assert.Equal(t, "Notes", got[0].Title)

	got, err = tc.GetOrSet(ctx, "documents", load)
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, got[0].Tags)
	assert.Equal(t, 1, calls, "second call must be served from cache")

	require.NoError(t, tc.Delete(ctx, "documents"))
	_, err = tc.GetOrSet(ctx, "documents", load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestTypedCache_LoaderError(t *testing.T) {
	mc := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = mc.Close() }()
	tc := NewTypedCache[entry](mc, time.Minute)

	boom := errors.New("read failed")
	_, err := tc.GetOrSet(context.Background(), "k", func(context.Context) (entry, error) {
		return entry{}, boom
	})
	assert.ErrorIs(t, err, boom)

	_, ok := tc.Get(context.Background(), "k")
	assert.False(t, ok, "failures must not be cached")
}

func TestTypedCache_RawJSON(t *testing.T) {
	mc := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = mc.Close() }()
	tc := NewTypedCache[json.RawMessage](mc, time.Minute)
	ctx := context.Background()

	require.NoError(t, tc.Set(ctx, "record:cv", json.RawMessage(`{"name":"Yekta","years":[2023,2024]}`)))

	got, ok := tc.Get(ctx, "record:cv")
	require.True(t, ok)
	assert.JSONEq(t, `{"name":"Yekta","years":[2023,2024]}`, string(got))
}

func TestTypedCache_UndecodableEntry(t *testing.T) {
	mc := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = mc.Close() }()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", []byte("not json"), 0))

	tc := NewTypedCache[entry](mc, time.Minute)
	_, ok := tc.Get(ctx, "k")
	assert.False(t, ok)
}

func TestTypedCache_GetOrSetInvalidatedDuringLoad(t *testing.T) {
	mc := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = mc.Close() }()
	tc := NewTypedCache[[]entry](mc, time.Minute)
	ctx := context.Background()

	// A write lands and invalidates the key while the old list is loading.
	got, err := tc.GetOrSet(ctx, "documents", func(ctx context.Context) ([]entry, error) {
		require.NoError(t, tc.Delete(ctx, "documents"))
		return []entry{{Title: "old"}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "old", got[0].Title, "the loaded value is still returned")

	_, ok := tc.Get(ctx, "documents")
	assert.False(t, ok, "a value loaded before the invalidation must not be cached")

	got, err = tc.GetOrSet(ctx, "documents", func(context.Context) ([]entry, error) {
		return []entry{{Title: "new"}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "new", got[0].Title)

	cached, ok := tc.Get(ctx, "documents")
	require.True(t, ok)
	assert.Equal(t, "new", cached[0].Title)
}

func TestTypedCache_ClearAndInvalidate(t *testing.T) {
	mc := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = mc.Close() }()
	ctx := context.Background()
	docs := NewTypedCache[[]entry](mc, time.Minute)
	records := NewTypedCache[json.RawMessage](mc, time.Minute)

	require.NoError(t, records.Set(ctx, "record:cv", json.RawMessage(`{}`)))
	_, err := docs.GetOrSet(ctx, "documents", func(ctx context.Context) ([]entry, error) {
		require.NoError(t, docs.Clear(ctx))
		return []entry{{Title: "old"}}, nil
	})
	require.NoError(t, err)
	_, ok := docs.Get(ctx, "documents")
	assert.False(t, ok)
	_, ok = records.Get(ctx, "record:cv")
	assert.False(t, ok, "Clear empties the shared backend")

	_, err = records.GetOrSet(ctx, "record:cv", func(context.Context) (json.RawMessage, error) {
		records.Invalidate()
		return json.RawMessage(`{"stale":true}`), nil
	})
	require.NoError(t, err)
	_, ok = records.Get(ctx, "record:cv")
	assert.False(t, ok)
}
