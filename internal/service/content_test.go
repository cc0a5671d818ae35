// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yekta/folio/internal/cache"
	"github.com/yekta/folio/internal/store"
)

func newTestContentService(t *testing.T) (*ContentService, *cache.MemoryCache) {
	t.Helper()
	dir := t.TempDir()
	mc := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Hour})
	t.Cleanup(func() { _ = mc.Close() })
	return NewContentService(store.Open(dir, nil), mc, time.Hour, nil), mc
}

func TestContentService_DocumentsAreCached(t *testing.T) {
	s, mc := newTestContentService(t)
	ctx := context.Background()

	docs, err := s.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.NotNil(t, docs)

	has, _ := mc.Has(ctx, keyDocuments)
	assert.True(t, has, "list should populate the cache")

	doc, err := s.CreateDocument(ctx, store.DocumentInput{Title: "Notes", Content: "one two"})
	require.NoError(t, err)

	has, _ = mc.Has(ctx, keyDocuments)
	assert.False(t, has, "create should invalidate the list")

	docs, err = s.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, doc.ID, docs[0].ID)
	assert.Equal(t, 2, docs[0].WordCount)
}

func TestContentService_DocumentMutations(t *testing.T) {
	s, _ := newTestContentService(t)
	ctx := context.Background()

	doc, err := s.CreateDocument(ctx, store.DocumentInput{Title: "A", Content: "x"})
	require.NoError(t, err)
	_, _ = s.ListDocuments(ctx)

	_, err = s.UpdateDocument(ctx, doc.ID, store.DocumentInput{Title: "B", Content: "x y z"})
	require.NoError(t, err)

	got, err := s.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", got.Title)

	docs, _ := s.ListDocuments(ctx)
	assert.Equal(t, "B", docs[0].Title, "update should invalidate the list")

	require.NoError(t, s.DeleteDocument(ctx, doc.ID))
	docs, _ = s.ListDocuments(ctx)
	assert.Empty(t, docs)

	assert.ErrorIs(t, s.DeleteDocument(ctx, doc.ID), store.ErrNotFound)
}

func TestContentService_FailedWriteKeepsCache(t *testing.T) {
	s, mc := newTestContentService(t)
	ctx := context.Background()

	_, _ = s.ListDocuments(ctx)
	_, err := s.CreateDocument(ctx, store.DocumentInput{Title: "", Content: "x"})
	assert.ErrorIs(t, err, store.ErrValidation)

	has, _ := mc.Has(ctx, keyDocuments)
	assert.True(t, has)
}

func TestContentService_Records(t *testing.T) {
	s, mc := newTestContentService(t)
	ctx := context.Background()

	cv := json.RawMessage(`{"name":"Yekta","skills":["go","ts"]}`)
	require.NoError(t, s.SaveRecord(ctx, RecordCV, cv))

	got, err := s.ReadRecord(ctx, RecordCV)
	require.NoError(t, err)
	assert.JSONEq(t, string(cv), string(got))

	has, _ := mc.Has(ctx, recordKey(RecordCV))
	assert.True(t, has)

	kb, err := s.ReadRecord(ctx, RecordKnowledge)
	require.NoError(t, err)
	assert.JSONEq(t, string(store.DefaultKnowledgeBase()), string(kb))

	_, err = s.ReadRecord(ctx, RecordPortfolio)
	assert.ErrorIs(t, err, store.ErrIO, "missing portfolio file")

	_, err = s.ReadRecord(ctx, Record("blog"))
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = s.SaveRecord(ctx, RecordCV, json.RawMessage(`[1,2]`))
	assert.ErrorIs(t, err, store.ErrValidation)
}

func TestContentService_InvalidateFile(t *testing.T) {
	s, mc := newTestContentService(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(s.repos.Dir, store.CVFile),
		[]byte("export const cvData = {\"v\":1};\n"), 0o644))
	_, err := s.ReadRecord(ctx, RecordCV)
	require.NoError(t, err)

	assert.False(t, s.InvalidateFile(ctx, "notes.txt"))
	assert.True(t, s.InvalidateFile(ctx, store.CVFile))

	has, _ := mc.Has(ctx, recordKey(RecordCV))
	assert.False(t, has)
}

func TestContentService_ClearAll(t *testing.T) {
	s, mc := newTestContentService(t)
	ctx := context.Background()

	_, err := s.ListDocuments(ctx)
	require.NoError(t, err)
	_, err = s.ReadRecord(ctx, RecordKnowledge)
	require.NoError(t, err)

	require.NoError(t, s.clearAll(ctx))

	for _, key := range []string{keyDocuments, recordKey(RecordKnowledge)} {
		has, _ := mc.Has(ctx, key)
		assert.False(t, has, key)
	}
}
