// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDocumentStore(t *testing.T) *DocumentStore {
	t.Helper()
	return NewDocumentStore(filepath.Join(t.TempDir(), DocumentsFile))
}

func strPtr(s string) *string { return &s }

func TestDocumentStore_ListMissingFile(t *testing.T) {
	s := newTestDocumentStore(t)

	docs, err := s.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)

	_, statErr := os.Stat(s.Path())
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "list must not create the file")
}

func TestDocumentStore_CreateThenList(t *testing.T) {
	ctx := context.Background()
	s := newTestDocumentStore(t)

	created, err := s.Create(ctx, DocumentInput{Title: "Notes", Content: "  a  b   c "})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, DefaultCategory, created.Category)
	assert.Equal(t, []string{}, created.Tags)
	assert.Equal(t, 3, created.WordCount)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	docs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Notes", docs[0].Title)
	assert.Equal(t, "  a  b   c ", docs[0].Content)
	assert.Equal(t, 3, docs[0].WordCount)
	assert.Equal(t, created.ID, docs[0].ID)
}

func TestDocumentStore_CreateKeepsCategoryAndTags(t *testing.T) {
	ctx := context.Background()
	s := newTestDocumentStore(t)

	doc, err := s.Create(ctx, DocumentInput{
		Title:    "Reading list",
		Content:  "Dune",
		Category: strPtr("Books"),
		Tags:     []string{"sf", "classics"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Books", doc.Category)
	assert.Equal(t, []string{"sf", "classics"}, doc.Tags)
}

func TestDocumentStore_CreateValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestDocumentStore(t)

	tests := []struct {
		name string
		in   DocumentInput
	}{
		{"missing title", DocumentInput{Content: "body"}},
		{"missing content", DocumentInput{Title: "title"}},
		{"both missing", DocumentInput{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(ctx, tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, KindValidation, KindOf(err))
		})
	}

	docs, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDocumentStore_CreateRetriesCollidingIDs(t *testing.T) {
	ctx := context.Background()
	s := newTestDocumentStore(t)

	ids := []string{"fixed", "fixed", "", "fixed", "second"}
	s.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	first, err := s.Create(ctx, DocumentInput{Title: "a", Content: "a"})
	require.NoError(t, err)
	second, err := s.Create(ctx, DocumentInput{Title: "b", Content: "b"})
	require.NoError(t, err)

	assert.Equal(t, "fixed", first.ID)
	assert.Equal(t, "second", second.ID)
}

func TestDocumentStore_Update(t *testing.T) {
	ctx := context.Background()
	s := newTestDocumentStore(t)

	created := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)
	s.now = func() time.Time { return created }

	doc, err := s.Create(ctx, DocumentInput{
		Title:    "Draft",
		Content:  "one two",
		Category: strPtr("Ideas"),
		Tags:     []string{"wip"},
	})
	require.NoError(t, err)

	s.now = func() time.Time { return updated }
	got, err := s.Update(ctx, doc.ID, DocumentInput{Title: "Final", Content: "one two three four"})
	require.NoError(t, err)

	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, "Final", got.Title)
	assert.Equal(t, 4, got.WordCount)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, updated, got.UpdatedAt)
	assert.Equal(t, "Ideas", got.Category, "absent category keeps stored value")
	assert.Equal(t, []string{"wip"}, got.Tags, "absent tags keep stored value")

	got, err = s.Update(ctx, doc.ID, DocumentInput{Title: "Final", Content: "x", Tags: []string{}})
	require.NoError(t, err)
	assert.Equal(t, []string{}, got.Tags)

	stored, err := s.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, got, stored)
}

func TestDocumentStore_UpdateMissingIDDoesNotMutate(t *testing.T) {
	ctx := context.Background()
	s := newTestDocumentStore(t)

	_, err := s.Create(ctx, DocumentInput{Title: "keep", Content: "me"})
	require.NoError(t, err)
	before, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	_, err = s.Update(ctx, "does-not-exist", DocumentInput{Title: "x", Content: "y"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	after, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestDocumentStore_UpdateValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestDocumentStore(t)

	_, err := s.Update(ctx, "", DocumentInput{Title: "x", Content: "y"})
	assert.ErrorIs(t, err, ErrValidation)

	// validation is checked before existence
	_, err = s.Update(ctx, "missing", DocumentInput{Title: "x"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDocumentStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := newTestDocumentStore(t)

	a, err := s.Create(ctx, DocumentInput{Title: "a", Content: "a"})
	require.NoError(t, err)
	b, err := s.Create(ctx, DocumentInput{Title: "b", Content: "b"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, a.ID))

	docs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, b.ID, docs[0].ID)

	err = s.Delete(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	docs, err = s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestDocumentStore_GetMissing(t *testing.T) {
	_, err := newTestDocumentStore(t).Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentStore_CorruptFile(t *testing.T) {
	ctx := context.Background()
	s := newTestDocumentStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o644))

	_, err := s.List(ctx)
	assert.ErrorIs(t, err, ErrParse)

	_, err = s.Create(ctx, DocumentInput{Title: "a", Content: "b"})
	assert.ErrorIs(t, err, ErrParse)

	data, readErr := os.ReadFile(s.Path())
	require.NoError(t, readErr)
	assert.Equal(t, "{not json", string(data), "failed mutation leaves file intact")
}

func TestDocumentStore_ReadsLegacyTimestamps(t *testing.T) {
	s := newTestDocumentStore(t)
	legacy := `[{"id":"1700000000000","title":"Old","content":"from the old site","category":"General",` +
		`"createdAt":"2024-03-01T12:00:00.000Z","updatedAt":"2024-03-02T08:30:00.000Z","wordCount":4}]`
	require.NoError(t, os.WriteFile(s.Path(), []byte(legacy), 0o644))

	docs, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "1700000000000", docs[0].ID)
	assert.Equal(t, []string{}, docs[0].Tags)
	assert.Equal(t, 2024, docs[0].CreatedAt.Year())
}

func TestDocumentStore_NoTempFilesLeft(t *testing.T) {
	ctx := context.Background()
	s := newTestDocumentStore(t)

	for i := 0; i < 5; i++ {
		_, err := s.Create(ctx, DocumentInput{Title: "t", Content: "c"})
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, IsTempFile(e.Name()), "leftover temp file %s", e.Name())
	}
}
