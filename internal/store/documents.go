// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store persists site content as flat files in the data directory.
//
// Every mutating operation reads the whole backing file, changes it in memory
// and writes the whole file back through an atomic rename. There is no
// locking and no version token: two writers racing on the same file are
// last-write-wins and the loser's change is silently lost. The site has a
// single operator, so this is accepted, but callers that add concurrent
// writers must serialize them themselves.
package store

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultCategory is assigned to documents created without a category.
const DefaultCategory = "General"

// DocumentsFile is the backing file name of the document collection.
const DocumentsFile = "documents.json"

// Document is a free-form note in the list-form collection.
type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	WordCount int       `json:"wordCount"`
}

// DocumentInput carries the caller-supplied fields of a create or update.
// A nil Category or Tags means the field was not supplied.
type DocumentInput struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category *string  `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// DocumentStore manages the document collection in a single JSON file.
type DocumentStore struct {
	path  string
	now   func() time.Time
	newID func() string
}

// NewDocumentStore creates a store backed by path.
func NewDocumentStore(path string) *DocumentStore {
	return &DocumentStore{
		path:  path,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// Path returns the backing file path.
func (s *DocumentStore) Path() string {
	return s.path
}

// List returns all documents in storage order. A missing file is an empty collection.
func (s *DocumentStore) List(_ context.Context) ([]Document, error) {
	return s.load("documents.list")
}

// Get returns the document with the given id.
func (s *DocumentStore) Get(_ context.Context, id string) (Document, error) {
	const op = "documents.get"
	docs, err := s.load(op)
	if err != nil {
		return Document{}, err
	}
	i := indexOf(docs, id)
	if i < 0 {
		return Document{}, notFoundError(op, id)
	}
	return docs[i], nil
}

// Create validates in, appends a new document and persists the collection.
func (s *DocumentStore) Create(_ context.Context, in DocumentInput) (Document, error) {
	const op = "documents.create"
	if err := validateInput(op, in); err != nil {
		return Document{}, err
	}

	docs, err := s.load(op)
	if err != nil {
		return Document{}, err
	}

	now := s.now()
	doc := Document{
		ID:        s.uniqueID(docs),
		Title:     in.Title,
		Content:   in.Content,
		Category:  DefaultCategory,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
		WordCount: WordCount(in.Content),
	}
	if in.Category != nil && *in.Category != "" {
		doc.Category = *in.Category
	}
	if in.Tags != nil {
		doc.Tags = slices.Clone(in.Tags)
	}

	docs = append(docs, doc)
	if err := s.save(op, docs); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Update replaces title and content of an existing document. Category and
// tags are replaced only when supplied. CreatedAt is preserved.
func (s *DocumentStore) Update(_ context.Context, id string, in DocumentInput) (Document, error) {
	const op = "documents.update"
	if id == "" {
		return Document{}, validationError(op, "id is required")
	}
	if err := validateInput(op, in); err != nil {
		return Document{}, err
	}

	docs, err := s.load(op)
	if err != nil {
		return Document{}, err
	}
	i := indexOf(docs, id)
	if i < 0 {
		return Document{}, notFoundError(op, id)
	}

	doc := docs[i]
	doc.Title = in.Title
	doc.Content = in.Content
	if in.Category != nil {
		doc.Category = *in.Category
		if doc.Category == "" {
			doc.Category = DefaultCategory
		}
	}
	if in.Tags != nil {
		doc.Tags = slices.Clone(in.Tags)
	}
	doc.UpdatedAt = s.now()
	doc.WordCount = WordCount(doc.Content)

	docs[i] = doc
	if err := s.save(op, docs); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Delete removes exactly one document and persists the remaining collection.
func (s *DocumentStore) Delete(_ context.Context, id string) error {
	const op = "documents.delete"
	if id == "" {
		return validationError(op, "id is required")
	}

	docs, err := s.load(op)
	if err != nil {
		return err
	}
	i := indexOf(docs, id)
	if i < 0 {
		return notFoundError(op, id)
	}

	return s.save(op, slices.Delete(docs, i, i+1))
}

func (s *DocumentStore) load(op string) ([]Document, error) {
	data, ok, err := readFile(s.path)
	if err != nil {
		return nil, ioError(op, "reading documents", err)
	}
	if !ok || len(strings.TrimSpace(string(data))) == 0 {
		return []Document{}, nil
	}

	var docs []Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, parseError(op, "documents file is not a JSON array of documents", err)
	}
	if docs == nil {
		docs = []Document{}
	}
	for i := range docs {
		if docs[i].Tags == nil {
			docs[i].Tags = []string{}
		}
	}
	return docs, nil
}

func (s *DocumentStore) save(op string, docs []Document) error {
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return ioError(op, "encoding documents", err)
	}
	if err := writeFileAtomic(s.path, append(data, '\n')); err != nil {
		return ioError(op, "writing documents", err)
	}
	return nil
}

// uniqueID draws ids until one is absent from docs.
func (s *DocumentStore) uniqueID(docs []Document) string {
	for {
		id := s.newID()
		if id != "" && indexOf(docs, id) < 0 {
			return id
		}
	}
}

func validateInput(op string, in DocumentInput) error {
	switch {
	case in.Title == "":
		return validationError(op, "title is required")
	case in.Content == "":
		return validationError(op, "content is required")
	}
	return nil
}

func indexOf(docs []Document, id string) int {
	return slices.IndexFunc(docs, func(d Document) bool { return d.ID == id })
}
