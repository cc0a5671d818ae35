// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service puts a read-through cache in front of the content
// repositories and keeps it coherent with the files on disk.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/yekta/folio/internal/cache"
	"github.com/yekta/folio/internal/store"
)

// Record names a structured content record.
type Record string

// Structured records served by the site.
const (
	RecordCV        Record = "cv"
	RecordPortfolio Record = "portfolio"
	RecordKnowledge Record = "knowledge-base"
)

// Records lists every Record in display order.
var Records = []Record{RecordCV, RecordPortfolio, RecordKnowledge}

// Cache keys.
const (
	keyDocuments    = "documents"
	keyRecordPrefix = "record:"
)

func recordKey(r Record) string { return keyRecordPrefix + string(r) }

// recordRepository is satisfied by store.RecordRepository and
// store.KnowledgeRepository.
type recordRepository interface {
	Read(ctx context.Context) (json.RawMessage, error)
	Write(ctx context.Context, obj json.RawMessage) error
}

// ContentService serves documents and records through the cache. Every
// mutation goes to the repository first and then invalidates the entry, so
// a failed write never leaves stale data cached.
type ContentService struct {
	repos   *store.Repositories
	cache   cache.Cacher
	docs    *cache.TypedCache[[]store.Document]
	records *cache.TypedCache[json.RawMessage]
	byName  map[Record]recordRepository
	logger  *slog.Logger
}

// NewContentService creates a ContentService caching entries for ttl.
func NewContentService(repos *store.Repositories, c cache.Cacher, ttl time.Duration, logger *slog.Logger) *ContentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContentService{
		repos:   repos,
		cache:   c,
		docs:    cache.NewTypedCache[[]store.Document](c, ttl),
		records: cache.NewTypedCache[json.RawMessage](c, ttl),
		byName: map[Record]recordRepository{
			RecordCV:        repos.CV,
			RecordPortfolio: repos.Portfolio,
			RecordKnowledge: repos.Knowledge,
		},
		logger: logger,
	}
}

// Cache returns the underlying cache.
func (s *ContentService) Cache() cache.Cacher { return s.cache }

// ListDocuments returns every document in storage order.
func (s *ContentService) ListDocuments(ctx context.Context) ([]store.Document, error) {
	return s.docs.GetOrSet(ctx, keyDocuments, s.repos.Documents.List)
}

// GetDocument returns one document.
func (s *ContentService) GetDocument(ctx context.Context, id string) (store.Document, error) {
	return s.repos.Documents.Get(ctx, id)
}

// CreateDocument stores a new document.
func (s *ContentService) CreateDocument(ctx context.Context, in store.DocumentInput) (store.Document, error) {
	doc, err := s.repos.Documents.Create(ctx, in)
	if err != nil {
		return doc, err
	}
	s.invalidate(ctx, keyDocuments)
	s.logger.Info("document created", "id", doc.ID, "words", doc.WordCount)
	return doc, nil
}

// UpdateDocument replaces the editable fields of a document.
func (s *ContentService) UpdateDocument(ctx context.Context, id string, in store.DocumentInput) (store.Document, error) {
	doc, err := s.repos.Documents.Update(ctx, id, in)
	if err != nil {
		return doc, err
	}
	s.invalidate(ctx, keyDocuments)
	s.logger.Info("document updated", "id", id, "words", doc.WordCount)
	return doc, nil
}

// DeleteDocument removes a document.
func (s *ContentService) DeleteDocument(ctx context.Context, id string) error {
	if err := s.repos.Documents.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, keyDocuments)
	s.logger.Info("document deleted", "id", id)
	return nil
}

// ReadRecord returns the named record.
func (s *ContentService) ReadRecord(ctx context.Context, name Record) (json.RawMessage, error) {
	repo, err := s.repo(name)
	if err != nil {
		return nil, err
	}
	return s.records.GetOrSet(ctx, recordKey(name), repo.Read)
}

// SaveRecord replaces the named record.
func (s *ContentService) SaveRecord(ctx context.Context, name Record, obj json.RawMessage) error {
	repo, err := s.repo(name)
	if err != nil {
		return err
	}
	if err := repo.Write(ctx, obj); err != nil {
		return err
	}
	s.invalidate(ctx, recordKey(name))
	s.logger.Info("record saved", "record", name, "bytes", len(obj))
	return nil
}

func (s *ContentService) repo(name Record) (recordRepository, error) {
	repo, ok := s.byName[name]
	if !ok {
		return nil, &store.Error{
			Kind:    store.KindNotFound,
			Op:      "service.record",
			Message: fmt.Sprintf("unknown record %q", name),
		}
	}
	return repo, nil
}

// InvalidateFile drops whatever is cached for a data file name. Unknown
// names are ignored.
func (s *ContentService) InvalidateFile(ctx context.Context, name string) bool {
	key, ok := fileKeys[name]
	if !ok {
		return false
	}
	s.invalidate(ctx, key)
	return true
}

var fileKeys = map[string]string{
	store.DocumentsFile:     keyDocuments,
	store.CVFile:            recordKey(RecordCV),
	store.PortfolioFile:     recordKey(RecordPortfolio),
	store.KnowledgeBaseFile: recordKey(RecordKnowledge),
}

func (s *ContentService) invalidate(ctx context.Context, key string) {
	var err error
	if key == keyDocuments {
		err = s.docs.Delete(ctx, key)
	} else {
		err = s.records.Delete(ctx, key)
	}
	if err != nil {
		s.logger.Warn("cache invalidation failed", "key", key, "error", err)
	}
}

// clearAll drops every cached entry.
func (s *ContentService) clearAll(ctx context.Context) error {
	s.records.Invalidate()
	return s.docs.Clear(ctx)
}
