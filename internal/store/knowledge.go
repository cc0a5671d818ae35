// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
)

// KnowledgeBaseFile is the backing file name of the knowledge-base tree.
const KnowledgeBaseFile = "knowledge-base.json"

// defaultKnowledgeBase is written the first time the tree is read from an
// empty data directory.
var defaultKnowledgeBase = json.RawMessage(`{
  "overview": "Personal knowledge base.",
  "personal": {},
  "education": {},
  "creative": {},
  "research": {},
  "technical": {}
}`)

// DefaultKnowledgeBase returns a copy of the tree used when nothing is stored yet.
func DefaultKnowledgeBase() json.RawMessage {
	var buf bytes.Buffer
	_ = json.Compact(&buf, defaultKnowledgeBase)
	return buf.Bytes()
}

// KnowledgeRepository persists the knowledge-base tree as plain JSON.
type KnowledgeRepository struct {
	path   string
	logger *slog.Logger
}

// NewKnowledgeRepository creates a repository backed by path.
// A nil logger falls back to slog.Default().
func NewKnowledgeRepository(path string, logger *slog.Logger) *KnowledgeRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &KnowledgeRepository{path: path, logger: logger}
}

// Path returns the backing file path.
func (r *KnowledgeRepository) Path() string {
	return r.path
}

// Read returns the stored tree. When the file does not exist the default
// tree is written and returned. An unreadable or corrupt file also yields
// the default tree, but the file is left untouched.
func (r *KnowledgeRepository) Read(_ context.Context) (json.RawMessage, error) {
	const op = "knowledge.read"

	data, ok, err := readFile(r.path)
	if err != nil {
		r.logger.Warn("knowledge base unreadable, serving default", "path", r.path, "error", err)
		return DefaultKnowledgeBase(), nil
	}
	if !ok {
		tree := DefaultKnowledgeBase()
		if err := r.write(op, tree); err != nil {
			r.logger.Warn("failed to persist default knowledge base", "path", r.path, "error", err)
			return tree, nil
		}
		r.logger.Info("knowledge base initialized", "path", r.path)
		return tree, nil
	}

	if err := requireObject(data); err != nil {
		r.logger.Warn("knowledge base corrupt, serving default", "path", r.path, "error", err)
		return DefaultKnowledgeBase(), nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, bytes.TrimSpace(data)); err != nil {
		return nil, parseError(op, "compacting knowledge base", err)
	}
	return buf.Bytes(), nil
}

// Write replaces the whole tree. There is no merge with the stored tree.
func (r *KnowledgeRepository) Write(_ context.Context, tree json.RawMessage) error {
	const op = "knowledge.write"
	if err := requireObject(tree); err != nil {
		return validationError(op, err.Error())
	}
	return r.write(op, tree)
}

func (r *KnowledgeRepository) write(op string, tree json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(tree), "", "  "); err != nil {
		return parseError(op, "indenting knowledge base", err)
	}
	buf.WriteByte('\n')
	if err := writeFileAtomic(r.path, buf.Bytes()); err != nil {
		return ioError(op, "writing knowledge base", err)
	}
	return nil
}
