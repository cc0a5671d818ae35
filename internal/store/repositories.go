// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"log/slog"
	"path/filepath"
)

// Repositories bundles every content store rooted in one data directory.
type Repositories struct {
	Dir       string
	Documents *DocumentStore
	CV        *RecordRepository
	Portfolio *RecordRepository
	Knowledge *KnowledgeRepository
}

// Open wires the repositories for dir. Nothing is read or created until the
// first operation.
func Open(dir string, logger *slog.Logger) *Repositories {
	return &Repositories{
		Dir:       dir,
		Documents: NewDocumentStore(filepath.Join(dir, DocumentsFile)),
		CV:        NewRecordRepository(filepath.Join(dir, CVFile), CVIdentifier),
		Portfolio: NewRecordRepository(filepath.Join(dir, PortfolioFile), PortfolioIdentifier),
		Knowledge: NewKnowledgeRepository(filepath.Join(dir, KnowledgeBaseFile), logger),
	}
}
