// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
)

// Backing files and exported identifiers of the single-object records.
const (
	CVFile              = "cv.ts"
	CVIdentifier        = "cvData"
	PortfolioFile       = "portfolio.ts"
	PortfolioIdentifier = "portfolioData"
)

// RecordRepository persists one JSON object wrapped in a source-file
// assignment of the form
//
//	export const <name> = { ... };
//
// The captured literal is decoded strictly as JSON. Anything that is not
// JSON (comments, trailing commas, function calls) is a parse error.
type RecordRepository struct {
	path    string
	name    string
	pattern *regexp.Regexp
}

// NewRecordRepository creates a repository for the identifier name stored at path.
func NewRecordRepository(path, name string) *RecordRepository {
	return &RecordRepository{
		path:    path,
		name:    name,
		pattern: regexp.MustCompile(`(?s)export\s+const\s+` + regexp.QuoteMeta(name) + `\s*=\s*(\{.*\})\s*;\s*$`),
	}
}

// Name returns the exported identifier.
func (r *RecordRepository) Name() string {
	return r.name
}

// Path returns the backing file path.
func (r *RecordRepository) Path() string {
	return r.path
}

// Read loads the file and returns the assigned object as compact JSON.
func (r *RecordRepository) Read(_ context.Context) (json.RawMessage, error) {
	op := r.name + ".read"

	data, ok, err := readFile(r.path)
	if err != nil {
		return nil, ioError(op, "reading record", err)
	}
	if !ok {
		return nil, ioError(op, "record file does not exist", fmt.Errorf("%s: missing", r.path))
	}

	return r.decode(op, data)
}

// Write replaces the file with obj, indented by two spaces and wrapped in
// the export assignment. The file is written in one atomic step.
func (r *RecordRepository) Write(_ context.Context, obj json.RawMessage) error {
	op := r.name + ".write"

	data, err := r.encode(obj)
	if err != nil {
		return validationError(op, err.Error())
	}
	if err := writeFileAtomic(r.path, data); err != nil {
		return ioError(op, "writing record", err)
	}
	return nil
}

func (r *RecordRepository) decode(op string, src []byte) (json.RawMessage, error) {
	m := r.pattern.FindSubmatch(src)
	if m == nil {
		return nil, parseError(op, fmt.Sprintf("no `export const %s = {...};` assignment found", r.name), nil)
	}
	literal := m[1]
	if !json.Valid(literal) {
		return nil, parseError(op, "assigned literal is not valid JSON", nil)
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, literal); err != nil {
		return nil, parseError(op, "compacting literal", err)
	}
	return buf.Bytes(), nil
}

func (r *RecordRepository) encode(obj json.RawMessage) ([]byte, error) {
	if err := requireObject(obj); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("export const ")
	buf.WriteString(r.name)
	buf.WriteString(" = ")
	if err := json.Indent(&buf, obj, "", "  "); err != nil {
		return nil, fmt.Errorf("indenting record: %w", err)
	}
	buf.WriteString(";\n")
	return buf.Bytes(), nil
}

// requireObject checks that raw is a single valid JSON object.
func requireObject(raw json.RawMessage) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return fmt.Errorf("value is empty")
	}
	if !json.Valid(trimmed) {
		return fmt.Errorf("value is not valid JSON")
	}
	if trimmed[0] != '{' {
		return fmt.Errorf("value must be a JSON object")
	}
	return nil
}
