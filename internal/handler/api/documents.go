// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yekta/folio/internal/store"
)

// documentBody is a create or update payload. It also accepts a document as
// returned by GET, so a client can send a fetched document back whole. The
// server-managed fields are ignored, except an id naming another document.
type documentBody struct {
	store.DocumentInput
	ID        *string         `json:"id,omitempty"`
	CreatedAt json.RawMessage `json:"createdAt,omitempty"`
	UpdatedAt json.RawMessage `json:"updatedAt,omitempty"`
	WordCount json.RawMessage `json:"wordCount,omitempty"`
}

// ListDocuments handles GET /api/documents.
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.content.ListDocuments(r.Context())
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	if docs == nil {
		docs = []store.Document{}
	}
	WriteSuccess(w, docs)
}

// GetDocument handles GET /api/documents/{id}.
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.content.GetDocument(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	WriteSuccess(w, doc)
}

// CreateDocument handles POST /api/documents.
func (h *Handler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var body documentBody
	if err := decodeJSON(w, r, &body, false); err != nil {
		WriteBadRequest(w, bodyErrorMessage(err))
		return
	}

	doc, err := h.content.CreateDocument(r.Context(), body.DocumentInput)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	WriteCreated(w, doc)
}

// UpdateDocument handles PUT /api/documents/{id}. The write is the save step
// of the client's edit session.
func (h *Handler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	var body documentBody
	if err := decodeJSON(w, r, &body, false); err != nil {
		WriteBadRequest(w, bodyErrorMessage(err))
		return
	}

	id := chi.URLParam(r, "id")
	if body.ID != nil && *body.ID != id {
		WriteError(w, http.StatusBadRequest, "validation_error", "id does not match the document being updated", nil)
		return
	}
	var doc store.Document
	s := h.adminSession(r)
	err := s.SaveChanges(r.Context(), func(ctx context.Context) error {
		var err error
		doc, err = h.content.UpdateDocument(ctx, id, body.DocumentInput)
		return err
	})
	h.saveSession(r, s)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	st := s.State()
	WriteJSON(w, http.StatusOK, Response{Data: doc, Session: &st})
}

// DeleteDocument handles DELETE /api/documents/{id}.
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := h.content.DeleteDocument(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
