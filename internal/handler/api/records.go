// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/yekta/folio/internal/service"
)

// GetRecord returns the handler for GET /api/<record>.
func (h *Handler) GetRecord(name service.Record) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		obj, err := h.content.ReadRecord(r.Context(), name)
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}
		WriteSuccess(w, obj)
	}
}

// PutRecord returns the handler for PUT /api/<record>. The body replaces
// the whole record.
func (h *Handler) PutRecord(name service.Record) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := readBody(w, r)
		if err != nil {
			WriteBadRequest(w, "Request body too large")
			return
		}
		if !json.Valid(body) {
			WriteBadRequest(w, "Invalid JSON body")
			return
		}
		obj := json.RawMessage(body)

		s := h.adminSession(r)
		err = s.SaveChanges(r.Context(), func(ctx context.Context) error {
			return h.content.SaveRecord(ctx, name, obj)
		})
		h.saveSession(r, s)
		if err != nil {
			h.writeStoreError(w, r, err)
			return
		}

		st := s.State()
		WriteJSON(w, http.StatusOK, Response{Data: obj, Session: &st})
	}
}
