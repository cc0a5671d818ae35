// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON API of the folio server: documents,
// structured records and the admin session.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/yekta/folio/internal/admin"
	"github.com/yekta/folio/internal/middleware"
	"github.com/yekta/folio/internal/service"
	"github.com/yekta/folio/internal/session"
	"github.com/yekta/folio/internal/store"
)

// maxBodyBytes caps request bodies. Records are whole files, so this is
// generous.
const maxBodyBytes = 4 << 20

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	content  *service.ContentService
	sessions *scs.SessionManager
	verifier admin.Verifier
	login    *middleware.LoginProtection
	logger   *slog.Logger
}

// NewHandler creates a new API handler. login may be nil to disable login
// throttling.
func NewHandler(content *service.ContentService, sm *scs.SessionManager, verifier admin.Verifier,
	login *middleware.LoginProtection, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		content:  content,
		sessions: sm,
		verifier: verifier,
		login:    login,
		logger:   logger,
	}
}

// Routes mounts the API on r. r is expected to sit below /api.
func (h *Handler) Routes(r chi.Router) {
	requireAdmin := middleware.RequireAdmin(h.State)

	r.Route("/documents", func(r chi.Router) {
		r.Get("/", h.ListDocuments)
		r.Get("/{id}", h.GetDocument)
		r.With(requireAdmin).Post("/", h.CreateDocument)
		r.With(requireAdmin).Put("/{id}", h.UpdateDocument)
		r.With(requireAdmin).Delete("/{id}", h.DeleteDocument)
	})

	for _, name := range service.Records {
		r.Get("/"+string(name), h.GetRecord(name))
		r.With(requireAdmin).Put("/"+string(name), h.PutRecord(name))
	}

	r.Route("/admin", func(r chi.Router) {
		r.Get("/session", h.Session)
		if h.login != nil {
			r.With(h.login.Middleware()).Post("/login", h.Login)
		} else {
			r.Post("/login", h.Login)
		}
		r.Post("/logout", h.Logout)
		r.Post("/mode", h.Mode)
		r.With(requireAdmin).Post("/edit", h.Edit)
		r.With(requireAdmin).Post("/cancel", h.Cancel)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteNotFound(w, "No such endpoint")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed", nil)
	})
}

// State reports the admin flags of the request's session.
func (h *Handler) State(r *http.Request) admin.State {
	return session.State(r.Context(), h.sessions)
}

// adminSession rebuilds the admin state machine of the request's client.
func (h *Handler) adminSession(r *http.Request) *admin.Session {
	return session.Load(r.Context(), h.sessions, h.verifier)
}

func (h *Handler) saveSession(r *http.Request, s *admin.Session) {
	session.Save(r.Context(), h.sessions, s)
}

// Response is the standard API response wrapper.
type Response struct {
	Data any `json:"data,omitempty"`
	// Session carries the admin flags after a request that changed them.
	Session *admin.State `json:"session,omitempty"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Response{Data: data})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, nil)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// statusFor maps a store error onto its response class.
func statusFor(err error) (int, string) {
	switch store.KindOf(err) {
	case store.KindValidation:
		return http.StatusBadRequest, "validation_error"
	case store.KindNotFound:
		return http.StatusNotFound, "not_found"
	case store.KindParse:
		return http.StatusInternalServerError, "parse_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// writeStoreError writes err with the status of its kind. Client errors
// carry the store message; server errors are logged and kept opaque.
func (h *Handler) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("content operation failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		WriteError(w, status, code, "Content storage failed", nil)
		return
	}

	msg := http.StatusText(status)
	var se *store.Error
	if errors.As(err, &se) && se.Message != "" {
		msg = se.Message
	}
	WriteError(w, status, code, msg, nil)
}

// decodeJSON decodes the request body into dst. An empty body leaves dst
// untouched when optional is true.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, optional bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}

// bodyErrorMessage names the offending field when decodeJSON rejected an
// unknown one.
func bodyErrorMessage(err error) string {
	if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return "Unknown field " + field
	}
	return "Invalid JSON body"
}

// readBody returns the raw request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}
