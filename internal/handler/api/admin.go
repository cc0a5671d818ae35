// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/yekta/folio/internal/admin"
	"github.com/yekta/folio/internal/middleware"
)

// LoginRequest is the body of POST /api/admin/login.
type LoginRequest struct {
	Password string `json:"password"`
}

// ModeRequest is the optional body of POST /api/admin/mode.
type ModeRequest struct {
	// Path is the page the client is on, e.g. "/en/cv?tab=skills".
	Path string `json:"path"`
}

// ModeResponse tells the client where to navigate after a mode change.
type ModeResponse struct {
	Changed  bool   `json:"changed"`
	Location string `json:"location"`
}

// EditRequest is the body of POST /api/admin/edit.
type EditRequest struct {
	Editing *bool `json:"editing"`
}

// Session handles GET /api/admin/session.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	st := h.State(r)
	WriteSuccess(w, st)
}

// Login handles POST /api/admin/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		WriteBadRequest(w, bodyErrorMessage(err))
		return
	}

	ip := middleware.ClientIP(r)
	s := h.adminSession(r)
	err := s.Login(req.Password)
	switch {
	case errors.Is(err, admin.ErrInvalidCredentials):
		h.loginFailed(w, ip)
		return
	case err != nil:
		h.logger.Error("admin login failed", "ip", ip, "error", err)
		WriteInternalError(w, "Login failed")
		return
	}

	if h.login != nil {
		h.login.RecordSuccessfulLogin(ip)
	}
	h.saveSession(r, s)
	h.logger.Info("admin login", "ip", ip)

	st := s.State()
	WriteSuccess(w, st)
}

func (h *Handler) loginFailed(w http.ResponseWriter, ip string) {
	if h.login == nil {
		h.logger.Warn("failed login attempt", "ip", ip)
		WriteError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid password", nil)
		return
	}

	locked, lockout := h.login.RecordFailedAttempt(ip)
	if locked {
		h.logger.Warn("failed login attempt, client locked out", "ip", ip, "lockout", lockout)
		w.Header().Set("Retry-After", strconv.Itoa(int(lockout.Seconds())+1))
		WriteError(w, http.StatusTooManyRequests, "locked_out", "Too many failed logins. Try again later.", nil)
		return
	}

	remaining := h.login.RemainingAttempts(ip)
	h.logger.Warn("failed login attempt", "ip", ip, "remaining_attempts", remaining)
	WriteError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid password",
		map[string]string{"remaining_attempts": strconv.Itoa(remaining)})
}

// Logout handles POST /api/admin/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	s := h.adminSession(r)
	if err := s.Logout(); err != nil {
		h.logger.Error("admin logout failed", "error", err)
		WriteInternalError(w, "Logout failed")
		return
	}
	h.saveSession(r, s)

	st := s.State()
	WriteSuccess(w, st)
}

// Mode handles POST /api/admin/mode. It toggles admin visibility and returns
// the page URL carrying the new mode. Anonymous clients get their URL back
// unchanged.
func (h *Handler) Mode(w http.ResponseWriter, r *http.Request) {
	var req ModeRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		WriteBadRequest(w, bodyErrorMessage(err))
		return
	}
	page, err := url.Parse(req.Path)
	if err != nil {
		WriteBadRequest(w, "Invalid path")
		return
	}

	s := h.adminSession(r)
	changed := s.ToggleAdminMode()
	h.saveSession(r, s)

	st := s.State()
	WriteJSON(w, http.StatusOK, Response{
		Data: ModeResponse{
			Changed:  changed,
			Location: admin.ModeURL(page, st.AdminMode),
		},
		Session: &st,
	})
}

// Edit handles POST /api/admin/edit.
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	var req EditRequest
	if err := decodeJSON(w, r, &req, false); err != nil || req.Editing == nil {
		WriteBadRequest(w, `Body must be {"editing": true|false}`)
		return
	}

	s := h.adminSession(r)
	s.SetEditing(*req.Editing)
	h.saveSession(r, s)

	st := s.State()
	WriteSuccess(w, st)
}

// Cancel handles POST /api/admin/cancel.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	s := h.adminSession(r)
	s.CancelChanges()
	h.saveSession(r, s)

	st := s.State()
	WriteSuccess(w, st)
}
