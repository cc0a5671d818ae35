// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/yekta/folio/internal/admin"
	"github.com/yekta/folio/internal/handler/api"
	"github.com/yekta/folio/internal/i18n"
	"github.com/yekta/folio/internal/session"
)

// PageContext is what the external renderer needs to draw a page.
type PageContext struct {
	Locale        string      `json:"locale"`
	Direction     string      `json:"direction"`
	Locales       []string    `json:"locales"`
	DefaultLocale string      `json:"defaultLocale"`
	Path          string      `json:"path"`
	Admin         admin.State `json:"admin"`
	// ToggleURL is the current page with admin mode flipped. Empty for
	// anonymous visitors.
	ToggleURL string `json:"toggleUrl,omitempty"`
}

// PageHandler serves the page context of localized pages.
type PageHandler struct {
	locales  *i18n.Router
	sessions *scs.SessionManager
	verifier admin.Verifier
}

// NewPageHandler creates a new page handler.
func NewPageHandler(locales *i18n.Router, sm *scs.SessionManager, verifier admin.Verifier) *PageHandler {
	return &PageHandler{locales: locales, sessions: sm, verifier: verifier}
}

// Context handles GET /{lang} and GET /{lang}/*. An ?admin= parameter in
// the URL is applied to the session so bookmarked admin URLs keep working.
func (h *PageHandler) Context(w http.ResponseWriter, r *http.Request) {
	lang := chi.URLParam(r, "lang")
	if !h.locales.IsLocale(lang) {
		api.WriteNotFound(w, "Page not found")
		return
	}

	s := session.Load(r.Context(), h.sessions, h.verifier)
	q := r.URL.Query()
	if q.Has(admin.ModeParam) && s.SetAdminMode(admin.ModeFromQuery(q)) {
		session.Save(r.Context(), h.sessions, s)
	}
	st := s.State()

	pc := PageContext{
		Locale:        lang,
		Direction:     i18n.Direction(lang),
		Locales:       h.locales.Locales,
		DefaultLocale: h.locales.Default,
		Path:          "/" + chi.URLParam(r, "*"),
		Admin:         st,
	}
	if st.Authenticated {
		pc.ToggleURL = admin.ModeURL(r.URL, !st.AdminMode)
	}
	api.WriteSuccess(w, pc)
}
