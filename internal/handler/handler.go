// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler assembles the folio HTTP server: middleware stack, JSON
// API, health check and the per-locale page context used by the renderer.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/yekta/folio/internal/admin"
	"github.com/yekta/folio/internal/handler/api"
	"github.com/yekta/folio/internal/i18n"
	"github.com/yekta/folio/internal/middleware"
	"github.com/yekta/folio/internal/service"
)

// DefaultRequestTimeout bounds every request.
const DefaultRequestTimeout = 30 * time.Second

// Deps holds everything the router needs.
type Deps struct {
	Content  *service.ContentService
	Sessions *scs.SessionManager
	Verifier admin.Verifier
	Locales  *i18n.Router
	// Login throttles admin logins. Nil disables throttling.
	Login *middleware.LoginProtection

	// CSRFKey is the session secret. Required.
	CSRFKey []byte
	IsDev   bool
	Addr    string
	DataDir string

	// TrustProxy rewrites RemoteAddr from the proxy headers.
	TrustProxy bool

	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// NewRouter builds the HTTP handler of the server.
func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = DefaultRequestTimeout
	}

	apiHandler := api.NewHandler(d.Content, d.Sessions, d.Verifier, d.Login, d.Logger)
	healthHandler := NewHealthHandler(d.DataDir, d.Content.Cache())
	pageHandler := NewPageHandler(d.Locales, d.Sessions, d.Verifier)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	if d.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(d.RequestTimeout))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(d.IsDev)))
	r.Use(middleware.Locale(d.Locales))
	r.Use(d.Sessions.LoadAndSave)

	r.Get("/healthz", healthHandler.Health)

	csrf := middleware.CSRF(middleware.DefaultCSRFConfig(d.CSRFKey, d.IsDev, d.Addr))
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Use(csrf)
		apiHandler.Routes(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Get("/{lang}", pageHandler.Context)
		r.Get("/{lang}/*", pageHandler.Context)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		api.WriteNotFound(w, "Page not found")
	})

	return r
}
