// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/yekta/folio/internal/i18n"
)

// ContextKeyLocale holds the locale code of the current request.
const ContextKeyLocale ContextKey = "locale"

// Locale redirects unprefixed page paths into the default locale with a 307,
// keeping the query string. Requests that pass through carry their locale in
// the context when the path starts with one.
func Locale(router *i18n.Router) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := router.Decide(r.URL.Path)
			if d.Redirect {
				// Location is a decoded path; re-escape it so reserved
				// characters stay part of the path.
				target := (&url.URL{Path: d.Location, RawQuery: r.URL.RawQuery}).String()
				http.Redirect(w, r, target, http.StatusTemporaryRedirect)
				return
			}

			first, _, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
			if router.IsLocale(first) {
				r = r.WithContext(context.WithValue(r.Context(), ContextKeyLocale, first))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetLocale returns the locale set by Locale, or "" outside localized pages.
func GetLocale(r *http.Request) string {
	code, _ := r.Context().Value(ContextKeyLocale).(string)
	return code
}
