// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"

	"github.com/yekta/folio/internal/admin"
)

// StateFunc reports the admin session state of a request.
type StateFunc func(r *http.Request) admin.State

// RequireAdmin rejects requests whose session is not authenticated (401) or
// has admin mode switched off (403).
func RequireAdmin(state StateFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st := state(r)
			if !st.Authenticated {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Admin login required", nil)
				return
			}
			if !st.AdminMode {
				WriteAPIError(w, http.StatusForbidden, "admin_mode_off", "Admin mode is not enabled", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects unauthenticated requests with 401.
func RequireAuth(state StateFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !state(r).Authenticated {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Admin login required", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
