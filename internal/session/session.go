// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session keeps each client's admin session in an scs session
// stored in SQLite, so a login survives restarts.
package session

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/yekta/folio/internal/admin"
)

// Session data keys.
const (
	keyAuthenticated = "admin.authenticated"
	keyAdminMode     = "admin.mode"
	keyEditing       = "admin.editing"
	keyUnsaved       = "admin.unsaved"
)

// New creates a session manager backed by db.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)

	sm.Lifetime = 24 * time.Hour
	sm.IdleTimeout = 2 * time.Hour
	sm.Cookie.Name = "folio_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Path = "/"
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev
	if !isDev {
		sm.Cookie.Name = "__Host-folio_session"
	}

	return sm
}

// Marker stores the authenticated flag in the request's scs session.
type Marker struct {
	sm  *scs.SessionManager
	ctx context.Context
}

// NewMarker returns the marker for the session loaded into ctx.
func NewMarker(ctx context.Context, sm *scs.SessionManager) *Marker {
	return &Marker{sm: sm, ctx: ctx}
}

// Authenticated reports whether the client has logged in.
func (m *Marker) Authenticated() bool {
	return m.sm.GetBool(m.ctx, keyAuthenticated)
}

// Mark renews the session token and records the login.
func (m *Marker) Mark() error {
	if err := m.sm.RenewToken(m.ctx); err != nil {
		return err
	}
	m.sm.Put(m.ctx, keyAuthenticated, true)
	return nil
}

// Clear drops every admin key and renews the token.
func (m *Marker) Clear() error {
	for _, key := range []string{keyAuthenticated, keyAdminMode, keyEditing, keyUnsaved} {
		m.sm.Remove(m.ctx, key)
	}
	return m.sm.RenewToken(m.ctx)
}

// Load rebuilds the admin session of the current request.
func Load(ctx context.Context, sm *scs.SessionManager, v admin.Verifier) *admin.Session {
	prev := admin.State{
		AdminMode:      sm.GetBool(ctx, keyAdminMode),
		Editing:        sm.GetBool(ctx, keyEditing),
		UnsavedChanges: sm.GetBool(ctx, keyUnsaved),
	}
	return admin.Restore(v, NewMarker(ctx, sm), prev)
}

// State returns the admin flags of the current request without building a
// full session.
func State(ctx context.Context, sm *scs.SessionManager) admin.State {
	if !sm.GetBool(ctx, keyAuthenticated) {
		return admin.State{}
	}
	return admin.State{
		Authenticated:  true,
		AdminMode:      sm.GetBool(ctx, keyAdminMode),
		Editing:        sm.GetBool(ctx, keyEditing),
		UnsavedChanges: sm.GetBool(ctx, keyUnsaved),
	}
}

// Save writes the transient flags of s back into the scs session. Anonymous
// clients get nothing stored so no cookie is issued for them.
func Save(ctx context.Context, sm *scs.SessionManager, s *admin.Session) {
	st := s.State()
	if !st.Authenticated {
		for _, key := range []string{keyAdminMode, keyEditing, keyUnsaved} {
			sm.Remove(ctx, key)
		}
		return
	}
	putIfChanged(ctx, sm, keyAdminMode, st.AdminMode)
	putIfChanged(ctx, sm, keyEditing, st.Editing)
	putIfChanged(ctx, sm, keyUnsaved, st.UnsavedChanges)
}

func putIfChanged(ctx context.Context, sm *scs.SessionManager, key string, v bool) {
	if sm.Exists(ctx, key) && sm.GetBool(ctx, key) == v {
		return
	}
	sm.Put(ctx, key, v)
}
