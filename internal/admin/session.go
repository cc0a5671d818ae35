// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package admin implements the per-client admin session: authentication,
// admin-mode visibility, edit mode and unsaved-change tracking.
//
// A Session belongs to exactly one client. It holds no global state; the
// credential check and the durable authentication marker are injected.
package admin

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrInvalidCredentials is returned by Login when the password is rejected.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Verifier decides whether a candidate password grants admin access.
type Verifier interface {
	Verify(candidate string) bool
}

// VerifierFunc adapts a function to the Verifier interface.
type VerifierFunc func(candidate string) bool

// Verify calls f(candidate).
func (f VerifierFunc) Verify(candidate string) bool {
	return f(candidate)
}

// Marker is the durable "this client is authenticated" flag that survives
// reloads, e.g. a server-side session value keyed by a cookie.
type Marker interface {
	Authenticated() bool
	Mark() error
	Clear() error
}

// State is a snapshot of the session flags.
type State struct {
	Authenticated  bool `json:"isAuthenticated"`
	AdminMode      bool `json:"isAdminMode"`
	Editing        bool `json:"isEditing"`
	UnsavedChanges bool `json:"hasUnsavedChanges"`
}

// Session is the admin state machine of one client.
type Session struct {
	mu       sync.Mutex
	state    State
	verifier Verifier
	marker   Marker
}

// New creates a session with every flag false, except Authenticated which
// is seeded from the marker.
func New(verifier Verifier, marker Marker) *Session {
	s := &Session{verifier: verifier, marker: marker}
	if marker != nil {
		s.state.Authenticated = marker.Authenticated()
	}
	return s
}

// Restore creates a session and applies the transient flags carried over
// from a previous request of the same client. Flags that require
// authentication are dropped when the marker says the client is logged out.
func Restore(verifier Verifier, marker Marker, prev State) *Session {
	s := New(verifier, marker)
	if !s.state.Authenticated {
		return s
	}
	s.state.AdminMode = prev.AdminMode
	s.state.Editing = prev.Editing
	s.state.UnsavedChanges = prev.UnsavedChanges
	return s
}

// State returns a snapshot of the current flags.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Login checks password and marks the client authenticated on success.
// On failure the session is unchanged.
func (s *Session) Login(password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.verifier == nil || !s.verifier.Verify(password) {
		return ErrInvalidCredentials
	}
	if s.marker != nil {
		if err := s.marker.Mark(); err != nil {
			return fmt.Errorf("marking session authenticated: %w", err)
		}
	}
	s.state.Authenticated = true
	return nil
}

// ToggleAdminMode flips admin visibility and resets edit tracking. It is a
// no-op returning false when the client is not authenticated.
func (s *Session) ToggleAdminMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Authenticated {
		return false
	}
	s.state.AdminMode = !s.state.AdminMode
	s.state.Editing = false
	s.state.UnsavedChanges = false
	return true
}

// SetAdminMode forces admin visibility, e.g. from a bookmarked ?admin=1 URL.
// Edit tracking is reset when the mode actually changes.
func (s *Session) SetAdminMode(on bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Authenticated {
		return false
	}
	if s.state.AdminMode != on {
		s.state.AdminMode = on
		s.state.Editing = false
		s.state.UnsavedChanges = false
	}
	return true
}

// SetEditing enters or leaves edit mode. Entering edit mode counts as an
// unsaved change until the edit is saved or cancelled.
func (s *Session) SetEditing(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Editing = on
	if on {
		s.state.UnsavedChanges = true
	}
}

// SaveChanges runs save and leaves edit mode whatever the outcome. Unsaved
// changes are cleared only when save succeeds; its error is returned as is.
func (s *Session) SaveChanges(ctx context.Context, save func(context.Context) error) error {
	var err error
	if save != nil {
		err = save(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Editing = false
	if err == nil {
		s.state.UnsavedChanges = false
	}
	return err
}

// CancelChanges leaves edit mode and discards the unsaved-change flag.
// Nothing is written, so stored content is untouched.
func (s *Session) CancelChanges() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Editing = false
	s.state.UnsavedChanges = false
}

// Logout resets every flag and clears the durable marker. The in-memory
// reset happens even when clearing the marker fails.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = State{}
	if s.marker != nil {
		if err := s.marker.Clear(); err != nil {
			return fmt.Errorf("clearing session marker: %w", err)
		}
	}
	return nil
}
