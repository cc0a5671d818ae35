// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package i18n

import "testing"

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	r, err := NewRouter(DefaultLocales, DefaultLocale, DefaultBypass)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	return r
}

func TestDecide(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		path     string
		redirect bool
		location string
	}{
		{"/dashboard", true, "/en/dashboard"},
		{"/fr/dashboard", false, ""},
		{"/fa", false, ""},
		{"/en/cv/skills", false, ""},
		{"/api/anything", false, ""},
		{"/static/app.css", false, ""},
		{"/healthz", false, ""},
		{"/favicon.ico", false, ""},
		{"/blog/post.html", false, ""},
		{"/", true, "/en"},
		{"", true, "/en"},
		{"/de/page", true, "/en/de/page"},
		{"/apis", true, "/en/apis"},
		{"/EN/page", true, "/en/EN/page"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			d := r.Decide(tt.path)
			if d.Redirect != tt.redirect {
				t.Errorf("Decide(%q).Redirect = %v, want %v", tt.path, d.Redirect, tt.redirect)
			}
			if d.Location != tt.location {
				t.Errorf("Decide(%q).Location = %q, want %q", tt.path, d.Location, tt.location)
			}
		})
	}
}

func TestNewRouter_Validation(t *testing.T) {
	tests := []struct {
		name    string
		locales []string
		def     string
		wantErr bool
	}{
		{"defaults", DefaultLocales, "en", false},
		{"no locales", nil, "en", true},
		{"malformed tag", []string{"en", "not a tag"}, "en", true},
		{"default missing", []string{"en", "fr"}, "fa", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRouter(tt.locales, tt.def, DefaultBypass)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewRouter() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsLocale(t *testing.T) {
	r := newTestRouter(t)

	if !r.IsLocale("fa") {
		t.Error("fa should be supported")
	}
	if r.IsLocale("") {
		t.Error("empty code should not be a locale")
	}
	if r.IsLocale("ru") {
		t.Error("ru should not be supported")
	}
}

func TestDirection(t *testing.T) {
	tests := map[string]string{
		"en":    "ltr",
		"fr":    "ltr",
		"fa":    "rtl",
		"fa-IR": "rtl",
		"ar":    "rtl",
		"???":   "ltr",
	}
	for code, want := range tests {
		if got := Direction(code); got != want {
			t.Errorf("Direction(%q) = %q, want %q", code, got, want)
		}
	}
}
