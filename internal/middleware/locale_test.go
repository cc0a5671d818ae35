// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yekta/folio/internal/i18n"
)

func TestLocale(t *testing.T) {
	router, err := i18n.NewRouter(i18n.DefaultLocales, i18n.DefaultLocale, i18n.DefaultBypass)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	var gotLocale string
	handler := Locale(router)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLocale = GetLocale(r)
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		target     string
		wantCode   int
		wantLoc    string
		wantLocale string
	}{
		{"/dashboard", http.StatusTemporaryRedirect, "/en/dashboard", ""},
		{"/", http.StatusTemporaryRedirect, "/en", ""},
		{"/cv?admin=1", http.StatusTemporaryRedirect, "/en/cv?admin=1", ""},
		{"/notes%3Fdraft", http.StatusTemporaryRedirect, "/en/notes%3Fdraft", ""},
		{"/notes%3Fdraft?tab=2", http.StatusTemporaryRedirect, "/en/notes%3Fdraft?tab=2", ""},
		{"/a%23b", http.StatusTemporaryRedirect, "/en/a%23b", ""},
		{"/caf%C3%A9%20menu", http.StatusTemporaryRedirect, "/en/caf%C3%A9%20menu", ""},
		{"/fr/dashboard", http.StatusOK, "", "fr"},
		{"/fa", http.StatusOK, "", "fa"},
		{"/api/anything", http.StatusOK, "", ""},
		{"/favicon.ico", http.StatusOK, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			gotLocale = ""
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.target, nil))

			if rr.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantCode)
			}
			if got := rr.Header().Get("Location"); got != tt.wantLoc {
				t.Errorf("Location = %q, want %q", got, tt.wantLoc)
			}
			if gotLocale != tt.wantLocale {
				t.Errorf("locale = %q, want %q", gotLocale, tt.wantLocale)
			}
		})
	}
}

func TestGetLocale_Empty(t *testing.T) {
	if got := GetLocale(httptest.NewRequest(http.MethodGet, "/", nil)); got != "" {
		t.Errorf("GetLocale() = %q, want empty", got)
	}
}
