// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package i18n decides which site locale a request path belongs to.
package i18n

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// Site defaults.
var (
	DefaultLocales = []string{"en", "fr", "fa"}
	DefaultBypass  = []string{"api", "static", "healthz"}
)

// DefaultLocale is the locale unprefixed paths are redirected to.
const DefaultLocale = "en"

// Decision is the outcome of routing a request path.
type Decision struct {
	Redirect bool
	// Location is the redirect target path. Empty when Redirect is false.
	Location string
}

// Router maps request paths onto locale-prefixed paths.
type Router struct {
	Locales []string
	Default string
	Bypass  []string
}

// NewRouter creates a Router after checking every locale is a well-formed
// BCP 47 tag and that the default is one of them.
func NewRouter(locales []string, def string, bypass []string) (*Router, error) {
	if len(locales) == 0 {
		return nil, fmt.Errorf("no locales configured")
	}
	for _, l := range locales {
		if _, err := language.Parse(l); err != nil {
			return nil, fmt.Errorf("invalid locale %q: %w", l, err)
		}
	}
	if !slices.Contains(locales, def) {
		return nil, fmt.Errorf("default locale %q is not in %v", def, locales)
	}
	return &Router{Locales: locales, Default: def, Bypass: bypass}, nil
}

// Decide reports whether path must be redirected into the default locale.
// Paths under a bypass prefix, paths naming a file and paths already carrying
// a supported locale pass through untouched.
func (r *Router) Decide(path string) Decision {
	trimmed := strings.TrimPrefix(path, "/")
	segments := strings.Split(trimmed, "/")

	if slices.Contains(r.Bypass, segments[0]) {
		return Decision{}
	}
	for _, seg := range segments {
		if strings.Contains(seg, ".") {
			return Decision{}
		}
	}
	if r.IsLocale(segments[0]) {
		return Decision{}
	}

	loc := "/" + r.Default
	if trimmed != "" {
		loc += "/" + trimmed
	}
	return Decision{Redirect: true, Location: loc}
}

// IsLocale reports whether code is one of the supported locales.
func (r *Router) IsLocale(code string) bool {
	return code != "" && slices.Contains(r.Locales, code)
}

// Direction returns the text direction of a locale.
func Direction(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return "ltr"
	}
	base, _ := tag.Base()
	switch base.String() {
	case "ar", "fa", "he", "ur", "ps", "yi":
		return "rtl"
	}
	return "ltr"
}
