// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package admin

import (
	"net/url"
	"strconv"
	"strings"
)

// ModeParam is the query parameter that mirrors admin mode into the URL so
// a reload or a bookmark keeps admin visibility.
const ModeParam = "admin"

// ModeFromQuery reports whether q asks for admin mode.
func ModeFromQuery(q url.Values) bool {
	v := q.Get(ModeParam)
	if v == "" {
		return false
	}
	on, err := strconv.ParseBool(v)
	return err == nil && on
}

// ModeURL returns u with the admin mode parameter set to on, or removed when
// off. Only the path and query are kept so the result is always a local URL.
func ModeURL(u *url.URL, on bool) string {
	q := u.Query()
	if on {
		q.Set(ModeParam, "1")
	} else {
		q.Del(ModeParam)
	}

	// Collapse leading slashes so the result can never become //host.
	out := url.URL{Path: "/" + strings.TrimLeft(u.Path, "/"), RawQuery: q.Encode()}
	return out.String()
}
