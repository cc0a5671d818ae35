// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import "strings"

// WordCount returns the number of whitespace-separated tokens in s.
// Leading and trailing whitespace is ignored and runs of whitespace count
// as a single separator.
func WordCount(s string) int {
	return len(strings.Fields(strings.TrimSpace(s)))
}
