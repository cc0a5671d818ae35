// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version provides build-time version information.
//
// Values are injected with
//
//	-ldflags "-X github.com/yekta/folio/internal/version.Version=v1.2.3"
package version

import (
	"fmt"
	"runtime/debug"
)

// Build-time values. Left at their defaults for `go run` builds.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// Info contains build-time version information.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"commit"`
	BuildTime string `json:"built"`
}

// Get returns the version of the running binary. When no commit was
// injected it falls back to the VCS revision recorded by the Go toolchain.
func Get() Info {
	info := Info{Version: Version, GitCommit: GitCommit, BuildTime: BuildTime}
	if info.GitCommit != "unknown" {
		return info
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if len(s.Value) > 7 {
				s.Value = s.Value[:7]
			}
			info.GitCommit = s.Value
		case "vcs.time":
			if info.BuildTime == "unknown" {
				info.BuildTime = s.Value
			}
		}
	}
	return info
}

// String formats the info the way `folio version` prints it.
func (i Info) String() string {
	return fmt.Sprintf("folio %s (commit: %s, built: %s)", i.Version, i.GitCommit, i.BuildTime)
}
