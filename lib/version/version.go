// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// These variables may be set via -ldflags at build time.
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = ""

	// Version is the semantic version.
	Version = "0.1.0-dev"
)

// build is the subset of build information Info reports.
type build struct {
	version string
	commit  string
	dirty   bool
}

func current() build {
	info, _ := debug.ReadBuildInfo()
	return resolve(Version, GitCommit, info)
}

// resolve prefers injected values and falls back to what the toolchain
// recorded in info.
func resolve(version, commit string, info *debug.BuildInfo) build {
	result := build{version: version, commit: commit}
	if info == nil {
		return result
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" && version == "0.1.0-dev" {
		result.version = info.Main.Version
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if result.commit == "" {
				result.commit = setting.Value
			}
		case "vcs.modified":
			result.dirty = setting.Value == "true"
		}
	}
	if len(result.commit) > 12 {
		result.commit = result.commit[:12]
	}
	return result
}

func (b build) String() string {
	commit := b.commit
	if commit == "" {
		commit = "unknown"
	}
	if b.dirty {
		commit += "-dirty"
	}
	return fmt.Sprintf("%s (%s)", b.version, commit)
}

// Info returns a formatted version string suitable for --version output.
func Info() string {
	return current().String()
}

// Full returns detailed version information including Go version.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
