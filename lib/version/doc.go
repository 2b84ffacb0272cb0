// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build information for the crush binary.
//
// [Version] and [GitCommit] can be injected at build time via -ldflags
// -X. When they are not, the commit and dirty flag are read from the
// VCS settings the Go toolchain embeds in the binary, and the module
// version from its build info.
//
//   - [Info] -- "0.1.0-dev (abc1234)" for --version
//   - [Full] -- Info plus Go version and GOOS/GOARCH
package version
