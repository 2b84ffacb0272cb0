// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the crush
// command.
//
// Configuration comes from a single file named by either the
// CRUSH_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). When neither is given, [Default] applies. There is
// no file search and environment variables never override values set
// in the file.
//
// Variable expansion is performed on path fields after loading:
// ${HOME} and ${VAR:-default} patterns are expanded.
//
// Key exports:
//
//   - [Config] -- master struct with Stream, Log, Paths, Help
//   - [Default] -- returns a Config usable without a file
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Config.Validate] -- reports every problem at once
package config
