// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Crush runs typed streaming pipelines described by JSONC files.
//
// Usage:
//
//	crush run [--set NAME=VALUE]... [--format table|json] [--input FILE] <descriptor.jsonc>
//	crush check <descriptor.jsonc>
//	crush commands [pattern]
//	crush help <command | type | type:method>
//	crush version
//
// Every subcommand that loads configuration accepts --config; without
// it, the file named by CRUSH_CONFIG is used, and without that the
// built-in defaults.
package main
