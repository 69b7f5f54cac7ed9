// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package files enumerates and loads data from file-like Sources (local
files, directories, stdin, HTTP URLs) and writes results to output
directories.

Files are processed by Type: YAML, JSON and TOML inputs all convert to
the same document representation, so one schema checks all three
encodings; Starlark files carry custom validator code.
*/
package files
