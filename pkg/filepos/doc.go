// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

// Package filepos carries source positions (file, line, column) for parsed
// YAML nodes so that validation errors can point at the offending input.
package filepos
