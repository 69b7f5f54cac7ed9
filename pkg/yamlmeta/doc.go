// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

// Package yamlmeta parses YAML into an AST in which every node knows its
// source position, so schema violations can point back at the input.
package yamlmeta
