// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

// Package orderedmap provides an insertion-ordered map.
package orderedmap
