// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package filetests

import (
	"testing"
)

// TestSchemaCases runs all .schematest files under testdata.
func TestSchemaCases(t *testing.T) {
	FileTests{PathToTests: "testdata"}.Run(t)
}
