// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlmeta_test

import (
	"strings"
	"testing"

	"github.com/esmtools/esmcheck/pkg/yamlmeta"
)

func TestFilePositionPrinter(t *testing.T) {
	data := `short_name: ta
mip: Amon
datasets:
- dataset: HadGEM2-ES
`
	docSet := parse(t, data)

	out := yamlmeta.NewFilePositionPrinter(nil).PrintStr(docSet)

	expectedFragments := []string{
		"[docset]",
		"[doc]",
		"recipe.yml:1 | ",
		"short_name: ta",
		"recipe.yml:2 | ",
		"mip: Amon",
		"recipe.yml:3 | ",
		"datasets:",
		"recipe.yml:4 | ",
		"[0]",
		"dataset: HadGEM2-ES",
	}
	for _, fragment := range expectedFragments {
		if !strings.Contains(out, fragment) {
			t.Fatalf("Expected output to contain %q, got:\n%s", fragment, out)
		}
	}
}

func TestFilePositionPrinterAlignsLocations(t *testing.T) {
	data := `a: 1
b: 2
`
	out := yamlmeta.NewFilePositionPrinter(nil).PrintStr(parse(t, data))

	var locWidths []int
	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		idx := strings.Index(line, " | ")
		if idx < 0 {
			continue
		}
		locWidths = append(locWidths, idx)
	}

	if len(locWidths) < 2 {
		t.Fatalf("Expected multiple located lines, got:\n%s", out)
	}
	for _, width := range locWidths[1:] {
		if width != locWidths[0] {
			t.Fatalf("Expected location columns to align, got:\n%s", out)
		}
	}
}
