// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlmeta_test

import (
	"testing"

	"github.com/esmtools/esmcheck/pkg/orderedmap"
	"github.com/esmtools/esmcheck/pkg/yamlmeta"
	"github.com/google/go-cmp/cmp"
	fuzz "github.com/google/gofuzz"
)

func TestPlainConversionRoundTrip(t *testing.T) {
	fuzzer := fuzz.New().NilChance(0).NumElements(1, 8)

	for i := 0; i < 100; i++ {
		attrs := map[string]string{}
		fuzzer.Fuzz(&attrs)

		original := map[string]interface{}{}
		for k, v := range attrs {
			original[k] = v
		}

		ordered := orderedmap.Conversion{Object: original}.FromUnorderedMaps()
		ast := yamlmeta.NewASTFromInterface(ordered)
		plain := yamlmeta.NewPlainFromAST(ast)

		result := orderedmap.Conversion{Object: plain}.AsUnorderedStringMaps()

		if diff := cmp.Diff(original, result); diff != "" {
			t.Fatalf("Round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestASTFromInterfaceNestedValues(t *testing.T) {
	m := orderedmap.NewMap()
	m.Set("short_name", "ta")
	m.Set("levels", []interface{}{int64(85000), int64(50000)})

	ast := yamlmeta.NewASTFromInterface(m)

	astMap, ok := ast.(*yamlmeta.Map)
	if !ok {
		t.Fatalf("Expected *yamlmeta.Map, got %T", ast)
	}
	if len(astMap.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(astMap.Items))
	}
	if _, ok := astMap.Items[1].Value.(*yamlmeta.Array); !ok {
		t.Fatalf("Expected levels to convert to *yamlmeta.Array, got %T", astMap.Items[1].Value)
	}
}
