// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlmeta_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/esmtools/esmcheck/pkg/yamlmeta"
	"github.com/k14s/difflib"
)

func TestParserKeepsMapOrder(t *testing.T) {
	data := `
datasets:
  - dataset: HadGEM2-ES
    project: CMIP5
preprocessor: pp850
short_name: ta
mip: Amon
`
	docSet := parse(t, data)

	if len(docSet.Items) != 1 {
		t.Fatalf("Expected one document, got %d", len(docSet.Items))
	}

	rootMap, ok := docSet.Items[0].Value.(*yamlmeta.Map)
	if !ok {
		t.Fatalf("Expected root to be a map, got %T", docSet.Items[0].Value)
	}

	var keys []string
	for _, item := range rootMap.Items {
		keys = append(keys, item.Key.(string))
	}

	expectedKeys := []string{"datasets", "preprocessor", "short_name", "mip"}
	if !reflect.DeepEqual(keys, expectedKeys) {
		t.Fatalf("Expected keys %v, got %v", expectedKeys, keys)
	}
}

func TestParserPositions(t *testing.T) {
	data := `short_name: ta
mip: Amon
datasets:
- dataset: HadGEM2-ES
`
	docSet := parse(t, data)

	rootMap := docSet.Items[0].Value.(*yamlmeta.Map)

	expectedLines := map[string]int{"short_name": 1, "mip": 2, "datasets": 3}
	for _, item := range rootMap.Items {
		expected := expectedLines[item.Key.(string)]
		if item.Position.LineNum() != expected {
			t.Fatalf("Expected key %q at line %d, got %d", item.Key, expected, item.Position.LineNum())
		}
		if item.Position.GetFile() != "recipe.yml" {
			t.Fatalf("Expected file recipe.yml, got %q", item.Position.GetFile())
		}
	}

	datasets, _ := rootMap.Items[2].Value.(*yamlmeta.Array)
	if datasets == nil || len(datasets.Items) != 1 {
		t.Fatalf("Expected datasets array with one item")
	}
	if datasets.Items[0].Position.LineNum() != 4 {
		t.Fatalf("Expected array item at line 4, got %d", datasets.Items[0].Position.LineNum())
	}
}

func TestParserScalarTypes(t *testing.T) {
	data := `str: abc
int: 42
float: 4.2
bool: true
none: null
tilde: ~
`
	docSet := parse(t, data)
	rootMap := docSet.Items[0].Value.(*yamlmeta.Map)

	expected := map[string]interface{}{
		"str":   "abc",
		"int":   int64(42),
		"float": 4.2,
		"bool":  true,
		"none":  nil,
		"tilde": nil,
	}

	for _, item := range rootMap.Items {
		expectedVal := expected[item.Key.(string)]
		if !reflect.DeepEqual(item.Value, expectedVal) {
			t.Fatalf("Expected %q to parse as %#v, got %#v", item.Key, expectedVal, item.Value)
		}
	}
}

func TestParserMultipleDocuments(t *testing.T) {
	data := `key: val
---
other: val2
`
	docSet := parse(t, data)

	if len(docSet.Items) != 2 {
		t.Fatalf("Expected two documents, got %d", len(docSet.Items))
	}
}

func TestSerializationIsStable(t *testing.T) {
	data := `diagnostics:
  ta850:
    variables:
      ta:
        preprocessor: pp850
        mip: Amon
    additional_datasets:
      - dataset: ERA-Interim
        tier: 3
`
	once := serialize(t, parse(t, data))
	twice := serialize(t, parse(t, once))

	if once != twice {
		t.Fatalf("Not equal; diff expected...actual:\n%v\n",
			difflib.PPDiff(strings.Split(once, "\n"), strings.Split(twice, "\n")))
	}

	firstPlain := yamlmeta.NewPlainFromAST(parse(t, data))
	oncePlain := yamlmeta.NewPlainFromAST(parse(t, once))
	if !reflect.DeepEqual(firstPlain, oncePlain) {
		t.Fatalf("Expected serialized document to parse back to the same value")
	}
}

func TestParserDuplicateKeysLastWins(t *testing.T) {
	data := `a: 1
a: 2
b: 3
`
	docSet := parse(t, data)
	rootMap := docSet.Items[0].Value.(*yamlmeta.Map)

	if len(rootMap.Items) != 2 {
		t.Fatalf("Expected duplicate key to collapse into one item, got %d items", len(rootMap.Items))
	}
	if rootMap.Items[0].Key != "a" || rootMap.Items[1].Key != "b" {
		t.Fatalf("Expected keys [a b], got [%v %v]", rootMap.Items[0].Key, rootMap.Items[1].Key)
	}
	if !reflect.DeepEqual(rootMap.Items[0].Value, int64(2)) {
		t.Fatalf("Expected last occurrence of 'a' to win, got %#v", rootMap.Items[0].Value)
	}
}

func TestParserStrictDuplicateKeys(t *testing.T) {
	data := `a: 1
a: 2
`
	parser := yamlmeta.NewParserWithOpts(yamlmeta.ParserOpts{Strict: true})
	_, err := parser.ParseBytes([]byte(data), "recipe.yml")
	if err == nil {
		t.Fatalf("Expected strict parse of duplicate keys to fail")
	}
	for _, expected := range []string{"duplicate map key", "key 'a'", "recipe.yml:2", "recipe.yml:1"} {
		if !strings.Contains(err.Error(), expected) {
			t.Fatalf("Expected error to mention %q, got: %s", expected, err)
		}
	}
}

func TestParserKeepsComments(t *testing.T) {
	data := `# recipe header
documentation:
  title: Amon check # inline note
`
	comments := collectComments(parse(t, data))

	byData := map[string]int{}
	for _, comment := range comments {
		byData[comment.Data] = comment.Position.LineNum()
	}

	if line, found := byData[" recipe header"]; !found || line != 1 {
		t.Fatalf("Expected header comment at line 1, got %v (found=%v)", line, found)
	}
	if line, found := byData[" inline note"]; !found || line != 3 {
		t.Fatalf("Expected inline comment at line 3, got %v (found=%v)", line, found)
	}
}

func TestParserCommentsSurviveDeepCopy(t *testing.T) {
	data := `# recipe header
short_name: ta
`
	docSet := parse(t, data)
	copied := docSet.DeepCopy()

	original := collectComments(docSet)
	copiedComments := collectComments(copied)

	if len(original) == 0 || len(copiedComments) != len(original) {
		t.Fatalf("Expected %d comments after deep copy, got %d", len(original), len(copiedComments))
	}
	if copiedComments[0].Data != original[0].Data {
		t.Fatalf("Expected comment data to survive deep copy, got %q", copiedComments[0].Data)
	}
	if copiedComments[0] == original[0] {
		t.Fatalf("Expected deep copy to allocate new comments")
	}
}

func collectComments(val interface{}) []*yamlmeta.Comment {
	var result []*yamlmeta.Comment
	switch typedVal := val.(type) {
	case *yamlmeta.DocumentSet:
		for _, doc := range typedVal.Items {
			result = append(result, collectComments(doc)...)
		}
	case *yamlmeta.Document:
		result = append(result, typedVal.Comments...)
		result = append(result, collectComments(typedVal.Value)...)
	case *yamlmeta.Map:
		result = append(result, typedVal.Comments...)
		for _, item := range typedVal.Items {
			result = append(result, item.Comments...)
			result = append(result, collectComments(item.Value)...)
		}
	case *yamlmeta.Array:
		result = append(result, typedVal.Comments...)
		for _, item := range typedVal.Items {
			result = append(result, item.Comments...)
			result = append(result, collectComments(item.Value)...)
		}
	}
	return result
}

func parse(t *testing.T, data string) *yamlmeta.DocumentSet {
	t.Helper()
	docSet, err := yamlmeta.NewParser().ParseBytes([]byte(data), "recipe.yml")
	if err != nil {
		t.Fatalf("Unexpected parse error: %s", err)
	}
	return docSet
}

func serialize(t *testing.T, docSet *yamlmeta.DocumentSet) string {
	t.Helper()
	bs, err := docSet.AsBytes()
	if err != nil {
		t.Fatalf("Unexpected serialization error: %s", err)
	}
	return string(bs)
}
