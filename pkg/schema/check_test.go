// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package schema_test

import (
	"strings"
	"testing"

	"github.com/esmtools/esmcheck/pkg/schema"
	"github.com/stretchr/testify/require"
)

const recipeSchema = `
documentation: include('documentation')
datasets: list(include('dataset'), min=1)
preprocessors: map(map(), required=False)
---
documentation:
  title: str(min=1)
  description: str(required=False)
  authors: list(str(), min=1)
dataset:
  dataset: str()
  project: enum('CMIP5', 'CMIP6', 'OBS')
  mip: str(required=False)
  start_year: int(min=1, max=2500, required=False)
  end_year: int(min=1, max=2500, required=False)
`

const goodRecipe = `
documentation:
  title: Surface temperature trends
  authors:
  - righi_mattia
datasets:
- dataset: BCC-ESM1
  project: CMIP6
  mip: Amon
  start_year: 1850
  end_year: 2014
`

func mustRuleSet(t *testing.T, schemaSrc string) *schema.RuleSet {
	t.Helper()
	ruleSet, err := schema.NewRuleSetFromBytes([]byte(schemaSrc), "schema.yml")
	require.NoError(t, err)
	return ruleSet
}

func TestRuleSetRejectsDuplicateSchemaKeys(t *testing.T) {
	_, err := schema.NewRuleSetFromBytes([]byte("name: str()\nname: int()\n"), "schema.yml")
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate map key")
	require.Contains(t, err.Error(), "schema.yml:2")
}

func TestCheckValidRecipe(t *testing.T) {
	ruleSet := mustRuleSet(t, recipeSchema)

	chk, err := schema.CheckBytes(ruleSet, []byte(goodRecipe), "recipe.yml", schema.CheckOpts{})
	require.NoError(t, err)
	require.False(t, chk.HasViolations(), chk.Error())
}

func TestCheckMissingRequiredKey(t *testing.T) {
	ruleSet := mustRuleSet(t, recipeSchema)

	data := `
documentation:
  title: Missing authors here
datasets:
- dataset: BCC-ESM1
  project: CMIP6
`
	chk, err := schema.CheckBytes(ruleSet, []byte(data), "recipe.yml", schema.CheckOpts{})
	require.NoError(t, err)
	require.True(t, chk.HasViolations())
	require.Contains(t, chk.Error(), "MISSING KEY")
	require.Contains(t, chk.Error(), "authors")
}

func TestCheckWrongValueType(t *testing.T) {
	ruleSet := mustRuleSet(t, recipeSchema)

	data := `
documentation:
  title: Bad year below
  authors: [righi_mattia]
datasets:
- dataset: BCC-ESM1
  project: CMIP6
  start_year: eighteen-fifty
`
	chk, err := schema.CheckBytes(ruleSet, []byte(data), "recipe.yml", schema.CheckOpts{})
	require.NoError(t, err)
	require.True(t, chk.HasViolations())
	require.Contains(t, chk.Error(), "TYPE MISMATCH")
	require.Contains(t, chk.Error(), "recipe.yml:8")
}

func TestCheckEnumViolation(t *testing.T) {
	ruleSet := mustRuleSet(t, recipeSchema)

	data := strings.Replace(goodRecipe, "CMIP6", "CMIP7", 1)
	chk, err := schema.CheckBytes(ruleSet, []byte(data), "recipe.yml", schema.CheckOpts{})
	require.NoError(t, err)
	require.True(t, chk.HasViolations())
	require.Contains(t, chk.Error(), "one of \"CMIP5\", \"CMIP6\", \"OBS\"")
}

func TestCheckStrictRejectsUnexpectedKeys(t *testing.T) {
	ruleSet := mustRuleSet(t, recipeSchema)

	data := strings.Replace(goodRecipe, "mip: Amon", "mip: Amon\n  typo_key: oops", 1)

	chk, err := schema.CheckBytes(ruleSet, []byte(data), "recipe.yml", schema.CheckOpts{})
	require.NoError(t, err)
	require.False(t, chk.HasViolations(), chk.Error())

	chk, err = schema.CheckBytes(ruleSet, []byte(data), "recipe.yml", schema.CheckOpts{Strict: true})
	require.NoError(t, err)
	require.True(t, chk.HasViolations())
	require.Contains(t, chk.Error(), "UNEXPECTED KEY")
	require.Contains(t, chk.Error(), "typo_key")
}

func TestCheckIncludeStrictOverride(t *testing.T) {
	schemaSrc := `
settings: include('free_map', strict=False)
---
free_map:
  known: str(required=False)
`
	ruleSet := mustRuleSet(t, schemaSrc)

	data := `
settings:
  anything: goes
`
	chk, err := schema.CheckBytes(ruleSet, []byte(data), "recipe.yml", schema.CheckOpts{Strict: true})
	require.NoError(t, err)
	require.False(t, chk.HasViolations(), chk.Error())
}

func TestCheckSharedIncludes(t *testing.T) {
	ruleSet := mustRuleSet(t, `root: include('shared')`)

	err := ruleSet.AddIncludesFromBytes([]byte("shared: str()"), "shared.yml")
	require.NoError(t, err)

	chk, err := schema.CheckBytes(ruleSet, []byte("root: fine"), "data.yml", schema.CheckOpts{})
	require.NoError(t, err)
	require.False(t, chk.HasViolations(), chk.Error())
}

func TestCheckUnknownIncludeReported(t *testing.T) {
	ruleSet := mustRuleSet(t, `root: include('nope')`)

	chk, err := schema.CheckBytes(ruleSet, []byte("root: x"), "data.yml", schema.CheckOpts{})
	require.NoError(t, err)
	require.True(t, chk.HasViolations())
	require.Contains(t, chk.Error(), `Unknown include "nope"`)
}

func TestCheckIncludeCycleBounded(t *testing.T) {
	ruleSet := mustRuleSet(t, `
root: include('a')
---
a: any(str(), include('b'))
b: any(str(), include('a'))
`)

	chk, err := schema.CheckBytes(ruleSet, []byte("root: 5"), "data.yml", schema.CheckOpts{})
	require.NoError(t, err)
	require.True(t, chk.HasViolations())
}

func TestCheckDuplicateIncludeRejected(t *testing.T) {
	_, err := schema.NewRuleSetFromBytes([]byte(`
root: str()
---
dup: str()
---
dup: int()
`), "schema.yml")
	require.Error(t, err)
	require.Contains(t, err.Error(), "more than once")
}

func TestCheckMultipleDataDocuments(t *testing.T) {
	ruleSet := mustRuleSet(t, `name: str()`)

	data := "name: one\n---\nname: 2\n"
	chk, err := schema.CheckBytes(ruleSet, []byte(data), "data.yml", schema.CheckOpts{})
	require.NoError(t, err)
	require.Len(t, chk.Violations, 1)
}

func TestVersionPragma(t *testing.T) {
	_, err := schema.NewRuleSetFromBytes([]byte("_version: \">= 0.1.0\"\nname: str()"), "schema.yml")
	require.NoError(t, err)

	_, err = schema.NewRuleSetFromBytes([]byte("_version: \">= 99.0.0\"\nname: str()"), "schema.yml")
	require.Error(t, err)
	require.Contains(t, err.Error(), "requires esmcheck version")
}

func TestEmptySchemaRejected(t *testing.T) {
	_, err := schema.NewRuleSetFromBytes([]byte(""), "schema.yml")
	require.Error(t, err)

	_, err = schema.NewRuleSetFromBytes([]byte("---\n"), "schema.yml")
	require.Error(t, err)
}

func TestRootMayBeAScalarRule(t *testing.T) {
	ruleSet := mustRuleSet(t, `list(str())`)

	chk, err := schema.CheckBytes(ruleSet, []byte("- tas\n- pr\n"), "data.yml", schema.CheckOpts{})
	require.NoError(t, err)
	require.False(t, chk.HasViolations(), chk.Error())

	chk, err = schema.CheckBytes(ruleSet, []byte("- tas\n- 5\n"), "data.yml", schema.CheckOpts{})
	require.NoError(t, err)
	require.True(t, chk.HasViolations())
}
