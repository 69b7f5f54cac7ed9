// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package schema_test

import (
	"testing"

	"github.com/esmtools/esmcheck/pkg/schema"
	"github.com/stretchr/testify/require"
)

const validatorsStarlark = `
def valid_mip(val):
  if val in ["Amon", "Omon", "day", "6hrLev"]:
    return True
  return "unknown MIP table '%s'" % val

def short_name(val):
  return len(val) <= 16

def always_ok(val):
  pass
`

func loadCustoms(t *testing.T) *schema.CustomValidators {
	t.Helper()
	customs := schema.NewCustomValidators()
	require.NoError(t, customs.LoadFile("validators.star", []byte(validatorsStarlark)))
	return customs
}

func TestCustomValidatorPassAndFail(t *testing.T) {
	ruleSet := mustRuleSet(t, `mip: custom('valid_mip')`)
	opts := schema.CheckOpts{Customs: loadCustoms(t)}

	chk, err := schema.CheckBytes(ruleSet, []byte("mip: Amon"), "data.yml", opts)
	require.NoError(t, err)
	require.False(t, chk.HasViolations(), chk.Error())

	chk, err = schema.CheckBytes(ruleSet, []byte("mip: Wrong"), "data.yml", opts)
	require.NoError(t, err)
	require.True(t, chk.HasViolations())
	require.Contains(t, chk.Error(), "unknown MIP table 'Wrong'")
}

func TestCustomValidatorFalseResult(t *testing.T) {
	ruleSet := mustRuleSet(t, `name: custom('short_name')`)
	opts := schema.CheckOpts{Customs: loadCustoms(t)}

	chk, err := schema.CheckBytes(ruleSet, []byte("name: this_name_is_way_too_long"), "data.yml", opts)
	require.NoError(t, err)
	require.True(t, chk.HasViolations())
	require.Contains(t, chk.Error(), `value rejected by custom validator "short_name"`)
}

func TestCustomValidatorNoneResult(t *testing.T) {
	ruleSet := mustRuleSet(t, `anything: custom('always_ok')`)
	opts := schema.CheckOpts{Customs: loadCustoms(t)}

	chk, err := schema.CheckBytes(ruleSet, []byte("anything: at all"), "data.yml", opts)
	require.NoError(t, err)
	require.False(t, chk.HasViolations(), chk.Error())
}

func TestCustomValidatorReceivesStructuredValues(t *testing.T) {
	customs := schema.NewCustomValidators()
	require.NoError(t, customs.LoadFile("v.star", []byte(`
def has_dataset(val):
  return "dataset" in val and type(val["datasets"]) == "list"
`)))

	ruleSet := mustRuleSet(t, `root: custom('has_dataset')`)

	data := `
root:
  dataset: BCC-ESM1
  datasets: [a, b]
`
	chk, err := schema.CheckBytes(ruleSet, []byte(data), "data.yml", schema.CheckOpts{Customs: customs})
	require.NoError(t, err)
	require.False(t, chk.HasViolations(), chk.Error())
}

func TestCustomValidatorUnknownFunction(t *testing.T) {
	ruleSet := mustRuleSet(t, `x: custom('nope')`)

	chk, err := schema.CheckBytes(ruleSet, []byte("x: 1"), "data.yml", schema.CheckOpts{Customs: loadCustoms(t)})
	require.NoError(t, err)
	require.True(t, chk.HasViolations())
	require.Contains(t, chk.Error(), `Unknown custom validator "nope"`)
}

func TestCustomValidatorsRequireLoading(t *testing.T) {
	ruleSet := mustRuleSet(t, `x: custom('valid_mip')`)

	chk, err := schema.CheckBytes(ruleSet, []byte("x: Amon"), "data.yml", schema.CheckOpts{})
	require.NoError(t, err)
	require.True(t, chk.HasViolations())
	require.Contains(t, chk.Error(), "no custom validators were loaded")
}

func TestCustomValidatorLoadError(t *testing.T) {
	customs := schema.NewCustomValidators()
	err := customs.LoadFile("broken.star", []byte("def broken(:\n"))
	require.Error(t, err)
}
