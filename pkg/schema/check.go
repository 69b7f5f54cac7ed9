// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"github.com/esmtools/esmcheck/pkg/yamlmeta"
)

type CheckOpts struct {
	Strict  bool
	Customs *CustomValidators
}

// Check validates every document in the set against the rule set's root
// schema, accumulating all violations.
func Check(ruleSet *RuleSet, docSet *yamlmeta.DocumentSet, opts CheckOpts) TypeCheck {
	ctx := &Context{
		Includes: ruleSet.Includes,
		Strict:   opts.Strict,
		Customs:  opts.Customs,
	}

	var chk TypeCheck
	for _, doc := range docSet.Items {
		chk.Violations = append(chk.Violations, ruleSet.Root.Check(doc.Value, doc.Position, ctx)...)
	}
	return chk
}

// CheckBytes parses and validates data in one step.
func CheckBytes(ruleSet *RuleSet, data []byte, associatedName string, opts CheckOpts) (TypeCheck, error) {
	docSet, err := yamlmeta.NewParser().ParseBytes(data, associatedName)
	if err != nil {
		return TypeCheck{}, err
	}
	return Check(ruleSet, docSet, opts), nil
}
