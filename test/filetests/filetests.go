// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package filetests houses a test harness for checking data against schemas and
asserting the expected violations.
*/
package filetests

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/esmtools/esmcheck/pkg/schema"
)

// FileTests contain a suite of test cases, each described in a separate file,
// verifying the behavior of schema checks.
//
// Test cases:
// - are found within the directory at "PathToTests"
// - conventionally have a .schematest extension
// - contain three sections divided by `+++` on its own line:
//   schema, data, expected outcome.
//
// Types of outcome:
// - `OK` means the data must pass the check
// - lines starting with `ERR:` name fragments that must each appear among
//   the reported violations (and violations must be reported)
//
// For example:
//
//	name: str()
//	+++
//	name: tas
//	+++
//	OK
type FileTests struct {
	PathToTests string
	Strict      bool
}

// Run runs each test case found in PathToTests as a sub-test of t.
func (f FileTests) Run(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join(f.PathToTests, "*.schematest"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatalf("no .schematest files found in %s", f.PathToTests)
	}

	for _, path := range paths {
		path := path
		t.Run(filepath.Base(path), func(t *testing.T) {
			contents, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}

			schemaSrc, dataSrc, expected, err := splitCase(string(contents))
			if err != nil {
				t.Fatal(err)
			}

			ruleSet, err := schema.NewRuleSetFromBytes([]byte(schemaSrc), path+" (schema)")
			if err != nil {
				t.Fatalf("compiling schema: %s", err)
			}

			chk, err := schema.CheckBytes(ruleSet, []byte(dataSrc), path+" (data)", schema.CheckOpts{Strict: f.Strict})
			if err != nil {
				t.Fatalf("checking data: %s", err)
			}

			assertOutcome(t, chk, expected)
		})
	}
}

func splitCase(contents string) (schemaSrc, dataSrc, expected string, err error) {
	pieces := strings.Split(contents, "\n+++\n")
	if len(pieces) != 3 {
		return "", "", "", fmt.Errorf("expected 3 sections divided by '+++', found %d", len(pieces))
	}
	return pieces[0], pieces[1], strings.TrimSpace(pieces[2]), nil
}

func assertOutcome(t *testing.T, chk schema.TypeCheck, expected string) {
	t.Helper()

	if expected == "OK" {
		if chk.HasViolations() {
			t.Fatalf("expected data to pass, but found violations:\n%s", chk.Error())
		}
		return
	}

	if !chk.HasViolations() {
		t.Fatalf("expected violations, but data passed")
	}

	for _, line := range strings.Split(expected, "\n") {
		fragment := strings.TrimSpace(strings.TrimPrefix(line, "ERR:"))
		if fragment == "" {
			continue
		}
		if !strings.Contains(chk.Error(), fragment) {
			t.Fatalf("expected violations to mention %q, but they were:\n%s", fragment, chk.Error())
		}
	}
}
