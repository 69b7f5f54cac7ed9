// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"fmt"
	"strings"

	"github.com/esmtools/esmcheck/pkg/filepos"
	"github.com/esmtools/esmcheck/pkg/yamlmeta"
)

// TypeCheck accumulates all violations found while checking a document
// set; checking never stops at the first failure.
type TypeCheck struct {
	Violations []error
}

func (tc TypeCheck) HasViolations() bool {
	return len(tc.Violations) > 0
}

// Error renders all violations into one multi-line message.
func (tc TypeCheck) Error() string {
	if !tc.HasViolations() {
		return ""
	}

	var msg string
	for _, err := range tc.Violations {
		msg += err.Error() + "\n"
	}
	return msg
}

func NewMismatchedTypeError(found interface{}, pos *filepos.Position, expected string) error {
	return assertionError{
		position: pos,
		title:    "TYPE MISMATCH - the value of this item is not what schema expected:",
		found:    yamlmeta.TypeName(found),
		expected: expected,
	}
}

func NewUnexpectedKeyError(item *yamlmeta.MapItem, mapDefinition *filepos.Position) error {
	return assertionError{
		position: item.Position,
		title:    "UNEXPECTED KEY - this key was not found in the schema's corresponding map:",
		found:    fmt.Sprintf("%v", item.Key),
		expected: fmt.Sprintf("(a key defined at %s)", mapDefinition.AsCompactString()),
		hints:    []string{"declare the key in the schema, or disable strict checking"},
	}
}

func NewMissingKeyError(key interface{}, dataPos, schemaPos *filepos.Position) error {
	return assertionError{
		position: dataPos,
		title:    "MISSING KEY - this map lacks a key required by schema:",
		found:    "(nothing)",
		expected: fmt.Sprintf("%v (required by %s)", key, schemaPos.AsCompactString()),
		hints:    []string{"mark the rule with required=False if the key is optional"},
	}
}

func NewValueError(pos *filepos.Position, found, expected string, hints ...string) error {
	return assertionError{
		position: pos,
		title:    "VALUE NOT ALLOWED - the value of this item fails the schema rule:",
		found:    found,
		expected: expected,
		hints:    hints,
	}
}

func NewInvalidSchemaError(pos *filepos.Position, message, hint string) error {
	err := assertionError{
		position: pos,
		title:    "INVALID SCHEMA - " + message,
	}
	if hint != "" {
		err.hints = []string{hint}
	}
	return err
}

type assertionError struct {
	position *filepos.Position
	title    string
	found    string
	expected string
	hints    []string
}

func (e assertionError) Error() string {
	position := e.position.AsCompactString()
	leftColumnSize := len(position) + 1
	lineContent := strings.TrimSpace(e.position.GetLine())

	msg := "\n"
	msg += formatLine(leftColumnSize, position, lineContent)
	msg += formatLine(leftColumnSize, "", "")
	msg += formatLine(leftColumnSize, "", e.title)
	if e.found != "" {
		msg += formatLine(leftColumnSize, "", fmt.Sprintf("     found: %s", e.found))
	}
	if e.expected != "" {
		msg += formatLine(leftColumnSize, "", fmt.Sprintf("  expected: %s", e.expected))
	}
	for _, hint := range e.hints {
		msg += formatLine(leftColumnSize, "", fmt.Sprintf("  (hint: %s)", hint))
	}

	return msg
}

func leftPadding(size int) string {
	result := ""
	for i := 0; i < size; i++ {
		result += " "
	}
	return result
}

func formatLine(leftColumnSize int, left, right string) string {
	if len(right) > 0 {
		right = " " + right
	}
	return fmt.Sprintf("%s%s|%s\n", left, leftPadding(leftColumnSize-len(left)), right)
}
