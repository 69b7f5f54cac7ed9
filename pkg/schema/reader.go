// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"fmt"

	"github.com/esmtools/esmcheck/pkg/filepos"
	toolversion "github.com/esmtools/esmcheck/pkg/version"
	"github.com/esmtools/esmcheck/pkg/yamlmeta"
	goversion "github.com/hashicorp/go-version"
)

// versionPragmaKey is a reserved top-level schema key declaring the
// minimum esmcheck version the schema was written for.
const versionPragmaKey = "_version"

// RuleSet is a compiled schema: the root validator from the first schema
// document plus named includes from the following documents.
type RuleSet struct {
	Root     Validator
	Includes map[string]Validator
}

// NewRuleSetFromBytes parses and compiles a schema file. Schemas parse
// in strict mode: a duplicate key in a schema is an authoring mistake,
// not a value to be overridden.
func NewRuleSetFromBytes(data []byte, associatedName string) (*RuleSet, error) {
	docSet, err := yamlmeta.NewParserWithOpts(yamlmeta.ParserOpts{Strict: true}).ParseBytes(data, associatedName)
	if err != nil {
		return nil, fmt.Errorf("Parsing schema '%s': %s", associatedName, err)
	}
	return NewRuleSet(docSet)
}

// NewRuleSet compiles a schema document set. The first document is the
// root schema; each following document contributes named includes via its
// top-level keys.
func NewRuleSet(docSet *yamlmeta.DocumentSet) (*RuleSet, error) {
	if len(docSet.Items) == 0 || docSet.Items[0].Value == nil {
		return nil, NewInvalidSchemaError(docSet.Position, "expected schema document to not be empty", "")
	}

	rootDoc := docSet.Items[0]

	if rootMap, ok := rootDoc.Value.(*yamlmeta.Map); ok {
		if err := checkVersionPragma(rootMap); err != nil {
			return nil, err
		}
	}

	root, _, err := compileNode(rootDoc.Value, rootDoc.Position)
	if err != nil {
		return nil, err
	}

	ruleSet := &RuleSet{Root: root, Includes: map[string]Validator{}}

	for _, doc := range docSet.Items[1:] {
		if err := ruleSet.addIncludes(doc); err != nil {
			return nil, err
		}
	}

	return ruleSet, nil
}

// AddIncludesFromBytes merges include definitions from an additional
// schema file, eg one shared between recipes.
func (rs *RuleSet) AddIncludesFromBytes(data []byte, associatedName string) error {
	docSet, err := yamlmeta.NewParserWithOpts(yamlmeta.ParserOpts{Strict: true}).ParseBytes(data, associatedName)
	if err != nil {
		return fmt.Errorf("Parsing includes '%s': %s", associatedName, err)
	}
	for _, doc := range docSet.Items {
		if err := rs.addIncludes(doc); err != nil {
			return err
		}
	}
	return nil
}

func (rs *RuleSet) addIncludes(doc *yamlmeta.Document) error {
	if doc.Value == nil {
		return nil
	}

	docMap, ok := doc.Value.(*yamlmeta.Map)
	if !ok {
		return NewInvalidSchemaError(doc.Position,
			"expected include document to hold a map of named schemas",
			"each top-level key names an include referenced via include('name')")
	}

	for _, item := range docMap.Items {
		name, ok := item.Key.(string)
		if !ok {
			return NewInvalidSchemaError(item.Position, "expected include name to be a string", "")
		}
		if _, found := rs.Includes[name]; found {
			return NewInvalidSchemaError(item.Position, fmt.Sprintf("include %q is defined more than once", name), "")
		}

		validator, _, err := compileNode(item.Value, item.Position)
		if err != nil {
			return err
		}
		rs.Includes[name] = validator
	}
	return nil
}

func checkVersionPragma(rootMap *yamlmeta.Map) error {
	for i, item := range rootMap.Items {
		if item.Key != versionPragmaKey {
			continue
		}

		constraintStr, ok := item.Value.(string)
		if !ok {
			return NewInvalidSchemaError(item.Position, "_version pragma must be a version constraint string", "eg _version: \">= 0.1.0\"")
		}

		constraint, err := goversion.NewConstraint(constraintStr)
		if err != nil {
			return NewInvalidSchemaError(item.Position, fmt.Sprintf("invalid _version constraint: %s", err), "")
		}

		current, err := goversion.NewVersion(toolversion.Version)
		if err != nil {
			return fmt.Errorf("Parsing own version %q: %s", toolversion.Version, err)
		}

		if !constraint.Check(current) {
			return fmt.Errorf("Schema requires esmcheck version %q, but this is version %s (declared at %s)",
				constraintStr, toolversion.Version, item.Position.AsCompactString())
		}

		rootMap.Items = append(rootMap.Items[:i], rootMap.Items[i+1:]...)
		return nil
	}
	return nil
}

// compileNode turns one schema node into a validator: scalar strings are
// validator expressions, nested maps become structural map schemas.
func compileNode(val interface{}, pos *filepos.Position) (Validator, bool, error) {
	switch typedVal := val.(type) {
	case string:
		expr, err := ParseExpr(typedVal, pos)
		if err != nil {
			return nil, false, err
		}
		return buildValidator(expr)

	case *yamlmeta.Map:
		mapSchema, err := newMapSchema(typedVal)
		if err != nil {
			return nil, false, err
		}
		return mapSchema, true, nil

	case *yamlmeta.Array:
		return nil, false, NewInvalidSchemaError(typedVal.Position,
			"expected a validator expression, found a YAML list",
			"use list(...) to describe list values")

	default:
		return nil, false, NewInvalidSchemaError(pos,
			fmt.Sprintf("expected a validator expression, found %s", yamlmeta.TypeName(val)),
			"schema values are rules such as str(), int(min=0) or include('name')")
	}
}

// MapSchema is the structural rule compiled from a map literal in the
// schema document: a fixed set of keys, each with its own rule.
type MapSchema struct {
	items    []*mapItemSchema
	position *filepos.Position
}

type mapItemSchema struct {
	key       interface{}
	validator Validator
	required  bool
	position  *filepos.Position
}

func newMapSchema(schemaMap *yamlmeta.Map) (*MapSchema, error) {
	result := &MapSchema{position: schemaMap.Position}

	for _, item := range schemaMap.Items {
		validator, required, err := compileNode(item.Value, item.Position)
		if err != nil {
			return nil, err
		}
		result.items = append(result.items, &mapItemSchema{
			key:       item.Key,
			validator: validator,
			required:  required,
			position:  item.Position,
		})
	}
	return result, nil
}

func (m *MapSchema) DescribeExpected() string { return "map" }

func (m *MapSchema) Check(val interface{}, pos *filepos.Position, ctx *Context) []error {
	mapNode, ok := val.(*yamlmeta.Map)
	if !ok {
		return []error{NewMismatchedTypeError(val, pos, m.DescribeExpected())}
	}

	var errs []error
	var foundKeys []interface{}

	for _, dataItem := range mapNode.Items {
		itemSchema := m.itemForKey(dataItem.Key)
		if itemSchema == nil {
			if ctx.Strict {
				errs = append(errs, NewUnexpectedKeyError(dataItem, m.position))
			}
			continue
		}
		foundKeys = append(foundKeys, dataItem.Key)
		errs = append(errs, itemSchema.validator.Check(dataItem.Value, dataItem.Position, ctx)...)
	}

	for _, itemSchema := range m.items {
		if !itemSchema.required || containsKey(foundKeys, itemSchema.key) {
			continue
		}
		errs = append(errs, NewMissingKeyError(itemSchema.key, mapNode.Position, itemSchema.position))
	}

	return errs
}

func (m *MapSchema) itemForKey(key interface{}) *mapItemSchema {
	for _, item := range m.items {
		if item.key == key {
			return item
		}
	}
	return nil
}

func containsKey(haystack []interface{}, needle interface{}) bool {
	for _, key := range haystack {
		if key == needle {
			return true
		}
	}
	return false
}
