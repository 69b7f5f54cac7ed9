// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlmeta

import (
	"fmt"

	"github.com/esmtools/esmcheck/pkg/filepos"
	"github.com/esmtools/esmcheck/pkg/orderedmap"
)

// NewPlainFromAST strips positions from an AST value, producing ordered
// maps, slices and scalars.
func NewPlainFromAST(val interface{}) interface{} {
	switch typedVal := val.(type) {
	case *DocumentSet:
		var result []interface{}
		for _, item := range typedVal.Items {
			result = append(result, NewPlainFromAST(item.Value))
		}
		return result

	case *Document:
		return NewPlainFromAST(typedVal.Value)

	case *Map:
		result := orderedmap.NewMap()
		for _, item := range typedVal.Items {
			result.Set(item.Key, NewPlainFromAST(item.Value))
		}
		return result

	case *Array:
		result := []interface{}{}
		for _, item := range typedVal.Items {
			result = append(result, NewPlainFromAST(item.Value))
		}
		return result

	case *MapItem, *ArrayItem:
		panic(fmt.Sprintf("Unexpected %T in NewPlainFromAST", val))

	default:
		return val
	}
}

// NewASTFromInterface wraps a plain value (ordered maps, slices, scalars)
// into AST nodes with unknown positions.
func NewASTFromInterface(val interface{}) interface{} {
	switch typedVal := val.(type) {
	case *orderedmap.Map:
		result := &Map{Position: filepos.NewUnknownPosition()}
		typedVal.Iterate(func(k, v interface{}) {
			result.Items = append(result.Items, &MapItem{
				Key:      k,
				Value:    NewASTFromInterface(v),
				Position: filepos.NewUnknownPosition(),
			})
		})
		return result

	case map[string]interface{}, map[interface{}]interface{}:
		return NewASTFromInterface(orderedmap.Conversion{Object: typedVal}.FromUnorderedMaps())

	case []interface{}:
		result := &Array{Position: filepos.NewUnknownPosition()}
		for _, item := range typedVal {
			result.Items = append(result.Items, &ArrayItem{
				Value:    NewASTFromInterface(item),
				Position: filepos.NewUnknownPosition(),
			})
		}
		return result

	default:
		return val
	}
}

// NewDocument wraps a plain value into a single-document AST.
func NewDocument(val interface{}) *Document {
	return &Document{Value: NewASTFromInterface(val), Position: filepos.NewUnknownPosition()}
}
