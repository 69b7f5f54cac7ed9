// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlmeta

import (
	"github.com/esmtools/esmcheck/pkg/filepos"
)

func (ds *DocumentSet) GetPosition() *filepos.Position { return ds.Position }
func (d *Document) GetPosition() *filepos.Position     { return d.Position }
func (m *Map) GetPosition() *filepos.Position          { return m.Position }
func (mi *MapItem) GetPosition() *filepos.Position     { return mi.Position }
func (a *Array) GetPosition() *filepos.Position        { return a.Position }
func (ai *ArrayItem) GetPosition() *filepos.Position   { return ai.Position }

func (ds *DocumentSet) SetPosition(pos *filepos.Position) { ds.Position = pos }
func (d *Document) SetPosition(pos *filepos.Position)     { d.Position = pos }
func (m *Map) SetPosition(pos *filepos.Position)          { m.Position = pos }
func (mi *MapItem) SetPosition(pos *filepos.Position)     { mi.Position = pos }
func (a *Array) SetPosition(pos *filepos.Position)        { a.Position = pos }
func (ai *ArrayItem) SetPosition(pos *filepos.Position)   { ai.Position = pos }

func (ds *DocumentSet) GetValues() []interface{} {
	var result []interface{}
	for _, item := range ds.Items {
		result = append(result, item)
	}
	return result
}

func (d *Document) GetValues() []interface{} { return []interface{}{d.Value} }

func (m *Map) GetValues() []interface{} {
	var result []interface{}
	for _, item := range m.Items {
		result = append(result, item.Value)
	}
	return result
}

func (mi *MapItem) GetValues() []interface{} { return []interface{}{mi.Value} }

func (a *Array) GetValues() []interface{} {
	var result []interface{}
	for _, item := range a.Items {
		result = append(result, item.Value)
	}
	return result
}

func (ai *ArrayItem) GetValues() []interface{} { return []interface{}{ai.Value} }

func (ds *DocumentSet) sealed() {}
func (d *Document) sealed()     {}
func (m *Map) sealed()          {}
func (mi *MapItem) sealed()     {}
func (a *Array) sealed()        {}
func (ai *ArrayItem) sealed()   {}

func (ds *DocumentSet) DeepCopyAsInterface() interface{} { return ds.DeepCopy() }
func (d *Document) DeepCopyAsInterface() interface{}     { return d.DeepCopy() }
func (m *Map) DeepCopyAsInterface() interface{}          { return m.DeepCopy() }
func (mi *MapItem) DeepCopyAsInterface() interface{}     { return mi.DeepCopy() }
func (a *Array) DeepCopyAsInterface() interface{}        { return a.DeepCopy() }
func (ai *ArrayItem) DeepCopyAsInterface() interface{}   { return ai.DeepCopy() }

func (ds *DocumentSet) DeepCopyAsNode() Node { return ds.DeepCopy() }
func (d *Document) DeepCopyAsNode() Node     { return d.DeepCopy() }
func (m *Map) DeepCopyAsNode() Node          { return m.DeepCopy() }
func (mi *MapItem) DeepCopyAsNode() Node     { return mi.DeepCopy() }
func (a *Array) DeepCopyAsNode() Node        { return a.DeepCopy() }
func (ai *ArrayItem) DeepCopyAsNode() Node   { return ai.DeepCopy() }

func (ds *DocumentSet) DeepCopy() *DocumentSet {
	newCopy := &DocumentSet{Position: ds.Position.DeepCopy()}
	for _, item := range ds.Items {
		newCopy.Items = append(newCopy.Items, item.DeepCopy())
	}
	return newCopy
}

func (d *Document) DeepCopy() *Document {
	return &Document{Comments: deepCopyComments(d.Comments), Value: deepCopyValue(d.Value), Position: d.Position.DeepCopy()}
}

func (m *Map) DeepCopy() *Map {
	newCopy := &Map{Comments: deepCopyComments(m.Comments), Position: m.Position.DeepCopy()}
	for _, item := range m.Items {
		newCopy.Items = append(newCopy.Items, item.DeepCopy())
	}
	return newCopy
}

func (mi *MapItem) DeepCopy() *MapItem {
	return &MapItem{Comments: deepCopyComments(mi.Comments), Key: mi.Key, Value: deepCopyValue(mi.Value), Position: mi.Position.DeepCopy()}
}

func (a *Array) DeepCopy() *Array {
	newCopy := &Array{Comments: deepCopyComments(a.Comments), Position: a.Position.DeepCopy()}
	for _, item := range a.Items {
		newCopy.Items = append(newCopy.Items, item.DeepCopy())
	}
	return newCopy
}

func (ai *ArrayItem) DeepCopy() *ArrayItem {
	return &ArrayItem{Comments: deepCopyComments(ai.Comments), Value: deepCopyValue(ai.Value), Position: ai.Position.DeepCopy()}
}

func (c *Comment) DeepCopy() *Comment {
	return &Comment{Data: c.Data, Position: c.Position.DeepCopy()}
}

func deepCopyComments(comments []*Comment) []*Comment {
	var newCopy []*Comment
	for _, comment := range comments {
		newCopy = append(newCopy, comment.DeepCopy())
	}
	return newCopy
}

func deepCopyValue(val interface{}) interface{} {
	if node, ok := val.(Node); ok {
		return node.DeepCopyAsInterface()
	}
	return val
}

// TypeName returns a user-facing name of the type of the given value.
func TypeName(val interface{}) string {
	switch val.(type) {
	case *DocumentSet:
		return "document set"
	case *Document:
		return "document"
	case *Map:
		return "map"
	case *MapItem:
		return "map item"
	case *Array:
		return "array"
	case *ArrayItem:
		return "array item"
	case string:
		return "string"
	case int, int64, uint64:
		return "integer"
	case float64:
		return "float"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return "unknown"
	}
}
