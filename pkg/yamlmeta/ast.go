// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlmeta

import (
	"github.com/esmtools/esmcheck/pkg/filepos"
)

type Node interface {
	GetPosition() *filepos.Position
	SetPosition(*filepos.Position)

	GetValues() []interface{} // ie children
	DeepCopyAsInterface() interface{}
	DeepCopyAsNode() Node

	sealed() // limit the concrete types of Node to the types allowed in YAML spec
}

var _ = []Node{&DocumentSet{}, &Document{}, &Map{}, &MapItem{}, &Array{}, &ArrayItem{}}

type DocumentSet struct {
	Items    []*Document
	Position *filepos.Position
}

type Document struct {
	Comments []*Comment
	Value    interface{}
	Position *filepos.Position
}

type Map struct {
	Comments []*Comment
	Items    []*MapItem
	Position *filepos.Position
}

type MapItem struct {
	Comments []*Comment
	Key      interface{}
	Value    interface{}
	Position *filepos.Position
}

type Array struct {
	Comments []*Comment
	Items    []*ArrayItem
	Position *filepos.Position
}

type ArrayItem struct {
	Comments []*Comment
	Value    interface{}
	Position *filepos.Position
}

// Comment is a single "#" comment line attached to the node it
// annotates. Data excludes the leading "#".
type Comment struct {
	Data     string
	Position *filepos.Position
}
