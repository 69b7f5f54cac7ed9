// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlmeta

import (
	"bytes"
	"fmt"

	"github.com/esmtools/esmcheck/pkg/orderedmap"
	"gopkg.in/yaml.v3"
)

// AsBytes serializes all documents, separated by "---", preserving map
// key order.
func (ds *DocumentSet) AsBytes() ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)

	for _, doc := range ds.Items {
		node, err := asYAMLNode(doc.Value)
		if err != nil {
			return nil, err
		}
		if err := enc.Encode(node); err != nil {
			return nil, err
		}
	}

	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (d *Document) AsBytes() ([]byte, error) {
	ds := &DocumentSet{Items: []*Document{d}, Position: d.Position}
	return ds.AsBytes()
}

func asYAMLNode(val interface{}) (*yaml.Node, error) {
	switch typedVal := val.(type) {
	case *Document:
		return asYAMLNode(typedVal.Value)

	case *Map:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, item := range typedVal.Items {
			keyNode, err := asYAMLNode(item.Key)
			if err != nil {
				return nil, err
			}
			valNode, err := asYAMLNode(item.Value)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, keyNode, valNode)
		}
		return node, nil

	case *Array:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range typedVal.Items {
			itemNode, err := asYAMLNode(item.Value)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, itemNode)
		}
		return node, nil

	case *orderedmap.Map:
		return asYAMLNode(NewASTFromInterface(typedVal))

	case *MapItem, *ArrayItem, *DocumentSet:
		return nil, fmt.Errorf("Unexpected %T in YAML serialization", val)

	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil

	default:
		node := &yaml.Node{}
		if err := node.Encode(val); err != nil {
			return nil, err
		}
		return node, nil
	}
}
