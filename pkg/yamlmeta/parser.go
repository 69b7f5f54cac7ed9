// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlmeta

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/esmtools/esmcheck/pkg/filepos"
	"gopkg.in/yaml.v3"
)

type Parser struct {
	opts           ParserOpts
	associatedName string
	srcLines       []string
}

type ParserOpts struct {
	// Strict refuses duplicate map keys instead of letting the last
	// occurrence win.
	Strict bool
}

func NewParser() *Parser {
	return NewParserWithOpts(ParserOpts{})
}

func NewParserWithOpts(opts ParserOpts) *Parser {
	return &Parser{opts: opts}
}

// ParseBytes parses a (possibly multi-document) YAML stream into a
// DocumentSet whose nodes carry source positions and comments. JSON
// input parses as well since YAML is a superset.
func (p *Parser) ParseBytes(data []byte, associatedName string) (*DocumentSet, error) {
	p.associatedName = associatedName
	p.srcLines = strings.Split(string(data), "\n")

	docSet := &DocumentSet{Position: filepos.NewUnknownPositionInFile(associatedName)}

	dec := yaml.NewDecoder(bytes.NewReader(data))

	for {
		var rawDoc yaml.Node

		err := dec.Decode(&rawDoc)
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}

		doc, err := p.parseDocument(&rawDoc)
		if err != nil {
			return nil, err
		}

		docSet.Items = append(docSet.Items, doc)
	}

	return docSet, nil
}

func (p *Parser) parseDocument(rawDoc *yaml.Node) (*Document, error) {
	if rawDoc.Kind != yaml.DocumentNode || len(rawDoc.Content) == 0 {
		return &Document{Value: nil, Position: p.newUnknownPosition()}, nil
	}

	content := rawDoc.Content[0]

	val, err := p.parseNode(content)
	if err != nil {
		return nil, err
	}

	doc := &Document{Value: val, Position: p.newPosition(content)}
	doc.Comments = append(p.headCommentsAt(rawDoc, content.Line), p.footComments(rawDoc)...)
	if content.Kind == yaml.ScalarNode {
		// scalars are plain Go values in the tree; their comments land
		// on the enclosing document
		doc.Comments = append(doc.Comments, p.nodeComments(content)...)
	}
	return doc, nil
}

func (p *Parser) parseNode(node *yaml.Node) (interface{}, error) {
	switch node.Kind {
	case yaml.AliasNode:
		return p.parseNode(node.Alias)

	case yaml.MappingNode:
		result := &Map{Position: p.newPosition(node)}
		result.Comments = append(p.headComments(node), p.lineComment(node)...)
		seenKeys := map[interface{}]int{}

		for i := 0; i < len(node.Content); i += 2 {
			keyNode, valNode := node.Content[i], node.Content[i+1]

			key, err := p.parseScalar(keyNode)
			if err != nil {
				return nil, err
			}

			val, err := p.parseNode(valNode)
			if err != nil {
				return nil, err
			}

			item := &MapItem{
				Key:      key,
				Value:    val,
				Position: p.newPosition(keyNode),
			}
			item.Comments = p.nodeComments(keyNode)
			if valNode.Kind == yaml.ScalarNode {
				item.Comments = append(item.Comments, p.nodeComments(valNode)...)
			}

			// complex (non-scalar) keys are not checked for duplicates
			if keyNode.Kind != yaml.ScalarNode {
				result.Items = append(result.Items, item)
				continue
			}

			firstIdx, found := seenKeys[key]
			if !found {
				seenKeys[key] = len(result.Items)
				result.Items = append(result.Items, item)
				continue
			}

			if p.opts.Strict {
				return nil, fmt.Errorf("Map item (key '%v') on line %s: duplicate map key (previously defined on line %s)",
					key, item.Position.AsCompactString(), result.Items[firstIdx].Position.AsCompactString())
			}

			// last occurrence wins, keeping the first occurrence's slot
			result.Items[firstIdx] = item
		}
		return result, nil

	case yaml.SequenceNode:
		result := &Array{Position: p.newPosition(node)}
		result.Comments = append(p.headComments(node), p.lineComment(node)...)
		for _, itemNode := range node.Content {
			val, err := p.parseNode(itemNode)
			if err != nil {
				return nil, err
			}
			item := &ArrayItem{
				Value:    val,
				Position: p.newPosition(itemNode),
			}
			if itemNode.Kind == yaml.ScalarNode {
				item.Comments = p.nodeComments(itemNode)
			}
			result.Items = append(result.Items, item)
		}
		return result, nil

	case yaml.ScalarNode:
		return p.parseScalar(node)

	default:
		return nil, fmt.Errorf("Unexpected YAML node kind %d at %s", node.Kind, p.newPosition(node).AsCompactString())
	}
}

// parseScalar resolves a scalar node into a typed Go value. Integers stay
// integers (int64) so that int() and num() schema rules can tell them apart.
func (p *Parser) parseScalar(node *yaml.Node) (interface{}, error) {
	switch node.Tag {
	case "!!null":
		return nil, nil

	case "!!bool":
		var result bool
		if err := node.Decode(&result); err != nil {
			return nil, p.scalarErr(node, err)
		}
		return result, nil

	case "!!int":
		var result int64
		if err := node.Decode(&result); err != nil {
			// out of int64 range; fall back to the raw representation
			return node.Value, nil
		}
		return result, nil

	case "!!float":
		result, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			var viaDecode float64
			if err := node.Decode(&viaDecode); err != nil {
				return nil, p.scalarErr(node, err)
			}
			return viaDecode, nil
		}
		return result, nil

	case "!!str", "!!timestamp":
		return node.Value, nil

	default:
		var result interface{}
		if err := node.Decode(&result); err != nil {
			return nil, p.scalarErr(node, err)
		}
		return result, nil
	}
}

func (p *Parser) nodeComments(node *yaml.Node) []*Comment {
	result := append(p.headComments(node), p.lineComment(node)...)
	return append(result, p.footComments(node)...)
}

// headComments splits a node's preceding comment block into one Comment
// per line, positioned on the lines directly above the node.
func (p *Parser) headComments(node *yaml.Node) []*Comment {
	return p.headCommentsAt(node, node.Line)
}

func (p *Parser) headCommentsAt(node *yaml.Node, anchorLine int) []*Comment {
	if node.HeadComment == "" {
		return nil
	}
	lines := strings.Split(node.HeadComment, "\n")
	var result []*Comment
	for i, line := range lines {
		result = append(result, &Comment{
			Data:     strings.TrimPrefix(line, "#"),
			Position: p.newPositionAtLine(anchorLine - len(lines) + i),
		})
	}
	return result
}

func (p *Parser) lineComment(node *yaml.Node) []*Comment {
	if node.LineComment == "" {
		return nil
	}
	return []*Comment{{
		Data:     strings.TrimPrefix(node.LineComment, "#"),
		Position: p.newPositionAtLine(node.Line),
	}}
}

func (p *Parser) footComments(node *yaml.Node) []*Comment {
	if node.FootComment == "" {
		return nil
	}
	var result []*Comment
	for i, line := range strings.Split(node.FootComment, "\n") {
		result = append(result, &Comment{
			Data:     strings.TrimPrefix(line, "#"),
			Position: p.newPositionAtLine(node.Line + 1 + i),
		})
	}
	return result
}

func (p *Parser) scalarErr(node *yaml.Node, err error) error {
	return fmt.Errorf("Resolving scalar at %s: %s", p.newPosition(node).AsCompactString(), err)
}

func (p *Parser) newPosition(node *yaml.Node) *filepos.Position {
	if node.Line <= 0 {
		return p.newUnknownPosition()
	}
	pos := filepos.NewPositionInFile(node.Line, p.associatedName)
	pos.SetCol(node.Column)
	if node.Line-1 < len(p.srcLines) {
		pos.SetLine(p.srcLines[node.Line-1])
	}
	return pos
}

func (p *Parser) newPositionAtLine(line int) *filepos.Position {
	if line <= 0 {
		return p.newUnknownPosition()
	}
	pos := filepos.NewPositionInFile(line, p.associatedName)
	if line-1 < len(p.srcLines) {
		pos.SetLine(p.srcLines[line-1])
	}
	return pos
}

func (p *Parser) newUnknownPosition() *filepos.Position {
	return filepos.NewUnknownPositionInFile(p.associatedName)
}
