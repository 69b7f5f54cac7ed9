// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlmeta

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/esmtools/esmcheck/pkg/filepos"
	"gopkg.in/yaml.v3"
)

// FilePositionPrinter renders a parsed tree with the source location of
// every node in a left-hand column. Debugging aid for position plumbing.
type FilePositionPrinter struct {
	writer   io.Writer
	locWidth int
}

func NewFilePositionPrinter(writer io.Writer) *FilePositionPrinter {
	return &FilePositionPrinter{writer, 0}
}

func (p *FilePositionPrinter) Print(val interface{}) {
	fmt.Fprintf(p.writer, "%s", p.PrintStr(val))
}

func (p *FilePositionPrinter) PrintStr(val interface{}) string {
	buf := new(bytes.Buffer)
	p.print(val, "", buf)
	return buf.String()
}

func (p *FilePositionPrinter) print(val interface{}, indent string, writer io.Writer) {
	const indentLvl = "  "

	switch typedVal := val.(type) {
	case *DocumentSet:
		fmt.Fprintf(writer, "%s%s[docset]\n", p.lineStr(typedVal.Position), indent)

		for _, item := range typedVal.Items {
			p.print(item, indent+indentLvl, writer)
		}

	case *Document:
		fmt.Fprintf(writer, "%s%s[doc]\n", p.lineStr(typedVal.Position), indent)
		p.print(typedVal.Value, indent+indentLvl, writer)

	case *Map:
		for _, item := range typedVal.Items {
			valStr, isLeaf := p.leafValue(item.Value)
			if !isLeaf || strings.Contains(valStr, "\n") {
				fmt.Fprintf(writer, "%s%s%s:\n", p.lineStr(item.Position), indent, item.Key)
				p.print(item.Value, indent+indentLvl, writer)
			} else {
				fmt.Fprintf(writer, "%s%s%s: %s\n", p.lineStr(item.Position), indent, item.Key, valStr)
			}
		}

	case *MapItem:
		fmt.Fprintf(writer, "%s%s%s:\n", p.lineStr(typedVal.Position), indent, typedVal.Key)
		p.print(typedVal.Value, indent+indentLvl, writer)

	case *Array:
		for i, item := range typedVal.Items {
			valStr, isLeaf := p.leafValue(item.Value)
			if !isLeaf || strings.Contains(valStr, "\n") {
				fmt.Fprintf(writer, "%s%s[%d]\n", p.lineStr(item.Position), indent, i)
				p.print(item.Value, indent+indentLvl, writer)
			} else {
				fmt.Fprintf(writer, "%s%s[%d] %s\n", p.lineStr(item.Position), indent, i, valStr)
			}
		}

	case *ArrayItem:
		fmt.Fprintf(writer, "%s%s[?]\n", p.lineStr(typedVal.Position), indent)
		p.print(typedVal.Value, indent+indentLvl, writer)

	default:
		valStr, isLeaf := p.leafValue(val)
		if !isLeaf {
			panic(fmt.Sprintf("Expected leaf, but was %T", typedVal))
		}
		fmt.Fprintf(writer, "%s%s%s\n", p.padLine(""), indent, valStr)
	}
}

func (p *FilePositionPrinter) leafValue(val interface{}) (string, bool) {
	switch val.(type) {
	case *DocumentSet, *Document, *Map, *MapItem, *Array, *ArrayItem:
		return "", false

	default:
		valBs, err := yaml.Marshal(val)
		if err != nil {
			panic(fmt.Sprintf("Failed to serialize %T", val))
		}
		return strings.TrimSuffix(string(valBs), "\n"), true
	}
}

func (p *FilePositionPrinter) lineStr(pos *filepos.Position) string {
	if pos.IsKnown() {
		return p.padLine(pos.AsCompactString())
	}
	return ""
}

func (p *FilePositionPrinter) padLine(str string) string {
	width := len(str)
	if width > p.locWidth {
		p.locWidth = width + 10
	}
	return fmt.Sprintf(fmt.Sprintf("%%%ds | ", p.locWidth), str)
}
