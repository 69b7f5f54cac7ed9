// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package yamlfmt implements the "fmt" command — formatting YAML
(preserving comments) into a canonical form.
*/
package yamlfmt

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	yaml "gopkg.in/yaml.v3"
)

type Printer struct {
	writer io.Writer
}

func NewPrinter(writer io.Writer) *Printer {
	return &Printer{writer}
}

// Print reprints YAML in canonical form: two-space indent, normalized
// quoting, document separators between documents, comments kept where
// the decoder attached them.
func (p *Printer) Print(data []byte) error {
	formatted, err := Format(data)
	if err != nil {
		return err
	}

	_, err = p.writer.Write(formatted)
	return err
}

func (p *Printer) PrintStr(data []byte) (string, error) {
	formatted, err := Format(data)
	if err != nil {
		return "", err
	}
	return string(formatted), nil
}

func Format(data []byte) ([]byte, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))

	var docs []*yaml.Node
	for {
		var node yaml.Node
		err := decoder.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("Parsing YAML: %s", err)
		}
		docs = append(docs, &node)
	}

	buf := new(bytes.Buffer)
	encoder := yaml.NewEncoder(buf)
	encoder.SetIndent(2)

	for _, doc := range docs {
		if err := encoder.Encode(doc); err != nil {
			return nil, fmt.Errorf("Printing YAML: %s", err)
		}
	}
	if len(docs) > 0 {
		if err := encoder.Close(); err != nil {
			return nil, fmt.Errorf("Printing YAML: %s", err)
		}
	}

	return buf.Bytes(), nil
}
