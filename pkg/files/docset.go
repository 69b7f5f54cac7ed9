// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package files

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/esmtools/esmcheck/pkg/orderedmap"
	"github.com/esmtools/esmcheck/pkg/yamlmeta"
)

// DocSetFromFile parses one data file into documents. JSON parses
// through the YAML parser (JSON is a subset of YAML), which keeps
// positions; TOML decodes into maps first, so its positions are unknown
// and its keys sort alphabetically.
func DocSetFromFile(file *File) (*yamlmeta.DocumentSet, error) {
	data, err := file.Bytes()
	if err != nil {
		return nil, fmt.Errorf("Reading %s: %s", file.Description(), err)
	}

	switch file.Type() {
	case TypeYAML, TypeJSON:
		docSet, err := yamlmeta.NewParser().ParseBytes(data, file.RelativePath())
		if err != nil {
			return nil, fmt.Errorf("Parsing %s: %s", file.Description(), err)
		}
		return docSet, nil

	case TypeTOML:
		var decoded map[string]interface{}
		if err := toml.Unmarshal(data, &decoded); err != nil {
			return nil, fmt.Errorf("Parsing %s: %s", file.Description(), err)
		}

		plain := orderedmap.Conversion{Object: decoded}.FromUnorderedMaps()
		return &yamlmeta.DocumentSet{
			Items: []*yamlmeta.Document{yamlmeta.NewDocument(plain)},
		}, nil

	case TypeStarlark:
		return nil, fmt.Errorf("Expected %s to be a data file, not Starlark code", file.Description())

	default:
		return nil, fmt.Errorf("Unknown file type for %s (expected .yaml, .yml, .json or .toml)", file.Description())
	}
}
