// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

// Package metadata writes per-directory metadata.yml files describing
// preprocessed products.
package metadata

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/esmtools/esmcheck/pkg/orderedmap"
	"github.com/esmtools/esmcheck/pkg/yamlmeta"
)

// datasetKeys always describe the dataset, even when identical across
// variables; variableKeys always describe the variable.
var datasetKeys = map[string]struct{}{
	"mip": {},
}
var variableKeys = map[string]struct{}{
	"reference_dataset":   {},
	"alternative_dataset": {},
}

// Product is one output file plus its attributes, in recipe order.
type Product struct {
	Filename   string
	Attributes *orderedmap.Map
}

type Writer struct {
	clock clockwork.Clock
	log   *zap.Logger
}

func NewWriter(clock clockwork.Clock, log *zap.Logger) *Writer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Writer{clock: clock, log: log}
}

// WriteMetadata groups products by directory and writes one metadata.yml
// per group, mapping each product filename to its attributes. Groups are
// sorted by (recipe_dataset_index, dataset); list-valued exp attributes
// flatten to "a-b". Returns the written paths.
func (w *Writer) WriteMetadata(products []Product) ([]string, error) {
	groups := map[string][]Product{}
	var groupDirs []string
	for _, product := range products {
		dir := filepath.Dir(product.Filename)
		if _, seen := groups[dir]; !seen {
			groupDirs = append(groupDirs, dir)
		}
		groups[dir] = append(groups[dir], product)
	}
	sort.Strings(groupDirs)

	stamp := w.clock.Now().UTC().Format(time.RFC3339)

	var outputFiles []string
	for _, dir := range groupDirs {
		group := groups[dir]
		sort.SliceStable(group, func(i, j int) bool {
			return productSortKeyLess(group[i], group[j])
		})

		metadata := orderedmap.NewMap()
		for _, product := range group {
			metadata.Set(product.Filename, normalizedAttributes(product.Attributes, stamp))
		}

		data, err := metadataYAML(metadata)
		if err != nil {
			return nil, err
		}

		outputFilename := filepath.Join(dir, "metadata.yml")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("Creating metadata directory '%s': %s", dir, err)
		}
		if err := os.WriteFile(outputFilename, data, 0644); err != nil {
			return nil, fmt.Errorf("Writing '%s': %s", outputFilename, err)
		}

		w.log.Debug("wrote metadata", zap.String("path", outputFilename), zap.Int("products", len(group)))
		outputFiles = append(outputFiles, outputFilename)
	}
	return outputFiles, nil
}

func productSortKeyLess(a, b Product) bool {
	aIdx, bIdx := datasetIndex(a), datasetIndex(b)
	if aIdx != bIdx {
		return aIdx < bIdx
	}
	return datasetName(a) < datasetName(b)
}

const unindexed = int64(1 << 40)

func datasetIndex(p Product) int64 {
	val, found := p.Attributes.Get("recipe_dataset_index")
	if !found {
		return unindexed
	}
	switch typedVal := val.(type) {
	case int64:
		return typedVal
	case int:
		return int64(typedVal)
	}
	return unindexed
}

func datasetName(p Product) string {
	val, found := p.Attributes.Get("dataset")
	if !found {
		return ""
	}
	str, _ := val.(string)
	return str
}

// normalizedAttributes copies attributes, flattening exp lists and
// stamping creation_time.
func normalizedAttributes(attrs *orderedmap.Map, stamp string) *orderedmap.Map {
	result := orderedmap.NewMap()
	attrs.Iterate(func(key, val interface{}) {
		if key == "exp" {
			if list, ok := asStringList(val); ok {
				val = strings.Join(list, "-")
			}
		}
		result.Set(key, val)
	})
	if _, found := result.Get("creation_time"); !found {
		result.Set("creation_time", stamp)
	}
	return result
}

func asStringList(val interface{}) ([]string, bool) {
	switch typedVal := val.(type) {
	case []string:
		return typedVal, true
	case []interface{}:
		var result []string
		for _, item := range typedVal {
			result = append(result, fmt.Sprintf("%v", item))
		}
		return result, true
	}
	return nil, false
}

func metadataYAML(metadata *orderedmap.Map) ([]byte, error) {
	docSet := &yamlmeta.DocumentSet{Items: []*yamlmeta.Document{yamlmeta.NewDocument(metadata)}}
	return docSet.AsBytes()
}

// SplitKeys partitions variable attributes the way diagnostic scripts
// expect: keys with non-identical values across variables (plus the
// always-dataset keys) go to per-dataset info, the rest to the shared
// variable info.
func SplitKeys(variables []*orderedmap.Map) (datasetInfo []*orderedmap.Map, variableInfo *orderedmap.Map) {
	variableInfo = orderedmap.NewMap()

	for _, variable := range variables {
		perDataset := orderedmap.NewMap()
		datasetInfo = append(datasetInfo, perDataset)

		variable.Iterate(func(key, val interface{}) {
			name, _ := key.(string)

			datasetSpecific := false
			for _, other := range variables {
				otherVal, found := other.Get(key)
				if !found || !reflect.DeepEqual(val, otherVal) {
					datasetSpecific = true
					break
				}
			}
			if _, always := datasetKeys[name]; always {
				datasetSpecific = true
			}
			if _, never := variableKeys[name]; never {
				datasetSpecific = false
			}

			if datasetSpecific {
				perDataset.Set(key, val)
			} else {
				variableInfo.Set(key, val)
			}
		})
	}
	return datasetInfo, variableInfo
}

// Cleanup removes the listed files and directories and returns the files
// to keep.
func Cleanup(keep []string, remove []string) ([]string, error) {
	for _, path := range remove {
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("Inspecting '%s': %s", path, err)
		}

		if info.IsDir() {
			err = os.RemoveAll(path)
		} else {
			err = os.Remove(path)
		}
		if err != nil {
			return nil, fmt.Errorf("Removing '%s': %s", path, err)
		}
	}
	return keep, nil
}
