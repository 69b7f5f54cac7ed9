// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

// Package cmortable loads CMIP-style variable tables and checks variable
// metadata against them.
package cmortable

import (
	"fmt"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// VariableInfo is one variable_entry from a table.
type VariableInfo struct {
	ShortName     string
	StandardName  string
	LongName      string
	Units         string
	CellMethods   string
	Positive      string
	Frequency     string
	ModelingRealm string
	Dimensions    []string
	ValidMin      string
	ValidMax      string

	// Table records which table the entry came from, for messages about
	// variables resolved via fallback.
	Table string
}

// AxisInfo is one axis_entry from a coordinate table.
type AxisInfo struct {
	Name         string
	StandardName string
	LongName     string
	Units        string
	Axis         string
}

// Table is one parsed table file, eg CMIP6_Amon.json.
type Table struct {
	ID        string
	MIPEra    string
	Realm     string
	Frequency string
	Interval  string
	Variables map[string]*VariableInfo
	Axes      map[string]*AxisInfo
}

type rawTable struct {
	Header struct {
		TableID        string `yaml:"table_id"`
		MIPEra         string `yaml:"mip_era"`
		Realm          string `yaml:"realm"`
		Frequency      string `yaml:"frequency"`
		ApproxInterval string `yaml:"approx_interval"`
	} `yaml:"Header"`
	VariableEntry map[string]rawVariable `yaml:"variable_entry"`
	AxisEntry     map[string]rawAxis     `yaml:"axis_entry"`
}

type rawAxis struct {
	StandardName string `yaml:"standard_name"`
	LongName     string `yaml:"long_name"`
	Units        string `yaml:"units"`
	Axis         string `yaml:"axis"`
	OutName      string `yaml:"out_name"`
}

type rawVariable struct {
	StandardName  string `yaml:"standard_name"`
	LongName      string `yaml:"long_name"`
	Units         string `yaml:"units"`
	CellMethods   string `yaml:"cell_methods"`
	Positive      string `yaml:"positive"`
	Frequency     string `yaml:"frequency"`
	ModelingRealm string `yaml:"modeling_realm"`
	Dimensions    string `yaml:"dimensions"`
	ValidMin      string `yaml:"valid_min"`
	ValidMax      string `yaml:"valid_max"`
	OutName       string `yaml:"out_name"`
}

// ParseTable reads one table file. Tables are JSON on disk; JSON is a
// subset of YAML so the same decoder serves both encodings. Coordinate
// files carry axis_entry instead of variable_entry; files with neither
// (CV files) yield a nil table.
func ParseTable(data []byte) (*Table, error) {
	var raw rawTable
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("Decoding table: %s", err)
	}

	if len(raw.VariableEntry) == 0 && len(raw.AxisEntry) == 0 {
		return nil, nil
	}

	// CMIP6 headers carry "Table Amon", older eras a bare "Amon"
	id := strings.TrimPrefix(raw.Header.TableID, "Table ")
	if id == "" {
		return nil, fmt.Errorf("Decoding table: missing Header.table_id")
	}

	table := &Table{
		ID:        id,
		MIPEra:    raw.Header.MIPEra,
		Realm:     raw.Header.Realm,
		Frequency: raw.Header.Frequency,
		Interval:  raw.Header.ApproxInterval,
		Variables: map[string]*VariableInfo{},
		Axes:      map[string]*AxisInfo{},
	}

	for name, entry := range raw.AxisEntry {
		axisName := name
		if entry.OutName != "" {
			axisName = entry.OutName
		}
		table.Axes[name] = &AxisInfo{
			Name:         axisName,
			StandardName: entry.StandardName,
			LongName:     entry.LongName,
			Units:        entry.Units,
			Axis:         entry.Axis,
		}
	}

	for name, entry := range raw.VariableEntry {
		shortName := name
		if entry.OutName != "" {
			shortName = entry.OutName
		}
		info := &VariableInfo{
			ShortName:     shortName,
			StandardName:  entry.StandardName,
			LongName:      entry.LongName,
			Units:         entry.Units,
			CellMethods:   entry.CellMethods,
			Positive:      entry.Positive,
			Frequency:     entry.Frequency,
			ModelingRealm: entry.ModelingRealm,
			ValidMin:      entry.ValidMin,
			ValidMax:      entry.ValidMax,
			Table:         id,
		}
		if entry.Frequency == "" {
			info.Frequency = table.Frequency
		}
		if entry.Dimensions != "" {
			info.Dimensions = strings.Fields(entry.Dimensions)
		}
		table.Variables[name] = info
	}

	return table, nil
}
