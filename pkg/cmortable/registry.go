// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package cmortable

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/esmtools/esmcheck/pkg/schema"
	"github.com/esmtools/esmcheck/pkg/yamlmeta"
)

// Registry holds the tables of one project plus an optional custom
// overlay consulted when a variable is missing from the project tables.
type Registry struct {
	tables map[string]*Table
	axes   map[string]*AxisInfo
	custom map[string]*VariableInfo
	log    *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		tables: map[string]*Table{},
		axes:   map[string]*AxisInfo{},
		custom: map[string]*VariableInfo{},
		log:    log,
	}
}

// LoadDir parses every .json table under dir.
func (r *Registry) LoadDir(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("Reading table directory '%s': %s", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		filePath := path.Join(dir, entry.Name())
		data, err := fs.ReadFile(fsys, filePath)
		if err != nil {
			return fmt.Errorf("Reading table '%s': %s", filePath, err)
		}

		table, err := ParseTable(data)
		if err != nil {
			return fmt.Errorf("Parsing table '%s': %s", filePath, err)
		}
		if table == nil {
			r.log.Debug("skipping table file without entries", zap.String("path", filePath))
			continue
		}

		// coordinate files contribute axes; only variable tables become mips
		for name, axis := range table.Axes {
			r.axes[name] = axis
		}
		if len(table.Variables) == 0 {
			continue
		}

		r.tables[table.ID] = table
		r.log.Debug("loaded table",
			zap.String("mip", table.ID),
			zap.Int("variables", len(table.Variables)))
	}
	return nil
}

// Axis returns the coordinate axis definition for one dimension name.
func (r *Registry) Axis(name string) (*AxisInfo, bool) {
	axis, ok := r.axes[name]
	return axis, ok
}

// LoadCustomDir parses .json tables under dir into the custom overlay.
// Overlay entries win over nothing: they are consulted only after the
// project tables miss.
func (r *Registry) LoadCustomDir(fsys fs.FS, dir string) error {
	overlay := NewRegistry(r.log)
	if err := overlay.LoadDir(fsys, dir); err != nil {
		return err
	}
	for _, table := range overlay.tables {
		for name, info := range table.Variables {
			r.custom[name] = info
		}
	}
	for name, axis := range overlay.axes {
		r.axes[name] = axis
	}
	return nil
}

// MIPs returns the loaded table names, sorted.
func (r *Registry) MIPs() []string {
	var result []string
	for id := range r.tables {
		result = append(result, id)
	}
	sort.Strings(result)
	return result
}

// Get returns the table for one mip.
func (r *Registry) Get(mip string) (*Table, error) {
	table, ok := r.tables[mip]
	if !ok {
		return nil, fmt.Errorf("Unknown mip %q (known: %s)", mip, strings.Join(r.MIPs(), ", "))
	}
	return table, nil
}

// Lookup resolves a variable in the named mip, falling back first to the
// other loaded tables and then to the custom overlay.
func (r *Registry) Lookup(mip, shortName string) (*VariableInfo, bool, error) {
	table, err := r.Get(mip)
	if err != nil {
		return nil, false, err
	}

	if info, ok := table.Variables[shortName]; ok {
		return info, true, nil
	}

	for _, otherMip := range r.MIPs() {
		if otherMip == mip {
			continue
		}
		if info, ok := r.tables[otherMip].Variables[shortName]; ok {
			r.log.Debug("variable resolved via fallback table",
				zap.String("variable", shortName),
				zap.String("mip", mip),
				zap.String("fallback", otherMip))
			return info, true, nil
		}
	}

	if info, ok := r.custom[shortName]; ok {
		return info, true, nil
	}
	return nil, false, nil
}

// CheckVariable compares variable metadata, given as a parsed YAML map,
// against the table entry for meta's mip and short_name keys. All
// discrepancies are returned; a variable missing from every table is a
// single violation.
func (r *Registry) CheckVariable(meta *yamlmeta.Map) []error {
	mip, mipItem := stringItem(meta, "mip")
	shortName, nameItem := stringItem(meta, "short_name")

	if mipItem == nil {
		return []error{schema.NewMissingKeyError("mip", meta.Position, meta.Position)}
	}
	if nameItem == nil {
		return []error{schema.NewMissingKeyError("short_name", meta.Position, meta.Position)}
	}

	info, found, err := r.Lookup(mip, shortName)
	if err != nil {
		return []error{err}
	}
	if !found {
		return []error{schema.NewValueError(nameItem.Position,
			fmt.Sprintf("%q", shortName),
			fmt.Sprintf("a variable defined in table %s or any fallback", mip))}
	}

	var errs []error
	checks := []struct {
		key  string
		want string
	}{
		{"standard_name", info.StandardName},
		{"units", info.Units},
		{"positive", info.Positive},
		{"frequency", info.Frequency},
		{"long_name", info.LongName},
	}
	for _, check := range checks {
		if check.want == "" {
			continue
		}
		got, item := stringItem(meta, check.key)
		if item == nil {
			errs = append(errs, schema.NewValueError(meta.Position,
				fmt.Sprintf("(no %s)", check.key),
				fmt.Sprintf("%s %q (table %s)", check.key, check.want, info.Table)))
			continue
		}
		if got != check.want {
			errs = append(errs, schema.NewValueError(item.Position,
				fmt.Sprintf("%q", got),
				fmt.Sprintf("%s %q (table %s)", check.key, check.want, info.Table)))
		}
	}

	if dims, item := stringItem(meta, "dimensions"); item != nil {
		if len(info.Dimensions) > 0 && !sameDimensions(strings.Fields(dims), info.Dimensions) {
			errs = append(errs, schema.NewValueError(item.Position,
				fmt.Sprintf("%q", dims),
				fmt.Sprintf("dimensions %q (table %s)", strings.Join(info.Dimensions, " "), info.Table)))
		}
		if len(r.axes) > 0 {
			for _, dim := range strings.Fields(dims) {
				if _, ok := r.axes[dim]; !ok {
					errs = append(errs, schema.NewValueError(item.Position,
						fmt.Sprintf("%q", dim),
						"a dimension defined in the coordinate table"))
				}
			}
		}
	}

	return errs
}

func stringItem(meta *yamlmeta.Map, key string) (string, *yamlmeta.MapItem) {
	for _, item := range meta.Items {
		if item.Key == key {
			if str, ok := item.Value.(string); ok {
				return str, item
			}
			return fmt.Sprintf("%v", item.Value), item
		}
	}
	return "", nil
}

func sameDimensions(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
