// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/esmtools/esmcheck/pkg/cmd/ui"
	"github.com/esmtools/esmcheck/pkg/cmortable"
	"github.com/esmtools/esmcheck/pkg/files"
	"github.com/esmtools/esmcheck/pkg/yamlmeta"
)

type TablesOptions struct {
	TablesDir       string
	CustomTablesDir string
	LogLevel        string
	Debug           bool
}

func NewTablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Inspect and check against CMOR variable tables",
	}
	cmd.AddCommand(NewTablesShowCmd(&TablesOptions{}))
	cmd.AddCommand(NewTablesCheckCmd(&TablesOptions{}))
	return cmd
}

func (o *TablesOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.TablesDir, "tables-dir", "", "Directory holding table JSON files")
	cmd.Flags().StringVar(&o.CustomTablesDir, "custom-tables-dir", "", "Directory holding custom overlay tables")
	cmd.Flags().StringVar(&o.LogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&o.Debug, "debug", false, "Enable debug output")
}

func (o *TablesOptions) loadRegistry() (*cmortable.Registry, error) {
	if o.TablesDir == "" {
		return nil, fmt.Errorf("Expected tables directory to be specified (use --tables-dir)")
	}

	log, err := buildLogger(o.LogLevel, "console")
	if err != nil {
		return nil, err
	}

	registry := cmortable.NewRegistry(log)
	if err := registry.LoadDir(os.DirFS(o.TablesDir), "."); err != nil {
		return nil, err
	}
	if o.CustomTablesDir != "" {
		if err := registry.LoadCustomDir(os.DirFS(o.CustomTablesDir), "."); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func NewTablesShowCmd(o *TablesOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [mip]",
		Short: "List loaded tables, or the variables of one mip",
		Args:  cobra.MaximumNArgs(1),
		RunE:  func(_ *cobra.Command, args []string) error { return o.RunShow(args) },
	}
	o.addFlags(cmd)
	return cmd
}

func (o *TablesOptions) RunShow(args []string) error {
	tty := ui.NewTTY(o.Debug)

	registry, err := o.loadRegistry()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		for _, mip := range registry.MIPs() {
			table, err := registry.Get(mip)
			if err != nil {
				return err
			}
			tty.Printf("%s\t%s\t%d variables\n", mip, table.Realm, len(table.Variables))
		}
		return nil
	}

	table, err := registry.Get(args[0])
	if err != nil {
		return err
	}

	var names []string
	for name := range table.Variables {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		info := table.Variables[name]
		tty.Printf("%s\t%s\t%s\n", name, info.Units, info.StandardName)
	}
	return nil
}

func NewTablesCheckCmd(o *TablesOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check file...",
		Short: "Check variable metadata files against the tables",
		Long: `Check variable metadata files against the tables.

Each document of every input file must be a map with at least mip and
short_name keys; the remaining keys are compared against the table entry.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error { return o.RunCheck(args) },
	}
	o.addFlags(cmd)
	return cmd
}

func (o *TablesOptions) RunCheck(args []string) error {
	tty := ui.NewTTY(o.Debug)

	registry, err := o.loadRegistry()
	if err != nil {
		return err
	}

	metaFiles, err := files.NewFiles(args, true)
	if err != nil {
		return err
	}

	var failed []string
	for _, file := range metaFiles {
		docSet, err := files.DocSetFromFile(file)
		if err != nil {
			return err
		}

		var errs []error
		for _, doc := range docSet.Items {
			meta, ok := doc.Value.(*yamlmeta.Map)
			if !ok {
				errs = append(errs, fmt.Errorf("Expected document at %s to be a map", doc.Position.AsCompactString()))
				continue
			}
			errs = append(errs, registry.CheckVariable(meta)...)
		}

		if len(errs) > 0 {
			failed = append(failed, file.RelativePath())
			tty.Warnf("FAIL %s (%d violations)\n", file.RelativePath(), len(errs))
			for _, err := range errs {
				tty.Warnf("%s\n", err)
			}
		} else {
			tty.Printf("OK   %s\n", file.RelativePath())
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("Table check failed for: %s", strings.Join(failed, ", "))
	}
	return nil
}
