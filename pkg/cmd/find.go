// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/esmtools/esmcheck/pkg/cmd/ui"
	"github.com/esmtools/esmcheck/pkg/config"
	"github.com/esmtools/esmcheck/pkg/datafinder"
)

type FindOptions struct {
	ConfigFile string
	Project    string
	RootDir    string
	LogLevel   string
	Debug      bool
}

func NewFindOptions() *FindOptions {
	return &FindOptions{}
}

func NewFindCmd(o *FindOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find facet=value...",
		Short: "Locate dataset files via the project's DRS templates",
		Long: `Locate dataset files via the project's DRS templates.

Facets are given as key=value arguments, eg dataset=MPI-ESM-LR exp=historical
start_year=1850. The project templates come from the projects section of the
config file. Matching files, the directories searched and the file patterns
looked for are all printed, so a run with no matches doubles as a dry run.`,
		Example: "  esmcheck find -c esmcheck.yml -p CMIP5 dataset=MPI-ESM-LR exp=historical mip=Amon",
		Args:    cobra.MinimumNArgs(1),
		RunE:    func(_ *cobra.Command, args []string) error { return o.Run(args) },
	}
	cmd.Flags().StringVarP(&o.ConfigFile, "config", "c", "", "Config file holding project DRS templates")
	cmd.Flags().StringVarP(&o.Project, "project", "p", "", "Project name (eg CMIP5)")
	cmd.Flags().StringVar(&o.RootDir, "root", ".", "Root directory the DRS paths are relative to")
	cmd.Flags().StringVar(&o.LogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&o.Debug, "debug", false, "Enable debug output")
	return cmd
}

func (o *FindOptions) Run(args []string) error {
	tty := ui.NewTTY(o.Debug)

	facets, err := parseFacets(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(o.ConfigFile)
	if err != nil {
		return err
	}

	projectCfg, found := cfg.Projects[o.Project]
	if !found {
		var known []string
		for name := range cfg.Projects {
			known = append(known, name)
		}
		return fmt.Errorf("Unknown project %q (known: %s)", o.Project, strings.Join(known, ", "))
	}

	log, err := buildLogger(o.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	project := datafinder.NewProjectData(o.Project,
		projectCfg.InputDirs, projectCfg.InputFile, projectCfg.OutputFile, log)

	files, dirs, patterns, err := project.InputFilelist(os.DirFS(o.RootDir), facets)
	if err != nil {
		return err
	}

	tty.Printf("patterns:\n")
	for _, pattern := range patterns {
		tty.Printf("  %s\n", pattern)
	}
	tty.Printf("dirs:\n")
	for _, dir := range dirs {
		tty.Printf("  %s\n", dir)
	}
	tty.Printf("files:\n")
	for _, file := range files {
		tty.Printf("  %s\n", file)
	}
	return nil
}

// parseFacets turns key=value args into facets; integer values become
// ints so year filtering works.
func parseFacets(args []string) (datafinder.Facets, error) {
	facets := datafinder.Facets{}
	for _, arg := range args {
		key, val, found := strings.Cut(arg, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("Expected facet argument in key=value form, got '%s'", arg)
		}

		if num, err := strconv.Atoi(val); err == nil {
			facets[key] = num
		} else if strings.Contains(val, ",") {
			facets[key] = strings.Split(val, ",")
		} else {
			facets[key] = val
		}
	}
	return facets, nil
}
