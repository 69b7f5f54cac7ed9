// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/esmtools/esmcheck/pkg/cmd/ui"
	"github.com/esmtools/esmcheck/pkg/files"
	"github.com/esmtools/esmcheck/pkg/yamlfmt"
)

type FmtOptions struct {
	Files           []string
	OutputDirectory string
	Debug           bool
}

func NewFmtOptions() *FmtOptions {
	return &FmtOptions{}
}

func NewFmtCmd(o *FmtOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt",
		Short: "Format YAML files into a canonical form",
		RunE:  func(_ *cobra.Command, _ []string) error { return o.Run() },
	}
	cmd.Flags().StringArrayVarP(&o.Files, "file", "f", nil, "File (ie local path, HTTP URL, -) (can be specified multiple times)")
	cmd.Flags().StringVar(&o.OutputDirectory, "output-directory", "", "Write formatted files into this directory instead of stdout (directory is replaced)")
	cmd.Flags().BoolVar(&o.Debug, "debug", false, "Enable debug output")
	return cmd
}

func (o *FmtOptions) Run() error {
	tty := ui.NewTTY(o.Debug)
	t1 := time.Now()

	defer func() {
		tty.Debugf("total: %s\n", time.Since(t1))
	}()

	filesToProcess, err := files.NewFiles(o.Files, true)
	if err != nil {
		return err
	}

	var outputFiles []files.OutputFile

	for _, file := range filesToProcess {
		if file.Type() != files.TypeYAML {
			continue
		}

		data, err := file.Bytes()
		if err != nil {
			return err
		}

		if o.OutputDirectory != "" {
			formatted, err := yamlfmt.Format(data)
			if err != nil {
				return err
			}
			outputFiles = append(outputFiles, files.NewOutputFile(file.RelativePath(), formatted))
			continue
		}

		if err := yamlfmt.NewPrinter(os.Stdout).Print(data); err != nil {
			return err
		}
	}

	if o.OutputDirectory != "" {
		return files.NewOutputDirectory(o.OutputDirectory, outputFiles, nil).Write()
	}

	return nil
}
