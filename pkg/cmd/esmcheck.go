// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

// Package cmd wires the esmcheck command line interface.
package cmd

import (
	"fmt"

	"github.com/cppforlife/cobrautil"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/esmtools/esmcheck/pkg/version"
)

type EsmcheckOptions struct{}

func NewDefaultEsmcheckOptions() *EsmcheckOptions {
	return &EsmcheckOptions{}
}

func NewDefaultEsmcheckCmd() *cobra.Command {
	return NewEsmcheckCmd(NewDefaultEsmcheckOptions())
}

func NewEsmcheckCmd(o *EsmcheckOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "esmcheck",
		Version: version.Version,
		Short:   "esmcheck validates YAML recipes against schemas and CMOR tables",
		Long: `esmcheck validates YAML recipes against schemas and CMOR tables.

Schemas are YAML documents whose values are rules such as str(), int(min=0)
or include('dataset'); data may be YAML, JSON or TOML.`,
	}

	// Affects children as well
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	cmd.DisableAutoGenTag = true

	cmd.AddCommand(NewValidateCmd(NewValidateOptions()))
	cmd.AddCommand(NewFmtCmd(NewFmtOptions()))
	cmd.AddCommand(NewTablesCmd())
	cmd.AddCommand(NewFindCmd(NewFindOptions()))
	cmd.AddCommand(NewServeCmd(NewServeOptions()))
	cmd.AddCommand(NewReportsCmd(NewReportsOptions()))
	cmd.AddCommand(NewVersionCmd(NewVersionOptions()))

	// Reconfigure Commands
	cobrautil.VisitCommands(cmd, cobrautil.ReconfigureCmdWithSubcmd,
		cobrautil.WrapRunEForCmd(cobrautil.ResolveFlagsForCmd))

	return cmd
}

// buildLogger builds the zap logger shared by the data-plumbing
// commands. level is a zap level name, format "json" or "console".
func buildLogger(level, format string) (*zap.Logger, error) {
	parsedLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("Parsing log level %q: %s", level, err)
	}

	cfg := zap.NewProductionConfig()
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(parsedLevel)

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("Building logger: %s", err)
	}
	return logger, nil
}
