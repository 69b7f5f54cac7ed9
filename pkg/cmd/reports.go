// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/esmtools/esmcheck/pkg/cmd/ui"
	"github.com/esmtools/esmcheck/pkg/config"
	"github.com/esmtools/esmcheck/pkg/reportstore"
)

type ReportsOptions struct {
	ConfigFile string
	Limit      int
	ShowErrors bool
}

func NewReportsOptions() *ReportsOptions {
	return &ReportsOptions{}
}

func NewReportsCmd(o *ReportsOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List recent validation runs",
		RunE:  func(_ *cobra.Command, _ []string) error { return o.Run() },
	}
	cmd.Flags().StringVarP(&o.ConfigFile, "config", "c", "", "Config file")
	cmd.Flags().IntVarP(&o.Limit, "limit", "n", 20, "Number of runs to list")
	cmd.Flags().BoolVar(&o.ShowErrors, "errors", false, "Print the recorded violations of failed runs")
	return cmd
}

func (o *ReportsOptions) Run() error {
	tty := ui.NewTTY(false)

	cfg, err := config.Load(o.ConfigFile)
	if err != nil {
		return err
	}

	store, err := reportstore.Open(cfg.ReportDB, cfg.ReportCap, nil, nil)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRecent(context.Background(), o.Limit)
	if err != nil {
		return err
	}

	for _, run := range runs {
		status := "OK"
		if !run.OK {
			status = "FAIL"
		}
		tty.Printf("%s  %-4s  %-20s  %d violations  %s\n",
			run.CreatedAt.Format(time.RFC3339), status, run.Source, run.ErrorCount, run.ID)
		if o.ShowErrors && !run.OK {
			tty.Printf("%s\n", run.Errors)
		}
	}
	return nil
}
