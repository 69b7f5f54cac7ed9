// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/esmtools/esmcheck/pkg/config"
	"github.com/esmtools/esmcheck/pkg/reportstore"
	"github.com/esmtools/esmcheck/pkg/server"
)

type ServeOptions struct {
	ConfigFile string
}

func NewServeOptions() *ServeOptions {
	return &ServeOptions{}
}

func NewServeCmd(o *ServeOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve schema validation over HTTP",
		RunE:  func(_ *cobra.Command, _ []string) error { return o.Run() },
	}
	cmd.Flags().StringVarP(&o.ConfigFile, "config", "c", "", "Config file")
	return cmd
}

func (o *ServeOptions) Run() error {
	cfg, err := config.Load(o.ConfigFile)
	if err != nil {
		return err
	}

	log, err := buildLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer log.Sync()

	store, err := reportstore.Open(cfg.ReportDB, cfg.ReportCap, nil, log)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Opts{
		Addr:            cfg.HTTPAddr,
		Strict:          cfg.Strict,
		ShutdownTimeout: cfg.ShutdownTimeout.Std(),
	}, store, nil, log)

	log.Info("starting server", zap.String("addr", cfg.HTTPAddr), zap.String("report_db", cfg.ReportDB))
	return srv.Run(ctx)
}
