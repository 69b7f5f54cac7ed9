// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/esmtools/esmcheck/pkg/cmd/ui"
	"github.com/esmtools/esmcheck/pkg/files"
	"github.com/esmtools/esmcheck/pkg/schema"
)

type ValidateOptions struct {
	SchemaFile       string
	IncludeFiles     []string
	CustomValidators []string
	Strict           bool
	Watch            bool
	Debug            bool
}

func NewValidateOptions() *ValidateOptions {
	return &ValidateOptions{}
}

func NewValidateCmd(o *ValidateOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate data files against a schema",
		Args:  cobra.MinimumNArgs(1),
		RunE:  func(_ *cobra.Command, args []string) error { return o.Run(args) },
	}
	cmd.Flags().StringVarP(&o.SchemaFile, "schema", "s", "", "Schema file (local path, HTTP URL, -)")
	cmd.Flags().StringArrayVar(&o.IncludeFiles, "includes", nil, "Additional schema file providing named includes (can be specified multiple times)")
	cmd.Flags().StringArrayVar(&o.CustomValidators, "custom-validators", nil, "Starlark file defining custom validator functions (can be specified multiple times)")
	cmd.Flags().BoolVar(&o.Strict, "strict", false, "Fail on keys not declared in the schema")
	cmd.Flags().BoolVarP(&o.Watch, "watch", "w", false, "Re-validate when schema or data files change")
	cmd.Flags().BoolVar(&o.Debug, "debug", false, "Enable debug output")
	return cmd
}

func (o *ValidateOptions) Run(dataPaths []string) error {
	tty := ui.NewTTY(o.Debug)

	if o.SchemaFile == "" {
		return fmt.Errorf("Expected schema file to be specified (use -s)")
	}

	if o.Watch {
		return o.watch(tty, dataPaths)
	}
	return o.validateAll(tty, dataPaths)
}

func (o *ValidateOptions) validateAll(tty ui.UI, dataPaths []string) error {
	ruleSet, customs, err := o.loadSchema()
	if err != nil {
		return err
	}

	dataFiles, err := files.NewFiles(dataPaths, true)
	if err != nil {
		return err
	}

	opts := schema.CheckOpts{Strict: o.Strict, Customs: customs}

	var mu sync.Mutex
	var failed []string

	group, _ := errgroup.WithContext(context.Background())
	for _, file := range dataFiles {
		file := file
		group.Go(func() error {
			docSet, err := files.DocSetFromFile(file)
			if err != nil {
				return err
			}

			chk := schema.Check(ruleSet, docSet, opts)

			mu.Lock()
			defer mu.Unlock()
			if chk.HasViolations() {
				failed = append(failed, file.RelativePath())
				tty.Warnf("FAIL %s (%d violations)\n%s", file.RelativePath(), len(chk.Violations), chk.Error())
			} else {
				tty.Printf("OK   %s\n", file.RelativePath())
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	if len(failed) > 0 {
		return fmt.Errorf("Validation failed for: %s", strings.Join(failed, ", "))
	}
	return nil
}

// loadSchema compiles the schema, merges include files and loads custom
// validators. It re-reads everything, so watch mode picks up edits.
func (o *ValidateOptions) loadSchema() (*schema.RuleSet, *schema.CustomValidators, error) {
	schemaFile, err := files.NewFiles([]string{o.SchemaFile}, false)
	if err != nil {
		return nil, nil, err
	}

	schemaBytes, err := schemaFile[0].Bytes()
	if err != nil {
		return nil, nil, err
	}

	ruleSet, err := schema.NewRuleSetFromBytes(schemaBytes, schemaFile[0].RelativePath())
	if err != nil {
		return nil, nil, err
	}

	includeFiles, err := files.NewFiles(o.IncludeFiles, false)
	if err != nil {
		return nil, nil, err
	}
	for _, file := range includeFiles {
		data, err := file.Bytes()
		if err != nil {
			return nil, nil, err
		}
		if err := ruleSet.AddIncludesFromBytes(data, file.RelativePath()); err != nil {
			return nil, nil, err
		}
	}

	var customs *schema.CustomValidators
	if len(o.CustomValidators) > 0 {
		customs = schema.NewCustomValidators()

		customFiles, err := files.NewFiles(o.CustomValidators, false)
		if err != nil {
			return nil, nil, err
		}
		for _, file := range customFiles {
			data, err := file.Bytes()
			if err != nil {
				return nil, nil, err
			}
			if err := customs.LoadFile(file.RelativePath(), data); err != nil {
				return nil, nil, err
			}
		}
	}

	return ruleSet, customs, nil
}

// watch re-validates whenever the schema or a data file changes, until
// interrupted. Validation failures are reported but do not stop the
// loop.
func (o *ValidateOptions) watch(tty ui.UI, dataPaths []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("Starting watcher: %s", err)
	}
	defer watcher.Close()

	watched := append([]string{o.SchemaFile}, dataPaths...)
	watched = append(watched, o.IncludeFiles...)
	watched = append(watched, o.CustomValidators...)
	for _, path := range watched {
		if path == "-" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
			return fmt.Errorf("Expected only local paths in watch mode, got '%s'", path)
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("Watching '%s': %s", path, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runOnce := func() {
		if err := o.validateAll(tty, dataPaths); err != nil {
			tty.Warnf("%s\n", err)
		}
	}

	runOnce()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			tty.Debugf("change detected: %s\n", event.Name)
			runOnce()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			tty.Warnf("watch error: %s\n", err)
		}
	}
}
