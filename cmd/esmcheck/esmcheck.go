// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	uierrs "github.com/cppforlife/go-cli-ui/errors"

	"github.com/esmtools/esmcheck/pkg/cmd"
)

func main() {
	command := cmd.NewDefaultEsmcheckCmd()

	err := command.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "esmcheck: Error: %s\n", uierrs.NewMultiLineError(err))
		os.Exit(1)
	}
}
