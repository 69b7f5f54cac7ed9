// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/esmtools/esmcheck/pkg/datafinder"
)

func TestParseFacets(t *testing.T) {
	facets, err := parseFacets([]string{
		"dataset=MPI-ESM-LR",
		"start_year=1850",
		"exp=historical,rcp85",
	})
	require.NoError(t, err)
	require.Equal(t, datafinder.Facets{
		"dataset":    "MPI-ESM-LR",
		"start_year": 1850,
		"exp":        []string{"historical", "rcp85"},
	}, facets)
}

func TestParseFacetsRejectsBareArgs(t *testing.T) {
	_, err := parseFacets([]string{"dataset"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "key=value")

	_, err = parseFacets([]string{"=historical"})
	require.Error(t, err)
}

func TestBuildLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := buildLogger("chatty", "console")
	require.Error(t, err)
	require.Contains(t, err.Error(), "chatty")

	log, err := buildLogger("debug", "json")
	require.NoError(t, err)
	require.NotNil(t, log)
}
