// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/esmtools/esmcheck/pkg/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "esmcheck.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, 10*time.Second, cfg.ShutdownTimeout.Std())
	require.Equal(t, 1000, cfg.ReportCap)
	require.False(t, cfg.Strict)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
strict: true
shutdown_timeout: 30s
projects:
  CMIP5:
    input_dirs:
    - "{institute}/{dataset}/{exp}/{frequency}/{modeling_realm}/{mip}/{ensemble}/[latestversion]/{short_name}"
    input_file: "{short_name}_{mip}_{dataset}_{exp}_{ensemble}_*.nc"
    output_file: "{project}_{dataset}_{mip}_{exp}_{ensemble}_{short_name}_{start_year}-{end_year}"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.True(t, cfg.Strict)
	require.Equal(t, 30*time.Second, cfg.ShutdownTimeout.Std())

	// defaults still fill what the file leaves out
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, 1000, cfg.ReportCap)

	require.Contains(t, cfg.Projects, "CMIP5")
	require.Len(t, cfg.Projects["CMIP5"].InputDirs, 1)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "log_level: debug\nhttp_addr: \":9999\"\n")

	t.Setenv("ESMCHECK_LOG_LEVEL", "warn")
	t.Setenv("ESMCHECK_STRICT", "true")
	t.Setenv("ESMCHECK_SHUTDOWN_TIMEOUT", "1m")
	t.Setenv("ESMCHECK_REPORT_CAP", "50")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "warn", cfg.LogLevel)
	require.Equal(t, ":9999", cfg.HTTPAddr)
	require.True(t, cfg.Strict)
	require.Equal(t, time.Minute, cfg.ShutdownTimeout.Std())
	require.Equal(t, 50, cfg.ReportCap)
}

func TestLoadErrorsNameTheKey(t *testing.T) {
	t.Setenv("ESMCHECK_SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := config.Load("")
	require.Error(t, err)
	require.Contains(t, err.Error(), "ESMCHECK_SHUTDOWN_TIMEOUT")

	t.Setenv("ESMCHECK_SHUTDOWN_TIMEOUT", "")
	t.Setenv("ESMCHECK_REPORT_CAP", "lots")
	_, err = config.Load("")
	require.Error(t, err)
	require.Contains(t, err.Error(), "ESMCHECK_REPORT_CAP")
}

func TestLoadBadDuration(t *testing.T) {
	path := writeConfig(t, "shutdown_timeout: soon\n")
	_, err := config.Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), `invalid duration "soon"`)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}
