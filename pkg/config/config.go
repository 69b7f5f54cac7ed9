// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

// Package config layers tool configuration: defaults, then an optional
// YAML config file, then ESMCHECK_* environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"dario.cat/mergo"
	yaml "gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	Strict bool `yaml:"strict"`

	TablesDir       string `yaml:"tables_dir"`
	CustomTablesDir string `yaml:"custom_tables_dir"`

	HTTPAddr        string   `yaml:"http_addr"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`

	ReportDB  string `yaml:"report_db"`
	ReportCap int    `yaml:"report_cap"`

	// Projects maps a project name to its DRS path templates.
	Projects map[string]ProjectConfig `yaml:"projects"`
}

type ProjectConfig struct {
	InputDirs  []string `yaml:"input_dirs"`
	InputFile  string   `yaml:"input_file"`
	OutputFile string   `yaml:"output_file"`
}

// Duration parses YAML scalars like "30s" or "2m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %s", node.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

func Defaults() Config {
	return Config{
		LogLevel:        "info",
		LogFormat:       "console",
		HTTPAddr:        ":8080",
		ShutdownTimeout: Duration(10 * time.Second),
		ReportDB:        "esmcheck-reports.db",
		ReportCap:       1000,
	}
}

// Load builds the effective configuration. path may be empty; the file,
// when given, must exist.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		fileCfg, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		// file values win; defaults fill what the file leaves unset
		if err := mergo.Merge(fileCfg, cfg); err != nil {
			return nil, fmt.Errorf("Merging configuration: %s", err)
		}
		cfg = *fileCfg
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Reading config '%s': %s", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("Parsing config '%s': %s", path, err)
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if val := os.Getenv("ESMCHECK_LOG_LEVEL"); val != "" {
		cfg.LogLevel = val
	}
	if val := os.Getenv("ESMCHECK_LOG_FORMAT"); val != "" {
		cfg.LogFormat = val
	}
	if val := os.Getenv("ESMCHECK_TABLES_DIR"); val != "" {
		cfg.TablesDir = val
	}
	if val := os.Getenv("ESMCHECK_CUSTOM_TABLES_DIR"); val != "" {
		cfg.CustomTablesDir = val
	}
	if val := os.Getenv("ESMCHECK_HTTP_ADDR"); val != "" {
		cfg.HTTPAddr = val
	}
	if val := os.Getenv("ESMCHECK_REPORT_DB"); val != "" {
		cfg.ReportDB = val
	}

	if val := os.Getenv("ESMCHECK_STRICT"); val != "" {
		parsed, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("Parsing ESMCHECK_STRICT %q: %s", val, err)
		}
		cfg.Strict = parsed
	}
	if val := os.Getenv("ESMCHECK_SHUTDOWN_TIMEOUT"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("Parsing ESMCHECK_SHUTDOWN_TIMEOUT %q: %s", val, err)
		}
		cfg.ShutdownTimeout = Duration(parsed)
	}
	if val := os.Getenv("ESMCHECK_REPORT_CAP"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("Parsing ESMCHECK_REPORT_CAP %q: %s", val, err)
		}
		cfg.ReportCap = parsed
	}
	return nil
}
