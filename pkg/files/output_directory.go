// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

var suspiciousOutputDirectoryPaths = []string{"/", ".", "./", ""}

type OutputFile struct {
	relativePath string
	data         []byte
}

func NewOutputFile(relativePath string, data []byte) OutputFile {
	return OutputFile{relativePath, data}
}

func (f OutputFile) RelativePath() string { return f.relativePath }
func (f OutputFile) Bytes() []byte        { return f.data }

func (f OutputFile) Path(dirPath string) string {
	return filepath.Join(dirPath, f.relativePath)
}

func (f OutputFile) Create(dirPath string) error {
	resultPath := f.Path(dirPath)

	if err := os.MkdirAll(filepath.Dir(resultPath), 0700); err != nil {
		return err
	}
	return os.WriteFile(resultPath, f.data, 0600)
}

type OutputDirectory struct {
	path  string
	files []OutputFile
	log   *zap.Logger
}

func NewOutputDirectory(path string, files []OutputFile, log *zap.Logger) *OutputDirectory {
	if log == nil {
		log = zap.NewNop()
	}
	return &OutputDirectory{path, files, log}
}

func (d *OutputDirectory) Files() []OutputFile { return d.files }

// Write replaces the output directory with the given files. Duplicate
// destinations and relative paths escaping the directory are refused
// before anything is deleted.
func (d *OutputDirectory) Write() error {
	filePaths := map[string]struct{}{}

	for _, file := range d.files {
		path := file.RelativePath()
		if _, found := filePaths[path]; found {
			return fmt.Errorf("Multiple files have same output destination paths: %s", path)
		}
		filePaths[path] = struct{}{}

		if escapesRoot(path) {
			return fmt.Errorf("Expected output path '%s' to stay within the output directory", path)
		}
	}

	for _, path := range suspiciousOutputDirectoryPaths {
		if d.path == path {
			return fmt.Errorf("Expected output directory path to not be one of '%s'",
				strings.Join(suspiciousOutputDirectoryPaths, "', '"))
		}
	}

	if err := os.RemoveAll(d.path); err != nil {
		return err
	}

	return d.WriteFiles()
}

func (d *OutputDirectory) WriteFiles() error {
	if err := os.MkdirAll(d.path, 0700); err != nil {
		return err
	}

	for _, file := range d.files {
		d.log.Info("creating", zap.String("path", file.Path(d.path)))

		if err := file.Create(d.path); err != nil {
			return err
		}
	}

	return nil
}

func escapesRoot(relPath string) bool {
	cleaned := filepath.Clean(relPath)
	return filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator))
}
