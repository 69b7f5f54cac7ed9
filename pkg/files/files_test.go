// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package files_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/esmtools/esmcheck/pkg/files"
	"github.com/esmtools/esmcheck/pkg/yamlmeta"
)

func TestNewFilesWalksDirectoriesSorted(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yml"), []byte("b: 1"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yml"), []byte("a: 1"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "c.yml"), []byte("c: 1"), 0644))

	result, err := files.NewFiles([]string{dir}, true)
	require.NoError(t, err)
	require.Len(t, result, 3)
	require.Equal(t, "a.yml", result[0].RelativePath())
	require.Equal(t, "b.yml", result[1].RelativePath())
	require.Equal(t, filepath.Join("sub", "c.yml"), result[2].RelativePath())

	_, err = files.NewFiles([]string{dir}, false)
	require.Error(t, err, "directories require recursive mode")
}

func TestFileTypeSniffing(t *testing.T) {
	cases := map[string]files.Type{
		"recipe.yml":      files.TypeYAML,
		"recipe.yaml":     files.TypeYAML,
		"table.json":      files.TypeJSON,
		"settings.toml":   files.TypeTOML,
		"validators.star": files.TypeStarlark,
		"README.md":       files.TypeUnknown,
	}
	for name, expected := range cases {
		file := files.MustNewFileFromSource(files.NewBytesSource(name, nil))
		require.Equal(t, expected, file.Type(), name)
	}
}

func TestDocSetFromYAMLAndJSON(t *testing.T) {
	yamlFile := files.MustNewFileFromSource(files.NewBytesSource("data.yml", []byte("name: tas\nyears: [1850, 2005]\n")))
	docSet, err := files.DocSetFromFile(yamlFile)
	require.NoError(t, err)
	require.Len(t, docSet.Items, 1)

	jsonFile := files.MustNewFileFromSource(files.NewBytesSource("data.json", []byte(`{"name": "tas", "years": [1850, 2005]}`)))
	jsonDocSet, err := files.DocSetFromFile(jsonFile)
	require.NoError(t, err)

	require.Equal(t,
		yamlmeta.NewPlainFromAST(docSet.Items[0].Value),
		yamlmeta.NewPlainFromAST(jsonDocSet.Items[0].Value))
}

func TestDocSetFromTOML(t *testing.T) {
	tomlFile := files.MustNewFileFromSource(files.NewBytesSource("data.toml", []byte("name = \"tas\"\n\n[limits]\nmin = 1\n")))
	docSet, err := files.DocSetFromFile(tomlFile)
	require.NoError(t, err)
	require.Len(t, docSet.Items, 1)

	root, ok := docSet.Items[0].Value.(*yamlmeta.Map)
	require.True(t, ok)

	var keys []interface{}
	for _, item := range root.Items {
		keys = append(keys, item.Key)
	}
	require.Contains(t, keys, "name")
	require.Contains(t, keys, "limits")
}

func TestDocSetRejectsNonDataFiles(t *testing.T) {
	starFile := files.MustNewFileFromSource(files.NewBytesSource("v.star", []byte("x = 1")))
	_, err := files.DocSetFromFile(starFile)
	require.Error(t, err)

	unknownFile := files.MustNewFileFromSource(files.NewBytesSource("README.md", []byte("hi")))
	_, err = files.DocSetFromFile(unknownFile)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Unknown file type")
}

func TestOutputDirectoryWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	outDir := files.NewOutputDirectory(dir, []files.OutputFile{
		files.NewOutputFile("result.yml", []byte("ok: true\n")),
		files.NewOutputFile(filepath.Join("nested", "more.yml"), []byte("n: 1\n")),
	}, nil)
	require.NoError(t, outDir.Write())

	data, err := os.ReadFile(filepath.Join(dir, "result.yml"))
	require.NoError(t, err)
	require.Equal(t, "ok: true\n", string(data))
}

func TestOutputDirectoryRefusals(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	dup := files.NewOutputDirectory(dir, []files.OutputFile{
		files.NewOutputFile("same.yml", nil),
		files.NewOutputFile("same.yml", nil),
	}, nil)
	require.Error(t, dup.Write())

	escape := files.NewOutputDirectory(dir, []files.OutputFile{
		files.NewOutputFile(filepath.Join("..", "evil.yml"), nil),
	}, nil)
	err := escape.Write()
	require.Error(t, err)
	require.Contains(t, err.Error(), "stay within")

	root := files.NewOutputDirectory("/", nil, nil)
	require.Error(t, root.Write())
}
