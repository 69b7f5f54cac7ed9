// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

// Package datafinder resolves dataset files on disk from project DRS
// (data reference syntax) path templates.
package datafinder

import (
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Facets are the dataset description keys substituted into templates:
// project, dataset, exp, mip, short_name, start_year and so on. Values
// are scalars or lists; a list expands a template into one path per
// element.
type Facets map[string]interface{}

// ProjectData describes where one project keeps its data: directory
// templates, a file template and an output file template. Templates use
// {facet} for mandatory segments and [facet] for optional ones; the
// special [latestversion] segment resolves to the greatest existing
// version directory.
type ProjectData struct {
	Name       string
	InputDirs  []string
	InputFile  string
	OutputFile string

	log *zap.Logger
}

func NewProjectData(name string, inputDirs []string, inputFile, outputFile string, log *zap.Logger) *ProjectData {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProjectData{
		Name:       name,
		InputDirs:  inputDirs,
		InputFile:  inputFile,
		OutputFile: outputFile,
		log:        log,
	}
}

const latestVersionTag = "latestversion"

var mandatoryTagRe = regexp.MustCompile(`\{([^}]+)\}`)
var optionalTagRe = regexp.MustCompile(`\[([^\]]+)\]`)

// InputFilelist locates the data files for one dataset. It returns the
// matching files, the existing directories that were searched, and the
// file patterns that were looked for, mirroring a dry run when nothing
// matches. Files are filtered by the facets' start_year/end_year against
// year ranges embedded in filenames.
func (p *ProjectData) InputFilelist(fsys fs.FS, facets Facets) (files, dirs, patterns []string, err error) {
	patterns, err = expandTemplate(p.InputFile, facets, p.Name)
	if err != nil {
		return nil, nil, nil, err
	}

	for _, dirTemplate := range p.InputDirs {
		expanded, err := expandTemplate(dirTemplate, facets, p.Name)
		if err != nil {
			return nil, nil, nil, err
		}

		for _, dirPattern := range expanded {
			matched, err := globDirs(fsys, dirPattern)
			if err != nil {
				return nil, nil, nil, err
			}
			dirs = append(dirs, matched...)
		}
	}
	sort.Strings(dirs)

	for _, dir := range dirs {
		for _, pattern := range patterns {
			matches, err := fs.Glob(fsys, path.Join(dir, pattern))
			if err != nil {
				return nil, nil, nil, fmt.Errorf("Searching '%s': %s", dir, err)
			}
			files = append(files, matches...)
		}
	}
	sort.Strings(files)

	files = selectYears(files, facetInt(facets, "start_year"), facetInt(facets, "end_year"))

	p.log.Debug("input file search",
		zap.String("project", p.Name),
		zap.Int("dirs", len(dirs)),
		zap.Int("files", len(files)))
	return files, dirs, patterns, nil
}

// OutputPath builds the path of the preprocessed file for one dataset:
// <preprocDir>/<diagnostic>/<variable_group>/<output file template>.nc.
// A list-valued exp facet is flattened to "a-b".
func (p *ProjectData) OutputPath(facets Facets, preprocDir string) (string, error) {
	flattened := Facets{}
	for key, val := range facets {
		flattened[key] = val
	}
	if exps, ok := asList(flattened["exp"]); ok {
		flattened["exp"] = strings.Join(exps, "-")
	}

	names, err := expandTemplate(p.OutputFile, flattened, p.Name)
	if err != nil {
		return "", err
	}

	diagnostic := fmt.Sprintf("%v", flattened["diagnostic"])
	group := fmt.Sprintf("%v", flattened["variable_group"])
	return path.Join(preprocDir, diagnostic, group, names[0]+".nc"), nil
}

// expandTemplate substitutes facets into one template. Mandatory {facet}
// tags fail when the facet is absent; optional [facet] segments are
// dropped instead. List values multiply the result.
func expandTemplate(template string, facets Facets, project string) ([]string, error) {
	result := []string{strings.Trim(template, "/")}

	// replaceTag consumes every occurrence of a tag at once, so a tag
	// repeated in the template must only be substituted once.
	for _, tag := range uniqueTags(mandatoryTagRe, template) {
		vals, ok := facetStrings(facets, tag)
		if !ok {
			return nil, fmt.Errorf("Facet %q must be specified for project %q", tag, project)
		}
		result = replaceTag(result, "{"+tag+"}", vals)
	}

	for _, tag := range uniqueTags(optionalTagRe, template) {
		if tag == latestVersionTag {
			continue
		}
		vals, ok := facetStrings(facets, tag)
		if !ok {
			result = dropSegment(result, "["+tag+"]")
			continue
		}
		result = replaceTag(result, "["+tag+"]", vals)
	}

	return result, nil
}

func uniqueTags(re *regexp.Regexp, template string) []string {
	seen := map[string]struct{}{}
	var result []string
	for _, match := range re.FindAllStringSubmatch(template, -1) {
		tag := match[1]
		if _, found := seen[tag]; found {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}
	return result
}

func replaceTag(paths []string, tag string, vals []string) []string {
	var result []string
	for _, p := range paths {
		for _, val := range vals {
			result = append(result, strings.ReplaceAll(p, tag, val))
		}
	}
	return result
}

// dropSegment removes an unexpanded optional tag, collapsing the double
// separator it leaves behind.
func dropSegment(paths []string, tag string) []string {
	var result []string
	for _, p := range paths {
		p = strings.ReplaceAll(p, tag, "")
		for strings.Contains(p, "//") {
			p = strings.ReplaceAll(p, "//", "/")
		}
		result = append(result, strings.Trim(p, "/"))
	}
	return result
}

// globDirs expands one directory pattern to the existing directories it
// matches, resolving any [latestversion] segment to the lexically
// greatest version directory present.
func globDirs(fsys fs.FS, pattern string) ([]string, error) {
	marker := "[" + latestVersionTag + "]"

	if idx := strings.Index(pattern, marker); idx >= 0 {
		prefix := strings.Trim(pattern[:idx], "/")
		suffix := strings.Trim(pattern[idx+len(marker):], "/")

		parents, err := globDirs(fsys, prefix)
		if err != nil {
			return nil, err
		}

		var result []string
		for _, parent := range parents {
			version, ok := latestVersionIn(fsys, parent)
			if !ok {
				continue
			}
			rest := path.Join(parent, version, suffix)
			matched, err := globDirs(fsys, rest)
			if err != nil {
				return nil, err
			}
			result = append(result, matched...)
		}
		return result, nil
	}

	matches, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("Expanding '%s': %s", pattern, err)
	}

	var result []string
	for _, match := range matches {
		// symlinked version dirs stat as dirs through fs.Stat
		info, err := fs.Stat(fsys, match)
		if err != nil || !info.IsDir() {
			continue
		}
		result = append(result, match)
	}
	return result, nil
}

func latestVersionIn(fsys fs.FS, dir string) (string, bool) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return "", false
	}

	var versions []string
	for _, entry := range entries {
		if entry.IsDir() || entry.Type()&fs.ModeSymlink != 0 {
			versions = append(versions, entry.Name())
		}
	}
	if len(versions) == 0 {
		return "", false
	}
	sort.Strings(versions)
	return versions[len(versions)-1], true
}

func facetStrings(facets Facets, tag string) ([]string, bool) {
	val, ok := facets[tag]
	if !ok || val == nil {
		return nil, false
	}
	if list, ok := asList(val); ok {
		return list, len(list) > 0
	}
	return []string{fmt.Sprintf("%v", val)}, true
}

func asList(val interface{}) ([]string, bool) {
	switch typedVal := val.(type) {
	case []string:
		return typedVal, true
	case []interface{}:
		var result []string
		for _, item := range typedVal {
			result = append(result, fmt.Sprintf("%v", item))
		}
		return result, true
	}
	return nil, false
}

func facetInt(facets Facets, tag string) int {
	switch typedVal := facets[tag].(type) {
	case int:
		return typedVal
	case int64:
		return int(typedVal)
	}
	return 0
}
