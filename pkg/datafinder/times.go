// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package datafinder

import (
	"path"
	"regexp"
	"strconv"
	"strings"
)

// yearRangeRe matches the trailing date range of a data filename, either
// _YYYY-YYYY or _YYYYMM-YYYYMM (optionally with days).
var yearRangeRe = regexp.MustCompile(`_(\d{4})(\d{2})?(\d{2})?-(\d{4})(\d{2})?(\d{2})?$`)

// fileYearRange extracts the start and end year embedded in a filename.
func fileYearRange(filename string) (start, end int, found bool) {
	base := path.Base(filename)
	base = strings.TrimSuffix(base, path.Ext(base))

	match := yearRangeRe.FindStringSubmatch(base)
	if match == nil {
		return 0, 0, false
	}
	start, _ = strconv.Atoi(match[1])
	end, _ = strconv.Atoi(match[4])
	return start, end, true
}

// selectYears keeps the files whose embedded year range overlaps
// [startYear, endYear]. Files without a recognizable range are kept, as
// are all files when no years were requested.
func selectYears(files []string, startYear, endYear int) []string {
	if startYear == 0 && endYear == 0 {
		return files
	}

	var result []string
	for _, file := range files {
		start, end, found := fileYearRange(file)
		if !found || start <= endYear && end >= startYear {
			result = append(result, file)
		}
	}
	return result
}
