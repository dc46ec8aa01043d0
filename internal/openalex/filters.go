// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openalex

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// NormalizeYearFilter translates comparison-style year expressions into the
// OpenAlex range syntax:
//
//	">=2020" → "2020-"    ">2020" → "2021-"
//	"<=2020" → "-2020"    "<2020" → "-2019"
//
// Forms already valid ("2020-2023", "2020") pass through unchanged, as does
// any expression whose numeric suffix fails to parse. The function is pure
// and total; it never signals failure.
func NormalizeYearFilter(value string) string {
	value = strings.TrimSpace(value)

	if year, ok := strings.CutPrefix(value, ">="); ok {
		return strings.TrimSpace(year) + "-"
	}
	if year, ok := strings.CutPrefix(value, "<="); ok {
		return "-" + strings.TrimSpace(year)
	}
	if year, ok := strings.CutPrefix(value, ">"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(year))
		if err != nil {
			return value
		}
		return fmt.Sprintf("%d-", n+1)
	}
	if year, ok := strings.CutPrefix(value, "<"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(year))
		if err != nil {
			return value
		}
		return fmt.Sprintf("-%d", n-1)
	}

	return value
}

// buildFilterString joins filters into the comma-separated field:value form
// the API expects, normalizing each value. Keys are emitted in sorted order
// so the wire format is deterministic.
func buildFilterString(filters map[string]string) string {
	if len(filters) == 0 {
		return ""
	}

	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+":"+NormalizeYearFilter(filters[k]))
	}
	return strings.Join(pairs, ",")
}
