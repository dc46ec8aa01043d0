// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openalex

import "testing"

func TestNormalizeYearFilter(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"greater or equal", ">=2020", "2020-"},
		{"less or equal", "<=2018", "-2018"},
		{"strictly greater", ">2019", "2020-"},
		{"strictly less", "<2015", "-2014"},
		{"plain year passes through", "2020", "2020"},
		{"range passes through", "2020-2023", "2020-2023"},
		{"open-ended range passes through", "2020-", "2020-"},
		{"empty", "", ""},
		{"whitespace around operator", " >= 2021 ", "2021-"},
		{"non-numeric after strict operator passes through", ">abc", ">abc"},
		{"non-numeric after less-than passes through", "<oops", "<oops"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeYearFilter(tt.value)
			if got != tt.want {
				t.Errorf("NormalizeYearFilter(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestBuildFilterString(t *testing.T) {
	tests := []struct {
		name    string
		filters map[string]string
		want    string
	}{
		{"nil map", nil, ""},
		{"empty map", map[string]string{}, ""},
		{"single filter normalized", map[string]string{"publication_year": ">=2020"}, "publication_year:2020-"},
		{
			"multiple filters sorted by key",
			map[string]string{"publication_year": "<2015", "is_oa": "true"},
			"is_oa:true,publication_year:-2014",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildFilterString(tt.filters)
			if got != tt.want {
				t.Errorf("buildFilterString() = %q, want %q", got, tt.want)
			}
		})
	}
}
