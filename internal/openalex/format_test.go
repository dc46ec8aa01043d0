// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openalex

import "testing"

func TestReconstructAbstract(t *testing.T) {
	tests := []struct {
		name  string
		index map[string][]int
		want  string
	}{
		{"nil map", nil, ""},
		{"empty map", map[string][]int{}, ""},
		{"single word", map[string][]int{"hello": {0}}, "hello"},
		{
			"multi-word ordered",
			map[string][]int{"We": {0}, "propose": {1}, "a": {2}, "new": {3}, "method": {4}},
			"We propose a new method",
		},
		{
			"repeated word at multiple positions",
			map[string][]int{"the": {0, 4}, "cat": {1}, "sat": {2}, "on": {3}, "mat": {5}},
			"the cat sat on the mat",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reconstructAbstract(tt.index)
			if got != tt.want {
				t.Errorf("reconstructAbstract() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatWork(t *testing.T) {
	w := Work{
		ID:              "https://openalex.org/W2741809807",
		Title:           "Attention Is All You Need",
		DOI:             "https://doi.org/10.5555/3295222.3295349",
		PublicationDate: "2017-06-12",
		PublicationYear: 2017,
		Authorships: []Authorship{
			{Author: Author{ID: "A1", DisplayName: "Ashish Vaswani"}},
			{Author: Author{ID: "A2", DisplayName: "Noam Shazeer"}},
		},
		AbstractInvertedIndex: map[string][]int{"We": {0}, "propose": {1}},
		CitedByCount:          90000,
		OpenAccess:            OpenAccess{IsOA: true, OAStatus: "green", OAURL: "https://arxiv.org/pdf/1706.03762"},
		PrimaryLocation:       &PrimaryLocation{LandingPageURL: "https://papers.nips.cc/paper/7181"},
	}

	p := FormatWork(w)
	if p.DOI != "10.5555/3295222.3295349" {
		t.Errorf("DOI = %q, want prefix stripped", p.DOI)
	}
	if len(p.Authors) != 2 || p.Authors[0] != "Ashish Vaswani" || p.Authors[1] != "Noam Shazeer" {
		t.Errorf("Authors = %v", p.Authors)
	}
	if p.Abstract != "We propose" {
		t.Errorf("Abstract = %q, want reconstructed text", p.Abstract)
	}
	if p.PDFURL != "https://arxiv.org/pdf/1706.03762" {
		t.Errorf("PDFURL = %q, want OA URL for open work", p.PDFURL)
	}
	if !p.OpenAccess {
		t.Error("OpenAccess = false, want true")
	}
	if p.CitationCount != 90000 {
		t.Errorf("CitationCount = %d", p.CitationCount)
	}
	if p.PrimaryLocation != "https://papers.nips.cc/paper/7181" {
		t.Errorf("PrimaryLocation = %q", p.PrimaryLocation)
	}
}

func TestFormatWorkDefaults(t *testing.T) {
	p := FormatWork(Work{
		ID:          "https://openalex.org/W1",
		Authorships: []Authorship{{Author: Author{ID: "A1"}}},
		OpenAccess:  OpenAccess{IsOA: false, OAURL: "https://example.com/closed.pdf"},
	})
	if p.Title != "No title" {
		t.Errorf("Title = %q, want placeholder for missing title", p.Title)
	}
	if len(p.Authors) != 1 || p.Authors[0] != "Unknown" {
		t.Errorf("Authors = %v, want [Unknown] for missing display name", p.Authors)
	}
	// Closed works never carry a pdf URL, even when oa_url is set.
	if p.PDFURL != "" {
		t.Errorf("PDFURL = %q, want empty for closed work", p.PDFURL)
	}
	if p.Abstract != "" {
		t.Errorf("Abstract = %q, want empty", p.Abstract)
	}
	if p.PrimaryLocation != "" {
		t.Errorf("PrimaryLocation = %q, want empty for nil location", p.PrimaryLocation)
	}
}

func TestFormatWorksPreservesOrder(t *testing.T) {
	works := []Work{
		{ID: "W1", Title: "First"},
		{ID: "W2", Title: "Second"},
		{ID: "W3", Title: "Third"},
	}
	papers := FormatWorks(works)
	if len(papers) != 3 {
		t.Fatalf("len(papers) = %d, want 3", len(papers))
	}
	for i, want := range []string{"First", "Second", "Third"} {
		if papers[i].Title != want {
			t.Errorf("papers[%d].Title = %q, want %q", i, papers[i].Title, want)
		}
	}
}
