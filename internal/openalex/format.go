// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openalex

import (
	"sort"
	"strings"

	"github.com/pdiddy/paper-agent/pkg/types"
)

// Work is a raw work record as returned by the API.
type Work struct {
	ID                    string           `json:"id"`
	Title                 string           `json:"title"`
	DOI                   string           `json:"doi"`
	PublicationDate       string           `json:"publication_date"`
	PublicationYear       int              `json:"publication_year"`
	Authorships           []Authorship     `json:"authorships"`
	AbstractInvertedIndex map[string][]int `json:"abstract_inverted_index"`
	CitedByCount          int              `json:"cited_by_count"`
	OpenAccess            OpenAccess       `json:"open_access"`
	PrimaryLocation       *PrimaryLocation `json:"primary_location"`
}

// Authorship links a work to one author.
type Authorship struct {
	Author Author `json:"author"`
}

// Author carries the author fields the projection needs.
type Author struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// OpenAccess carries a work's open access status.
type OpenAccess struct {
	IsOA     bool   `json:"is_oa"`
	OAStatus string `json:"oa_status"`
	OAURL    string `json:"oa_url"`
}

// PrimaryLocation carries a work's primary hosting location.
type PrimaryLocation struct {
	LandingPageURL string `json:"landing_page_url"`
}

// FormatWork projects a raw work record into the Paper shape: author display
// names in order, the DOI with its scheme stripped, a reconstructed
// abstract, and the open access URL when the work is open.
func FormatWork(w Work) types.Paper {
	var authors []string
	for _, authorship := range w.Authorships {
		name := authorship.Author.DisplayName
		if name == "" {
			name = "Unknown"
		}
		authors = append(authors, name)
	}

	title := w.Title
	if title == "" {
		title = "No title"
	}

	var pdfURL string
	if w.OpenAccess.IsOA {
		pdfURL = w.OpenAccess.OAURL
	}

	var primaryLocation string
	if w.PrimaryLocation != nil {
		primaryLocation = w.PrimaryLocation.LandingPageURL
	}

	return types.Paper{
		ID:              w.ID,
		Title:           title,
		Authors:         authors,
		PublicationYear: w.PublicationYear,
		PublicationDate: w.PublicationDate,
		DOI:             strings.TrimPrefix(w.DOI, "https://doi.org/"),
		Abstract:        reconstructAbstract(w.AbstractInvertedIndex),
		CitationCount:   w.CitedByCount,
		PDFURL:          pdfURL,
		OpenAccess:      w.OpenAccess.IsOA,
		PrimaryLocation: primaryLocation,
	}
}

// FormatWorks projects a slice of raw records, preserving order.
func FormatWorks(works []Work) []types.Paper {
	papers := make([]types.Paper, 0, len(works))
	for _, w := range works {
		papers = append(papers, FormatWork(w))
	}
	return papers
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The inverted index maps each word to a list of positions
// where that word appears.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}
