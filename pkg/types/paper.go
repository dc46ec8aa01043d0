// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Paper is the projection of a raw OpenAlex work record that the agent
// returns, persists, and serves. Derived once per record, never mutated
// after creation.
type Paper struct {
	// ID is the OpenAlex work ID (e.g. "https://openalex.org/W2741809807").
	ID string `json:"id"`

	// Title is the paper title, or "No title" when the record has none.
	Title string `json:"title"`

	// Authors lists author display names in source order.
	Authors []string `json:"authors"`

	// PublicationYear is the publication year, 0 when unknown.
	PublicationYear int `json:"publication_year"`

	// PublicationDate is the publication date as returned by the source
	// (YYYY-MM-DD), empty when unknown.
	PublicationDate string `json:"publication_date"`

	// DOI is the bare DOI with the https://doi.org/ scheme stripped.
	DOI string `json:"doi"`

	// Abstract is the abstract text reconstructed from the source's
	// inverted index.
	Abstract string `json:"abstract"`

	// CitationCount is the cited-by count reported by the source.
	CitationCount int `json:"citation_count"`

	// PDFURL is the open access URL, empty when the work is closed.
	PDFURL string `json:"pdf_url,omitempty"`

	// OpenAccess reports whether the work is open access.
	OpenAccess bool `json:"open_access"`

	// PrimaryLocation is the landing page URL of the primary location,
	// empty when unknown.
	PrimaryLocation string `json:"primary_location,omitempty"`
}
