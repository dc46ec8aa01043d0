// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openalex

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-agent/pkg/types"
)

// QueryFile is the on-disk representation of a search and its results. A
// search can be saved to a file and reloaded later without re-querying the
// API.
type QueryFile struct {
	Query   QueryParams   `yaml:"query"`
	Results []types.Paper `yaml:"results"`
	Summary QuerySummary  `yaml:"summary"`
}

// QueryParams stores the search parameters in a serializable form.
type QueryParams struct {
	Text       string `yaml:"text"`
	Method     string `yaml:"method,omitempty"`
	YearFilter string `yaml:"year_filter,omitempty"`
	MaxResults int    `yaml:"max_results,omitempty"`
	Sort       string `yaml:"sort,omitempty"`
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	Total     int       `yaml:"total"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteQueryFile saves query parameters and results to a YAML file.
func WriteQueryFile(path string, params QueryParams, papers []types.Paper) error {
	qf := QueryFile{
		Query:   params,
		Results: papers,
		Summary: QuerySummary{
			Total:     len(papers),
			Timestamp: time.Now(),
		},
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}

// Request converts stored parameters back into a search Request.
func (p QueryParams) Request() Request {
	req := Request{
		Query: p.Text,
		Sort:  p.Sort,
	}
	if p.YearFilter != "" {
		req.Filters = map[string]string{"publication_year": p.YearFilter}
	}
	return req
}
