// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package openalex queries the OpenAlex Works API: single-page search,
// paginated retrieval, year-filter normalization, and projection of raw
// work records into the Paper shape the rest of the system consumes.
package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/paper-agent/pkg/types"
)

// searchBase is the OpenAlex Works search endpoint. Declared as a var so
// tests can substitute an httptest server.
var searchBase = "https://api.openalex.org/works"

// DefaultSort orders results by publication date, newest first.
const DefaultSort = "publication_date:desc"

const (
	defaultPerPage = 25
	maxPerPage     = 200

	// defaultRequestsPerSecond respects the polite pool guidance.
	defaultRequestsPerSecond = 5
)

// Request holds the parameters of one search invocation. Immutable once
// passed to the client.
type Request struct {
	// Query is the search text.
	Query string

	// PerPage is the page size; 0 means the configured default, values
	// above the provider maximum are clamped to it.
	PerPage int

	// Page is the 1-based page number; 0 means page 1.
	Page int

	// Sort is the sort expression; empty means DefaultSort.
	Sort string

	// Filters maps field names to range expressions. Values are normalized
	// per NormalizeYearFilter before sending.
	Filters map[string]string
}

// Meta is the pagination metadata the API reports with each page.
type Meta struct {
	Count     int `json:"count"`
	PageCount int `json:"page_count"`
	Page      int `json:"page"`
	PerPage   int `json:"per_page"`
}

// Page is one page of raw work records plus metadata.
type Page struct {
	Meta    Meta   `json:"meta"`
	Results []Work `json:"results"`
}

// Client queries the OpenAlex Works API. The zero value is usable; New
// applies configuration defaults.
type Client struct {
	HTTPClient *http.Client
	// Email is sent as the mailto parameter for polite pool access.
	Email          string
	UserAgent      string
	DefaultPerPage int
	MaxPerPage     int
	// Limiter gates every request. Nil disables rate limiting.
	Limiter *rate.Limiter
}

// New builds a Client from configuration, filling defaults for anything unset.
func New(cfg types.OpenAlexConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "paper-agent/0.1"
	}
	if cfg.Email != "" {
		userAgent = fmt.Sprintf("%s (mailto:%s)", userAgent, cfg.Email)
	}
	return &Client{
		HTTPClient:     &http.Client{Timeout: timeout},
		Email:          cfg.Email,
		UserAgent:      userAgent,
		DefaultPerPage: cfg.DefaultPerPage,
		MaxPerPage:     cfg.MaxPerPage,
		Limiter:        rate.NewLimiter(rate.Limit(rps), 1),
	}
}

func (c *Client) perPageDefault() int {
	if c.DefaultPerPage > 0 {
		return c.DefaultPerPage
	}
	return defaultPerPage
}

func (c *Client) perPageMax() int {
	if c.MaxPerPage > 0 {
		return c.MaxPerPage
	}
	return maxPerPage
}

// Search fetches one page of results. Transport errors and non-200 statuses
// are returned unmodified in meaning; there is no retry.
func (c *Client) Search(ctx context.Context, req Request) (*Page, error) {
	if req.Query == "" {
		return nil, fmt.Errorf("empty search query")
	}

	perPage := req.PerPage
	if perPage <= 0 {
		perPage = c.perPageDefault()
	}
	if perPage > c.perPageMax() {
		perPage = c.perPageMax()
	}
	page := req.Page
	if page <= 0 {
		page = 1
	}
	sortExpr := req.Sort
	if sortExpr == "" {
		sortExpr = DefaultSort
	}

	params := url.Values{
		"search":   {req.Query},
		"per_page": {strconv.Itoa(perPage)},
		"page":     {strconv.Itoa(page)},
		"sort":     {sortExpr},
	}
	if filter := buildFilterString(req.Filters); filter != "" {
		params.Set("filter", filter)
	}
	if c.Email != "" {
		params.Set("mailto", c.Email)
	}

	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, searchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("User-Agent", c.UserAgent)

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenAlex API returned HTTP %d", resp.StatusCode)
	}

	var p Page
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("parsing OpenAlex response: %w", err)
	}
	return &p, nil
}

// SearchAll retrieves work records across pages until maxResults is reached
// or the provider reports no further pages. Every request uses the maximum
// page size to minimize round trips. maxResults <= 0 retrieves everything.
// Pages are fetched strictly sequentially, one in flight at a time; a
// transport error on any page propagates to the caller.
func (c *Client) SearchAll(ctx context.Context, req Request, maxResults int) ([]Work, error) {
	req.PerPage = c.perPageMax()

	var all []Work
	for page := 1; ; page++ {
		req.Page = page
		p, err := c.Search(ctx, req)
		if err != nil {
			return nil, err
		}
		if len(p.Results) == 0 {
			break
		}

		all = append(all, p.Results...)

		if maxResults > 0 && len(all) >= maxResults {
			all = all[:maxResults]
			break
		}
		if page >= p.Meta.PageCount {
			break
		}
	}
	return all, nil
}
