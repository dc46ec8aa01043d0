// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package agent implements the dialogue state machine that gathers search
// parameters across conversational turns and executes the search once the
// analysis step reports sufficiency.
package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdiddy/paper-agent/internal/llm"
	"github.com/pdiddy/paper-agent/internal/openalex"
	"github.com/pdiddy/paper-agent/pkg/types"
)

// State is the conversation phase. Exactly one state is active per session.
type State string

const (
	// StateCollecting gathers search parameters turn by turn.
	StateCollecting State = "collecting_info"
	// StateSearching means parameters are recorded and a search execution
	// is pending confirmation.
	StateSearching State = "searching"
	// StateCompleted is terminal until an explicit Reset.
	StateCompleted State = "completed"
)

// ErrNotSearching is returned by ExecuteSearch when the session is not in
// the searching state. The call has no side effects.
var ErrNotSearching = errors.New("agent is not ready to search")

// Message is one conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CollectedInfo holds the slot-filled search parameters. Owned exclusively
// by one session; mutated only by the analysis step and Reset.
type CollectedInfo struct {
	Query      string `json:"query"`
	YearFilter string `json:"year_filter"`
	MaxResults string `json:"max_results"`
}

// Searcher is the search transport the agent executes against. Implemented
// by *openalex.Client; tests supply a mock.
type Searcher interface {
	Search(ctx context.Context, req openalex.Request) (*openalex.Page, error)
	SearchAll(ctx context.Context, req openalex.Request, maxResults int) ([]openalex.Work, error)
}

const (
	defaultHistoryWindow = 5
	defaultMaxResults    = "25"

	// singlePageLimit is the largest result count served by one request;
	// anything above it goes through paginated retrieval.
	singlePageLimit = 200
)

// Agent is one dialogue session. Not safe for concurrent turns; the caller
// serializes access per session.
type Agent struct {
	provider llm.Provider
	searcher Searcher

	historyWindow  int
	defaultResults string

	// Progress receives warning lines when a fallback path runs.
	Progress io.Writer

	state   State
	history []Message
	info    CollectedInfo
	results []types.Paper
}

// New creates a session in the collecting state with empty defaults.
func New(provider llm.Provider, searcher Searcher, cfg types.AgentConfig) *Agent {
	window := cfg.HistoryWindow
	if window <= 0 {
		window = defaultHistoryWindow
	}
	maxResults := defaultMaxResults
	if cfg.DefaultMaxResults > 0 {
		maxResults = strconv.Itoa(cfg.DefaultMaxResults)
	}
	a := &Agent{
		provider:       provider,
		searcher:       searcher,
		historyWindow:  window,
		defaultResults: maxResults,
		Progress:       io.Discard,
	}
	a.Reset()
	return a
}

// State returns the current conversation phase.
func (a *Agent) State() State { return a.state }

// Info returns the collected search parameters.
func (a *Agent) Info() CollectedInfo { return a.info }

// History returns a copy of the conversation history.
func (a *Agent) History() []Message {
	out := make([]Message, len(a.history))
	copy(out, a.history)
	return out
}

// Results returns the papers from the last executed search.
func (a *Agent) Results() []types.Paper { return a.results }

// ProcessTurn handles one user turn. It returns the response message and
// whether enough information has been collected to run a search. No internal
// failure reaches the caller; the response is always a human-readable string.
func (a *Agent) ProcessTurn(ctx context.Context, userInput string) (string, bool) {
	a.history = append(a.history, Message{Role: "user", Content: userInput})

	switch a.state {
	case StateCollecting:
		response, ready := a.collectInformation(ctx, userInput)
		a.history = append(a.history, Message{Role: "assistant", Content: response})
		if ready {
			a.state = StateSearching
		}
		return response, ready

	case StateSearching:
		// A confirmation is pending; do not re-run analysis.
		return "A search is already pending. Please wait.", false

	default:
		return "The search is complete. To start a new one, tell me about the papers you are looking for.", false
	}
}

// collectInformation runs the analysis step and either records the collected
// parameters or returns a clarifying question. A provider failure is the
// agent-level catch-all: the raw user text becomes the query.
func (a *Agent) collectInformation(ctx context.Context, userInput string) (string, bool) {
	analysis, err := a.analyze(ctx, userInput)
	if err != nil {
		fmt.Fprintf(a.Progress, "warning: analysis failed, using raw input as query: %v\n", err)
		a.info = CollectedInfo{
			Query:      userInput,
			YearFilter: "",
			MaxResults: a.defaultResults,
		}
		return fmt.Sprintf("Understood. Searching for %q.", userInput), true
	}

	if !analysis.Sufficient {
		if analysis.Question != "" {
			return analysis.Question, false
		}
		return "Could you tell me more about the research topic you are interested in? Specific keywords or themes help.", false
	}

	query := analysis.ExtractedQuery
	if query == "" {
		// A sufficiency-positive analysis with no query (the analysis-step
		// fallback) degrades to the raw user text.
		query = userInput
	}
	a.info = CollectedInfo{
		Query:      query,
		YearFilter: analysis.YearFilter,
		MaxResults: analysis.MaxResults,
	}

	yearFilter := a.info.YearFilter
	if yearFilter == "" {
		yearFilter = "none"
	}
	confirmation := fmt.Sprintf(
		"Understood. I will search with the following parameters:\n- Query: %s\n- Year filter: %s\n- Max results: %s\n\nRun the search?",
		a.info.Query, yearFilter, a.info.MaxResults)
	return confirmation, true
}

// ExecuteSearch runs the recorded search. Valid only in the searching state;
// otherwise it returns ErrNotSearching with no state change. The session
// always transitions to completed after an attempt, so a transport failure
// never leaves it stuck in searching.
func (a *Agent) ExecuteSearch(ctx context.Context) ([]types.Paper, error) {
	if a.state != StateSearching {
		return nil, ErrNotSearching
	}
	defer func() { a.state = StateCompleted }()

	maxResults, err := strconv.Atoi(strings.TrimSpace(a.info.MaxResults))
	if err != nil || maxResults <= 0 {
		maxResults = 25
	}

	req := openalex.Request{Query: a.info.Query}
	if a.info.YearFilter != "" {
		req.Filters = map[string]string{"publication_year": a.info.YearFilter}
	}

	var works []openalex.Work
	if maxResults > singlePageLimit {
		works, err = a.searcher.SearchAll(ctx, req, maxResults)
	} else {
		req.PerPage = maxResults
		var page *openalex.Page
		page, err = a.searcher.Search(ctx, req)
		if page != nil {
			works = page.Results
		}
	}
	if err != nil {
		a.results = nil
		return nil, fmt.Errorf("executing search: %w", err)
	}

	a.results = openalex.FormatWorks(works)
	return a.results, nil
}

// Summary returns a human-readable digest of the last search results.
func (a *Agent) Summary() string {
	if len(a.results) == 0 {
		return "No search results."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d papers.\n\nTop %d:\n\n", len(a.results), min(5, len(a.results)))
	for i, paper := range a.results {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, paper.Title)
		fmt.Fprintf(&b, "   Authors: %s\n", formatAuthors(paper.Authors))
		fmt.Fprintf(&b, "   Year: %d\n", paper.PublicationYear)
		fmt.Fprintf(&b, "   Citations: %d\n", paper.CitationCount)
		if paper.DOI != "" {
			fmt.Fprintf(&b, "   DOI: %s\n", paper.DOI)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Reset returns the session to the collecting state from any state, clearing
// history, collected info, and results.
func (a *Agent) Reset() {
	a.state = StateCollecting
	a.history = nil
	a.info = CollectedInfo{
		Query:      "",
		YearFilter: "",
		MaxResults: a.defaultResults,
	}
	a.results = nil
}

func formatAuthors(authors []string) string {
	if len(authors) == 0 {
		return "Unknown"
	}
	if len(authors) > 3 {
		return strings.Join(authors[:3], ", ") + "..."
	}
	return strings.Join(authors, ", ")
}
