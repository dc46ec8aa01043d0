// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/template"
)

// Analysis is the structured judgment the completion provider returns for
// one turn: whether enough information has been collected, the extracted
// search parameters, and a clarifying question when they are insufficient.
type Analysis struct {
	Sufficient     bool
	ExtractedQuery string
	YearFilter     string
	MaxResults     string
	Question       string
}

const analysisSystemPrompt = "You are a helpful assistant that helps users search for academic papers. Always respond in valid JSON format."

// analysisPromptTmpl asks the provider to judge sufficiency and extract the
// search parameters as strict JSON.
var analysisPromptTmpl = template.Must(template.New("analysis").Parse(`You are a paper search assistant. Extract the information needed for an academic paper search from the user's input, and ask a question if anything essential is missing.

Recent conversation history:
{{.History}}

The user's latest input:
{{.Input}}

Respond with JSON of the following form:
{
    "sufficient": true/false,
    "extracted_query": "search query (extracted keywords)",
    "year_filter": "publication year filter (e.g. >=2020 or 2020-2023, empty when unspecified)",
    "max_results": "number of results to fetch (default: 25)",
    "question": "a clarifying question when sufficient is false"
}

Example when the information is sufficient:
{
    "sufficient": true,
    "extracted_query": "transformer neural network attention mechanism",
    "year_filter": ">=2020",
    "max_results": "50",
    "question": ""
}

Example when information is missing:
{
    "sufficient": false,
    "extracted_query": "",
    "year_filter": "",
    "max_results": "25",
    "question": "What research field or topic would you like to explore? Specific keywords or themes help."
}

Respond in JSON:`))

// analyze runs the analysis step over the trailing history window plus the
// new input. A provider transport error propagates to the caller's
// catch-all; a malformed or unframed response is absorbed here and degrades
// to a conservative sufficiency-positive result with an empty query.
func (a *Agent) analyze(ctx context.Context, userInput string) (Analysis, error) {
	prompt, err := a.renderAnalysisPrompt(userInput)
	if err != nil {
		return Analysis{}, err
	}

	response, err := a.provider.Complete(ctx, analysisSystemPrompt, prompt)
	if err != nil {
		return Analysis{}, fmt.Errorf("analysis call to %s: %w", a.provider.Name(), err)
	}

	analysis, ok := a.decodeAnalysis(response)
	if !ok {
		fmt.Fprintf(a.Progress, "warning: unparseable analysis response, assuming sufficiency\n")
		return Analysis{Sufficient: true, MaxResults: a.defaultResults}, nil
	}
	return analysis, nil
}

func (a *Agent) renderAnalysisPrompt(userInput string) (string, error) {
	tail := a.history
	if len(tail) > a.historyWindow {
		tail = tail[len(tail)-a.historyWindow:]
	}
	historyJSON, err := json.MarshalIndent(tail, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling history: %w", err)
	}

	var buf bytes.Buffer
	err = analysisPromptTmpl.Execute(&buf, struct {
		History string
		Input   string
	}{History: string(historyJSON), Input: userInput})
	if err != nil {
		return "", fmt.Errorf("rendering analysis prompt: %w", err)
	}
	return buf.String(), nil
}

// decodeAnalysis parses the provider response. Providers do not guarantee
// JSON framing, so when direct parsing fails the first JSON object is cut
// out of the surrounding text and parsed instead. Missing keys are
// back-filled with their documented defaults.
func (a *Agent) decodeAnalysis(response string) (Analysis, bool) {
	raw := map[string]any{}
	if err := json.Unmarshal([]byte(response), &raw); err != nil {
		start := strings.Index(response, "{")
		end := strings.LastIndex(response, "}")
		if start < 0 || end <= start {
			return Analysis{}, false
		}
		if err := json.Unmarshal([]byte(response[start:end+1]), &raw); err != nil {
			return Analysis{}, false
		}
	}

	analysis := Analysis{
		Sufficient:     asBool(raw["sufficient"]),
		ExtractedQuery: asString(raw["extracted_query"]),
		YearFilter:     asString(raw["year_filter"]),
		MaxResults:     asString(raw["max_results"]),
		Question:       asString(raw["question"]),
	}
	if analysis.MaxResults == "" {
		analysis.MaxResults = a.defaultResults
	}
	return analysis, true
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

// asString coerces string and numeric JSON values; providers sometimes
// return max_results as a bare number.
func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.Itoa(int(t))
	default:
		return ""
	}
}
