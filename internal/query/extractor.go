// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query turns free-text research requests into compact search
// queries: keyword extraction (completion-provider backed with a
// deterministic heuristic fallback), query optimization, and long-query
// splitting.
package query

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/pdiddy/paper-agent/internal/llm"
)

// Result carries the extracted keywords together with which path produced
// them, so callers can distinguish "used fallback" from "fully succeeded".
type Result struct {
	// Keywords is ordered, deduplicated by first occurrence, and at most
	// the requested maximum long.
	Keywords []string

	// Fallback is true when the heuristic path produced the keywords.
	Fallback bool

	// Cause is the provider error that triggered the fallback, nil otherwise.
	Cause error
}

// Extractor converts raw text into a ranked list of keyword strings.
// Extraction never fails past this boundary; a Result is always returned.
type Extractor interface {
	Extract(ctx context.Context, text string, maxKeywords int) Result
}

// extractionSystemPrompt frames the provider call for keyword extraction.
const extractionSystemPrompt = "You are a helpful assistant that extracts keywords from text for academic paper search."

// extractionPromptTmpl asks the provider for search keywords as JSON.
var extractionPromptTmpl = template.Must(template.New("extraction").Parse(`You are an academic paper search expert. Extract the {{.Max}} keywords most useful for finding papers on the topic of the following text. The text may be in English or Japanese.

Requirements:
- Prefer academic concepts, technical terms, and research field names
- Exclude overly generic words (such as "the", "is", "paper", "research")
- Keep compound terms intact (e.g. "neural network", "machine learning")
- Respond with a JSON object of the form {"keywords": ["keyword1", "keyword2", ...]}
- Do not include any text outside the JSON object

Text:
{{.Text}}

Respond with the keywords in JSON:`))

// ProviderExtractor asks a completion provider for keywords and falls back
// to heuristic extraction when the provider fails or its response cannot be
// parsed. Provider errors never escape Extract.
type ProviderExtractor struct {
	Provider llm.Provider
	// Heuristic handles provider failures and unparseable responses.
	Heuristic HeuristicExtractor
}

// Extract sends the extraction prompt and parses the response. A provider
// call error routes to heuristic extraction over the input text; an
// unparseable response routes to heuristic extraction over the response
// text, matching the most permissive interpretation of whatever the
// provider sent back.
func (e *ProviderExtractor) Extract(ctx context.Context, text string, maxKeywords int) Result {
	prompt, err := renderExtractionPrompt(text, maxKeywords)
	if err != nil {
		r := e.Heuristic.Extract(ctx, text, maxKeywords)
		return Result{Keywords: r.Keywords, Fallback: true, Cause: err}
	}

	response, err := e.Provider.Complete(ctx, extractionSystemPrompt, prompt)
	if err != nil {
		r := e.Heuristic.Extract(ctx, text, maxKeywords)
		return Result{Keywords: r.Keywords, Fallback: true, Cause: err}
	}

	if keywords, ok := parseKeywordResponse(response); ok {
		return Result{Keywords: dedupeTruncate(keywords, maxKeywords)}
	}

	r := e.Heuristic.Extract(ctx, response, maxKeywords)
	return Result{
		Keywords: r.Keywords,
		Fallback: true,
		Cause:    fmt.Errorf("unparseable keyword response from %s", e.Provider.Name()),
	}
}

func renderExtractionPrompt(text string, maxKeywords int) (string, error) {
	var buf bytes.Buffer
	err := extractionPromptTmpl.Execute(&buf, struct {
		Max  int
		Text string
	}{Max: maxKeywords, Text: text})
	if err != nil {
		return "", fmt.Errorf("rendering extraction prompt: %w", err)
	}
	return buf.String(), nil
}

// Response parsing patterns, tried in order: a JSON object, a bracketed
// list after an English or Japanese "keywords" label, then any bare
// bracketed comma list.
var (
	jsonObjectRe      = regexp.MustCompile(`(?s)\{.*?\}`)
	labeledKeywordsRe = []*regexp.Regexp{
		regexp.MustCompile(`(?is)keywords?[:\s]+\[(.*?)\]`),
		regexp.MustCompile(`(?s)キーワード[:\s]+\[(.*?)\]`),
		regexp.MustCompile(`(?s)\[(.*?)\]`),
	}
)

// parseKeywordResponse attempts the structured parsing cascade. It returns
// ok=false only when every structured attempt fails.
func parseKeywordResponse(response string) ([]string, bool) {
	// 1. A JSON object with a "keywords" array.
	if match := jsonObjectRe.FindString(response); match != "" {
		var parsed struct {
			Keywords []string `json:"keywords"`
		}
		if err := json.Unmarshal([]byte(match), &parsed); err == nil && len(parsed.Keywords) > 0 {
			var keywords []string
			for _, kw := range parsed.Keywords {
				if kw = strings.TrimSpace(kw); kw != "" {
					keywords = append(keywords, kw)
				}
			}
			if len(keywords) > 0 {
				return keywords, true
			}
		}
	}

	// 2./3. Bracketed comma lists, labeled or bare.
	for _, re := range labeledKeywordsRe {
		if m := re.FindStringSubmatch(response); m != nil {
			if keywords := splitCommaList(m[1]); len(keywords) > 0 {
				return keywords, true
			}
		}
	}

	// 4. A line whose comma-separated tokens are all non-empty.
	for _, line := range strings.Split(response, "\n") {
		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			continue
		}
		keywords := make([]string, 0, len(parts))
		allNonEmpty := true
		for _, p := range parts {
			kw := strings.Trim(strings.TrimSpace(p), `"'`)
			if kw == "" {
				allNonEmpty = false
				break
			}
			keywords = append(keywords, kw)
		}
		if allNonEmpty {
			return keywords, true
		}
	}

	return nil, false
}

// splitCommaList splits a bracketed list body on commas, trimming quotes and
// whitespace and dropping empty entries.
func splitCommaList(body string) []string {
	var keywords []string
	for _, part := range strings.Split(body, ",") {
		kw := strings.Trim(strings.TrimSpace(part), `"'`)
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

// dedupeTruncate removes duplicates keeping first occurrence and caps the
// list at maxKeywords.
func dedupeTruncate(keywords []string, maxKeywords int) []string {
	seen := make(map[string]bool, len(keywords))
	var out []string
	for _, kw := range keywords {
		if seen[kw] {
			continue
		}
		seen[kw] = true
		out = append(out, kw)
		if maxKeywords > 0 && len(out) >= maxKeywords {
			break
		}
	}
	return out
}
