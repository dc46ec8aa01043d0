// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/pdiddy/paper-agent/pkg/types"
)

func TestDecodeAnalysis(t *testing.T) {
	a := newTestAgent(&stubProvider{}, &stubSearcher{})

	tests := []struct {
		name     string
		response string
		want     Analysis
		ok       bool
	}{
		{
			name:     "clean json",
			response: sufficientAnalysis,
			want:     Analysis{Sufficient: true, ExtractedQuery: "transformer attention", YearFilter: ">=2021", MaxResults: "30"},
			ok:       true,
		},
		{
			name:     "json wrapped in prose",
			response: "Here is my analysis:\n" + sufficientAnalysis + "\nHope that helps!",
			want:     Analysis{Sufficient: true, ExtractedQuery: "transformer attention", YearFilter: ">=2021", MaxResults: "30"},
			ok:       true,
		},
		{
			name:     "numeric max_results coerced",
			response: `{"sufficient": true, "extracted_query": "bert", "max_results": 40}`,
			want:     Analysis{Sufficient: true, ExtractedQuery: "bert", MaxResults: "40"},
			ok:       true,
		},
		{
			name:     "missing max_results backfilled",
			response: `{"sufficient": true, "extracted_query": "bert"}`,
			want:     Analysis{Sufficient: true, ExtractedQuery: "bert", MaxResults: "25"},
			ok:       true,
		},
		{
			name:     "no json at all",
			response: "I cannot answer that.",
			ok:       false,
		},
		{
			name:     "malformed json",
			response: `{"sufficient": true, "extracted_query": `,
			ok:       false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := a.decodeAnalysis(tt.response)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("analysis = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRenderAnalysisPromptWindowsHistory(t *testing.T) {
	a := New(&stubProvider{}, &stubSearcher{}, types.AgentConfig{HistoryWindow: 2})
	for i := 0; i < 4; i++ {
		a.history = append(a.history,
			Message{Role: "user", Content: "old turn"},
			Message{Role: "assistant", Content: "old reply"},
		)
	}
	a.history = append(a.history,
		Message{Role: "user", Content: "latest question"},
		Message{Role: "assistant", Content: "latest reply"},
	)

	prompt, err := a.renderAnalysisPrompt("new input")
	if err != nil {
		t.Fatalf("renderAnalysisPrompt: %v", err)
	}
	if !strings.Contains(prompt, "latest question") || !strings.Contains(prompt, "latest reply") {
		t.Error("prompt should contain the trailing window")
	}
	if strings.Contains(prompt, "old turn") {
		t.Error("prompt should not contain history beyond the window")
	}
	if !strings.Contains(prompt, "new input") {
		t.Error("prompt should contain the new user input")
	}
}

func TestAnalyzePropagatesProviderError(t *testing.T) {
	p := &stubProvider{err: context.DeadlineExceeded}
	a := newTestAgent(p, &stubSearcher{})

	if _, err := a.analyze(context.Background(), "anything"); err == nil {
		t.Fatal("analyze should propagate provider transport errors")
	}
}
