// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// stubProvider returns a canned response or error.
type stubProvider struct {
	response string
	err      error
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	return s.response, s.err
}

func TestParseKeywordResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     []string
		ok       bool
	}{
		{
			name:     "clean json object",
			response: `{"keywords": ["neural network", "attention", "transformer"]}`,
			want:     []string{"neural network", "attention", "transformer"},
			ok:       true,
		},
		{
			name:     "json embedded in prose",
			response: "Sure! Here are the keywords:\n{\"keywords\": [\"graph learning\", \"GNN\"]}\nLet me know if you need more.",
			want:     []string{"graph learning", "GNN"},
			ok:       true,
		},
		{
			name:     "labeled bracket list",
			response: `Keywords: ["quantum computing", "qubits"]`,
			want:     []string{"quantum computing", "qubits"},
			ok:       true,
		},
		{
			name:     "japanese label",
			response: `キーワード: [機械学習, 深層学習]`,
			want:     []string{"機械学習", "深層学習"},
			ok:       true,
		},
		{
			name:     "bare bracket list",
			response: `["reinforcement learning", "policy gradient"]`,
			want:     []string{"reinforcement learning", "policy gradient"},
			ok:       true,
		},
		{
			name:     "comma separated line",
			response: "reinforcement learning, policy gradient, reward shaping",
			want:     []string{"reinforcement learning", "policy gradient", "reward shaping"},
			ok:       true,
		},
		{
			name:     "prose without structure",
			response: "I could not identify any keywords in that text.",
			want:     nil,
			ok:       false,
		},
		{
			name:     "empty response",
			response: "",
			want:     nil,
			ok:       false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseKeywordResponse(tt.response)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("keywords = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDedupeTruncate(t *testing.T) {
	got := dedupeTruncate([]string{"a", "b", "a", "c", "b", "d"}, 3)
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("dedupeTruncate = %v, want %v", got, want)
	}
}

func TestProviderExtract(t *testing.T) {
	e := &ProviderExtractor{Provider: &stubProvider{
		response: `{"keywords": ["attention", "transformer", "attention"]}`,
	}}

	r := e.Extract(context.Background(), "papers about transformers", 5)
	if r.Fallback {
		t.Fatalf("Fallback = true, want provider path (cause: %v)", r.Cause)
	}
	if want := []string{"attention", "transformer"}; !reflect.DeepEqual(r.Keywords, want) {
		t.Errorf("Keywords = %v, want %v", r.Keywords, want)
	}
}

func TestProviderExtractFallsBackOnError(t *testing.T) {
	cause := errors.New("connection refused")
	e := &ProviderExtractor{Provider: &stubProvider{err: cause}}

	r := e.Extract(context.Background(), "transformer attention mechanisms for transformer models", 3)
	if !r.Fallback {
		t.Fatal("Fallback = false, want heuristic path on provider error")
	}
	if !errors.Is(r.Cause, cause) {
		t.Errorf("Cause = %v, want the provider error", r.Cause)
	}
	// Heuristic runs over the input text.
	if want := []string{"transformer", "attention", "mechanisms"}; !reflect.DeepEqual(r.Keywords, want) {
		t.Errorf("Keywords = %v, want %v", r.Keywords, want)
	}
}

func TestProviderExtractFallsBackOnUnparseableResponse(t *testing.T) {
	e := &ProviderExtractor{Provider: &stubProvider{
		response: "The main themes here concern protein folding dynamics",
	}}

	r := e.Extract(context.Background(), "irrelevant", 3)
	if !r.Fallback {
		t.Fatal("Fallback = false, want heuristic path on unparseable response")
	}
	if r.Cause == nil {
		t.Error("Cause should record why the fallback ran")
	}
	// Heuristic runs over the response text, not the input.
	if want := []string{"main", "themes", "here"}; !reflect.DeepEqual(r.Keywords, want) {
		t.Errorf("Keywords = %v, want %v", r.Keywords, want)
	}
}
