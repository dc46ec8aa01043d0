// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm abstracts the completion providers used for keyword extraction
// and dialogue analysis. Each provider accepts a single instruction and
// returns one text blob; the callers parse whatever structure they asked for.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pdiddy/paper-agent/pkg/types"
)

// Provider is implemented by one backend per completion service. Providers
// return raw response text; they do not enforce any output framing.
type Provider interface {
	// Name returns the provider identifier.
	Name() string
	// Complete sends the system and user prompts and returns the response text.
	Complete(ctx context.Context, system, prompt string) (string, error)
}

const (
	// defaultMaxTokens bounds completion length; both extraction and
	// analysis responses are short JSON objects.
	defaultMaxTokens = 512

	// defaultTemperature keeps extraction output stable across calls.
	defaultTemperature = 0.3

	defaultTimeout = 60 * time.Second
)

// New constructs the provider selected by cfg.Provider. A missing credential
// or an unknown provider name is a configuration error and propagates to the
// caller; it is never downgraded to a runtime fallback.
func New(cfg types.LLMConfig) (Provider, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := &http.Client{Timeout: timeout}

	switch cfg.Provider {
	case types.ProviderOpenAI:
		if cfg.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("openai provider selected but no API key configured")
		}
		model := cfg.OpenAI.Model
		if model == "" {
			model = "gpt-4o-mini"
		}
		return &OpenAIProvider{APIKey: cfg.OpenAI.APIKey, Model: model, Client: client}, nil

	case types.ProviderAnthropic:
		if cfg.Anthropic.APIKey == "" {
			return nil, fmt.Errorf("anthropic provider selected but no API key configured")
		}
		model := cfg.Anthropic.Model
		if model == "" {
			model = "claude-3-haiku-20240307"
		}
		return &AnthropicProvider{APIKey: cfg.Anthropic.APIKey, Model: model, Client: client}, nil

	case types.ProviderOllama:
		baseURL := cfg.Ollama.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		model := cfg.Ollama.Model
		if model == "" {
			model = "llama2"
		}
		return &OllamaProvider{BaseURL: baseURL, Model: model, Client: client}, nil

	default:
		return nil, fmt.Errorf("unsupported completion provider %q", cfg.Provider)
	}
}
