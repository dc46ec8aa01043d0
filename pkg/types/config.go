// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for paper-agent.
package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-agent/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// OpenAlexConfig holds settings for the OpenAlex Works client.
type OpenAlexConfig struct {
	HTTPConfig `yaml:",inline"`

	// Email is sent as the mailto parameter for polite pool access.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// DefaultPerPage is the page size used when a request does not set one
	// (default 25).
	DefaultPerPage int `json:"default_per_page" yaml:"default_per_page"`

	// MaxPerPage caps the per-page value sent to the API (default 200,
	// the OpenAlex maximum).
	MaxPerPage int `json:"max_per_page" yaml:"max_per_page"`

	// RequestsPerSecond limits the request rate against the API (default 5).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
}

// ProviderName identifies a completion provider backend.
type ProviderName string

const (
	ProviderOpenAI    ProviderName = "openai"
	ProviderAnthropic ProviderName = "anthropic"
	ProviderOllama    ProviderName = "ollama"
)

// OpenAIConfig holds settings for the OpenAI chat-completion backend.
type OpenAIConfig struct {
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	Model  string `json:"model" yaml:"model"`
}

// AnthropicConfig holds settings for the Anthropic messages backend.
type AnthropicConfig struct {
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	Model  string `json:"model" yaml:"model"`
}

// OllamaConfig holds settings for a local Ollama backend.
type OllamaConfig struct {
	// BaseURL is the Ollama server address (default "http://localhost:11434").
	BaseURL string `json:"base_url" yaml:"base_url"`
	Model   string `json:"model" yaml:"model"`
}

// LLMConfig selects and configures the completion provider used for keyword
// extraction and dialogue analysis.
type LLMConfig struct {
	// Provider selects the backend: openai, anthropic, or ollama.
	Provider ProviderName `json:"provider" yaml:"provider"`

	OpenAI    OpenAIConfig    `json:"openai" yaml:"openai"`
	Anthropic AnthropicConfig `json:"anthropic" yaml:"anthropic"`
	Ollama    OllamaConfig    `json:"ollama" yaml:"ollama"`

	// Timeout is the completion request timeout (default 60s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// AgentConfig holds settings for the dialogue agent.
type AgentConfig struct {
	// HistoryWindow is the number of trailing conversation turns passed
	// into each analysis call (default 5).
	HistoryWindow int `json:"history_window" yaml:"history_window"`

	// DefaultMaxResults is the result count used when the analysis step
	// does not report one (default 25).
	DefaultMaxResults int `json:"default_max_results" yaml:"default_max_results"`
}

// ArchiveConfig holds settings for the search history archive.
type ArchiveConfig struct {
	// Path is the SQLite database file. Empty disables archiving.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	// Addr is the listen address (default ":8000").
	Addr string `json:"addr" yaml:"addr"`

	// SessionTTL is how long an idle session is kept before eviction
	// (default 30m).
	SessionTTL time.Duration `json:"session_ttl" yaml:"session_ttl"`
}

// AppConfig groups all component configurations.
type AppConfig struct {
	OpenAlex OpenAlexConfig `json:"openalex" yaml:"openalex"`
	LLM      LLMConfig      `json:"llm" yaml:"llm"`
	Agent    AgentConfig    `json:"agent" yaml:"agent"`
	Archive  ArchiveConfig  `json:"archive" yaml:"archive"`
	Server   ServerConfig   `json:"server" yaml:"server"`
}
