// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/paper-agent/pkg/types"
)

// loadAppConfig assembles the full application config from viper, with
// secrets from .secrets/ filling in keys not set in the config file or
// environment.
func loadAppConfig() types.AppConfig {
	viper.SetDefault("llm.provider", string(types.ProviderOpenAI))
	viper.SetDefault("llm.timeout", 60*time.Second)
	viper.SetDefault("llm.ollama.base_url", "http://localhost:11434")
	viper.SetDefault("openalex.timeout", 30*time.Second)
	viper.SetDefault("openalex.default_per_page", 25)
	viper.SetDefault("openalex.max_per_page", 200)
	viper.SetDefault("openalex.requests_per_second", 5)
	viper.SetDefault("agent.history_window", 5)
	viper.SetDefault("agent.default_max_results", 25)
	viper.SetDefault("server.addr", ":8000")
	viper.SetDefault("server.session_ttl", 30*time.Minute)

	return types.AppConfig{
		LLM: types.LLMConfig{
			Provider: types.ProviderName(viper.GetString("llm.provider")),
			OpenAI: types.OpenAIConfig{
				APIKey: secretDefault("openai-api-key", viper.GetString("llm.openai.api_key")),
				Model:  viper.GetString("llm.openai.model"),
			},
			Anthropic: types.AnthropicConfig{
				APIKey: secretDefault("anthropic-api-key", viper.GetString("llm.anthropic.api_key")),
				Model:  viper.GetString("llm.anthropic.model"),
			},
			Ollama: types.OllamaConfig{
				BaseURL: viper.GetString("llm.ollama.base_url"),
				Model:   viper.GetString("llm.ollama.model"),
			},
			Timeout: viper.GetDuration("llm.timeout"),
		},
		OpenAlex: types.OpenAlexConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("openalex.timeout"),
				UserAgent: viper.GetString("openalex.user_agent"),
			},
			Email:             secretDefault("openalex-email", viper.GetString("openalex.email")),
			DefaultPerPage:    viper.GetInt("openalex.default_per_page"),
			MaxPerPage:        viper.GetInt("openalex.max_per_page"),
			RequestsPerSecond: viper.GetFloat64("openalex.requests_per_second"),
		},
		Agent: types.AgentConfig{
			HistoryWindow:     viper.GetInt("agent.history_window"),
			DefaultMaxResults: viper.GetInt("agent.default_max_results"),
		},
		Archive: types.ArchiveConfig{
			Path: viper.GetString("archive.path"),
		},
		Server: types.ServerConfig{
			Addr:       viper.GetString("server.addr"),
			SessionTTL: viper.GetDuration("server.session_ttl"),
		},
	}
}
