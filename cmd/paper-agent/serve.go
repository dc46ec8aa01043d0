// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-agent/internal/agent"
	"github.com/pdiddy/paper-agent/internal/llm"
	"github.com/pdiddy/paper-agent/internal/openalex"
	"github.com/pdiddy/paper-agent/internal/server"
	"github.com/pdiddy/paper-agent/internal/session"
)

var (
	serveAddr string
	serveTTL  time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `serve exposes the dialogue agent over HTTP. Each client gets an
isolated session keyed by session_id; idle sessions expire after the
configured TTL.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().DurationVar(&serveTTL, "session-ttl", 0, "idle session lifetime (default from config)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadAppConfig()
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveTTL > 0 {
		cfg.Server.SessionTTL = serveTTL
	}

	provider, err := llm.New(cfg.LLM)
	if err != nil {
		return fmt.Errorf("configuring completion provider: %w", err)
	}
	client := openalex.New(cfg.OpenAlex)

	store := session.NewMemoryStore(cfg.Server.SessionTTL, func() *agent.Agent {
		return agent.New(provider, client, cfg.Agent)
	})

	fmt.Printf("Listening on %s (provider: %s, session TTL: %s)\n",
		cfg.Server.Addr, provider.Name(), cfg.Server.SessionTTL)
	return http.ListenAndServe(cfg.Server.Addr, server.New(store))
}
