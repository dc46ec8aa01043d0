// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-agent/internal/agent"
	"github.com/pdiddy/paper-agent/internal/archive"
	"github.com/pdiddy/paper-agent/internal/llm"
	"github.com/pdiddy/paper-agent/internal/openalex"
)

var chatSaveDir string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive paper search dialogue",
	Long: `chat starts a turn-based dialogue. Describe what you are looking for;
the agent asks follow-up questions until it has a query, then confirms
before searching. After a search the session resets for the next topic.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatSaveDir, "save-dir", "", "directory to write search results as JSON (one file per search)")

	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg := loadAppConfig()

	provider, err := llm.New(cfg.LLM)
	if err != nil {
		return fmt.Errorf("configuring completion provider: %w", err)
	}
	client := openalex.New(cfg.OpenAlex)

	var store *archive.Store
	if cfg.Archive.Path != "" {
		store, err = archive.Open(cfg.Archive.Path)
		if err != nil {
			return fmt.Errorf("opening archive: %w", err)
		}
		defer store.Close()
	}

	a := agent.New(provider, client, cfg.Agent)
	a.Progress = os.Stderr

	fmt.Printf("paper-agent chat (provider: %s). Type 'quit' to exit.\n\n", provider.Name())

	ctx := cmd.Context()
	scanner := bufio.NewScanner(os.Stdin)
	searchCount := 0
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "quit" || input == "exit" {
			break
		}

		response, ready := a.ProcessTurn(ctx, input)
		fmt.Printf("\nagent> %s\n\n", response)

		if !ready {
			continue
		}
		if !confirm(scanner, "Run the search? (y/n): ") {
			fmt.Println("Search cancelled. Describe a new topic to start over.")
			a.Reset()
			continue
		}

		papers, err := a.ExecuteSearch(ctx)
		if err != nil {
			fmt.Printf("Search failed: %v\n\n", err)
			a.Reset()
			continue
		}

		fmt.Printf("\n%s\n", a.Summary())
		searchCount++

		info := a.Info()
		if store != nil {
			if _, err := store.RecordSearch(info.Query, info.YearFilter, info.MaxResults, papers); err != nil {
				fmt.Fprintf(os.Stderr, "warning: archiving search: %v\n", err)
			}
		}
		if chatSaveDir != "" {
			path := fmt.Sprintf("%s/search-%03d.json", strings.TrimRight(chatSaveDir, "/"), searchCount)
			if err := archive.WriteJSON(path, papers); err != nil {
				fmt.Fprintf(os.Stderr, "warning: writing %s: %v\n", path, err)
			} else {
				fmt.Printf("Results written to %s\n", path)
			}
		}

		a.Reset()
		fmt.Println("\nReady for a new topic.")
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

// confirm prompts until the user answers y or n.
func confirm(scanner *bufio.Scanner, prompt string) bool {
	for {
		fmt.Print(prompt)
		if !scanner.Scan() {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
	}
}
