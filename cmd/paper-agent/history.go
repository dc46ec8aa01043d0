// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-agent/internal/archive"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List archived searches",
	RunE:  runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <search-id>",
	Short: "Show the papers of an archived search",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum searches to list")
	historyShowCmd.Flags().BoolVar(&historyJSON, "json", false, "print papers as JSON")

	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func openArchive() (*archive.Store, error) {
	cfg := loadAppConfig()
	if cfg.Archive.Path == "" {
		return nil, fmt.Errorf("no archive configured; set archive.path in the config file")
	}
	return archive.Open(cfg.Archive.Path)
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.ListSearches(historyLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No archived searches.")
		return nil
	}
	for _, r := range records {
		line := fmt.Sprintf("%4d  %s  %q  %d papers", r.ID, r.ExecutedAt.Format("2006-01-02 15:04"), r.Query, r.ResultCount)
		if r.YearFilter != "" {
			line += fmt.Sprintf("  (years: %s)", r.YearFilter)
		}
		fmt.Println(line)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid search id %q", args[0])
	}

	store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	papers, err := store.Papers(id)
	if err != nil {
		return err
	}
	if historyJSON {
		out, err := archive.MarshalJSON(papers)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}
	printPapers(papers, len(papers))
	return nil
}
