// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-agent/internal/archive"
	"github.com/pdiddy/paper-agent/internal/llm"
	"github.com/pdiddy/paper-agent/internal/openalex"
	"github.com/pdiddy/paper-agent/internal/query"
	"github.com/pdiddy/paper-agent/pkg/types"
)

var (
	searchQuery       string
	searchQueryFile   string
	searchMethod      string
	searchMaxKeywords int
	searchYear        string
	searchMaxResults  int
	searchSort        string
	searchJSON        bool
	searchSavePath    string
	searchSaveQuery   string
	searchNoLLM       bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run a one-shot paper search",
	Long: `search optimizes a raw query and fetches papers from OpenAlex without
the conversational layer. With --no-llm, keyword extraction uses the
frequency heuristic instead of a completion provider.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "raw search query")
	searchCmd.Flags().StringVar(&searchQueryFile, "query-file", "", "YAML query file to re-run (overrides --query)")
	searchCmd.Flags().StringVar(&searchMethod, "method", string(query.MethodAuto), "query optimization: auto, keywords, or original")
	searchCmd.Flags().IntVar(&searchMaxKeywords, "max-keywords", 5, "maximum keywords to extract")
	searchCmd.Flags().StringVar(&searchYear, "year", "", "publication year filter (e.g. 2020, >=2018, <2015)")
	searchCmd.Flags().IntVarP(&searchMaxResults, "max-results", "n", 25, "maximum papers to return")
	searchCmd.Flags().StringVar(&searchSort, "sort", "", "sort expression (default: newest first)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print results as JSON")
	searchCmd.Flags().StringVar(&searchSavePath, "save", "", "write results to a JSON file")
	searchCmd.Flags().StringVar(&searchSaveQuery, "save-query", "", "write query parameters and results to a YAML file")
	searchCmd.Flags().BoolVar(&searchNoLLM, "no-llm", false, "use frequency heuristic for keyword extraction")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := loadAppConfig()
	ctx := cmd.Context()

	params := openalex.QueryParams{
		Text:       searchQuery,
		Method:     searchMethod,
		YearFilter: searchYear,
		MaxResults: searchMaxResults,
		Sort:       searchSort,
	}
	if searchQueryFile != "" {
		qf, err := openalex.ReadQueryFile(searchQueryFile)
		if err != nil {
			return fmt.Errorf("reading query file: %w", err)
		}
		params = qf.Query
	}
	if strings.TrimSpace(params.Text) == "" {
		return fmt.Errorf("no query given; use --query or --query-file")
	}
	if params.MaxResults <= 0 {
		params.MaxResults = cfg.OpenAlex.DefaultPerPage
	}

	extractor, err := buildExtractor(cfg.LLM)
	if err != nil {
		return err
	}
	optimizer := &query.Optimizer{Extractor: extractor}

	method := query.Method(params.Method)
	optimized := optimizer.Optimize(ctx, params.Text, method, searchMaxKeywords)
	if optimized != strings.TrimSpace(params.Text) {
		fmt.Fprintf(os.Stderr, "Optimized query: %s\n", optimized)
	}

	client := openalex.New(cfg.OpenAlex)
	req := openalex.Request{Query: optimized, Sort: params.Sort}
	if params.YearFilter != "" {
		req.Filters = map[string]string{"publication_year": params.YearFilter}
	}

	var works []openalex.Work
	var total int
	if params.MaxResults > cfg.OpenAlex.MaxPerPage {
		works, err = client.SearchAll(ctx, req, params.MaxResults)
		total = len(works)
	} else {
		req.PerPage = params.MaxResults
		var page *openalex.Page
		page, err = client.Search(ctx, req)
		if page != nil {
			works = page.Results
			total = page.Meta.Count
		}
	}
	if err != nil {
		return fmt.Errorf("executing search: %w", err)
	}
	papers := openalex.FormatWorks(works)

	if searchJSON {
		out, err := archive.MarshalJSON(papers)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	} else {
		printPapers(papers, total)
	}

	if searchSavePath != "" {
		if err := archive.WriteJSON(searchSavePath, papers); err != nil {
			return fmt.Errorf("writing results: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Results written to %s\n", searchSavePath)
	}
	if searchSaveQuery != "" {
		params.Text = optimized
		if err := openalex.WriteQueryFile(searchSaveQuery, params, papers); err != nil {
			return fmt.Errorf("writing query file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Query file written to %s\n", searchSaveQuery)
	}
	if cfg.Archive.Path != "" {
		store, err := archive.Open(cfg.Archive.Path)
		if err != nil {
			return fmt.Errorf("opening archive: %w", err)
		}
		defer store.Close()
		if _, err := store.RecordSearch(optimized, params.YearFilter, strconv.Itoa(params.MaxResults), papers); err != nil {
			fmt.Fprintf(os.Stderr, "warning: archiving search: %v\n", err)
		}
	}
	return nil
}

// buildExtractor returns the heuristic extractor with --no-llm, otherwise a
// provider-backed one. Provider configuration errors propagate; they are
// never silently downgraded to the heuristic.
func buildExtractor(cfg types.LLMConfig) (query.Extractor, error) {
	if searchNoLLM {
		return query.HeuristicExtractor{}, nil
	}
	provider, err := llm.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("configuring completion provider (use --no-llm to skip): %w", err)
	}
	return &query.ProviderExtractor{Provider: provider}, nil
}

func printPapers(papers []types.Paper, total int) {
	if len(papers) == 0 {
		fmt.Println("No papers found.")
		return
	}
	fmt.Printf("Showing %d of %d papers:\n\n", len(papers), total)
	for i, p := range papers {
		fmt.Printf("%d. %s (%d)\n", i+1, p.Title, p.PublicationYear)
		if len(p.Authors) > 0 {
			fmt.Printf("   %s\n", strings.Join(p.Authors, ", "))
		}
		if p.DOI != "" {
			fmt.Printf("   doi: %s\n", p.DOI)
		}
		fmt.Printf("   citations: %d\n", p.CitationCount)
		if p.PDFURL != "" {
			fmt.Printf("   pdf: %s\n", p.PDFURL)
		}
		fmt.Println()
	}
}
