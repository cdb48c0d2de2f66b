package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/caremind/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the knowledge base",
	Long: `Searches the knowledge base directly, without conversational
context or answer synthesis. Shows the ranked entries with their
relevance scores - useful for checking what the assistant would draw on.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	results, err := knowledgeService.Search(context.Background(), args[0], searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range results {
		title := r.Entry.Title
		if title == "" {
			title = r.Entry.ID
		}

		cmd.Printf("  [%d] %s (%.2f)\n", i+1, title, r.Score)
		cmd.Printf("      %s / %s\n", r.Entry.Category, r.Entry.SourceFile)
		if r.Snippet != "" {
			cmd.Printf("      %s\n", r.Snippet)
		}
		cmd.Println()
	}
	return nil
}
