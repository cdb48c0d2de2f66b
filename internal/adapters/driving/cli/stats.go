package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/caremind/internal/core/domain"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge base statistics",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	stats, err := knowledgeService.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}

	if statsJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println("Knowledge Base")
	cmd.Println("==============")
	cmd.Printf("  Entries:       %d\n", stats.TotalEntries)
	cmd.Printf("  Indexed terms: %d\n", stats.IndexedTerms)
	cmd.Printf("  Learned facts: %d\n", stats.LearnedFacts)
	cmd.Printf("  Open gaps:     %d\n", stats.KnowledgeGaps)
	if len(stats.ByCategory) > 0 {
		cmd.Println()
		cmd.Println("  By category:")
		for _, t := range domain.DocumentTypes() {
			if n, ok := stats.ByCategory[t]; ok {
				cmd.Printf("    %-10s %d\n", t, n)
			}
		}
	}
	return nil
}
