package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var suggestLimit int

var suggestCmd = &cobra.Command{
	Use:   "suggest <prefix>",
	Short: "Suggest indexed terms for a prefix",
	Long: `Completes a prefix against the terms in the search index. Useful for
checking what vocabulary the knowledge base actually contains.`,
	Args: cobra.ExactArgs(1),
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().IntVarP(&suggestLimit, "limit", "n", 10, "maximum suggestions")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	terms, err := knowledgeService.Suggest(context.Background(), args[0], suggestLimit)
	if err != nil {
		return fmt.Errorf("suggestion lookup failed: %w", err)
	}

	if len(terms) == 0 {
		cmd.Printf("No indexed terms start with %q.\n", args[0])
		return nil
	}
	for _, term := range terms {
		cmd.Println(term)
	}
	return nil
}
