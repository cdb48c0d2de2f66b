package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var gapsJSON bool

var gapsCmd = &cobra.Command{
	Use:   "gaps",
	Short: "List unanswered questions",
	Long: `Lists recorded knowledge gaps - questions the knowledge base could
not answer - most frequent first. Repeats of the same question fold
into one entry, so the top of this list is what to document next.`,
	RunE: runGaps,
}

func init() {
	gapsCmd.Flags().BoolVar(&gapsJSON, "json", false, "output gaps as JSON")
	rootCmd.AddCommand(gapsCmd)
}

func runGaps(cmd *cobra.Command, _ []string) error {
	if learningService == nil {
		return errors.New("learning service not configured")
	}

	gaps, err := learningService.Gaps(context.Background())
	if err != nil {
		return fmt.Errorf("listing gaps failed: %w", err)
	}

	if gapsJSON {
		data, err := json.MarshalIndent(gaps, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal gaps: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(gaps) == 0 {
		cmd.Println("No knowledge gaps recorded.")
		return nil
	}

	cmd.Printf("Knowledge gaps (%d):\n\n", len(gaps))
	for _, g := range gaps {
		cmd.Printf("  %3dx  %s\n", g.Frequency, g.Query)
		cmd.Printf("        intent %s, last asked %s\n",
			g.Intent, g.LastAsked.Format("2006-01-02 15:04"))
	}
	return nil
}
