package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	learnedJSON bool
	learnedAll  bool
)

var learnedCmd = &cobra.Command{
	Use:   "learned",
	Short: "Review facts learned from conversations",
	Long: `Lists facts captured from conversations, newest last, with their
confidence grade and usage counts. Facts retired by a later correction
are hidden unless --all is given.

This is the human-review channel: learned facts never silently
override document knowledge, so check this list for conflicts.`,
	RunE: runLearned,
}

func init() {
	learnedCmd.Flags().BoolVar(&learnedJSON, "json", false, "output facts as JSON")
	learnedCmd.Flags().BoolVar(&learnedAll, "all", false, "include superseded facts")
	rootCmd.AddCommand(learnedCmd)
}

func runLearned(cmd *cobra.Command, _ []string) error {
	if learningService == nil {
		return errors.New("learning service not configured")
	}

	facts, err := learningService.Facts(context.Background())
	if err != nil {
		return fmt.Errorf("listing facts failed: %w", err)
	}

	if !learnedAll {
		kept := facts[:0]
		for _, f := range facts {
			if !f.Superseded {
				kept = append(kept, f)
			}
		}
		facts = kept
	}

	if learnedJSON {
		data, err := json.MarshalIndent(facts, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal facts: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(facts) == 0 {
		cmd.Println("No learned facts.")
		return nil
	}

	cmd.Printf("Learned facts (%d):\n\n", len(facts))
	for _, f := range facts {
		marker := " "
		switch {
		case f.Superseded:
			marker = "x"
		case f.Conflict != "":
			marker = "!"
		}
		cmd.Printf("  [%s] %s\n", marker, f.Content)
		cmd.Printf("      %s / %s confidence, topic %s, used %d times\n",
			f.Type, f.Confidence, f.Topic, f.UsageCount)
		if f.Conflict != "" {
			cmd.Printf("      CONFLICT %s\n", f.Conflict)
		}
	}
	return nil
}
