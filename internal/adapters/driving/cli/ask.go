package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/caremind/internal/core/domain"
)

// answerElapsedPrecision rounds the reported processing time.
const answerElapsedPrecision = time.Millisecond

var (
	askSession string
	askJSON    bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question",
	Long: `Answers one question against the loaded knowledge base.

A fresh session is used unless --session is given, so repeated asks
with the same session id keep conversational context (follow-ups,
escalation counting).`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askSession, "session", "", "session id for conversational context")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if assistantService == nil {
		return errors.New("assistant service not configured")
	}

	session := askSession
	if session == "" {
		session = uuid.NewString()
	}

	answer, err := assistantService.Ask(context.Background(), session, args[0])
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputAnswerJSON(cmd, answer)
	}
	outputAnswer(cmd, answer)
	return nil
}

func outputAnswerJSON(cmd *cobra.Command, answer *domain.Answer) error {
	data, err := json.MarshalIndent(answer, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnswer(cmd *cobra.Command, answer *domain.Answer) {
	cmd.Println(answer.Text)
	cmd.Println()
	if answer.Escalate {
		cmd.Println("  [escalated to a human agent]")
	}
	if len(answer.Sources) > 0 {
		cmd.Printf("  Sources: %v\n", answer.Sources)
	}
	cmd.Printf("  Intent: %s  Confidence: %.2f  (%s)\n",
		answer.Intent, answer.Confidence, answer.Elapsed.Round(answerElapsedPrecision))
}
