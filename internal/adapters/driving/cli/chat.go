package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Starts a line-based chat session against the knowledge base.
Each session keeps conversational context, so follow-up questions
("what about weekends?") resolve against the current topic.

Type "exit" or "quit" to end the session.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if assistantService == nil {
		return errors.New("assistant service not configured")
	}

	ctx := context.Background()
	session := uuid.NewString()
	defer func() {
		if err := assistantService.EndSession(ctx, session); err != nil {
			cmd.PrintErrf("could not end session: %v\n", err)
		}
	}()

	cmd.Println("Chat session started. Type \"exit\" to leave.")
	cmd.Println()

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print("you> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		answer, err := assistantService.Ask(ctx, session, line)
		if err != nil {
			cmd.PrintErrf("error: %v\n", err)
			continue
		}

		cmd.Printf("caremind> %s\n", answer.Text)
		if len(answer.Sources) > 0 {
			cmd.Printf("          sources: %s\n", strings.Join(answer.Sources, ", "))
		}
		if answer.Escalate {
			cmd.Println("          [this conversation has been flagged for a human agent]")
		}
		cmd.Println()
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	cmd.Println("Session ended.")
	return nil
}
