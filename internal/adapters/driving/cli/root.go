// Package cli implements the caremind command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/caremind/internal/core/ports/driving"
	"github.com/custodia-labs/caremind/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services wired in by the composition root before Execute.
var (
	assistantService    driving.AssistantService
	knowledgeService    driving.KnowledgeService
	learningService     driving.LearningService
	conversationService driving.ConversationService
)

// knowledgeDir is the directory the ingest and watch paths read from,
// set by the composition root from config.
var knowledgeDir string

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "caremind",
	Short: "Knowledge-grounded response engine for patient support",
	Long: `Caremind answers patient questions from a curated knowledge base:
hand-authored JSON entries plus text extracted from clinic documents.
Answers carry source citations and a confidence score; questions the
knowledge base cannot answer are tracked as gaps, and facts volunteered
in conversation are remembered.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

// Config carries the services the commands depend on.
type Config struct {
	Assistant    driving.AssistantService
	Knowledge    driving.KnowledgeService
	Learning     driving.LearningService
	Conversation driving.ConversationService
	KnowledgeDir string
}

// SetConfig wires the services into the command tree.
func SetConfig(cfg Config) {
	assistantService = cfg.Assistant
	knowledgeService = cfg.Knowledge
	learningService = cfg.Learning
	conversationService = cfg.Conversation
	knowledgeDir = cfg.KnowledgeDir
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
