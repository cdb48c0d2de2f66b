// Command caremind is the entry point for the Caremind assistant.
// It wires the driven adapters (config, storage, index) into the core
// services and hands them to the CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	configfile "github.com/custodia-labs/caremind/internal/adapters/driven/config/file"
	"github.com/custodia-labs/caremind/internal/adapters/driven/index"
	"github.com/custodia-labs/caremind/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/caremind/internal/adapters/driving/cli"
	"github.com/custodia-labs/caremind/internal/classify"
	"github.com/custodia-labs/caremind/internal/core/services"
	"github.com/custodia-labs/caremind/internal/parsers"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "caremind: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	config, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := sqlite.NewStore(config.GetString("paths.data_dir"))
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	knowledge := services.NewKnowledgeService(
		store.KnowledgeStore(),
		index.New(),
		classify.New(),
		parsers.NewDefaultRegistry(),
		config,
	)
	knowledge.SetLearningStore(store.LearningStore())
	learning := services.NewLearningService(store.LearningStore(), knowledge, config)
	conversation := services.NewConversationService(store.ConversationStore(), config)
	assistant := services.NewAssistantService(knowledge, conversation, learning, config)

	cli.SetConfig(cli.Config{
		Assistant:    assistant,
		Knowledge:    knowledge,
		Learning:     learning,
		Conversation: conversation,
		KnowledgeDir: knowledgeDir(config),
	})
	return cli.Execute()
}

// knowledgeDir resolves the knowledge directory: config first, then
// the default under the user's home.
func knowledgeDir(config *configfile.ConfigStore) string {
	if dir := config.GetString("paths.knowledge_dir"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".caremind", "knowledge")
}
