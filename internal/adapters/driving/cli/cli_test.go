package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/caremind/internal/adapters/driven/index"
	"github.com/custodia-labs/caremind/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/caremind/internal/classify"
	"github.com/custodia-labs/caremind/internal/core/services"
	"github.com/custodia-labs/caremind/internal/parsers"
)

// setupTestServices wires the commands to in-memory services and
// returns a cleanup restoring the previous wiring.
func setupTestServices(t *testing.T) func() {
	t.Helper()

	knowStore := memory.NewKnowledgeStore()
	learnStore := memory.NewLearningStore()
	convStore := memory.NewConversationStore()

	knowledge := services.NewKnowledgeService(knowStore, index.New(), classify.New(), parsers.NewDefaultRegistry(), nil)
	knowledge.SetLearningStore(learnStore)
	learning := services.NewLearningService(learnStore, knowledge, nil)
	conversation := services.NewConversationService(convStore, nil)
	assistant := services.NewAssistantService(knowledge, conversation, learning, nil)

	prev := Config{
		Assistant:    assistantService,
		Knowledge:    knowledgeService,
		Learning:     learningService,
		Conversation: conversationService,
		KnowledgeDir: knowledgeDir,
	}
	SetConfig(Config{
		Assistant:    assistant,
		Knowledge:    knowledge,
		Learning:     learning,
		Conversation: conversation,
	})
	return func() { SetConfig(prev) }
}

// execute runs the root command with args and captures output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// writeTestKB creates a knowledge dir with one JSON entry.
func writeTestKB(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	jsonDir := filepath.Join(dir, "json")
	require.NoError(t, os.MkdirAll(jsonDir, 0o755))
	record := `{"id":"kb-hours","title":"Clinic Hours","content":"We are open weekdays from 8am to 6pm.","category":"faq"}`
	require.NoError(t, os.WriteFile(filepath.Join(jsonDir, "hours.json"), []byte(record), 0o644))
	return dir
}

// TestVersionCmd tests the version output.
func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "caremind version")
}

// TestIngestCmd tests loading a knowledge directory.
func TestIngestCmd(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "ingest", writeTestKB(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded 1 entries")
}

// TestIngestCmdNoDir tests the error without a directory.
func TestIngestCmdNoDir(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	_, err := execute(t, "ingest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no knowledge directory")
}

// TestSearchCmd tests search output after an ingest.
func TestSearchCmd(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	_, err := execute(t, "ingest", writeTestKB(t))
	require.NoError(t, err)

	out, err := execute(t, "search", "opening hours")
	require.NoError(t, err)
	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, "Clinic Hours")
}

// TestSearchCmdRequiresQuery tests argument validation.
func TestSearchCmdRequiresQuery(t *testing.T) {
	_, err := execute(t, "search")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

// TestSuggestCmd tests prefix completion against the index.
func TestSuggestCmd(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	_, err := execute(t, "ingest", writeTestKB(t))
	require.NoError(t, err)

	out, err := execute(t, "suggest", "week")
	require.NoError(t, err)
	assert.Contains(t, out, "weekdays")

	out, err = execute(t, "suggest", "zzz")
	require.NoError(t, err)
	assert.Contains(t, out, "No indexed terms")
}

// TestAskCmd tests a full question round-trip.
func TestAskCmd(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	_, err := execute(t, "ingest", writeTestKB(t))
	require.NoError(t, err)

	out, err := execute(t, "ask", "when are you open")
	require.NoError(t, err)
	assert.Contains(t, out, "open weekdays from 8am to 6pm")
	assert.Contains(t, out, "hours.json")
}

// TestAskCmdJSON tests JSON output mode.
func TestAskCmdJSON(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	_, err := execute(t, "ingest", writeTestKB(t))
	require.NoError(t, err)

	out, err := execute(t, "ask", "--json", "when are you open")
	require.NoError(t, err)
	assert.Contains(t, out, `"Text"`)
	assert.Contains(t, out, `"Confidence"`)
}

// TestLearnedCmdEmpty tests the empty-state message.
func TestLearnedCmdEmpty(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "learned")
	require.NoError(t, err)
	assert.Contains(t, out, "No learned facts.")
}

// TestLearnedCmdListsFacts tests fact listing after teaching.
func TestLearnedCmdListsFacts(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	_, err := execute(t, "ingest", writeTestKB(t))
	require.NoError(t, err)
	_, err = execute(t, "ask", "--session", "s1", "Actually, we validate parking at reception")
	require.NoError(t, err)

	out, err := execute(t, "learned")
	require.NoError(t, err)
	assert.Contains(t, out, "validate parking")
	assert.Contains(t, out, "explicit")
}

// TestLearnedCmdShowsConflicts tests that a contradicting fact is
// listed with its recorded conflict.
func TestLearnedCmdShowsConflicts(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	_, err := execute(t, "ask", "--session", "s1", "Actually, the gym is open on weekends")
	require.NoError(t, err)
	_, err = execute(t, "ask", "--session", "s2", "Actually, the gym is closed on weekends")
	require.NoError(t, err)

	out, err := execute(t, "learned")
	require.NoError(t, err)
	assert.Contains(t, out, "CONFLICT")
	assert.Contains(t, out, `"closed"`)
}

// TestGapsCmd tests gap listing after unanswered questions.
func TestGapsCmd(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	_, err := execute(t, "ingest", writeTestKB(t))
	require.NoError(t, err)
	_, err = execute(t, "ask", "do you offer acupuncture")
	require.NoError(t, err)

	out, err := execute(t, "gaps")
	require.NoError(t, err)
	assert.Contains(t, out, "do you offer acupuncture")
}

// TestStatsCmd tests the statistics summary.
func TestStatsCmd(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	_, err := execute(t, "ingest", writeTestKB(t))
	require.NoError(t, err)

	out, err := execute(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Entries:       1")
	assert.Contains(t, out, "faq")
}

// TestCommandsWithoutServices tests the not-configured errors.
func TestCommandsWithoutServices(t *testing.T) {
	prev := Config{
		Assistant:    assistantService,
		Knowledge:    knowledgeService,
		Learning:     learningService,
		Conversation: conversationService,
		KnowledgeDir: knowledgeDir,
	}
	SetConfig(Config{})
	defer SetConfig(prev)

	_, err := execute(t, "ask", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")

	_, err = execute(t, "search", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
