package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/caremind/internal/adapters/driven/watcher"
	"github.com/custodia-labs/caremind/internal/core/domain"
)

var (
	ingestWatch    bool
	ingestDebounce time.Duration
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [dir]",
	Short: "Load knowledge sources into the store",
	Long: `Loads every knowledge source under the given directory (or the
configured knowledge directory): hand-authored JSON entries from json/
and extracted document text from documents/. The search index is
rebuilt once loading completes.

With --watch, the command keeps running and reloads whenever files
under the directory change.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "watch the directory and reload on change")
	ingestCmd.Flags().DurationVar(&ingestDebounce, "debounce", watcher.DefaultDebounce, "delay before reloading after a change")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	dir := knowledgeDir
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		return errors.New("no knowledge directory given or configured")
	}

	ctx := context.Background()
	stats, err := knowledgeService.LoadAll(ctx, dir)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	outputLoadStats(cmd, stats)

	if !ingestWatch {
		return nil
	}

	cmd.Printf("Watching %s for changes (Ctrl-C to stop)...\n", dir)
	watchCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := watcher.New(dir, ingestDebounce, func(ctx context.Context) error {
		stats, err := knowledgeService.LoadAll(ctx, dir)
		if err != nil {
			return err
		}
		outputLoadStats(cmd, stats)
		return nil
	})
	if err := w.Run(watchCtx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}

func outputLoadStats(cmd *cobra.Command, stats *domain.LoadStats) {
	cmd.Printf("Loaded %d entries (%d JSON, %d parsed)\n",
		stats.Total, stats.JSONEntries, stats.ParsedEntries)
	if stats.Overwrites > 0 {
		cmd.Printf("  %d entries overwritten by later sources\n", stats.Overwrites)
	}
	if len(stats.Categories) > 0 {
		categories := append([]string{}, stats.Categories...)
		sort.Strings(categories)
		cmd.Printf("  Categories: %v\n", categories)
	}
}
