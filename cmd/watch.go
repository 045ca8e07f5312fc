package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/coda/extract"
	"github.com/gnolang/coda/formatter"
	"github.com/gnolang/coda/internal"
	tt "github.com/gnolang/coda/internal/types"
)

var debounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Extract blocks again whenever a file changes",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			args = []string{"."}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		engine, _, err := extract.NewFromFile(cfgFile, applyFlags)
		if err != nil {
			logger.Fatal("Failed to initialize extraction engine", zap.Error(err))
		}

		watcher, err := internal.NewWatcher(engine, logger, printReport(os.Stdout), args...)
		if err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		watcher.SetDebounce(debounce)

		if err := watcher.Run(ctx); err != nil {
			logger.Error("Watcher stopped", zap.Error(err))
			os.Exit(1)
		}
	},
}

func init() {
	watchCmd.Flags().DurationVar(&debounce, "debounce", 100*time.Millisecond, "How long a file must stay unchanged before it is extracted")
	watchCmd.Flags().StringVar(&kinds, "kind", "", "Comma-separated list of fragment kinds to report, \"all\" for every kind")
	watchCmd.Flags().StringVar(&ignorePaths, "ignore-paths", "", "Comma-separated list of paths to ignore")
}

// printReport returns a report function writing the blocks of each
// changed file to w. Reports may arrive from several goroutines.
func printReport(w io.Writer) internal.ReportFunc {
	var mu sync.Mutex
	return func(filename string, blocks []tt.Block) {
		mu.Lock()
		defer mu.Unlock()
		_, _ = io.WriteString(w, formatter.GenerateFormattedBlocks(blocks))
		_, _ = io.WriteString(w, formatter.GenerateSummary(blocks))
	}
}
