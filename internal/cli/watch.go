package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docuport/docuport/internal/ingest"
	"github.com/docuport/docuport/internal/watcher"
)

var watchIndexDir string

// watchCmd auto-ingests documents dropped into a directory.
var watchCmd = &cobra.Command{
	Use:   "watch <directory>",
	Short: "Watch a directory and auto-ingest new documents",
	Long: `Watch a drop folder and index any document created or modified
under it. Runs until interrupted.

Examples:
  docuport watch ~/Documents/inbox
  docuport watch ./drop --index /data/contracts-index`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchIndexDir, "index", "", "index directory (default under the configured index root)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	embedder, err := newEmbedder()
	if err != nil {
		return err
	}

	indexDir := defaultIndexDir(watchIndexDir)
	manager, err := openManager(indexDir, embedder)
	if err != nil {
		return err
	}
	defer manager.Close()

	pipeline := ingest.New(manager, cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap)

	w, err := watcher.New(args[0], pipeline, cfg.Watch.Debounce)
	if err != nil {
		return err
	}

	fmt.Printf("Watching %s (index: %s). Press Ctrl+C to stop.\n", args[0], indexDir)
	return w.Run(cmd.Context())
}
