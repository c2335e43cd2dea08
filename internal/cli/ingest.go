package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docuport/docuport/internal/ingest"
	"github.com/docuport/docuport/internal/ui"
)

var ingestIndexDir string

// ingestCmd indexes documents for question answering.
var ingestCmd = &cobra.Command{
	Use:   "ingest <file-or-directory>",
	Short: "Index documents for question answering",
	Long: `Extract, chunk, and index documents into the vector index.

Re-ingesting unchanged documents is a no-op: chunks already in the index
are skipped by fingerprint.

Examples:
  # Ingest a single document
  docuport ingest contract.pdf

  # Ingest every supported document under a directory
  docuport ingest ./contracts

  # Ingest into a specific index directory
  docuport ingest ./contracts --index /data/contracts-index`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestIndexDir, "index", "", "index directory (default under the configured index root)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	target := args[0]
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("stat %s: %w", target, err)
	}

	embedder, err := newEmbedder()
	if err != nil {
		return err
	}

	indexDir := defaultIndexDir(ingestIndexDir)
	manager, err := openManager(indexDir, embedder)
	if err != nil {
		return err
	}
	defer manager.Close()

	pipeline := ingest.New(manager, cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap)

	stop := spinner("Indexing documents...")
	if info.IsDir() {
		res, err := pipeline.Dir(cmd.Context(), target)
		stop()
		if err != nil {
			return err
		}
		fmt.Printf("%s %d files, %d chunks, %d newly indexed\n",
			ui.Success.Render("Done:"), res.Files, res.Chunks, res.Added)
		return nil
	}

	added, err := pipeline.File(cmd.Context(), target)
	stop()
	if err != nil {
		return err
	}
	fmt.Printf("%s %d chunks newly indexed\n", ui.Success.Render("Done:"), added)
	return nil
}
