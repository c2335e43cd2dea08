package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docuport/docuport/internal/ui"
)

// configCmd shows the active configuration.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the active configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(ui.Header.Render("Storage"))
		fmt.Printf("  data dir:   %s\n", cfg.Storage.DataDir)
		fmt.Printf("  index dir:  %s\n", cfg.Storage.IndexDir)

		fmt.Println(ui.Header.Render("Ingest"))
		fmt.Printf("  chunk size:    %d\n", cfg.Ingest.ChunkSize)
		fmt.Printf("  chunk overlap: %d\n", cfg.Ingest.ChunkOverlap)
		fmt.Printf("  batch size:    %d\n", cfg.Ingest.BatchSize)
		fmt.Printf("  max file size: %d\n", cfg.Ingest.MaxFileSize)

		fmt.Println(ui.Header.Render("Retrieval"))
		fmt.Printf("  top k:           %d\n", cfg.Retrieval.TopK)
		fmt.Printf("  score threshold: %.2f\n", cfg.Retrieval.ScoreThreshold)

		fmt.Println(ui.Header.Render("Embeddings"))
		fmt.Printf("  provider: %s\n", cfg.Embeddings.Provider)
		fmt.Printf("  model:    %s\n", cfg.Embeddings.Model)

		fmt.Println(ui.Header.Render("LLM"))
		fmt.Printf("  provider: %s\n", cfg.LLM.Provider)
		fmt.Printf("  model:    %s\n", cfg.LLM.Model)

		fmt.Println(ui.Header.Render("Server"))
		fmt.Printf("  host: %s\n", cfg.Server.Host)
		fmt.Printf("  port: %d\n", cfg.Server.Port)
		return nil
	},
}
