package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docuport/docuport/internal/store"
	"github.com/docuport/docuport/internal/ui"
	"github.com/docuport/docuport/internal/vecindex"
)

var statusIndexDir string

// statusCmd shows the state of the vector index.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index status",
	Long: `Show the state of the vector index: location, stored chunks, and
ingested fingerprints.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusIndexDir, "index", "", "index directory (default under the configured index root)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	indexDir := defaultIndexDir(statusIndexDir)

	fmt.Printf("%s %s\n", ui.Header.Render("Index:"), indexDir)

	if !store.Exists(indexDir) {
		fmt.Println(ui.Dim.Render("  no index built yet"))
		return nil
	}

	backend, err := store.Open(indexDir)
	if err != nil {
		return err
	}
	defer backend.Close()

	count, err := backend.Count()
	if err != nil {
		return err
	}

	meta, err := vecindex.LoadMetadata(indexDir)
	if err != nil {
		return err
	}

	fmt.Printf("  chunks stored:         %d\n", count)
	fmt.Printf("  fingerprints ingested: %d\n", meta.Count())
	fmt.Printf("  index version:         %d\n", meta.IndexVersion)
	fmt.Printf("  created:               %s\n", meta.CreatedAt.Format("2006-01-02 15:04:05 MST"))

	if count > meta.Count() {
		fmt.Println(ui.Warning.Render("  note: index holds more vectors than fingerprints (duplicates from an interrupted run)"))
	}
	return nil
}
