package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docuport/docuport/internal/comparator"
	"github.com/docuport/docuport/internal/extract"
	"github.com/docuport/docuport/internal/ui"
)

var compareJSON bool

// compareCmd reports page-wise differences between two documents.
var compareCmd = &cobra.Command{
	Use:   "compare <reference> <actual>",
	Short: "Compare two documents page by page",
	Long: `Compare two versions of a document and report what changed on
each page.

Examples:
  docuport compare contract-v1.pdf contract-v2.pdf
  docuport compare old.docx new.docx --json`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().BoolVar(&compareJSON, "json", false, "output changes as JSON")
}

func runCompare(cmd *cobra.Command, args []string) error {
	extractor := extract.New()

	refText, err := extractor.Text(args[0])
	if err != nil {
		return err
	}
	actText, err := extractor.Text(args[1])
	if err != nil {
		return err
	}

	llmSvc, err := newLLM()
	if err != nil {
		return err
	}

	stop := spinner("Comparing documents...")
	changes, err := comparator.New(llmSvc).Compare(cmd.Context(), refText, actText)
	stop()
	if err != nil {
		return err
	}

	if compareJSON {
		out, err := json.MarshalIndent(changes, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding changes: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	for _, c := range changes {
		page := ui.Header.Render(fmt.Sprintf("Page %s:", c.Page))
		if c.Change == "No change" {
			fmt.Printf("%s %s\n", page, ui.Dim.Render(c.Change))
		} else {
			fmt.Printf("%s %s\n", page, c.Change)
		}
	}
	return nil
}
