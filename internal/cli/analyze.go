package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/docuport/docuport/internal/analyzer"
	"github.com/docuport/docuport/internal/extract"
)

var analyzeJSON bool

// analyzeCmd summarizes a document.
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Summarize a document's metadata and content",
	Long: `Extract a document's text and produce a structured summary:
title, author, summary, key points, and more.

Examples:
  # Human-readable summary
  docuport analyze report.pdf

  # Machine-readable output
  docuport analyze report.pdf --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output the analysis as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]

	text, err := extract.New().Text(path)
	if err != nil {
		return err
	}

	llmSvc, err := newLLM()
	if err != nil {
		return err
	}

	stop := spinner("Analyzing document...")
	analysis, err := analyzer.New(llmSvc).Analyze(cmd.Context(), text)
	stop()
	if err != nil {
		return err
	}

	if analyzeJSON {
		out, err := json.MarshalIndent(analysis, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding analysis: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	return renderAnalysis(analysis)
}

func renderAnalysis(a *analyzer.Analysis) error {
	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n", a.Title)
	fmt.Fprintf(&md, "| | |\n|---|---|\n")
	fmt.Fprintf(&md, "| Author | %s |\n", a.Author)
	fmt.Fprintf(&md, "| Type | %s |\n", a.DocumentType)
	fmt.Fprintf(&md, "| Language | %s |\n", a.Language)
	fmt.Fprintf(&md, "| Pages | %s |\n", a.PageCount.String())
	fmt.Fprintf(&md, "| Tone | %s |\n\n", a.SentimentTone)
	fmt.Fprintf(&md, "## Summary\n\n%s\n\n", a.Summary)
	if len(a.KeyPoints) > 0 {
		md.WriteString("## Key points\n\n")
		for _, p := range a.KeyPoints {
			fmt.Fprintf(&md, "- %s\n", p)
		}
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		fmt.Println(md.String())
		return nil
	}
	out, err := renderer.Render(md.String())
	if err != nil {
		fmt.Println(md.String())
		return nil
	}
	fmt.Print(out)
	return nil
}
