package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/docuport/docuport/internal/chat"
	"github.com/docuport/docuport/internal/retrieval"
	"github.com/docuport/docuport/internal/ui"
	"github.com/docuport/docuport/internal/vecindex"
)

var (
	askIndexDir string
	askTopK     int
	askMinScore float64
	askSources  bool
)

// askCmd answers a question over the ingested documents.
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question over ingested documents",
	Long: `Answer a natural-language question using retrieval-augmented
generation over the vector index.

Examples:
  # Ask over the default index
  docuport ask "what is the termination notice period"

  # Show which chunks supported the answer
  docuport ask "who are the contract parties" --sources

  # Widen retrieval
  docuport ask "payment terms" --top 10 --min-score 0.3`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askIndexDir, "index", "", "index directory (default under the configured index root)")
	askCmd.Flags().IntVar(&askTopK, "top", 0, "number of chunks to retrieve (default from config)")
	askCmd.Flags().Float64Var(&askMinScore, "min-score", -1, "minimum similarity score (default from config)")
	askCmd.Flags().BoolVar(&askSources, "sources", false, "show retrieved chunks with scores")
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	embedder, err := newEmbedder()
	if err != nil {
		return err
	}
	llmSvc, err := newLLM()
	if err != nil {
		return err
	}

	indexDir := defaultIndexDir(askIndexDir)
	facade, err := retrieval.Open(indexDir, embedder)
	if err != nil {
		if errors.Is(err, vecindex.ErrIndexNotFound) {
			return fmt.Errorf("no index at %s; run `docuport ingest` first", indexDir)
		}
		return err
	}
	defer facade.Close()

	topK := cfg.Retrieval.TopK
	if askTopK > 0 {
		topK = askTopK
	}
	minScore := cfg.Retrieval.ScoreThreshold
	if askMinScore >= 0 {
		minScore = askMinScore
	}

	if askSources {
		hits, err := facade.Query(cmd.Context(), question, topK, minScore)
		if err != nil {
			return err
		}
		for i, h := range hits {
			source := h.Record.Metadata["source"]
			fmt.Printf("%s %s %s\n", ui.Header.Render(fmt.Sprintf("[%d]", i+1)),
				ui.DocName.Render(source), ui.FormatScore(h.Score))
		}
		if len(hits) > 0 {
			fmt.Println()
		}
	}

	rag := chat.New(facade, llmSvc, chat.NewSessionStore())
	rag.TopK = topK
	rag.ScoreThreshold = minScore

	stop := spinner("Thinking...")
	answer, err := rag.Answer(cmd.Context(), "cli", question)
	stop()
	if err != nil {
		return err
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		fmt.Println(answer)
		return nil
	}
	out, err := renderer.Render(answer)
	if err != nil {
		fmt.Println(answer)
		return nil
	}
	fmt.Print(out)
	return nil
}
