package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/docuport/docuport/internal/embeddings"
	"github.com/docuport/docuport/internal/llm"
	"github.com/docuport/docuport/internal/store"
	"github.com/docuport/docuport/internal/ui"
	"github.com/docuport/docuport/internal/vecindex"
)

// defaultIndexDir resolves the index directory for CLI commands: an
// explicit --index flag wins, otherwise the "default" index under the
// configured root.
func defaultIndexDir(flag string) string {
	if flag != "" {
		return flag
	}
	return filepath.Join(cfg.Storage.IndexDir, "default")
}

func newEmbedder() (embeddings.Service, error) {
	svc, err := embeddings.NewService(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating embedding service: %w", err)
	}
	return svc, nil
}

func newLLM() (llm.Service, error) {
	svc, err := llm.NewService(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating LLM service: %w", err)
	}
	return svc, nil
}

// openManager opens the index manager for a directory, creating the index
// if needed.
func openManager(indexDir string, embedder vecindex.Embedder) (*vecindex.Manager, error) {
	backend, err := store.Open(indexDir)
	if err != nil {
		return nil, err
	}
	m, err := vecindex.Open(indexDir, backend, embedder)
	if err != nil {
		backend.Close()
		return nil, err
	}
	m.BatchSize = cfg.Ingest.BatchSize
	return m, nil
}

// spinner shows progress while a slow call runs. Call the returned stop
// function when done.
func spinner(message string) (stop func()) {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	done := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		i := 0
		for {
			select {
			case <-done:
				fmt.Fprintf(os.Stderr, "\r%s\r", spaces(len(message)+2))
				return
			default:
				fmt.Fprintf(os.Stderr, "\r%s %s", ui.Highlight.Render(frames[i%len(frames)]), message)
				i++
				time.Sleep(80 * time.Millisecond)
			}
		}
	}()

	return func() {
		close(done)
		<-finished
	}
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
