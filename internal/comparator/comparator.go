// Package comparator reports page-wise differences between two documents
// via an LLM.
package comparator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/docuport/docuport/internal/llm"
	"github.com/docuport/docuport/internal/prompts"
)

// PageChange is one comparison row. Pages without differences carry the
// change text "No change".
type PageChange struct {
	Page   string `json:"page"`
	Change string `json:"change"`
}

// Comparator runs comparison prompts against an LLM service.
type Comparator struct {
	llm llm.Service

	// MaxChars truncates each document before prompting.
	MaxChars int
}

// New returns a comparator over the given LLM service.
func New(svc llm.Service) *Comparator {
	return &Comparator{llm: svc, MaxChars: 60_000}
}

// Compare returns the page-wise changes between the reference and actual
// document texts. Both texts should carry "--- Page N ---" markers.
func (c *Comparator) Compare(ctx context.Context, reference, actual string) ([]PageChange, error) {
	if strings.TrimSpace(reference) == "" || strings.TrimSpace(actual) == "" {
		return nil, fmt.Errorf("both documents must have text")
	}
	if c.MaxChars > 0 {
		if len(reference) > c.MaxChars {
			reference = reference[:c.MaxChars]
		}
		if len(actual) > c.MaxChars {
			actual = actual[:c.MaxChars]
		}
	}

	var sb strings.Builder
	sb.WriteString("=== Document 1 (reference) ===\n")
	sb.WriteString(reference)
	sb.WriteString("\n\n=== Document 2 (actual) ===\n")
	sb.WriteString(actual)

	opts := llm.DefaultCompletionOptions()
	opts.Temperature = 0
	opts.MaxTokens = 4096

	raw, err := c.llm.Complete(ctx, []llm.Message{
		{Role: "system", Content: prompts.ComparisonSystem},
		{Role: "user", Content: sb.String()},
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("comparison completion: %w", err)
	}

	changes, err := parseChanges(raw)
	if err != nil {
		log.Debug("comparison output malformed", "error", err)
		return nil, fmt.Errorf("comparison output unparseable: %w", err)
	}
	return changes, nil
}

func parseChanges(raw string) ([]PageChange, error) {
	start := strings.IndexByte(raw, '[')
	end := strings.LastIndexByte(raw, ']')
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in response")
	}
	var changes []PageChange
	if err := json.Unmarshal([]byte(raw[start:end+1]), &changes); err != nil {
		return nil, fmt.Errorf("decoding comparison rows: %w", err)
	}
	return changes, nil
}
