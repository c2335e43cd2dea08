// Package analyzer produces structured metadata summaries of documents
// via an LLM.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/docuport/docuport/internal/llm"
	"github.com/docuport/docuport/internal/prompts"
)

// Analysis is the structured summary of one document. String fields the
// model cannot determine come back as "Unknown".
type Analysis struct {
	Title            string      `json:"title"`
	Author           string      `json:"author"`
	DateCreated      string      `json:"date_created"`
	LastModifiedDate string      `json:"last_modified_date"`
	Publisher        string      `json:"publisher"`
	Language         string      `json:"language"`
	PageCount        json.Number `json:"page_count"`
	DocumentType     string      `json:"document_type"`
	Summary          string      `json:"summary"`
	KeyPoints        []string    `json:"key_points"`
	SentimentTone    string      `json:"sentiment_tone"`
}

// Analyzer runs analysis prompts against an LLM service.
type Analyzer struct {
	llm llm.Service

	// MaxChars truncates very large documents before prompting.
	MaxChars int
}

// New returns an analyzer over the given LLM service.
func New(svc llm.Service) *Analyzer {
	return &Analyzer{llm: svc, MaxChars: 120_000}
}

// Analyze summarizes the document text into an Analysis. A malformed
// model response gets one repair round trip before failing.
func (a *Analyzer) Analyze(ctx context.Context, text string) (*Analysis, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("document text is empty")
	}
	if a.MaxChars > 0 && len(text) > a.MaxChars {
		text = text[:a.MaxChars]
	}

	opts := llm.DefaultCompletionOptions()
	opts.Temperature = 0
	opts.JSONMode = true

	raw, err := a.llm.Complete(ctx, []llm.Message{
		{Role: "system", Content: prompts.AnalysisSystem},
		{Role: "user", Content: text},
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("analysis completion: %w", err)
	}

	analysis, parseErr := parseAnalysis(raw)
	if parseErr == nil {
		return analysis, nil
	}

	// One repair attempt: hand the broken output back to the model.
	log.Debug("analysis output malformed, attempting repair", "error", parseErr)
	repaired, err := a.llm.Complete(ctx, []llm.Message{
		{Role: "system", Content: prompts.AnalysisSystem},
		{Role: "user", Content: prompts.AnalysisRepair + raw},
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("analysis repair completion: %w", err)
	}

	analysis, parseErr = parseAnalysis(repaired)
	if parseErr != nil {
		return nil, fmt.Errorf("analysis output unparseable after repair: %w", parseErr)
	}
	return analysis, nil
}

// parseAnalysis decodes the model output, tolerating markdown fences and
// prose around the JSON object.
func parseAnalysis(raw string) (*Analysis, error) {
	jsonText := extractObject(raw)
	if jsonText == "" {
		return nil, fmt.Errorf("no JSON object in response")
	}
	var a Analysis
	if err := json.Unmarshal([]byte(jsonText), &a); err != nil {
		return nil, fmt.Errorf("decoding analysis: %w", err)
	}
	if a.Title == "" && a.Summary == "" {
		return nil, fmt.Errorf("analysis missing required fields")
	}
	return &a, nil
}

// extractObject returns the first balanced {...} span in raw, skipping
// braces inside JSON strings.
func extractObject(raw string) string {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1]
			}
		}
	}
	return ""
}
