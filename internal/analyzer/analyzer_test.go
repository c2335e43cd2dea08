package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuport/docuport/internal/llm"
)

// scriptedLLM returns canned responses in order.
type scriptedLLM struct {
	responses []string
	err       error
	calls     int
	jsonMode  []bool
}

func (s *scriptedLLM) Complete(ctx context.Context, messages []llm.Message, opts llm.CompletionOptions) (string, error) {
	s.jsonMode = append(s.jsonMode, opts.JSONMode)
	if s.err != nil {
		return "", s.err
	}
	if s.calls >= len(s.responses) {
		return "", errors.New("no more scripted responses")
	}
	resp := s.responses[s.calls]
	s.calls++
	return resp, nil
}

func (s *scriptedLLM) CompleteStream(ctx context.Context, messages []llm.Message, opts llm.CompletionOptions) (<-chan string, <-chan error) {
	contentCh := make(chan string)
	errCh := make(chan error, 1)
	close(contentCh)
	close(errCh)
	return contentCh, errCh
}

func (s *scriptedLLM) Provider() llm.Provider { return "scripted" }
func (s *scriptedLLM) ModelName() string      { return "test" }

const goodAnalysis = `{
	"title": "Quarterly Report",
	"author": "Unknown",
	"date_created": "2024-01-01",
	"last_modified_date": "Unknown",
	"publisher": "Unknown",
	"language": "English",
	"page_count": 12,
	"document_type": "Report",
	"summary": "A quarterly financial report.",
	"key_points": ["Revenue grew", "Costs fell"],
	"sentiment_tone": "Neutral"
}`

func TestAnalyze(t *testing.T) {
	svc := &scriptedLLM{responses: []string{goodAnalysis}}
	a := New(svc)

	analysis, err := a.Analyze(context.Background(), "document text")
	require.NoError(t, err)
	assert.Equal(t, "Quarterly Report", analysis.Title)
	assert.Equal(t, "12", analysis.PageCount.String())
	assert.Len(t, analysis.KeyPoints, 2)
	assert.Equal(t, 1, svc.calls)
	assert.True(t, svc.jsonMode[0])
}

func TestAnalyzeToleratesFencedJSON(t *testing.T) {
	svc := &scriptedLLM{responses: []string{"Here you go:\n```json\n" + goodAnalysis + "\n```"}}
	a := New(svc)

	analysis, err := a.Analyze(context.Background(), "document text")
	require.NoError(t, err)
	assert.Equal(t, "Quarterly Report", analysis.Title)
}

func TestAnalyzeRepairsMalformedOutput(t *testing.T) {
	svc := &scriptedLLM{responses: []string{"sorry, no json here", goodAnalysis}}
	a := New(svc)

	analysis, err := a.Analyze(context.Background(), "document text")
	require.NoError(t, err)
	assert.Equal(t, "Quarterly Report", analysis.Title)
	assert.Equal(t, 2, svc.calls, "one repair round trip")
}

func TestAnalyzeFailsAfterRepair(t *testing.T) {
	svc := &scriptedLLM{responses: []string{"garbage", "still garbage"}}
	a := New(svc)

	_, err := a.Analyze(context.Background(), "document text")
	assert.Error(t, err)
	assert.Equal(t, 2, svc.calls)
}

func TestAnalyzeEmptyText(t *testing.T) {
	a := New(&scriptedLLM{})
	_, err := a.Analyze(context.Background(), "   ")
	assert.Error(t, err)
}

func TestAnalyzeLLMError(t *testing.T) {
	a := New(&scriptedLLM{err: errors.New("provider down")})
	_, err := a.Analyze(context.Background(), "text")
	assert.Error(t, err)
}
