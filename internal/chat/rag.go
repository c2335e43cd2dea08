package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/docuport/docuport/internal/llm"
	"github.com/docuport/docuport/internal/prompts"
	"github.com/docuport/docuport/internal/retrieval"
)

// Retriever is the slice of the retrieval facade RAG needs.
type Retriever interface {
	Query(ctx context.Context, text string, k int, threshold float64) ([]retrieval.Scored, error)
}

// RAG answers questions over an index, rewriting follow-ups into
// standalone questions using session history.
type RAG struct {
	retriever Retriever
	llm       llm.Service
	sessions  *SessionStore

	TopK           int
	ScoreThreshold float64
}

// New returns a RAG pipeline over the given retriever and LLM.
func New(retriever Retriever, svc llm.Service, sessions *SessionStore) *RAG {
	return &RAG{
		retriever:      retriever,
		llm:            svc,
		sessions:       sessions,
		TopK:           5,
		ScoreThreshold: 0.5,
	}
}

// Answer handles one conversational turn for a session: contextualize the
// question against history, retrieve supporting chunks, and answer from
// them. The turn is appended to the session history on success.
func (r *RAG) Answer(ctx context.Context, sessionID, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("question is empty")
	}

	history := r.sessions.History(sessionID)

	standalone, err := r.contextualize(ctx, history, question)
	if err != nil {
		return "", err
	}

	hits, err := r.retriever.Query(ctx, standalone, r.TopK, r.ScoreThreshold)
	if err != nil {
		return "", fmt.Errorf("retrieving context: %w", err)
	}
	log.Debug("retrieved context", "session", sessionID, "chunks", len(hits))

	answer, err := r.answerFromContext(ctx, history, standalone, hits)
	if err != nil {
		return "", err
	}

	r.sessions.Append(sessionID,
		llm.Message{Role: "user", Content: question},
		llm.Message{Role: "assistant", Content: answer},
	)
	return answer, nil
}

// contextualize rewrites a follow-up question into a standalone one. With
// no history the question is already standalone.
func (r *RAG) contextualize(ctx context.Context, history []llm.Message, question string) (string, error) {
	if len(history) == 0 {
		return question, nil
	}

	msgs := make([]llm.Message, 0, len(history)+2)
	msgs = append(msgs, llm.Message{Role: "system", Content: prompts.ContextualizeQuestion})
	msgs = append(msgs, history...)
	msgs = append(msgs, llm.Message{Role: "user", Content: question})

	opts := llm.DefaultCompletionOptions()
	opts.Temperature = 0
	opts.MaxTokens = 512

	rewritten, err := r.llm.Complete(ctx, msgs, opts)
	if err != nil {
		return "", fmt.Errorf("contextualizing question: %w", err)
	}
	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return question, nil
	}
	return rewritten, nil
}

func (r *RAG) answerFromContext(ctx context.Context, history []llm.Message, question string, hits []retrieval.Scored) (string, error) {
	system := prompts.ContextQA + buildContext(hits)

	msgs := make([]llm.Message, 0, len(history)+2)
	msgs = append(msgs, llm.Message{Role: "system", Content: system})
	msgs = append(msgs, history...)
	msgs = append(msgs, llm.Message{Role: "user", Content: question})

	answer, err := r.llm.Complete(ctx, msgs, llm.DefaultCompletionOptions())
	if err != nil {
		return "", fmt.Errorf("answering question: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

// buildContext formats retrieved chunks for the QA prompt, labelling each
// with its source document when known.
func buildContext(hits []retrieval.Scored) string {
	if len(hits) == 0 {
		return "(no relevant context found)"
	}
	var sb strings.Builder
	for i, h := range hits {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		source := h.Record.Metadata["source"]
		if source == "" {
			source = "unknown"
		}
		fmt.Fprintf(&sb, "[%d] (source: %s)\n%s", i+1, source, h.Record.Text)
	}
	return sb.String()
}
