// Package retrieval answers similarity queries over a built vector index.
package retrieval

import (
	"context"
	"fmt"

	"github.com/docuport/docuport/internal/store"
	"github.com/docuport/docuport/internal/vecindex"
)

// QueryEmbedder embeds a single query string.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Scored is one retrieved chunk with its similarity score.
type Scored struct {
	Record vecindex.Record
	Score  float64
}

// Facade serves top-k similarity queries against one index directory.
// Facades only read; they can run concurrently with each other and with a
// single writing Manager.
type Facade struct {
	backend  store.Backend
	embedder QueryEmbedder
}

// Open opens a facade over an existing index directory. A directory
// without an index yields vecindex.ErrIndexNotFound.
func Open(indexDir string, embedder QueryEmbedder) (*Facade, error) {
	if !store.Exists(indexDir) {
		return nil, fmt.Errorf("%w: %s", vecindex.ErrIndexNotFound, indexDir)
	}
	backend, err := store.Open(indexDir)
	if err != nil {
		return nil, fmt.Errorf("opening index at %s: %w", indexDir, err)
	}
	return New(backend, embedder), nil
}

// New wraps an already-open backend.
func New(backend store.Backend, embedder QueryEmbedder) *Facade {
	return &Facade{backend: backend, embedder: embedder}
}

// Query returns up to k chunks similar to text, best first, keeping only
// scores at or above threshold. k must be at least 1. Thresholds outside
// [0,1] are clamped rather than rejected, so a caller passing a raw
// distance-derived value still gets sane filtering.
func (f *Facade) Query(ctx context.Context, text string, k int, threshold float64) ([]Scored, error) {
	if k < 1 {
		return nil, fmt.Errorf("k must be >= 1, got %d", k)
	}
	if threshold < 0 {
		threshold = 0
	}
	if threshold > 1 {
		threshold = 1
	}

	vec, err := f.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vecindex.ErrEmbeddingService, err)
	}

	hits, err := f.backend.Search(vec, k)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	var out []Scored
	for _, h := range hits {
		if h.Score < threshold {
			continue
		}
		out = append(out, Scored{
			Record: vecindex.Record{Text: h.Payload.Text, Metadata: h.Payload.Metadata},
			Score:  h.Score,
		})
	}
	return out, nil
}

// Close releases the backend.
func (f *Facade) Close() error {
	return f.backend.Close()
}
