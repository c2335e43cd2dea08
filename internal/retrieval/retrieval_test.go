package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuport/docuport/internal/store"
	"github.com/docuport/docuport/internal/vecindex"
)

type fakeQueryEmbedder struct {
	fail bool
}

func (f *fakeQueryEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if f.fail {
		return nil, errors.New("provider down")
	}
	return []float32{1, 0, 0}, nil
}

type fakeBackend struct {
	hits []store.Hit
	k    int
}

func (b *fakeBackend) Append(vectors [][]float32, payloads []store.Payload) error { return nil }

func (b *fakeBackend) Count() (int, error) { return len(b.hits), nil }

func (b *fakeBackend) Close() error { return nil }

func (b *fakeBackend) Search(query []float32, k int) ([]store.Hit, error) {
	b.k = k
	if k > len(b.hits) {
		k = len(b.hits)
	}
	return b.hits[:k], nil
}

func hit(text string, score float64) store.Hit {
	return store.Hit{
		Payload: store.Payload{Text: text, Metadata: map[string]string{"source": "a.pdf"}},
		Score:   score,
	}
}

func TestQueryFiltersByThreshold(t *testing.T) {
	backend := &fakeBackend{hits: []store.Hit{
		hit("best", 0.9),
		hit("ok", 0.6),
		hit("weak", 0.3),
	}}
	f := New(backend, &fakeQueryEmbedder{})

	out, err := f.Query(context.Background(), "question", 3, 0.5)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "best", out[0].Record.Text)
	assert.Equal(t, "ok", out[1].Record.Text)
	assert.Greater(t, out[0].Score, out[1].Score)
}

func TestQueryClampsThreshold(t *testing.T) {
	backend := &fakeBackend{hits: []store.Hit{hit("only", 0.7)}}
	f := New(backend, &fakeQueryEmbedder{})

	// Below zero behaves like zero: everything passes.
	out, err := f.Query(context.Background(), "q", 1, -3)
	require.NoError(t, err)
	assert.Len(t, out, 1)

	// Above one behaves like one: only perfect matches pass.
	out, err = f.Query(context.Background(), "q", 1, 42)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestQueryRejectsBadK(t *testing.T) {
	f := New(&fakeBackend{}, &fakeQueryEmbedder{})
	_, err := f.Query(context.Background(), "q", 0, 0.5)
	assert.Error(t, err)
}

func TestQueryEmbedderFailure(t *testing.T) {
	f := New(&fakeBackend{}, &fakeQueryEmbedder{fail: true})
	_, err := f.Query(context.Background(), "q", 1, 0.5)
	assert.ErrorIs(t, err, vecindex.ErrEmbeddingService)
}

func TestOpenMissingIndex(t *testing.T) {
	_, err := Open(t.TempDir(), &fakeQueryEmbedder{})
	assert.ErrorIs(t, err, vecindex.ErrIndexNotFound)
}
