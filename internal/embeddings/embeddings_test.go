package embeddings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockOllama serves the embed API and records the last request.
func mockOllama(t *testing.T, dims int) (*httptest.Server, *ollamaEmbedRequest) {
	t.Helper()
	var lastReq ollamaEmbedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/embed", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&lastReq))

		embeddings := make([][]float32, len(lastReq.Input))
		for i := range embeddings {
			vec := make([]float32, dims)
			vec[0] = float32(i + 1)
			embeddings[i] = vec
		}
		json.NewEncoder(w).Encode(ollamaEmbedResponse{Embeddings: embeddings})
	}))
	t.Cleanup(srv.Close)
	return srv, &lastReq
}

func TestOllamaEmbedBatchOrder(t *testing.T) {
	srv, lastReq := mockOllama(t, 768)
	svc, err := NewOllamaService(srv.URL, "nomic-embed-text")
	require.NoError(t, err)

	vecs, err := svc.EmbedBatch(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Equal(t, float32(1), vecs[0][0])
	assert.Equal(t, float32(2), vecs[1][0])

	// Document prefix applied to every input.
	require.Len(t, lastReq.Input, 2)
	assert.Equal(t, "search_document: first", lastReq.Input[0])
	assert.Equal(t, "search_document: second", lastReq.Input[1])
	assert.True(t, lastReq.Truncate)
}

func TestOllamaEmbedQueryPrefix(t *testing.T) {
	srv, lastReq := mockOllama(t, 768)
	svc, err := NewOllamaService(srv.URL, "nomic-embed-text")
	require.NoError(t, err)

	_, err = svc.EmbedQuery(context.Background(), "find things")
	require.NoError(t, err)
	assert.Equal(t, "search_query: find things", lastReq.Input[0])
}

func TestOllamaNoPrefixForUnknownModel(t *testing.T) {
	srv, lastReq := mockOllama(t, 4)
	svc, err := NewOllamaService(srv.URL, "custom-model")
	require.NoError(t, err)

	_, err = svc.Embed(context.Background(), "plain text")
	require.NoError(t, err)
	assert.Equal(t, "plain text", lastReq.Input[0])
}

func TestOllamaDimensionsUpdateFromResponse(t *testing.T) {
	srv, _ := mockOllama(t, 384)
	svc, err := NewOllamaService(srv.URL, "custom-model")
	require.NoError(t, err)
	assert.Equal(t, 768, svc.Dimensions(), "default before first call")

	_, err = svc.Embed(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, 384, svc.Dimensions())
}

func TestOllamaServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	svc, err := NewOllamaService(srv.URL, "nomic-embed-text")
	require.NoError(t, err)

	_, err = svc.Embed(context.Background(), "text")
	assert.Error(t, err)
}

func TestOllamaEmbedBatchEmpty(t *testing.T) {
	svc, err := NewOllamaService("http://localhost:1", "nomic-embed-text")
	require.NoError(t, err)

	vecs, err := svc.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vecs)
}

func TestGetModelDimensions(t *testing.T) {
	assert.Equal(t, 768, GetModelDimensions("nomic-embed-text"))
	assert.Equal(t, 1536, GetModelDimensions("text-embedding-3-small"))
	assert.Equal(t, 0, GetModelDimensions("unheard-of"))
}
