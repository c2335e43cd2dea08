package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockOllamaChat(t *testing.T, reply string) (*httptest.Server, *ollamaChatRequest) {
	t.Helper()
	var lastReq ollamaChatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&lastReq))
		json.NewEncoder(w).Encode(ollamaChatResponse{
			Message: ollamaMessage{Role: "assistant", Content: reply},
			Done:    true,
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &lastReq
}

func TestOllamaComplete(t *testing.T) {
	srv, lastReq := mockOllamaChat(t, "hello back")
	svc, err := NewOllamaService(srv.URL, "llama3.2")
	require.NoError(t, err)

	out, err := svc.Complete(context.Background(), []Message{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "hello"},
	}, DefaultCompletionOptions())
	require.NoError(t, err)
	assert.Equal(t, "hello back", out)

	require.Len(t, lastReq.Messages, 2)
	assert.Equal(t, "system", lastReq.Messages[0].Role)
	assert.False(t, lastReq.Stream)
	assert.Empty(t, lastReq.Format)
}

func TestOllamaCompleteJSONMode(t *testing.T) {
	srv, lastReq := mockOllamaChat(t, `{"ok": true}`)
	svc, err := NewOllamaService(srv.URL, "llama3.2")
	require.NoError(t, err)

	opts := DefaultCompletionOptions()
	opts.JSONMode = true

	out, err := svc.Complete(context.Background(), []Message{{Role: "user", Content: "give json"}}, opts)
	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, out)
	assert.Equal(t, "json", lastReq.Format)
}

func TestOllamaCompleteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc, err := NewOllamaService(srv.URL, "llama3.2")
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}}, DefaultCompletionOptions())
	assert.Error(t, err)
}

func TestOllamaCompleteStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		enc := json.NewEncoder(w)
		enc.Encode(ollamaChatResponse{Message: ollamaMessage{Content: "chunk one "}})
		enc.Encode(ollamaChatResponse{Message: ollamaMessage{Content: "chunk two"}, Done: true})
	}))
	defer srv.Close()

	svc, err := NewOllamaService(srv.URL, "llama3.2")
	require.NoError(t, err)

	contentCh, errCh := svc.CompleteStream(context.Background(), []Message{{Role: "user", Content: "hi"}}, DefaultCompletionOptions())

	var got string
	for chunk := range contentCh {
		got += chunk
	}
	require.NoError(t, <-errCh)
	assert.Equal(t, "chunk one chunk two", got)
}

func TestAnthropicJSONModeInstruction(t *testing.T) {
	svc, err := NewAnthropicService("test-key", "claude-sonnet-4-5")
	require.NoError(t, err)

	opts := DefaultCompletionOptions()
	opts.JSONMode = true
	req := svc.buildRequest([]Message{
		{Role: "system", Content: "analyze documents"},
		{Role: "user", Content: "go"},
	}, opts, false)

	assert.Contains(t, req.System, "analyze documents")
	assert.Contains(t, req.System, "valid JSON object")
	require.Len(t, req.Messages, 1)
	assert.Equal(t, "user", req.Messages[0].Role)
}

func TestProviderConstructorsRequireKeys(t *testing.T) {
	_, err := NewOllamaService("", "m")
	require.NoError(t, err)

	_, err = NewAnthropicService("", "m")
	assert.Error(t, err, "missing API key")

	_, err = NewOpenAIService("", "m")
	assert.Error(t, err, "missing API key")
}
