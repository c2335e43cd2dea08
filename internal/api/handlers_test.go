package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuport/docuport/internal/analyzer"
	"github.com/docuport/docuport/internal/comparator"
	"github.com/docuport/docuport/internal/config"
	"github.com/docuport/docuport/internal/docstore"
	"github.com/docuport/docuport/internal/vecindex"
)

type fakeAnalyzer struct {
	gotText string
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, text string) (*analyzer.Analysis, error) {
	f.gotText = text
	return &analyzer.Analysis{Title: "Test Doc", Summary: "A test."}, nil
}

type fakeComparator struct{}

func (fakeComparator) Compare(ctx context.Context, reference, actual string) ([]comparator.PageChange, error) {
	return []comparator.PageChange{{Page: "1", Change: "No change"}}, nil
}

type fakeChat struct {
	ingested map[string][]string
	answer   string
	queryErr error
}

func newFakeChat() *fakeChat {
	return &fakeChat{ingested: make(map[string][]string), answer: "forty-two"}
}

func (f *fakeChat) Ingest(ctx context.Context, sessionID string, paths []string) (int, error) {
	f.ingested[sessionID] = append(f.ingested[sessionID], paths...)
	return len(paths), nil
}

func (f *fakeChat) Query(ctx context.Context, sessionID, question string) (string, error) {
	if f.queryErr != nil {
		return "", f.queryErr
	}
	return f.answer, nil
}

func (f *fakeChat) Sessions() int { return len(f.ingested) }
func (f *fakeChat) Close() error  { return nil }

func testServer(t *testing.T) (*Server, *fakeAnalyzer, *fakeChat) {
	t.Helper()
	docs, err := docstore.New(t.TempDir())
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Ingest.MaxFileSize = 10 * 1024 * 1024

	an := &fakeAnalyzer{}
	chat := newFakeChat()
	return NewServer(cfg, docs, an, fakeComparator{}, chat, "test"), an, chat
}

func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for field, content := range files {
		w, err := mw.CreateFormFile(field, field+".txt")
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func TestHandleAnalyze(t *testing.T) {
	srv, an, _ := testServer(t)
	router := srv.Router()

	body, contentType := multipartBody(t, nil, map[string]string{"file": "document body text"})
	req := httptest.NewRequest("POST", "/api/v1/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "document body text", an.gotText)

	var resp struct {
		SessionID string            `json:"session_id"`
		Analysis  analyzer.Analysis `json:"analysis"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "Test Doc", resp.Analysis.Title)
}

func TestHandleAnalyzeMissingFile(t *testing.T) {
	srv, _, _ := testServer(t)
	router := srv.Router()

	body, contentType := multipartBody(t, map[string]string{"other": "x"}, nil)
	req := httptest.NewRequest("POST", "/api/v1/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCompare(t *testing.T) {
	srv, _, _ := testServer(t)
	router := srv.Router()

	body, contentType := multipartBody(t, nil, map[string]string{
		"reference": "version one",
		"actual":    "version two",
	})
	req := httptest.NewRequest("POST", "/api/v1/compare", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Changes []comparator.PageChange `json:"changes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Changes, 1)
	assert.Equal(t, "No change", resp.Changes[0].Change)
}

func TestHandleChatIngestAndQuery(t *testing.T) {
	srv, _, chat := testServer(t)
	router := srv.Router()

	body, contentType := multipartBody(t, nil, map[string]string{"files": "chunked text"})
	req := httptest.NewRequest("POST", "/api/v1/chat/ingest", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var ingestResp struct {
		SessionID string `json:"session_id"`
		Added     int    `json:"added"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ingestResp))
	assert.NotEmpty(t, ingestResp.SessionID)
	assert.Len(t, chat.ingested[ingestResp.SessionID], 1)

	queryBody := fmt.Sprintf(`{"session_id": %q, "question": "what is it?"}`, ingestResp.SessionID)
	req = httptest.NewRequest("POST", "/api/v1/chat/query", strings.NewReader(queryBody))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var queryResp struct {
		Answer string `json:"answer"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &queryResp))
	assert.Equal(t, "forty-two", queryResp.Answer)
}

func TestHandleChatQueryNoIndex(t *testing.T) {
	srv, _, chat := testServer(t)
	chat.queryErr = fmt.Errorf("wrapped: %w", vecindex.ErrIndexNotFound)
	router := srv.Router()

	req := httptest.NewRequest("POST", "/api/v1/chat/query",
		strings.NewReader(`{"session_id": "s1", "question": "hi"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleChatQueryValidation(t *testing.T) {
	srv, _, _ := testServer(t)
	router := srv.Router()

	req := httptest.NewRequest("POST", "/api/v1/chat/query", strings.NewReader(`{"question": "hi"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest("POST", "/api/v1/chat/query", strings.NewReader("not json"))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleStatusAndHealth(t *testing.T) {
	srv, _, _ := testServer(t)
	router := srv.Router()

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest("GET", "/api/v1/status", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var status map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "test", status["version"])
}
