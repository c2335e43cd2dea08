package watcher

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingIngester struct {
	mu    sync.Mutex
	files []string
}

func (r *recordingIngester) File(ctx context.Context, path string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, path)
	return 1, nil
}

func (r *recordingIngester) got() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.files))
	copy(out, r.files)
	return out
}

func TestNewValidatesDir(t *testing.T) {
	_, err := New("/does/not/exist", &recordingIngester{}, time.Second)
	assert.Error(t, err)
}

func TestFlushPendingWaitsForDebounce(t *testing.T) {
	ing := &recordingIngester{}
	w, err := New(t.TempDir(), ing, 50*time.Millisecond)
	require.NoError(t, err)

	w.pending["/drop/doc.pdf"] = time.Now()
	w.flushPending(context.Background())
	assert.Empty(t, ing.got(), "still inside debounce window")

	w.pending["/drop/doc.pdf"] = time.Now().Add(-time.Second)
	w.flushPending(context.Background())
	assert.Equal(t, []string{"/drop/doc.pdf"}, ing.got())
	assert.Empty(t, w.pending)
}

func TestFlushPendingOnlyReadyFiles(t *testing.T) {
	ing := &recordingIngester{}
	w, err := New(t.TempDir(), ing, 50*time.Millisecond)
	require.NoError(t, err)

	w.pending["/drop/old.pdf"] = time.Now().Add(-time.Second)
	w.pending["/drop/fresh.pdf"] = time.Now()
	w.flushPending(context.Background())

	assert.Equal(t, []string{"/drop/old.pdf"}, ing.got())
	assert.Len(t, w.pending, 1)
}
