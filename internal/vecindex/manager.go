package vecindex

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/docuport/docuport/internal/store"
)

// Embedder produces one vector per input text, in input order.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Manager owns incremental ingestion into one index directory. It is the
// single writer for that directory; concurrent Managers over the same
// directory are not supported. Reads through the store backend may run
// concurrently.
type Manager struct {
	mu       sync.Mutex
	dir      string
	backend  store.Backend
	embedder Embedder
	meta     *Metadata

	// BatchSize caps how many texts go to the embedder per call.
	BatchSize int
}

// Open loads or creates the index state in dir. The backend must live in
// the same directory so index and metadata travel together.
func Open(dir string, backend store.Backend, embedder Embedder) (*Manager, error) {
	meta, err := LoadMetadata(dir)
	if err != nil {
		return nil, err
	}
	return &Manager{
		dir:       dir,
		backend:   backend,
		embedder:  embedder,
		meta:      meta,
		BatchSize: 64,
	}, nil
}

// Dir returns the index directory.
func (m *Manager) Dir() string { return m.dir }

// SeenCount returns the number of ingested fingerprints.
func (m *Manager) SeenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.meta.Count()
}

// AddRecords ingests a batch, skipping records whose fingerprint has been
// seen before, and returns how many new records were added. Within a
// batch, the first occurrence of a fingerprint wins. The write order is
// fixed: vectors are persisted before fingerprints are marked, so a crash
// in between can duplicate a vector on retry but never lose one.
func (m *Manager) AddRecords(ctx context.Context, records []Record) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var (
		fresh        []Record
		fingerprints []string
	)
	inBatch := make(map[string]struct{})
	for _, r := range records {
		fp := FingerprintOf(r)
		if m.meta.Contains(fp) {
			continue
		}
		if _, dup := inBatch[fp]; dup {
			continue
		}
		inBatch[fp] = struct{}{}
		fresh = append(fresh, r)
		fingerprints = append(fingerprints, fp)
	}

	if len(fresh) == 0 {
		log.Debug("all records already ingested", "batch", len(records))
		return 0, nil
	}

	vectors, err := m.embedAll(ctx, fresh)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrEmbeddingService, err)
	}

	payloads := make([]store.Payload, len(fresh))
	for i, r := range fresh {
		payloads[i] = store.Payload{
			Fingerprint: fingerprints[i],
			Text:        r.Text,
			Metadata:    r.Metadata,
		}
	}
	if err := m.backend.Append(vectors, payloads); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrIndexPersist, err)
	}

	// Vectors are durable; now, and only now, record them as seen.
	m.meta.MarkSeen(fingerprints...)
	if err := m.meta.Save(); err != nil {
		return 0, fmt.Errorf("%w: saving metadata: %v", ErrIndexPersist, err)
	}

	log.Debug("records ingested", "added", len(fresh), "skipped", len(records)-len(fresh))
	return len(fresh), nil
}

func (m *Manager) embedAll(ctx context.Context, records []Record) ([][]float32, error) {
	batchSize := m.BatchSize
	if batchSize <= 0 {
		batchSize = 64
	}

	vectors := make([][]float32, 0, len(records))
	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		texts := make([]string, 0, end-start)
		for _, r := range records[start:end] {
			texts = append(texts, r.Text)
		}
		batch, err := m.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, err
		}
		if len(batch) != len(texts) {
			return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(batch), len(texts))
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

// Close releases the backend.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.backend.Close()
}
