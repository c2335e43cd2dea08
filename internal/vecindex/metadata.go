package vecindex

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// MetadataFileName is the ingestion-state file inside the index directory.
const MetadataFileName = "ingested_meta.json"

// IndexVersion is written into new metadata files.
const IndexVersion = 1

// Metadata tracks which record fingerprints have been ingested into an
// index. Because fingerprints are only marked after vectors are durably
// persisted, a fingerprint present here always has its vector in the
// index; the converse may briefly not hold after a crash, which costs a
// duplicate vector, never a lost one.
type Metadata struct {
	dir  string
	seen map[string]struct{}

	CreatedAt    time.Time
	IndexVersion int
}

type metadataFile struct {
	SeenFingerprints []string  `json:"seen_fingerprints"`
	CreatedAt        time.Time `json:"created_at"`
	IndexVersion     int       `json:"index_version"`
}

// LoadMetadata reads the metadata file from the index directory. A missing
// file yields a fresh empty state; an unreadable file is ErrMetadataAccess
// and an undecodable one ErrMetadataCorrupt.
func LoadMetadata(indexDir string) (*Metadata, error) {
	m := &Metadata{
		dir:          indexDir,
		seen:         make(map[string]struct{}),
		CreatedAt:    time.Now().UTC(),
		IndexVersion: IndexVersion,
	}

	path := filepath.Join(indexDir, MetadataFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrMetadataAccess, path, err)
	}

	var f metadataFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrMetadataCorrupt, path, err)
	}

	for _, fp := range f.SeenFingerprints {
		m.seen[fp] = struct{}{}
	}
	if !f.CreatedAt.IsZero() {
		m.CreatedAt = f.CreatedAt
	}
	if f.IndexVersion != 0 {
		m.IndexVersion = f.IndexVersion
	}
	return m, nil
}

// Contains reports whether a fingerprint has been ingested.
func (m *Metadata) Contains(fingerprint string) bool {
	_, ok := m.seen[fingerprint]
	return ok
}

// MarkSeen records fingerprints in memory only. Save makes them durable.
func (m *Metadata) MarkSeen(fingerprints ...string) {
	for _, fp := range fingerprints {
		m.seen[fp] = struct{}{}
	}
}

// Count returns the number of ingested fingerprints.
func (m *Metadata) Count() int {
	return len(m.seen)
}

// Save writes the metadata file crash-atomically: the full state goes to a
// temp file in the same directory, then replaces the old file by rename.
func (m *Metadata) Save() error {
	fps := make([]string, 0, len(m.seen))
	for fp := range m.seen {
		fps = append(fps, fp)
	}
	sort.Strings(fps)

	data, err := json.MarshalIndent(metadataFile{
		SeenFingerprints: fps,
		CreatedAt:        m.CreatedAt,
		IndexVersion:     m.IndexVersion,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding metadata: %v", ErrMetadataAccess, err)
	}

	path := filepath.Join(m.dir, MetadataFileName)
	tmp, err := os.CreateTemp(m.dir, MetadataFileName+".tmp*")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %v", ErrMetadataAccess, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: writing temp file: %v", ErrMetadataAccess, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: syncing temp file: %v", ErrMetadataAccess, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: closing temp file: %v", ErrMetadataAccess, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replacing %s: %v", ErrMetadataAccess, path, err)
	}
	return nil
}
