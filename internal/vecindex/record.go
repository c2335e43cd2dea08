// Package vecindex manages an incremental vector index over document
// chunks: content-fingerprint deduplication, persisted ingestion state,
// and crash-safe write ordering.
package vecindex

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Metadata keys that identify a record's origin within a document.
const (
	MetaSource = "source"
	MetaRowID  = "row_id"
)

// Record is one chunk of document text with its origin metadata.
type Record struct {
	Text     string
	Metadata map[string]string
}

// FingerprintOf derives a record's stable identity. Records carrying both
// source and row_id metadata are identified by position, so edited text at
// the same position replays as already-seen; records without them are
// identified by a digest of their text. Never empty, even for an empty
// record.
func FingerprintOf(r Record) string {
	source, hasSource := r.Metadata[MetaSource]
	rowID, hasRow := r.Metadata[MetaRowID]
	if hasSource && hasRow {
		return fmt.Sprintf("%s::%s", source, rowID)
	}
	sum := sha256.Sum256([]byte(r.Text))
	return hex.EncodeToString(sum[:])
}
