package vecindex

import "errors"

// Sentinel errors for index operations. Callers branch on these with
// errors.Is; the wrapped chain carries the underlying cause.
var (
	// ErrMetadataAccess means the metadata file exists but could not be
	// read or written.
	ErrMetadataAccess = errors.New("index metadata access failed")

	// ErrMetadataCorrupt means the metadata file was read but could not
	// be decoded.
	ErrMetadataCorrupt = errors.New("index metadata corrupt")

	// ErrEmbeddingService means the embedding provider failed. Nothing
	// was written to disk; the batch can be retried.
	ErrEmbeddingService = errors.New("embedding service failed")

	// ErrIndexPersist means persisting vectors or metadata failed. Seen
	// fingerprints were not updated; the batch can be retried.
	ErrIndexPersist = errors.New("index persist failed")

	// ErrIndexNotFound means no index exists at the given directory.
	ErrIndexNotFound = errors.New("index not found")
)
