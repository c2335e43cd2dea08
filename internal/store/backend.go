// Package store persists embedded document chunks and serves similarity
// search over them. The default backend keeps everything in a single
// SQLite database with the sqlite-vec extension inside the index
// directory.
package store

// Payload is the chunk data stored alongside its vector.
type Payload struct {
	Fingerprint string
	Text        string
	Metadata    map[string]string
}

// Hit is a single search result.
type Hit struct {
	Payload  Payload
	Distance float64
	Score    float64
}

// Backend is the vector index storage the index manager and retrieval
// layer run on. Append must be atomic: either every vector in the call is
// durably stored or none are.
type Backend interface {
	Append(vectors [][]float32, payloads []Payload) error
	Search(query []float32, k int) ([]Hit, error)
	Count() (int, error)
	Close() error
}
