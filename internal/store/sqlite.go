package store

import (
	"bytes"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
)

func init() {
	sqlite_vec.Auto()
}

// DatabaseFileName is the backend's database file inside the index
// directory.
const DatabaseFileName = "vectors.db"

// SQLiteBackend stores vectors and payloads in a single SQLite database
// with the sqlite-vec extension.
type SQLiteBackend struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the backend database inside the given index
// directory.
func Open(indexDir string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(indexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index dir: %w", err)
	}
	path := filepath.Join(indexDir, DatabaseFileName)

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteBackend{db: db, path: path}, nil
}

// Exists reports whether an index backend database is present in dir.
func Exists(indexDir string) bool {
	info, err := os.Stat(filepath.Join(indexDir, DatabaseFileName))
	return err == nil && !info.IsDir()
}

// Append stores the vectors and payloads in one transaction. The commit is
// the durability point: a crash before it leaves the index unchanged.
func (s *SQLiteBackend) Append(vectors [][]float32, payloads []Payload) error {
	if len(vectors) != len(payloads) {
		return fmt.Errorf("vector/payload count mismatch: %d != %d", len(vectors), len(payloads))
	}
	if len(vectors) == 0 {
		return nil
	}
	if err := ensureVecTable(s.db, len(vectors[0])); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	chunkStmt, err := tx.Prepare(
		`INSERT INTO chunks (fingerprint, text, metadata) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing chunk insert: %w", err)
	}
	defer chunkStmt.Close()

	vecStmt, err := tx.Prepare(
		`INSERT INTO chunk_vectors (rowid, embedding) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing vector insert: %w", err)
	}
	defer vecStmt.Close()

	for i, p := range payloads {
		meta, err := json.Marshal(p.Metadata)
		if err != nil {
			return fmt.Errorf("encoding metadata: %w", err)
		}
		res, err := chunkStmt.Exec(p.Fingerprint, p.Text, string(meta))
		if err != nil {
			return fmt.Errorf("inserting chunk: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading chunk id: %w", err)
		}
		blob, err := serializeEmbedding(vectors[i])
		if err != nil {
			return err
		}
		if _, err := vecStmt.Exec(id, blob); err != nil {
			return fmt.Errorf("inserting vector: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing append: %w", err)
	}
	return nil
}

// Search returns the k nearest chunks to the query vector, best first.
// An index with no vectors yet returns no hits.
func (s *SQLiteBackend) Search(query []float32, k int) ([]Hit, error) {
	if k < 1 {
		return nil, fmt.Errorf("k must be >= 1, got %d", k)
	}
	exists, err := vecTableExists(s.db)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	blob, err := serializeEmbedding(query)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT c.fingerprint, c.text, c.metadata, cv.distance
		FROM chunk_vectors cv
		JOIN chunks c ON c.id = cv.rowid
		WHERE cv.embedding MATCH ? AND k = ?
		ORDER BY cv.distance`,
		blob, k)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		var metaJSON string
		if err := rows.Scan(&h.Payload.Fingerprint, &h.Payload.Text, &metaJSON, &h.Distance); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		if err := json.Unmarshal([]byte(metaJSON), &h.Payload.Metadata); err != nil {
			return nil, fmt.Errorf("decoding metadata: %w", err)
		}
		// Cosine distance is in [0,2]; score 1-distance puts identical
		// vectors at 1.0 and orthogonal ones at 0.
		h.Score = 1 - h.Distance
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// Count returns the number of stored chunks.
func (s *SQLiteBackend) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM chunks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (s *SQLiteBackend) Close() error {
	return s.db.Close()
}

// serializeEmbedding converts a float32 slice to the little-endian blob
// sqlite-vec expects.
func serializeEmbedding(embedding []float32) ([]byte, error) {
	buf := new(bytes.Buffer)
	for _, v := range embedding {
		if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
			return nil, fmt.Errorf("serializing embedding: %w", err)
		}
	}
	return buf.Bytes(), nil
}
