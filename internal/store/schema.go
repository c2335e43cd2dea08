package store

import (
	"database/sql"
	"fmt"
)

const schemaVersion = 1

// initSchema creates the chunk table and schema bookkeeping. The vec0
// virtual table is created lazily on first Append, once the embedding
// dimension is known.
func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_info (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS chunks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			fingerprint TEXT NOT NULL,
			text TEXT NOT NULL,
			metadata TEXT NOT NULL DEFAULT '{}'
		);
		CREATE INDEX IF NOT EXISTS idx_chunks_fingerprint ON chunks(fingerprint);
	`)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	_, err = db.Exec(
		`INSERT OR IGNORE INTO schema_info (key, value) VALUES ('version', ?)`,
		fmt.Sprintf("%d", schemaVersion),
	)
	if err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}
	return nil
}

// ensureVecTable creates the vec0 virtual table for the given embedding
// dimension if it does not exist yet.
func ensureVecTable(db *sql.DB, dimensions int) error {
	query := fmt.Sprintf(`
		CREATE VIRTUAL TABLE IF NOT EXISTS chunk_vectors USING vec0(
			embedding float[%d] distance_metric=cosine
		)`, dimensions)
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("creating vector table: %w", err)
	}
	return nil
}

// vecTableExists reports whether the vec0 table has been created.
func vecTableExists(db *sql.DB) (bool, error) {
	var name string
	err := db.QueryRow(
		`SELECT name FROM sqlite_master WHERE type='table' AND name='chunk_vectors'`,
	).Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking vector table: %w", err)
	}
	return true, nil
}
