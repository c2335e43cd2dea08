// Package docstore archives uploaded documents under session-scoped
// directories so analysis, comparison, and chat ingestion can reference
// them by session id.
package docstore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// Upload is the capability a caller hands to the store: a name to file the
// document under and a reader for its bytes.
type Upload interface {
	Filename() string
	Read(p []byte) (int, error)
}

// FileUpload adapts an open file or buffer into an Upload.
type FileUpload struct {
	Name string
	R    io.Reader
}

func (u *FileUpload) Filename() string { return u.Name }

func (u *FileUpload) Read(p []byte) (int, error) { return u.R.Read(p) }

// Store is a session-scoped document archive rooted at a data directory.
type Store struct {
	root string
}

// New returns a store rooted at dir, creating it if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &Store{root: dir}, nil
}

// NewSession creates a fresh session directory and returns its id.
// Ids embed a timestamp so directory listings sort chronologically.
func (s *Store) NewSession() (string, error) {
	id := fmt.Sprintf("session_%s_%s",
		time.Now().Format("20060102_150405"),
		strings.Split(uuid.NewString(), "-")[0])
	if err := os.MkdirAll(s.SessionDir(id), 0o755); err != nil {
		return "", fmt.Errorf("creating session dir: %w", err)
	}
	return id, nil
}

// SessionDir returns the directory for a session id.
func (s *Store) SessionDir(sessionID string) string {
	return filepath.Join(s.root, sessionID)
}

// SessionExists reports whether the session directory exists.
func (s *Store) SessionExists(sessionID string) bool {
	info, err := os.Stat(s.SessionDir(sessionID))
	return err == nil && info.IsDir()
}

// Save writes an upload into the session directory and returns the stored
// path. The filename is flattened to its base name.
func (s *Store) Save(sessionID string, up Upload) (string, error) {
	dir := s.SessionDir(sessionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating session dir: %w", err)
	}

	name := filepath.Base(up.Filename())
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("invalid upload filename %q", up.Filename())
	}
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, up); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// List returns the stored file paths for a session, sorted by name.
func (s *Store) List(sessionID string) ([]string, error) {
	entries, err := os.ReadDir(s.SessionDir(sessionID))
	if err != nil {
		return nil, fmt.Errorf("listing session %s: %w", sessionID, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(s.SessionDir(sessionID), e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// HashFile returns the xxhash of a file's contents as a 16-char hex string,
// used to detect re-uploads of identical documents.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}
