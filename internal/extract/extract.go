// Package extract pulls plain text out of documents in the formats the
// portal accepts: PDF, DOCX, ODT, RTF, TXT, Markdown, and CSV.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extractor converts a document file into plain text.
type Extractor interface {
	Text(path string) (string, error)
}

// SupportedExtensions lists the file extensions extract understands.
var SupportedExtensions = []string{".pdf", ".docx", ".odt", ".rtf", ".txt", ".md", ".markdown", ".csv"}

// Supported reports whether the given filename has a supported extension.
func Supported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

type dispatcher struct{}

// New returns the default extractor, dispatching on file extension.
func New() Extractor {
	return dispatcher{}
}

func (dispatcher) Text(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return PDF(path)
	case ".docx":
		return DOCX(path)
	case ".odt", ".rtf":
		return Office(path)
	case ".txt", ".md", ".markdown", ".csv":
		return Plain(path)
	default:
		return "", fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
}

// Plain reads a text-based file as-is.
func Plain(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
