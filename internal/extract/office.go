package extract

import (
	"fmt"
	"strings"

	"github.com/lu4p/cat"
)

// Office extracts text from ODT and RTF files.
func Office(path string) (string, error) {
	text, err := cat.File(path)
	if err != nil {
		return "", fmt.Errorf("extracting %s: %w", path, err)
	}
	out := strings.TrimSpace(text)
	if out == "" {
		return "", fmt.Errorf("no extractable text in %s", path)
	}
	return out, nil
}
