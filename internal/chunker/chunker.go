// Package chunker splits extracted document text into overlapping chunks
// sized for embedding.
package chunker

import "strings"

// Chunker splits text into chunks of roughly Size characters with Overlap
// characters carried between consecutive chunks. Splits prefer paragraph
// boundaries, then line boundaries, then word boundaries.
type Chunker struct {
	Size    int
	Overlap int
}

// New returns a chunker with the given size and overlap. Overlap is capped
// below size so progress is always made.
func New(size, overlap int) *Chunker {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 2
	}
	return &Chunker{Size: size, Overlap: overlap}
}

// Split chunks the given text. Empty or whitespace-only text yields no
// chunks.
func (c *Chunker) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= c.Size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + c.Size
		if end >= len(text) {
			chunk := strings.TrimSpace(text[start:])
			if chunk != "" {
				chunks = append(chunks, chunk)
			}
			break
		}

		cut := findBreak(text, start, end)
		chunk := strings.TrimSpace(text[start:cut])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := cut - c.Overlap
		if next <= start {
			next = cut
		}
		start = next
	}
	return chunks
}

// findBreak picks the best split point in text[start:end], searching the
// tail of the window for a paragraph break, then a newline, then a space.
func findBreak(text string, start, end int) int {
	window := text[start:end]
	searchFrom := len(window) / 2

	if i := strings.LastIndex(window[searchFrom:], "\n\n"); i >= 0 {
		return start + searchFrom + i + 2
	}
	if i := strings.LastIndex(window[searchFrom:], "\n"); i >= 0 {
		return start + searchFrom + i + 1
	}
	if i := strings.LastIndex(window[searchFrom:], " "); i >= 0 {
		return start + searchFrom + i + 1
	}
	return end
}
