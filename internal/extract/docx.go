package extract

import (
	"archive/zip"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// DOCX is parsed by hand from the OOXML zip. Generic converters choke on
// documents produced by non-Word tooling, so we read word/document.xml
// directly and decode the <w:t> runs ourselves.

var (
	wtTag      = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)
	wParaClose = regexp.MustCompile(`</w:p>`)
)

// DOCX extracts text from a .docx file.
func DOCX(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("opening docx %s: %w", path, err)
	}
	defer zr.Close()

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("%s: no word/document.xml entry", path)
	}

	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("reading document.xml: %w", err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("reading document.xml: %w", err)
	}

	// Paragraph boundaries become newlines before text runs are collected.
	xmlText := wParaClose.ReplaceAllString(string(raw), "\n")

	var sb strings.Builder
	for _, m := range wtTag.FindAllStringSubmatch(xmlText, -1) {
		sb.WriteString(decodeXMLEntities(m[1]))
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", fmt.Errorf("no extractable text in %s", path)
	}
	return out, nil
}

func decodeXMLEntities(s string) string {
	r := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
	)
	return r.Replace(s)
}
