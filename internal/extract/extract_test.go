package extract

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupported(t *testing.T) {
	assert.True(t, Supported("report.pdf"))
	assert.True(t, Supported("REPORT.PDF"))
	assert.True(t, Supported("notes.md"))
	assert.True(t, Supported("doc.docx"))
	assert.False(t, Supported("archive.zip"))
	assert.False(t, Supported("binary"))
}

func TestPlain(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello\nworld"), 0o644))

	text, err := Plain(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld", text)
}

func TestDispatcherUnsupported(t *testing.T) {
	_, err := New().Text("file.xyz")
	assert.Error(t, err)
}

func writeTestDOCX(t *testing.T, documentXML string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.docx")

	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)

	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)

	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestDOCX(t *testing.T) {
	path := writeTestDOCX(t, `<?xml version="1.0"?>
<w:document><w:body>
<w:p><w:r><w:t>Hello </w:t></w:r><w:r><w:t xml:space="preserve">world</w:t></w:r></w:p>
<w:p><w:r><w:t>Second &amp; final</w:t></w:r></w:p>
</w:body></w:document>`)

	text, err := DOCX(path)
	require.NoError(t, err)
	assert.Contains(t, text, "Hello world")
	assert.Contains(t, text, "Second & final")
}

func TestDOCXMissingDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	_, err = DOCX(path)
	assert.Error(t, err)
}

func TestDOCXEmptyBody(t *testing.T) {
	path := writeTestDOCX(t, `<w:document><w:body></w:body></w:document>`)
	_, err := DOCX(path)
	assert.Error(t, err)
}
