package vecindex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMetadataFresh(t *testing.T) {
	dir := t.TempDir()

	m, err := LoadMetadata(dir)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Count())
	assert.Equal(t, IndexVersion, m.IndexVersion)
	assert.False(t, m.Contains("anything"))
}

func TestMetadataSaveLoadRoundtrip(t *testing.T) {
	dir := t.TempDir()

	m, err := LoadMetadata(dir)
	require.NoError(t, err)

	m.MarkSeen("a.pdf::0", "a.pdf::1", "deadbeef")
	require.NoError(t, m.Save())

	loaded, err := LoadMetadata(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Count())
	assert.True(t, loaded.Contains("a.pdf::0"))
	assert.True(t, loaded.Contains("deadbeef"))
	assert.False(t, loaded.Contains("a.pdf::2"))
	assert.Equal(t, m.CreatedAt.Unix(), loaded.CreatedAt.Unix())
}

func TestMarkSeenIsMemoryOnly(t *testing.T) {
	dir := t.TempDir()

	m, err := LoadMetadata(dir)
	require.NoError(t, err)
	m.MarkSeen("a.pdf::0")

	// No Save, so a reload sees nothing.
	loaded, err := LoadMetadata(dir)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Count())
}

func TestLoadMetadataCorrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, MetadataFileName)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadMetadata(dir)
	assert.ErrorIs(t, err, ErrMetadataCorrupt)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()

	m, err := LoadMetadata(dir)
	require.NoError(t, err)
	m.MarkSeen("x")
	require.NoError(t, m.Save())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, MetadataFileName, entries[0].Name())
}
