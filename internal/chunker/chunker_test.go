package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitEmpty(t *testing.T) {
	c := New(1000, 200)
	assert.Nil(t, c.Split(""))
	assert.Nil(t, c.Split("   \n  "))
}

func TestSplitShortText(t *testing.T) {
	c := New(1000, 200)
	chunks := c.Split("a short document")
	require.Len(t, chunks, 1)
	assert.Equal(t, "a short document", chunks[0])
}

func TestSplitLongText(t *testing.T) {
	c := New(100, 20)

	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString("word word word word word\n")
	}
	chunks := c.Split(sb.String())

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 100)
		assert.NotEmpty(t, strings.TrimSpace(chunk))
	}
}

func TestSplitPrefersParagraphBreaks(t *testing.T) {
	c := New(60, 0)
	text := strings.Repeat("x", 40) + "\n\n" + strings.Repeat("y", 40)

	chunks := c.Split(text)
	require.Len(t, chunks, 2)
	assert.Equal(t, strings.Repeat("x", 40), chunks[0])
	assert.Equal(t, strings.Repeat("y", 40), chunks[1])
}

func TestSplitCoversAllContent(t *testing.T) {
	c := New(80, 20)
	text := strings.Repeat("alpha beta gamma delta ", 30)

	chunks := c.Split(text)
	joined := strings.Join(chunks, " ")
	assert.Contains(t, joined, "alpha beta gamma delta")

	// Overlap means totals can exceed the input, never undershoot much.
	total := 0
	for _, chunk := range chunks {
		total += len(chunk)
	}
	assert.GreaterOrEqual(t, total, len(strings.TrimSpace(text))-c.Size)
}

func TestNewGuardsAgainstBadArgs(t *testing.T) {
	c := New(0, -5)
	assert.Equal(t, 1000, c.Size)
	assert.Equal(t, 0, c.Overlap)

	c = New(100, 200)
	assert.Less(t, c.Overlap, c.Size)
}
