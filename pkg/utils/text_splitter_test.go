package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTextShortInputSingleChunk(t *testing.T) {
	chunks := SplitText("short text", 1000, 100)
	require.Len(t, chunks, 1)
	assert.Equal(t, "short text", chunks[0])
}

func TestSplitTextProducesMultipleChunks(t *testing.T) {
	text := strings.Repeat("word ", 500) // 2500 chars
	chunks := SplitText(text, 1000, 100)

	assert.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 1000)
		assert.NotEmpty(t, c)
	}
}

func TestSplitTextPrefersSentenceBoundary(t *testing.T) {
	text := strings.Repeat("This is a sentence. ", 20) // 400 chars
	chunks := SplitText(text, 100, 20)

	require.Greater(t, len(chunks), 1)
	// every non-final chunk ends on a sentence boundary, not mid-word
	for _, c := range chunks[:len(chunks)-1] {
		trimmed := strings.TrimRight(c, " ")
		assert.True(t, strings.HasSuffix(trimmed, "."), "chunk should end at a sentence: %q", c)
	}
}

func TestSplitTextCoversWholeInput(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta. ", 100)
	chunks := SplitText(text, 200, 40)

	// with overlap, concatenated chunks must contain every position of the input
	assert.True(t, strings.HasPrefix(chunks[0], "alpha"))
	last := chunks[len(chunks)-1]
	assert.True(t, strings.HasSuffix(text, last))
}

func TestSplitTextOverlapLargerThanChunk(t *testing.T) {
	text := strings.Repeat("x", 500)
	chunks := SplitText(text, 100, 100) // degenerate overlap falls back to full steps
	assert.NotEmpty(t, chunks)
	assert.LessOrEqual(t, len(chunks), 10)
}
