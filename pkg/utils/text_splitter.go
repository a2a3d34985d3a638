package utils

import "strings"

// SplitText splits a long string into chunks of approximately 'chunkSize' characters
// with an 'overlap' to preserve context at boundaries. Each chunk tries to end on a
// paragraph, sentence, or word boundary (in that preference order) so that no chunk
// cuts a sentence in half unless there is no boundary within the lookback window.
func SplitText(text string, chunkSize int, overlap int) []string {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	runes := []rune(text)
	totalLen := len(runes)
	if totalLen <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize // fallback if overlap >= chunkSize
	}

	var chunks []string
	for start := 0; start < totalLen; {
		end := start + chunkSize
		if end >= totalLen {
			chunks = append(chunks, string(runes[start:totalLen]))
			break
		}

		cut := findBoundary(runes, start, end)
		chunks = append(chunks, string(runes[start:cut]))

		next := cut - overlap
		if next <= start {
			next = start + step
		}
		start = next
	}

	return chunks
}

// findBoundary scans backward from 'end' (exclusive) looking for a natural break.
// The lookback window is a quarter of the chunk; past that we cut mid-word rather
// than produce wildly undersized chunks.
func findBoundary(runes []rune, start, end int) int {
	window := (end - start) / 4
	limit := end - window
	if limit < start+1 {
		limit = start + 1
	}

	// Paragraph break
	for i := end - 1; i >= limit; i-- {
		if runes[i] == '\n' && i > 0 && runes[i-1] == '\n' {
			return i + 1
		}
	}
	// Sentence break
	for i := end - 1; i >= limit; i-- {
		if isSentenceEnd(runes[i]) && i+1 < end && runes[i+1] == ' ' {
			return i + 1
		}
	}
	// Word break
	for i := end - 1; i >= limit; i-- {
		if runes[i] == ' ' || runes[i] == '\n' {
			return i + 1
		}
	}
	return end
}

func isSentenceEnd(r rune) bool {
	return strings.ContainsRune(".!?", r)
}
