package services

import "strings"

const (
	// DefaultChunkSize is the target chunk size in runes
	DefaultChunkSize = 800

	// DefaultChunkOverlap is the overlap between adjacent chunks
	DefaultChunkOverlap = 100

	// minChunkLen is the floor below which a stripped chunk is discarded
	minChunkLen = 5
)

// Chunker splits raw document text into overlapping bounded-size
// passages, preferring natural breakpoints. Splitting is deterministic:
// the same (text, size, overlap) always yields the same sequence.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a chunker with the given window size and overlap.
// Invalid parameters fall back to the defaults.
func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultChunkOverlap
		if overlap >= size {
			overlap = size / 8
		}
	}
	return &Chunker{size: size, overlap: overlap}
}

// Split returns the ordered chunk sequence for the text.
// A window of the configured size advances through the text; before
// each cut it searches backward for a newline past the window midpoint,
// then for a space, and only then cuts at the hard boundary. Chunks are
// stripped and dropped when shorter than the discard floor.
func (c *Chunker) Split(text string) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	total := len(runes)
	mid := c.size / 2

	var chunks []string
	start := 0
	for start < total {
		end := start + c.size
		if end < total {
			if cut := lastIndexAfter(runes, '\n', start+mid, end); cut != -1 {
				end = cut + 1
			} else if cut := lastIndexAfter(runes, ' ', start+mid, end); cut != -1 {
				end = cut + 1
			}
		} else {
			end = total
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if len([]rune(chunk)) >= minChunkLen {
			chunks = append(chunks, chunk)
		}

		start += c.size - c.overlap
	}
	return chunks
}

// lastIndexAfter finds the highest index i in (after, end) where
// runes[i] == r, or -1. The strict lower bound keeps cuts past the
// window midpoint so chunks never collapse to tiny fragments.
func lastIndexAfter(runes []rune, r rune, after, end int) int {
	for i := end - 1; i > after; i-- {
		if runes[i] == r {
			return i
		}
	}
	return -1
}
