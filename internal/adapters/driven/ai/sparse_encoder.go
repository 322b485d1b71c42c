package ai

import (
	"context"
	"hash/fnv"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/synapse-med/synapse-core/internal/core/domain"
	"github.com/synapse-med/synapse-core/internal/core/ports/driven"
)

// Ensure SparseEncoder implements SparseEmbedder
var _ driven.SparseEmbedder = (*SparseEncoder)(nil)

// SparseEncoder is the in-process lexical embedder: tokens are hashed
// into a fixed index space and weighted by sublinear term frequency.
// It runs synchronously with no network and no model files, so the
// sparse signal is always available even when the dense provider is
// remote.
type SparseEncoder struct {
	stopwords map[string]struct{}
}

// Stopwords for the primary and fallback languages. Terms carrying no
// lexical signal only inflate the vectors.
var sparseStopwords = []string{
	// Polish
	"a", "aby", "ale", "bo", "by", "co", "czy", "dla", "do", "gdy",
	"go", "i", "ich", "jak", "jako", "je", "jego", "jej", "jest",
	"już", "ma", "na", "nad", "nie", "niż", "o", "od", "po", "pod",
	"przez", "przy", "się", "są", "ta", "tak", "te", "tego", "tej",
	"ten", "to", "tym", "u", "w", "we", "z", "za", "że",
	// English
	"an", "and", "are", "as", "at", "be", "but", "by", "for", "from",
	"has", "have", "he", "her", "his", "in", "is", "it", "its", "of",
	"on", "or", "she", "that", "the", "this", "was", "were", "which",
	"will", "with",
}

// NewSparseEncoder creates a new SparseEncoder
func NewSparseEncoder() *SparseEncoder {
	stopwords := make(map[string]struct{}, len(sparseStopwords))
	for _, w := range sparseStopwords {
		stopwords[w] = struct{}{}
	}
	return &SparseEncoder{stopwords: stopwords}
}

// Embed generates sparse vectors for multiple texts
func (e *SparseEncoder) Embed(ctx context.Context, texts []string) ([]domain.SparseVector, error) {
	vectors := make([]domain.SparseVector, len(texts))
	for i, text := range texts {
		vectors[i] = e.encode(text)
	}
	return vectors, nil
}

// EmbedQuery generates a sparse vector for a search query
func (e *SparseEncoder) EmbedQuery(ctx context.Context, query string) (domain.SparseVector, error) {
	return e.encode(query), nil
}

// Model returns the encoder name
func (e *SparseEncoder) Model() string {
	return "hashed-tf-v1"
}

// encode builds the term-frequency vector: each surviving token is
// hashed to its dimension index and weighted 1+log(tf). Indices are
// sorted ascending as the index backend expects.
func (e *SparseEncoder) encode(text string) domain.SparseVector {
	counts := make(map[uint32]int)
	for _, token := range e.tokenize(text) {
		h := fnv.New32a()
		h.Write([]byte(token))
		counts[h.Sum32()]++
	}
	if len(counts) == 0 {
		return domain.SparseVector{}
	}

	indices := make([]uint32, 0, len(counts))
	for idx := range counts {
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	values := make([]float32, len(indices))
	for i, idx := range indices {
		values[i] = float32(1 + math.Log(float64(counts[idx])))
	}

	return domain.SparseVector{Indices: indices, Values: values}
}

// tokenize lowercases and splits on non-alphanumeric runes, dropping
// stopwords and single-rune tokens.
func (e *SparseEncoder) tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) < 2 {
			continue
		}
		if _, stop := e.stopwords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}
