package mocks

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/synapse-med/synapse-core/internal/core/domain"
)

// MockDenseEmbedder is a deterministic in-memory DenseEmbedder for testing
type MockDenseEmbedder struct {
	mu         sync.Mutex
	dimensions int
	model      string
	failNext   bool
	calls      int
}

// NewMockDenseEmbedder creates a new MockDenseEmbedder
func NewMockDenseEmbedder() *MockDenseEmbedder {
	return &MockDenseEmbedder{
		dimensions: 384,
		model:      "mock-dense-model",
	}
}

func (m *MockDenseEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := m.record(); err != nil {
		return nil, err
	}
	result := make([][]float32, len(texts))
	for i, text := range texts {
		result[i] = m.generateEmbedding(text)
	}
	return result, nil
}

func (m *MockDenseEmbedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	if err := m.record(); err != nil {
		return nil, err
	}
	return m.generateEmbedding(query), nil
}

func (m *MockDenseEmbedder) record() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failNext {
		m.failNext = false
		return context.DeadlineExceeded
	}
	return nil
}

func (m *MockDenseEmbedder) Dimensions() int { return m.dimensions }

func (m *MockDenseEmbedder) Model() string { return m.model }

func (m *MockDenseEmbedder) HealthCheck(ctx context.Context) error { return nil }

func (m *MockDenseEmbedder) Close() error { return nil }

// generateEmbedding generates a deterministic embedding based on text hash
func (m *MockDenseEmbedder) generateEmbedding(text string) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	embedding := make([]float32, m.dimensions)
	for i := range embedding {
		seed = seed*1103515245 + 12345
		embedding[i] = float32(seed%1000) / 1000.0
	}
	return embedding
}

// Helper methods for testing

func (m *MockDenseEmbedder) SetFailNext(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = fail
}

func (m *MockDenseEmbedder) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockSparseEmbedder produces token-hash sparse vectors so that texts
// sharing words share active dimensions.
type MockSparseEmbedder struct {
	failNext bool
}

// NewMockSparseEmbedder creates a new MockSparseEmbedder
func NewMockSparseEmbedder() *MockSparseEmbedder {
	return &MockSparseEmbedder{}
}

func (m *MockSparseEmbedder) Embed(ctx context.Context, texts []string) ([]domain.SparseVector, error) {
	if m.failNext {
		m.failNext = false
		return nil, context.DeadlineExceeded
	}
	result := make([]domain.SparseVector, len(texts))
	for i, text := range texts {
		result[i] = m.encode(text)
	}
	return result, nil
}

func (m *MockSparseEmbedder) EmbedQuery(ctx context.Context, query string) (domain.SparseVector, error) {
	if m.failNext {
		m.failNext = false
		return domain.SparseVector{}, context.DeadlineExceeded
	}
	return m.encode(query), nil
}

func (m *MockSparseEmbedder) Model() string { return "mock-sparse-model" }

func (m *MockSparseEmbedder) SetFailNext(fail bool) { m.failNext = fail }

func (m *MockSparseEmbedder) encode(text string) domain.SparseVector {
	counts := make(map[uint32]float32)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(token))
		counts[h.Sum32()]++
	}
	vec := domain.SparseVector{}
	for idx, val := range counts {
		vec.Indices = append(vec.Indices, idx)
		vec.Values = append(vec.Values, val)
	}
	return vec
}
