package mocks

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/synapse-med/synapse-core/internal/core/domain"
)

// MockVectorIndex is an in-memory VectorIndex for testing. Dense
// queries rank by cosine similarity, sparse queries by dot product
// over the shared dimensions, mirroring the real backend's behaviour
// closely enough for ranking assertions.
type MockVectorIndex struct {
	mu     sync.RWMutex
	points map[string]domain.Point

	upsertCalls int
	failAfter   int // fail the (failAfter+1)-th upsert; -1 disables
	failQueries bool
}

// NewMockVectorIndex creates a new MockVectorIndex
func NewMockVectorIndex() *MockVectorIndex {
	return &MockVectorIndex{
		points:    make(map[string]domain.Point),
		failAfter: -1,
	}
}

func (m *MockVectorIndex) Upsert(ctx context.Context, points []domain.Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failAfter >= 0 && m.upsertCalls >= m.failAfter {
		return domain.ErrProvider
	}
	m.upsertCalls++

	for _, p := range points {
		m.points[p.ID] = p
	}
	return nil
}

func (m *MockVectorIndex) QueryDense(ctx context.Context, vector []float32, limit int) ([]domain.ScoredPoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failQueries {
		return nil, domain.ErrProvider
	}

	var hits []domain.ScoredPoint
	for _, p := range m.points {
		hits = append(hits, domain.ScoredPoint{
			ID:      p.ID,
			Score:   cosine(vector, p.Dense),
			Payload: p.Payload,
		})
	}
	sortAndTrim(&hits, limit)
	return hits, nil
}

func (m *MockVectorIndex) QuerySparse(ctx context.Context, vector domain.SparseVector, limit int) ([]domain.ScoredPoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failQueries {
		return nil, domain.ErrProvider
	}

	query := make(map[uint32]float32, len(vector.Indices))
	for i, idx := range vector.Indices {
		query[idx] = vector.Values[i]
	}

	var hits []domain.ScoredPoint
	for _, p := range m.points {
		var score float64
		for i, idx := range p.Sparse.Indices {
			if qv, ok := query[idx]; ok {
				score += float64(qv) * float64(p.Sparse.Values[i])
			}
		}
		if score > 0 {
			hits = append(hits, domain.ScoredPoint{ID: p.ID, Score: score, Payload: p.Payload})
		}
	}
	sortAndTrim(&hits, limit)
	return hits, nil
}

func (m *MockVectorIndex) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.points)), nil
}

func (m *MockVectorIndex) HealthCheck(ctx context.Context) error { return nil }

// Helper methods for testing

func (m *MockVectorIndex) UpsertCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.upsertCalls
}

// FailAfterUpserts makes every upsert past the first n fail.
func (m *MockVectorIndex) FailAfterUpserts(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAfter = n
}

func (m *MockVectorIndex) SetFailQueries(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failQueries = fail
}

func sortAndTrim(hits *[]domain.ScoredPoint, limit int) {
	sort.Slice(*hits, func(i, j int) bool {
		if (*hits)[i].Score != (*hits)[j].Score {
			return (*hits)[i].Score > (*hits)[j].Score
		}
		return (*hits)[i].ID < (*hits)[j].ID
	})
	if limit > 0 && len(*hits) > limit {
		*hits = (*hits)[:limit]
	}
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
