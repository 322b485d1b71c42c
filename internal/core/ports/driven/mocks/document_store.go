package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/synapse-med/synapse-core/internal/core/domain"
)

// MockDocumentStore is an in-memory DocumentStore keyed by filename,
// matching the upsert semantics of the real registry.
type MockDocumentStore struct {
	mu       sync.RWMutex
	byID     map[string]*domain.Document
	failNext bool
}

// NewMockDocumentStore creates a new MockDocumentStore
func NewMockDocumentStore() *MockDocumentStore {
	return &MockDocumentStore{byID: make(map[string]*domain.Document)}
}

func (m *MockDocumentStore) Save(ctx context.Context, doc *domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failNext {
		m.failNext = false
		return domain.ErrServiceUnavailable
	}

	for id, existing := range m.byID {
		if existing.Filename == doc.Filename && id != doc.ID {
			delete(m.byID, id)
		}
	}
	clone := *doc
	m.byID[doc.ID] = &clone
	return nil
}

func (m *MockDocumentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *doc
	return &clone, nil
}

func (m *MockDocumentStore) GetByFilename(ctx context.Context, filename string) (*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, doc := range m.byID {
		if doc.Filename == filename {
			clone := *doc
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockDocumentStore) List(ctx context.Context, limit, offset int) ([]*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]*domain.Document, 0, len(m.byID))
	for _, doc := range m.byID {
		clone := *doc
		docs = append(docs, &clone)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].IndexedAt.After(docs[j].IndexedAt)
	})

	if offset >= len(docs) {
		return nil, nil
	}
	docs = docs[offset:]
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

func (m *MockDocumentStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID), nil
}

// SetFailNext makes the next Save fail.
func (m *MockDocumentStore) SetFailNext(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = fail
}
