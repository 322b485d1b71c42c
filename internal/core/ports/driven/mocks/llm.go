package mocks

import (
	"context"
	"sync"

	"github.com/synapse-med/synapse-core/internal/core/domain"
	"github.com/synapse-med/synapse-core/internal/core/ports/driven"
)

// MockLLMService returns scripted responses in order, then repeats the
// last one. Requests are recorded for assertions on prompt content.
type MockLLMService struct {
	mu        sync.Mutex
	responses []string
	requests  []driven.CompletionRequest
	failNext  bool
	closed    bool
}

// NewMockLLMService creates a MockLLMService with the given scripted responses
func NewMockLLMService(responses ...string) *MockLLMService {
	return &MockLLMService{responses: responses}
}

func (m *MockLLMService) Complete(ctx context.Context, req driven.CompletionRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if m.failNext {
		m.failNext = false
		return "", domain.ErrProvider
	}
	if len(m.responses) == 0 {
		return "", nil
	}
	resp := m.responses[0]
	if len(m.responses) > 1 {
		m.responses = m.responses[1:]
	}
	return resp, nil
}

func (m *MockLLMService) Model() string { return "mock-llm" }

func (m *MockLLMService) Ping(ctx context.Context) error { return nil }

func (m *MockLLMService) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Helper methods for testing

func (m *MockLLMService) SetFailNext(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = fail
}

func (m *MockLLMService) Requests() []driven.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]driven.CompletionRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

func (m *MockLLMService) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
