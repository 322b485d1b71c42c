package mocks

import (
	"context"
	"sync"

	"github.com/synapse-med/synapse-core/internal/core/domain"
)

// MockPromptSource serves prompts from an in-memory map. Unknown names
// return ErrNotFound so callers exercise their hardcoded fallbacks.
type MockPromptSource struct {
	mu      sync.Mutex
	prompts map[string]string
	gets    []string
}

// NewMockPromptSource creates a MockPromptSource seeded with the given prompts
func NewMockPromptSource(prompts map[string]string) *MockPromptSource {
	if prompts == nil {
		prompts = make(map[string]string)
	}
	return &MockPromptSource{prompts: prompts}
}

func (m *MockPromptSource) Get(ctx context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gets = append(m.gets, name)
	text, ok := m.prompts[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return text, nil
}

// Gets returns the prompt names requested so far.
func (m *MockPromptSource) Gets() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.gets))
	copy(out, m.gets)
	return out
}
