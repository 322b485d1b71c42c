package mocks

import (
	"sync"

	"github.com/synapse-med/synapse-core/internal/core/ports/driven"
)

// MockTelemetrySink records every LLM call it receives.
type MockTelemetrySink struct {
	mu    sync.Mutex
	calls []driven.LLMCall
}

// NewMockTelemetrySink creates a new MockTelemetrySink
func NewMockTelemetrySink() *MockTelemetrySink {
	return &MockTelemetrySink{}
}

func (m *MockTelemetrySink) RecordLLMCall(call driven.LLMCall) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

// Calls returns the recorded calls.
func (m *MockTelemetrySink) Calls() []driven.LLMCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]driven.LLMCall, len(m.calls))
	copy(out, m.calls)
	return out
}
