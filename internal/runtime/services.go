package runtime

import (
	"context"
	"sync"

	"github.com/synapse-med/synapse-core/internal/core/ports/driven"
)

// Services is the explicit registry of shared backend clients: the
// embedding models, the LLM, the prompt source and the telemetry sink.
// It replaces implicit process-wide singletons - it is constructed once
// at process start and passed by reference to every component that
// needs it. Thread-safe for concurrent access; expensive model clients
// are built exactly once behind the registry, never per request.
type Services struct {
	mu sync.RWMutex

	dense     driven.DenseEmbedder
	sparse    driven.SparseEmbedder
	llm       driven.LLMService
	prompts   driven.PromptSource
	telemetry driven.TelemetrySink
}

// NewServices creates an empty registry with a no-op telemetry sink.
func NewServices() *Services {
	return &Services{
		telemetry: noopTelemetry{},
	}
}

// DenseEmbedder returns the current dense embedder (may be nil)
func (s *Services) DenseEmbedder() driven.DenseEmbedder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dense
}

// SparseEmbedder returns the current sparse embedder (may be nil)
func (s *Services) SparseEmbedder() driven.SparseEmbedder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sparse
}

// LLMService returns the current LLM service (may be nil)
func (s *Services) LLMService() driven.LLMService {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.llm
}

// PromptSource returns the current prompt source (may be nil)
func (s *Services) PromptSource() driven.PromptSource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prompts
}

// TelemetrySink returns the current telemetry sink (never nil)
func (s *Services) TelemetrySink() driven.TelemetrySink {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.telemetry
}

// SetDenseEmbedder swaps the dense embedder, closing the old one.
func (s *Services) SetDenseEmbedder(svc driven.DenseEmbedder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dense != nil {
		_ = s.dense.Close()
	}
	s.dense = svc
}

// SetSparseEmbedder swaps the sparse embedder.
func (s *Services) SetSparseEmbedder(svc driven.SparseEmbedder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sparse = svc
}

// SetLLMService swaps the LLM service, closing the old one.
func (s *Services) SetLLMService(svc driven.LLMService) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.llm != nil {
		_ = s.llm.Close()
	}
	s.llm = svc
}

// SetPromptSource swaps the prompt source.
func (s *Services) SetPromptSource(svc driven.PromptSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = svc
}

// SetTelemetrySink swaps the telemetry sink. A nil sink restores the
// no-op default so callers never have to nil-check.
func (s *Services) SetTelemetrySink(sink driven.TelemetrySink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sink == nil {
		sink = noopTelemetry{}
	}
	s.telemetry = sink
}

// ValidateAndSetDenseEmbedder validates connectivity before setting.
func (s *Services) ValidateAndSetDenseEmbedder(ctx context.Context, svc driven.DenseEmbedder) error {
	if svc == nil {
		s.SetDenseEmbedder(nil)
		return nil
	}
	if err := svc.HealthCheck(ctx); err != nil {
		_ = svc.Close()
		return err
	}
	s.SetDenseEmbedder(svc)
	return nil
}

// ValidateAndSetLLM validates connectivity before setting.
func (s *Services) ValidateAndSetLLM(ctx context.Context, svc driven.LLMService) error {
	if svc == nil {
		s.SetLLMService(nil)
		return nil
	}
	if err := svc.Ping(ctx); err != nil {
		_ = svc.Close()
		return err
	}
	s.SetLLMService(svc)
	return nil
}

// Close shuts down all held services.
func (s *Services) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dense != nil {
		_ = s.dense.Close()
		s.dense = nil
	}
	if s.llm != nil {
		_ = s.llm.Close()
		s.llm = nil
	}
	s.sparse = nil
	s.prompts = nil
	s.telemetry = noopTelemetry{}
	return nil
}

// noopTelemetry drops all telemetry. Used when no sink is configured.
type noopTelemetry struct{}

func (noopTelemetry) RecordLLMCall(driven.LLMCall) {}
