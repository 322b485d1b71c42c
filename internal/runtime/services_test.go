package runtime

import (
	"context"
	"testing"

	"github.com/synapse-med/synapse-core/internal/core/ports/driven"
	"github.com/synapse-med/synapse-core/internal/core/ports/driven/mocks"
)

func TestServices_EmptyRegistry(t *testing.T) {
	services := NewServices()

	if services.DenseEmbedder() != nil {
		t.Error("empty registry must have no dense embedder")
	}
	if services.SparseEmbedder() != nil {
		t.Error("empty registry must have no sparse embedder")
	}
	if services.LLMService() != nil {
		t.Error("empty registry must have no LLM")
	}
	if services.TelemetrySink() == nil {
		t.Error("telemetry sink must never be nil")
	}
	// The no-op sink must accept calls without a configured backend
	services.TelemetrySink().RecordLLMCall(driven.LLMCall{Model: "m"})
}

func TestServices_SetAndGet(t *testing.T) {
	services := NewServices()
	dense := mocks.NewMockDenseEmbedder()
	sparse := mocks.NewMockSparseEmbedder()
	llm := mocks.NewMockLLMService("ok")

	services.SetDenseEmbedder(dense)
	services.SetSparseEmbedder(sparse)
	services.SetLLMService(llm)

	if services.DenseEmbedder() != driven.DenseEmbedder(dense) {
		t.Error("dense embedder not returned")
	}
	if services.SparseEmbedder() != driven.SparseEmbedder(sparse) {
		t.Error("sparse embedder not returned")
	}
	if services.LLMService() != driven.LLMService(llm) {
		t.Error("LLM not returned")
	}
}

func TestServices_SwapClosesOldLLM(t *testing.T) {
	services := NewServices()
	old := mocks.NewMockLLMService("old")
	services.SetLLMService(old)
	services.SetLLMService(mocks.NewMockLLMService("new"))

	if !old.Closed() {
		t.Error("replaced LLM must be closed")
	}
}

func TestServices_SetTelemetrySinkNilRestoresNoop(t *testing.T) {
	services := NewServices()
	sink := mocks.NewMockTelemetrySink()
	services.SetTelemetrySink(sink)
	if services.TelemetrySink() != driven.TelemetrySink(sink) {
		t.Error("sink not returned")
	}

	services.SetTelemetrySink(nil)
	if services.TelemetrySink() == nil {
		t.Error("nil sink must restore the no-op default")
	}
	services.TelemetrySink().RecordLLMCall(driven.LLMCall{})
}

func TestServices_ValidateAndSetLLM(t *testing.T) {
	services := NewServices()
	llm := mocks.NewMockLLMService("pong")

	if err := services.ValidateAndSetLLM(context.Background(), llm); err != nil {
		t.Fatalf("ValidateAndSetLLM failed: %v", err)
	}
	if services.LLMService() == nil {
		t.Error("validated LLM not set")
	}

	if err := services.ValidateAndSetLLM(context.Background(), nil); err != nil {
		t.Fatalf("clearing LLM failed: %v", err)
	}
	if services.LLMService() != nil {
		t.Error("nil LLM must clear the registry slot")
	}
}

func TestServices_Close(t *testing.T) {
	services := NewServices()
	llm := mocks.NewMockLLMService("ok")
	services.SetLLMService(llm)
	services.SetDenseEmbedder(mocks.NewMockDenseEmbedder())

	if err := services.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !llm.Closed() {
		t.Error("Close must shut down the LLM")
	}
	if services.DenseEmbedder() != nil || services.LLMService() != nil {
		t.Error("Close must clear all slots")
	}
}
