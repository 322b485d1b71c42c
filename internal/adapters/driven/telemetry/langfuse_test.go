package telemetry

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/synapse-med/synapse-core/internal/core/domain"
	"github.com/synapse-med/synapse-core/internal/core/ports/driven"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewLangfuseSink_RequiresKeys(t *testing.T) {
	if _, err := NewLangfuseSink("", "", "sk", testLogger()); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestLangfuseSink_RecordLLMCall(t *testing.T) {
	var mu sync.Mutex
	var batches []ingestionBatch
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/public/ingestion" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var batch ingestionBatch
		if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
			t.Errorf("failed to decode batch: %v", err)
		}
		mu.Lock()
		batches = append(batches, batch)
		mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	sink, err := NewLangfuseSink(server.URL, "pk", "sk", testLogger())
	if err != nil {
		t.Fatalf("NewLangfuseSink failed: %v", err)
	}

	sink.RecordLLMCall(driven.LLMCall{
		Model:   "gpt-4o-mini",
		Tags:    []string{"router"},
		Latency: 120 * time.Millisecond,
	})
	sink.Flush()

	mu.Lock()
	defer mu.Unlock()
	if len(batches) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(batches))
	}
	if len(batches[0].Batch) != 1 {
		t.Fatalf("expected 1 event, got %d", len(batches[0].Batch))
	}
	event := batches[0].Batch[0]
	if event.Type != "generation-create" {
		t.Errorf("unexpected event type: %s", event.Type)
	}
	if event.Body.Model != "gpt-4o-mini" {
		t.Errorf("unexpected model: %s", event.Body.Model)
	}
	if len(event.Body.Tags) != 1 || event.Body.Tags[0] != "router" {
		t.Errorf("unexpected tags: %v", event.Body.Tags)
	}
	if event.Body.Level != "" {
		t.Errorf("successful call must not carry an error level, got %q", event.Body.Level)
	}
}

func TestLangfuseSink_RecordsFailureLevel(t *testing.T) {
	var mu sync.Mutex
	var events []ingestionEvent
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var batch ingestionBatch
		json.NewDecoder(r.Body).Decode(&batch)
		mu.Lock()
		events = append(events, batch.Batch...)
		mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	sink, _ := NewLangfuseSink(server.URL, "pk", "sk", testLogger())
	sink.RecordLLMCall(driven.LLMCall{
		Model: "gpt-4o-mini",
		Tags:  []string{"researcher"},
		Err:   errors.New("rate limited"),
	})
	sink.Flush()

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Body.Level != "ERROR" {
		t.Errorf("expected ERROR level, got %q", events[0].Body.Level)
	}
	if events[0].Body.StatusMessage != "rate limited" {
		t.Errorf("unexpected status message: %q", events[0].Body.StatusMessage)
	}
}

func TestLangfuseSink_DeliveryFailureDoesNotPanic(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	sink, _ := NewLangfuseSink(server.URL, "pk", "sk", testLogger())
	sink.RecordLLMCall(driven.LLMCall{Model: "gpt-4o-mini"})
	sink.Flush()
}
