// Package telemetry ships LLM call observations to a Langfuse project
// over its batch ingestion API.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/synapse-med/synapse-core/internal/core/domain"
	"github.com/synapse-med/synapse-core/internal/core/ports/driven"
)

const defaultLangfuseURL = "https://cloud.langfuse.com"

// Verify interface compliance
var _ driven.TelemetrySink = (*LangfuseSink)(nil)

// LangfuseSink records LLM calls as Langfuse generation events.
// Every record is shipped on its own goroutine so the calling request
// path never waits on the telemetry backend.
type LangfuseSink struct {
	baseURL   string
	publicKey string
	secretKey string
	client    *http.Client
	logger    *slog.Logger

	wg sync.WaitGroup
}

// NewLangfuseSink creates a telemetry sink for the given project keys.
func NewLangfuseSink(baseURL, publicKey, secretKey string, logger *slog.Logger) (*LangfuseSink, error) {
	if publicKey == "" || secretKey == "" {
		return nil, fmt.Errorf("%w: langfuse keys are required", domain.ErrInvalidInput)
	}
	if baseURL == "" {
		baseURL = defaultLangfuseURL
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &LangfuseSink{
		baseURL:   baseURL,
		publicKey: publicKey,
		secretKey: secretKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}, nil
}

type ingestionEvent struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Timestamp string         `json:"timestamp"`
	Body      generationBody `json:"body"`
}

type generationBody struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Model         string   `json:"model"`
	Tags          []string `json:"tags,omitempty"`
	StartTime     string   `json:"startTime"`
	EndTime       string   `json:"endTime"`
	Level         string   `json:"level,omitempty"`
	StatusMessage string   `json:"statusMessage,omitempty"`
}

type ingestionBatch struct {
	Batch []ingestionEvent `json:"batch"`
}

// RecordLLMCall ships a single generation event. It returns
// immediately; delivery failures are logged and dropped.
func (s *LangfuseSink) RecordLLMCall(call driven.LLMCall) {
	now := time.Now().UTC()
	body := generationBody{
		ID:        uuid.NewString(),
		Name:      "llm-call",
		Model:     call.Model,
		Tags:      call.Tags,
		StartTime: now.Add(-call.Latency).Format(time.RFC3339Nano),
		EndTime:   now.Format(time.RFC3339Nano),
	}
	if call.Err != nil {
		body.Level = "ERROR"
		body.StatusMessage = call.Err.Error()
	}

	event := ingestionEvent{
		ID:        uuid.NewString(),
		Type:      "generation-create",
		Timestamp: now.Format(time.RFC3339Nano),
		Body:      body,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.send(event); err != nil {
			s.logger.Warn("telemetry delivery failed", "error", err)
		}
	}()
}

func (s *LangfuseSink) send(event ingestionEvent) error {
	payload, err := json.Marshal(ingestionBatch{Batch: []ingestionEvent{event}})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/public/ingestion", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(s.publicKey, s.secretKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// 207 means partial success, which for a single-event batch is a failure
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("langfuse ingestion returned status %d", resp.StatusCode)
	}
	return nil
}

// Flush waits for all in-flight deliveries to finish.
func (s *LangfuseSink) Flush() {
	s.wg.Wait()
}
