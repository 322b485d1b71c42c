package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/synapse-med/synapse-core/internal/core/domain"
	"github.com/synapse-med/synapse-core/internal/core/ports/driven"
)

// Ensure LocalEmbedding implements DenseEmbedder
var _ driven.DenseEmbedder = (*LocalEmbedding)(nil)

// LocalEmbedding implements DenseEmbedder against a locally hosted
// model server speaking the Ollama embed API. No API key; expect the
// first request after a restart to be slow while the model loads.
type LocalEmbedding struct {
	baseURL    string
	model      string
	dimensions int
	client     *http.Client
}

// Dimensions of known local sentence-transformer models
var localModelDimensions = map[string]int{
	"all-minilm":        384,
	"nomic-embed-text":  768,
	"mxbai-embed-large": 1024,
}

// NewLocalEmbedding creates an embedding service backed by a local
// model server
func NewLocalEmbedding(baseURL, model string) (driven.DenseEmbedder, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "all-minilm"
	}

	dimensions, ok := localModelDimensions[model]
	if !ok {
		dimensions = domain.VectorSizeLocal
	}

	return &LocalEmbedding{
		baseURL:    baseURL,
		model:      model,
		dimensions: dimensions,
		client: &http.Client{
			// Generous: first call pays model cold-start
			Timeout: 120 * time.Second,
		},
	}, nil
}

// localEmbedRequest is the request body for the local embed API
type localEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// localEmbedResponse is the response from the local embed API
type localEmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
	Error      string      `json:"error,omitempty"`
}

// Embed generates embeddings for multiple texts
func (e *LocalEmbedding) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(localEmbedRequest{Model: e.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", e.baseURL+"/api/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", domain.ErrProvider, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrProvider, err)
	}

	var embResp localEmbedResponse
	if err := json.Unmarshal(respBody, &embResp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %v", domain.ErrProvider, err)
	}
	if embResp.Error != "" {
		return nil, fmt.Errorf("%w: local model error: %s", domain.ErrProvider, embResp.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: local model returned status %d", domain.ErrProvider, resp.StatusCode)
	}
	if len(embResp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts", domain.ErrProvider, len(embResp.Embeddings), len(texts))
	}

	return embResp.Embeddings, nil
}

// EmbedQuery generates an embedding for a search query
func (e *LocalEmbedding) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	embeddings, err := e.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("%w: no embedding returned for query", domain.ErrProvider)
	}
	return embeddings[0], nil
}

// Dimensions returns the embedding dimension size
func (e *LocalEmbedding) Dimensions() int {
	return e.dimensions
}

// Model returns the model name being used
func (e *LocalEmbedding) Model() string {
	return e.model
}

// HealthCheck verifies the local model server is available
func (e *LocalEmbedding) HealthCheck(ctx context.Context) error {
	_, err := e.EmbedQuery(ctx, "health check")
	return err
}

// Close releases resources held by the embedding service
func (e *LocalEmbedding) Close() error {
	e.client.CloseIdleConnections()
	return nil
}
