package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/synapse-med/synapse-core/internal/core/domain"
	"github.com/synapse-med/synapse-core/internal/core/ports/driven"
)

// SparseVectorName is the named sparse vector slot in the collection.
// The dense vector uses the unnamed default slot.
const SparseVectorName = "text-sparse"

// Ensure Client implements VectorIndex
var _ driven.VectorIndex = (*Client)(nil)

// Client is a Qdrant REST client bound to a single collection.
type Client struct {
	baseURL    string
	apiKey     string
	collection string
	client     *http.Client
}

// NewClient creates a new Qdrant client for the given collection
func NewClient(baseURL, apiKey, collection string) (*Client, error) {
	if baseURL == "" {
		baseURL = "http://localhost:6333"
	}
	if collection == "" {
		return nil, fmt.Errorf("%w: collection name is required", domain.ErrInvalidInput)
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		collection: collection,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Collection returns the bound collection name.
func (c *Client) Collection() string {
	return c.collection
}

// envelope is the standard Qdrant response wrapper
type envelope struct {
	Status json.RawMessage `json:"status"`
	Result json.RawMessage `json:"result"`
}

// collectionInfo is the subset of collection config we inspect
type collectionInfo struct {
	Config struct {
		Params struct {
			Vectors struct {
				Size     int    `json:"size"`
				Distance string `json:"distance"`
			} `json:"vectors"`
			SparseVectors map[string]json.RawMessage `json:"sparse_vectors"`
		} `json:"params"`
	} `json:"config"`
}

// GetCollectionInfo fetches the collection config. Returns ErrNotFound
// when the collection does not exist and ErrSchemaInvalid when the
// response cannot be decoded into the expected shape.
func (c *Client) GetCollectionInfo(ctx context.Context) (*collectionInfo, error) {
	resp, status, err := c.do(ctx, http.MethodGet, c.collectionPath(""), nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: get collection returned status %d", domain.ErrProvider, status)
	}

	var info collectionInfo
	if err := json.Unmarshal(resp.Result, &info); err != nil {
		return nil, fmt.Errorf("%w: undecodable collection config: %v", domain.ErrSchemaInvalid, err)
	}
	return &info, nil
}

// CreateCollection creates the dual-vector collection: an unnamed
// cosine dense vector of the given size plus the named sparse slot.
func (c *Client) CreateCollection(ctx context.Context, denseSize int) error {
	body := map[string]any{
		"vectors": map[string]any{
			"size":     denseSize,
			"distance": "Cosine",
		},
		"sparse_vectors": map[string]any{
			SparseVectorName: map[string]any{},
		},
	}

	_, status, err := c.do(ctx, http.MethodPut, c.collectionPath(""), body)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: create collection returned status %d", domain.ErrProvider, status)
	}
	return nil
}

// DeleteCollection drops the collection and all its points.
func (c *Client) DeleteCollection(ctx context.Context) error {
	_, status, err := c.do(ctx, http.MethodDelete, c.collectionPath(""), nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusNotFound {
		return fmt.Errorf("%w: delete collection returned status %d", domain.ErrProvider, status)
	}
	return nil
}

// Upsert writes a batch of points to the collection
func (c *Client) Upsert(ctx context.Context, points []domain.Point) error {
	if len(points) == 0 {
		return nil
	}

	wire := make([]map[string]any, len(points))
	for i, p := range points {
		wire[i] = map[string]any{
			"id": p.ID,
			"vector": map[string]any{
				"":               p.Dense,
				SparseVectorName: p.Sparse,
			},
			"payload": p.Payload,
		}
	}
	body := map[string]any{"points": wire}

	_, status, err := c.do(ctx, http.MethodPut, c.collectionPath("/points")+"?wait=true", body)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: upsert returned status %d", domain.ErrProvider, status)
	}
	return nil
}

// QueryDense runs a dense nearest-neighbour retrieval
func (c *Client) QueryDense(ctx context.Context, vector []float32, limit int) ([]domain.ScoredPoint, error) {
	return c.query(ctx, map[string]any{
		"query":        vector,
		"limit":        limit,
		"with_payload": true,
	})
}

// QuerySparse runs a sparse retrieval against the named sparse slot
func (c *Client) QuerySparse(ctx context.Context, vector domain.SparseVector, limit int) ([]domain.ScoredPoint, error) {
	return c.query(ctx, map[string]any{
		"query":        vector,
		"using":        SparseVectorName,
		"limit":        limit,
		"with_payload": true,
	})
}

// queryResult is the points list inside a query response
type queryResult struct {
	Points []struct {
		ID      json.RawMessage `json:"id"`
		Score   float64         `json:"score"`
		Payload domain.Payload  `json:"payload"`
	} `json:"points"`
}

func (c *Client) query(ctx context.Context, body map[string]any) ([]domain.ScoredPoint, error) {
	resp, status, err := c.do(ctx, http.MethodPost, c.collectionPath("/points/query"), body)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: query returned status %d", domain.ErrProvider, status)
	}

	var result queryResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("%w: undecodable query response: %v", domain.ErrProvider, err)
	}

	points := make([]domain.ScoredPoint, len(result.Points))
	for i, p := range result.Points {
		points[i] = domain.ScoredPoint{
			ID:      decodeID(p.ID),
			Score:   p.Score,
			Payload: p.Payload,
		}
	}
	return points, nil
}

// Count returns the number of points in the collection
func (c *Client) Count(ctx context.Context) (int64, error) {
	body := map[string]any{"exact": true}
	resp, status, err := c.do(ctx, http.MethodPost, c.collectionPath("/points/count"), body)
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, fmt.Errorf("%w: count returned status %d", domain.ErrProvider, status)
	}

	var result struct {
		Count int64 `json:"count"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return 0, fmt.Errorf("%w: undecodable count response: %v", domain.ErrProvider, err)
	}
	return result.Count, nil
}

// HealthCheck verifies the Qdrant instance is reachable
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/readyz", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: readiness returned status %d", domain.ErrProvider, resp.StatusCode)
	}
	return nil
}

func (c *Client) collectionPath(suffix string) string {
	return "/collections/" + url.PathEscape(c.collection) + suffix
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*envelope, int, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrProvider, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: failed to read response: %v", domain.ErrProvider, err)
	}

	var env envelope
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &env); err != nil {
			return nil, resp.StatusCode, fmt.Errorf("%w: non-JSON response (status %d)", domain.ErrProvider, resp.StatusCode)
		}
	}
	return &env, resp.StatusCode, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}
}

// decodeID renders a point ID that may arrive as a JSON string or number.
func decodeID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
