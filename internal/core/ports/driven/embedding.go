package driven

import (
	"context"

	"github.com/synapse-med/synapse-core/internal/core/domain"
)

// DenseEmbedder generates fixed-dimension semantic embeddings.
// Implementations operate on batches; one collection is bound to
// exactly one dense provider for its lifetime.
type DenseEmbedder interface {
	// Embed generates embeddings for multiple texts
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery generates an embedding for a search query
	EmbedQuery(ctx context.Context, query string) ([]float32, error)

	// Dimensions returns the embedding dimension size
	Dimensions() int

	// Model returns the model name being used
	Model() string

	// HealthCheck verifies the embedding backend is available
	HealthCheck(ctx context.Context) error

	// Close releases resources held by the embedder
	Close() error
}

// SparseEmbedder generates lexical term-weighted sparse vectors.
// Always a local model: no network, no API key.
type SparseEmbedder interface {
	// Embed generates sparse vectors for multiple texts
	Embed(ctx context.Context, texts []string) ([]domain.SparseVector, error)

	// EmbedQuery generates a sparse vector for a search query
	EmbedQuery(ctx context.Context, query string) (domain.SparseVector, error)

	// Model returns the model name being used
	Model() string
}
