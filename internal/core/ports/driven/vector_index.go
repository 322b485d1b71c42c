package driven

import (
	"context"

	"github.com/synapse-med/synapse-core/internal/core/domain"
)

// VectorIndex is the persistent dual-vector store (Qdrant).
// Points are exclusively owned by the ingestion path; mutation happens
// only via re-ingestion or whole-collection recreation.
type VectorIndex interface {
	// Upsert writes a batch of points to the collection
	Upsert(ctx context.Context, points []domain.Point) error

	// QueryDense runs a dense nearest-neighbour retrieval
	QueryDense(ctx context.Context, vector []float32, limit int) ([]domain.ScoredPoint, error)

	// QuerySparse runs a sparse nearest-neighbour retrieval against the
	// named sparse vector slot
	QuerySparse(ctx context.Context, vector domain.SparseVector, limit int) ([]domain.ScoredPoint, error)

	// Count returns the number of points in the collection
	Count(ctx context.Context) (int64, error)

	// HealthCheck verifies the index is reachable
	HealthCheck(ctx context.Context) error
}
