package driven

import (
	"context"

	"github.com/synapse-med/synapse-core/internal/core/domain"
)

// DocumentStore persists ingestion registry records.
// The store is advisory: a registry write failure never fails
// ingestion, since the vector index is the source of truth.
type DocumentStore interface {
	// Save creates or updates the record for a filename
	Save(ctx context.Context, doc *domain.Document) error

	// Get retrieves a record by ID
	Get(ctx context.Context, id string) (*domain.Document, error)

	// GetByFilename retrieves the record for a filename
	GetByFilename(ctx context.Context, filename string) (*domain.Document, error)

	// List retrieves records ordered by indexing time, newest first
	List(ctx context.Context, limit, offset int) ([]*domain.Document, error)

	// Count returns the total number of records
	Count(ctx context.Context) (int, error)
}
