package driving

import (
	"context"

	"github.com/synapse-med/synapse-core/internal/core/domain"
)

// IngestService indexes parsed document text into the hybrid index.
type IngestService interface {
	// Index chunks the content, embeds each batch densely and sparsely,
	// and upserts the points. Batches are committed independently: on
	// error, earlier batches remain indexed and the error reports how
	// many chunks made it. Re-ingesting a filename produces new,
	// independent points - duplicate detection is not performed.
	Index(ctx context.Context, filename, content string, meta domain.IngestMetadata) error
}
