package driving

import (
	"context"

	"github.com/synapse-med/synapse-core/internal/core/domain"
)

// SearchService answers top-k queries over the hybrid index.
type SearchService interface {
	// Search embeds the query both densely and sparsely, retrieves
	// candidates from each signal and fuses them by reciprocal rank.
	// It never returns an error: backend failures yield a degraded
	// result with an empty passage list and a reason.
	Search(ctx context.Context, query string, limit int) *domain.SearchResult
}
