package services

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/synapse-med/synapse-core/internal/core/domain"
	"github.com/synapse-med/synapse-core/internal/core/ports/driven"
	"github.com/synapse-med/synapse-core/internal/runtime"
)

const (
	// DefaultSearchLimit is the fused result count when none is given
	DefaultSearchLimit = 5

	// rrfK is the reciprocal rank fusion smoothing constant
	rrfK = 60

	// overFetchFactor widens each single-signal retrieval so fusion has
	// candidates beyond the final cut
	overFetchFactor = 2
)

// SearchService answers top-k queries over the hybrid index by fusing
// a dense and a sparse retrieval with reciprocal rank fusion. The read
// path never surfaces backend errors to callers: any failure yields a
// degraded, empty result carrying the reason.
type SearchService struct {
	services *runtime.Services
	index    driven.VectorIndex
	logger   *slog.Logger
}

// NewSearchService creates a new SearchService
func NewSearchService(services *runtime.Services, index driven.VectorIndex, logger *slog.Logger) *SearchService {
	return &SearchService{
		services: services,
		index:    index,
		logger:   logger,
	}
}

// Search implements driving.SearchService.
func (s *SearchService) Search(ctx context.Context, query string, limit int) *domain.SearchResult {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	result := &domain.SearchResult{Query: query}

	if query == "" {
		return result
	}

	dense := s.services.DenseEmbedder()
	sparse := s.services.SparseEmbedder()
	if dense == nil || sparse == nil {
		return s.degrade(result, "embedding services not configured", nil)
	}

	denseVec, err := dense.EmbedQuery(ctx, query)
	if err != nil {
		return s.degrade(result, "query dense embedding failed", err)
	}
	sparseVec, err := sparse.EmbedQuery(ctx, query)
	if err != nil {
		return s.degrade(result, "query sparse embedding failed", err)
	}

	fetch := limit * overFetchFactor

	var (
		wg                    sync.WaitGroup
		denseHits, sparseHits []domain.ScoredPoint
		denseErr, sparseErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		denseHits, denseErr = s.index.QueryDense(ctx, denseVec, fetch)
	}()
	go func() {
		defer wg.Done()
		sparseHits, sparseErr = s.index.QuerySparse(ctx, sparseVec, fetch)
	}()
	wg.Wait()

	if denseErr != nil && sparseErr != nil {
		return s.degrade(result, "both retrieval signals failed", denseErr)
	}
	if denseErr != nil {
		s.logger.Warn("dense retrieval failed, fusing sparse only", "error", denseErr)
	}
	if sparseErr != nil {
		s.logger.Warn("sparse retrieval failed, fusing dense only", "error", sparseErr)
	}

	result.Passages = fuse(limit, denseHits, sparseHits)

	s.logger.Debug("search complete",
		"query_len", len(query),
		"dense_hits", len(denseHits),
		"sparse_hits", len(sparseHits),
		"fused", len(result.Passages),
	)
	return result
}

func (s *SearchService) degrade(result *domain.SearchResult, reason string, err error) *domain.SearchResult {
	s.logger.Error("search degraded", "reason", reason, "error", err)
	result.Degraded = true
	result.Reason = reason
	return result
}

// fuse merges ranked lists with reciprocal rank fusion: each hit
// contributes 1/(k+rank) per list it appears in, with 1-based ranks.
// Backend scores only determine per-list order; they are not mixed
// across signals.
func fuse(limit int, lists ...[]domain.ScoredPoint) []domain.RankedPassage {
	type fused struct {
		point domain.ScoredPoint
		score float64
	}
	byID := make(map[string]*fused)

	for _, list := range lists {
		for rank, hit := range list {
			f, ok := byID[hit.ID]
			if !ok {
				f = &fused{point: hit}
				byID[hit.ID] = f
			}
			f.score += 1.0 / float64(rrfK+rank+1)
		}
	}

	merged := make([]*fused, 0, len(byID))
	for _, f := range byID {
		merged = append(merged, f)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].score != merged[j].score {
			return merged[i].score > merged[j].score
		}
		return merged[i].point.ID < merged[j].point.ID
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}

	passages := make([]domain.RankedPassage, len(merged))
	for i, f := range merged {
		passages[i] = domain.RankedPassage{
			Content:  f.point.Payload.Content,
			Filename: f.point.Payload.Filename,
			Score:    f.score,
			Payload:  f.point.Payload,
		}
	}
	return passages
}
