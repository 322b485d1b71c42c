package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/synapse-med/synapse-core/internal/core/domain"
	"github.com/synapse-med/synapse-core/internal/core/ports/driven"
	"github.com/synapse-med/synapse-core/internal/runtime"
)

// upsertBatchSize is how many chunks are embedded and written per batch
const upsertBatchSize = 10

// IngestService chunks document text, embeds each batch densely and
// sparsely, and writes the points to the vector index. Batches commit
// independently: a mid-document failure leaves earlier batches indexed.
type IngestService struct {
	services *runtime.Services
	index    driven.VectorIndex
	registry driven.DocumentStore
	chunker  *Chunker
	logger   *slog.Logger
}

// NewIngestService creates a new IngestService. The registry is
// optional; when nil, ingestion skips the record write.
func NewIngestService(services *runtime.Services, index driven.VectorIndex, registry driven.DocumentStore, logger *slog.Logger) *IngestService {
	return &IngestService{
		services: services,
		index:    index,
		registry: registry,
		chunker:  NewChunker(DefaultChunkSize, DefaultChunkOverlap),
		logger:   logger,
	}
}

// Index implements driving.IngestService.
func (s *IngestService) Index(ctx context.Context, filename, content string, meta domain.IngestMetadata) error {
	if filename == "" {
		return fmt.Errorf("%w: filename is required", domain.ErrInvalidInput)
	}

	dense := s.services.DenseEmbedder()
	sparse := s.services.SparseEmbedder()
	if dense == nil || sparse == nil {
		return fmt.Errorf("%w: embedding services not configured", domain.ErrServiceUnavailable)
	}

	chunks := s.chunker.Split(content)
	if len(chunks) == 0 {
		s.logger.Info("nothing to index", "filename", filename)
		return nil
	}

	s.logger.Info("indexing document",
		"filename", filename,
		"chunks", len(chunks),
		"dense_model", dense.Model(),
	)

	indexed := 0
	for start := 0; start < len(chunks); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		if err := s.indexBatch(ctx, dense, sparse, filename, batch, start, len(chunks), meta); err != nil {
			return fmt.Errorf("indexed %d/%d chunks of %s: %w", indexed, len(chunks), filename, err)
		}
		indexed += len(batch)
	}

	s.saveRecord(ctx, filename, len(chunks), meta)

	s.logger.Info("document indexed", "filename", filename, "chunks", indexed)
	return nil
}

func (s *IngestService) indexBatch(ctx context.Context, dense driven.DenseEmbedder, sparse driven.SparseEmbedder, filename string, batch []string, offset, total int, meta domain.IngestMetadata) error {
	denseVecs, err := dense.Embed(ctx, batch)
	if err != nil {
		return fmt.Errorf("dense embedding: %w", err)
	}
	if len(denseVecs) != len(batch) {
		return fmt.Errorf("%w: dense embedder returned %d vectors for %d texts", domain.ErrProvider, len(denseVecs), len(batch))
	}

	sparseVecs, err := sparse.Embed(ctx, batch)
	if err != nil {
		return fmt.Errorf("sparse embedding: %w", err)
	}
	if len(sparseVecs) != len(batch) {
		return fmt.Errorf("%w: sparse embedder returned %d vectors for %d texts", domain.ErrProvider, len(sparseVecs), len(batch))
	}

	points := make([]domain.Point, len(batch))
	for i, chunk := range batch {
		points[i] = domain.Point{
			ID:     uuid.NewString(),
			Dense:  denseVecs[i],
			Sparse: sparseVecs[i],
			Payload: domain.Payload{
				SchemaVersion: domain.PayloadSchemaVersion,
				Filename:      filename,
				Content:       chunk,
				ChunkIndex:    offset + i,
				TotalChunks:   total,
				PageCount:     meta.PageCount,
				PIIMasked:     meta.PIIMasked,
				Extra:         meta.Extra,
			},
		}
	}

	if err := s.index.Upsert(ctx, points); err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	return nil
}

// saveRecord writes the registry record. The index is the source of
// truth, so a registry failure is logged and swallowed.
func (s *IngestService) saveRecord(ctx context.Context, filename string, chunkCount int, meta domain.IngestMetadata) {
	if s.registry == nil {
		return
	}

	now := time.Now()
	doc := &domain.Document{
		ID:         uuid.NewString(),
		Filename:   filename,
		PageCount:  meta.PageCount,
		ChunkCount: chunkCount,
		PIIMasked:  meta.PIIMasked,
		Metadata:   meta.Extra,
		CreatedAt:  now,
		IndexedAt:  now,
	}
	if err := s.registry.Save(ctx, doc); err != nil {
		s.logger.Warn("document registry write failed", "filename", filename, "error", err)
	}
}
