package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/synapse-med/synapse-core/internal/core/domain"
	"github.com/synapse-med/synapse-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore implements driven.DocumentStore using PostgreSQL.
// Records are keyed by filename: re-ingesting the same file replaces
// its registry record while the vector index accumulates new points.
type DocumentStore struct {
	db *DB
}

// NewDocumentStore creates a new DocumentStore
func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Save creates or updates the record for a filename
func (s *DocumentStore) Save(ctx context.Context, doc *domain.Document) error {
	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO documents (id, filename, page_count, chunk_count, pii_masked, metadata, created_at, indexed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (filename) DO UPDATE SET
			page_count = EXCLUDED.page_count,
			chunk_count = EXCLUDED.chunk_count,
			pii_masked = EXCLUDED.pii_masked,
			metadata = EXCLUDED.metadata,
			indexed_at = EXCLUDED.indexed_at
	`

	_, err = s.db.ExecContext(ctx, query,
		doc.ID,
		doc.Filename,
		doc.PageCount,
		doc.ChunkCount,
		doc.PIIMasked,
		metadataJSON,
		doc.CreatedAt,
		doc.IndexedAt,
	)
	return err
}

// Get retrieves a record by ID
func (s *DocumentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	query := `
		SELECT id, filename, page_count, chunk_count, pii_masked, metadata, created_at, indexed_at
		FROM documents
		WHERE id = $1
	`

	return s.scanDocument(s.db.QueryRowContext(ctx, query, id))
}

// GetByFilename retrieves the record for a filename
func (s *DocumentStore) GetByFilename(ctx context.Context, filename string) (*domain.Document, error) {
	query := `
		SELECT id, filename, page_count, chunk_count, pii_masked, metadata, created_at, indexed_at
		FROM documents
		WHERE filename = $1
	`

	return s.scanDocument(s.db.QueryRowContext(ctx, query, filename))
}

// List retrieves records ordered by indexing time, newest first
func (s *DocumentStore) List(ctx context.Context, limit, offset int) ([]*domain.Document, error) {
	query := `
		SELECT id, filename, page_count, chunk_count, pii_masked, metadata, created_at, indexed_at
		FROM documents
		ORDER BY indexed_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		doc, err := scanRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Count returns the total number of records
func (s *DocumentStore) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM documents`
	var count int
	err := s.db.QueryRowContext(ctx, query).Scan(&count)
	return count, err
}

func (s *DocumentStore) scanDocument(row *sql.Row) (*domain.Document, error) {
	doc, err := scanRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return doc, err
}

func scanRow(scan func(...any) error) (*domain.Document, error) {
	var doc domain.Document
	var metadataJSON []byte

	err := scan(
		&doc.ID,
		&doc.Filename,
		&doc.PageCount,
		&doc.ChunkCount,
		&doc.PIIMasked,
		&metadataJSON,
		&doc.CreatedAt,
		&doc.IndexedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &doc.Metadata); err != nil {
			return nil, err
		}
	}

	return &doc, nil
}
