package domain

import "time"

// Document is the registry record for an ingested document. The vector
// index owns the chunks; this record only tracks what was ingested and
// when, for listing and audit. Re-ingesting the same filename updates
// the record but produces new, independent points in the index.
type Document struct {
	ID         string            `json:"id"`
	Filename   string            `json:"filename"`
	PageCount  int               `json:"page_count"`
	ChunkCount int               `json:"chunk_count"`
	PIIMasked  bool              `json:"pii_masked"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	IndexedAt  time.Time         `json:"indexed_at"`
}
