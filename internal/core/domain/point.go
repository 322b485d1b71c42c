package domain

// PayloadSchemaVersion identifies the payload layout written by the
// current ingestion code. Points carrying a different version were
// written by another release and need an explicit migration, not
// runtime shape-sniffing.
const PayloadSchemaVersion = 1

// SparseVector is a variable-support lexical representation: non-zero
// dimensions only, as parallel index/value slices.
type SparseVector struct {
	Indices []uint32  `json:"indices"`
	Values  []float32 `json:"values"`
}

// IsZero reports whether the vector has no active dimensions.
func (v SparseVector) IsZero() bool {
	return len(v.Indices) == 0
}

// Payload is the fixed, versioned payload stored alongside each indexed
// point. It is produced exclusively by the ingestion path.
type Payload struct {
	SchemaVersion int               `json:"schema_version"`
	Filename      string            `json:"filename"`
	Content       string            `json:"content"`
	ChunkIndex    int               `json:"chunk_index"`
	TotalChunks   int               `json:"total_chunks"`
	PageCount     int               `json:"page_count,omitempty"`
	PIIMasked     bool              `json:"pii_masked,omitempty"`
	Extra         map[string]string `json:"extra,omitempty"`
}

// Point is the persisted unit in the vector index: one dense vector,
// one sparse vector and the chunk payload, under a globally unique ID.
type Point struct {
	ID      string
	Dense   []float32
	Sparse  SparseVector
	Payload Payload
}

// ScoredPoint is a point returned from a single-signal retrieval with
// its backend-assigned relevance score.
type ScoredPoint struct {
	ID      string
	Score   float64
	Payload Payload
}
