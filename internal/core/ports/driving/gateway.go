package driving

import (
	"context"

	"github.com/synapse-med/synapse-core/internal/core/domain"
)

// Gateway is the secure front of every user-facing text path: all text
// is PII-masked before it reaches a language model.
type Gateway interface {
	// Sanitize masks PII in the text. Fail-open: on internal failure
	// the original text is returned with the result flagged degraded.
	Sanitize(ctx context.Context, text string) domain.SanitizeResult

	// Classify routes an already-sanitized query to CHAT or RAG.
	// Any backend failure defaults to RAG.
	Classify(ctx context.Context, query string) domain.Intent

	// Answer is the single queue-executable entry point: it sanitizes
	// the raw query, classifies it, and produces either a direct
	// conversational reply or a document-grounded answer.
	Answer(ctx context.Context, query string) (string, error)
}
