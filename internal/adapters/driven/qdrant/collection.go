package qdrant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/synapse-med/synapse-core/internal/core/domain"
)

// Manager governs the collection schema at startup. A collection is
// valid only when it carries the unnamed cosine dense vector of the
// expected size plus the named sparse slot; anything else was written
// by different code and is unusable for hybrid search.
//
// Recreating a mismatched collection destroys its points. The data is
// re-ingestible from source documents, but the drop is gated behind
// AllowRecreate so deployments without easy re-ingestion fail loudly
// instead of losing data silently.
type Manager struct {
	client        *Client
	denseSize     int
	allowRecreate bool
	logger        *slog.Logger
}

// NewManager creates a collection manager for the client
func NewManager(client *Client, denseSize int, allowRecreate bool, logger *slog.Logger) *Manager {
	return &Manager{
		client:        client,
		denseSize:     denseSize,
		allowRecreate: allowRecreate,
		logger:        logger,
	}
}

// EnsureCollection brings the collection to the expected schema.
// Missing collections are created. Mismatched or undecodable ones are
// dropped and recreated when recreation is allowed, otherwise
// ErrSchemaInvalid is returned with the mismatch reason.
func (m *Manager) EnsureCollection(ctx context.Context) error {
	info, err := m.client.GetCollectionInfo(ctx)

	switch {
	case err == nil:
		reason := m.schemaMismatch(info)
		if reason == "" {
			m.logger.Debug("collection schema valid", "collection", m.client.Collection())
			return nil
		}
		return m.recreate(ctx, reason)

	case errors.Is(err, domain.ErrNotFound):
		m.logger.Info("collection absent, creating",
			"collection", m.client.Collection(),
			"dense_size", m.denseSize,
		)
		return m.client.CreateCollection(ctx, m.denseSize)

	case errors.Is(err, domain.ErrSchemaInvalid):
		return m.recreate(ctx, "collection config undecodable")

	default:
		return err
	}
}

// schemaMismatch returns a non-empty reason when the collection does
// not match the expected dual-vector layout.
func (m *Manager) schemaMismatch(info *collectionInfo) string {
	params := info.Config.Params
	if params.Vectors.Size != m.denseSize {
		return fmt.Sprintf("dense size %d, expected %d", params.Vectors.Size, m.denseSize)
	}
	if params.Vectors.Distance != "Cosine" {
		return fmt.Sprintf("distance %q, expected Cosine", params.Vectors.Distance)
	}
	if _, ok := params.SparseVectors[SparseVectorName]; !ok {
		return fmt.Sprintf("missing sparse vector slot %q", SparseVectorName)
	}
	return ""
}

func (m *Manager) recreate(ctx context.Context, reason string) error {
	if !m.allowRecreate {
		return fmt.Errorf("%w: %s (recreation not allowed)", domain.ErrSchemaInvalid, reason)
	}

	m.logger.Warn("dropping mismatched collection, points will be lost",
		"collection", m.client.Collection(),
		"reason", reason,
	)
	if err := m.client.DeleteCollection(ctx); err != nil {
		return fmt.Errorf("drop mismatched collection: %w", err)
	}
	return m.client.CreateCollection(ctx, m.denseSize)
}
