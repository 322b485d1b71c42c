package qdrant

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/synapse-med/synapse-core/internal/core/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestManager_CreatesAbsentCollection(t *testing.T) {
	fake := newFakeQdrant()
	client := newTestClient(t, fake)
	manager := NewManager(client, 384, false, testLogger())

	if err := manager.EnsureCollection(context.Background()); err != nil {
		t.Fatalf("EnsureCollection failed: %v", err)
	}
	if fake.createCalls != 1 {
		t.Errorf("expected 1 create call, got %d", fake.createCalls)
	}
	if fake.deleteCalls != 0 {
		t.Errorf("absent collection must not trigger a delete, got %d", fake.deleteCalls)
	}
	if fake.denseSize != 384 || fake.distance != "Cosine" {
		t.Errorf("unexpected created schema: size=%d distance=%q", fake.denseSize, fake.distance)
	}
	if _, ok := fake.sparseSlots[SparseVectorName]; !ok {
		t.Error("created collection missing the sparse slot")
	}
}

func TestManager_ValidCollectionUntouched(t *testing.T) {
	fake := newFakeQdrant()
	fake.seed(384, "Cosine", SparseVectorName)
	client := newTestClient(t, fake)
	manager := NewManager(client, 384, true, testLogger())

	if err := manager.EnsureCollection(context.Background()); err != nil {
		t.Fatalf("EnsureCollection failed: %v", err)
	}
	if fake.createCalls != 0 || fake.deleteCalls != 0 {
		t.Errorf("valid collection must be a no-op: creates=%d deletes=%d",
			fake.createCalls, fake.deleteCalls)
	}
}

func TestManager_RecreatesOnDenseSizeMismatch(t *testing.T) {
	fake := newFakeQdrant()
	fake.seed(1536, "Cosine", SparseVectorName)
	client := newTestClient(t, fake)
	manager := NewManager(client, 384, true, testLogger())

	if err := manager.EnsureCollection(context.Background()); err != nil {
		t.Fatalf("EnsureCollection failed: %v", err)
	}
	if fake.deleteCalls != 1 || fake.createCalls != 1 {
		t.Errorf("expected drop and recreate: creates=%d deletes=%d",
			fake.createCalls, fake.deleteCalls)
	}
	if fake.denseSize != 384 {
		t.Errorf("recreated with wrong dense size: %d", fake.denseSize)
	}
}

func TestManager_RecreatesOnMissingSparseSlot(t *testing.T) {
	fake := newFakeQdrant()
	fake.seed(384, "Cosine")
	client := newTestClient(t, fake)
	manager := NewManager(client, 384, true, testLogger())

	if err := manager.EnsureCollection(context.Background()); err != nil {
		t.Fatalf("EnsureCollection failed: %v", err)
	}
	if fake.deleteCalls != 1 {
		t.Error("expected mismatched collection dropped")
	}
	if _, ok := fake.sparseSlots[SparseVectorName]; !ok {
		t.Error("recreated collection missing the sparse slot")
	}
}

func TestManager_RecreatesOnUndecodableConfig(t *testing.T) {
	fake := newFakeQdrant()
	fake.seed(384, "Cosine", SparseVectorName)
	fake.undecodable = true
	client := newTestClient(t, fake)
	manager := NewManager(client, 384, true, testLogger())

	if err := manager.EnsureCollection(context.Background()); err != nil {
		t.Fatalf("EnsureCollection failed: %v", err)
	}
	if fake.deleteCalls != 1 || fake.createCalls != 1 {
		t.Errorf("expected drop and recreate: creates=%d deletes=%d",
			fake.createCalls, fake.deleteCalls)
	}
}

func TestManager_RecreateGatedByFlag(t *testing.T) {
	fake := newFakeQdrant()
	fake.seed(1536, "Cosine", SparseVectorName)
	client := newTestClient(t, fake)
	manager := NewManager(client, 384, false, testLogger())

	err := manager.EnsureCollection(context.Background())
	if !errors.Is(err, domain.ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
	if fake.deleteCalls != 0 {
		t.Error("recreate flag off must never drop the collection")
	}
}
