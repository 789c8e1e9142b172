package webapi

import (
	"context"

	"github.com/justinphan3110cais/cais-ai-dashboard/internal/catalog"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/models"
)

//go:generate go tool mockgen -source=store.go -destination=mock_store_test.go -package=webapi

// SnapshotStore provides access to the current catalog snapshot.
type SnapshotStore interface {
	// Snapshot returns the current snapshot, loading it on first use.
	Snapshot(ctx context.Context) (*catalog.Snapshot, error)
	// Reload reads the catalog sources again.
	Reload(ctx context.Context) (*catalog.Snapshot, error)
	// ReplaceModels swaps the model array in memory (edit mode only).
	ReplaceModels(ctx context.Context, ms []models.Model) (*catalog.Snapshot, error)
	// EditMode reports whether ReplaceModels is allowed.
	EditMode() bool
}

// Ensure catalog.Store satisfies SnapshotStore.
var _ SnapshotStore = (*catalog.Store)(nil)
