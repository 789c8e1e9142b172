package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/justinphan3110cais/cais-ai-dashboard/internal/models"
)

// ErrEditDisabled is returned by ReplaceModels when edit mode is off.
var ErrEditDisabled = errors.New("edit mode is disabled")

// Store holds the current catalog snapshot. The snapshot is loaded on first
// use and replaced wholesale by Reload and ReplaceModels; readers never see
// a partially updated catalog.
type Store struct {
	datasets Source
	models   Source
	editMode bool
	logger   *slog.Logger

	mu      sync.RWMutex
	current *Snapshot
}

// NewStore creates a store that loads from the given sources.
func NewStore(datasetsSrc, modelsSrc Source, editMode bool, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{datasets: datasetsSrc, models: modelsSrc, editMode: editMode, logger: logger}
}

// NewStoreFromSnapshot creates a store serving s. Reload on such a store
// fails with ErrNoCatalog.
func NewStoreFromSnapshot(s *Snapshot, editMode bool) *Store {
	return &Store{current: s, editMode: editMode, logger: slog.Default()}
}

// EditMode reports whether ReplaceModels is allowed.
func (s *Store) EditMode() bool { return s.editMode }

// Snapshot returns the current snapshot, loading it on first use.
func (s *Store) Snapshot(ctx context.Context) (*Snapshot, error) {
	s.mu.RLock()
	cur := s.current
	s.mu.RUnlock()
	if cur != nil {
		return cur, nil
	}
	return s.Reload(ctx)
}

// Reload reads the sources again and swaps in the result. On failure the
// previous snapshot stays current.
func (s *Store) Reload(ctx context.Context) (*Snapshot, error) {
	if s.datasets == nil || s.models == nil {
		return nil, ErrNoCatalog
	}
	snap, err := Load(ctx, s.datasets, s.models)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()

	s.logger.Info("catalog loaded",
		"version", snap.Version,
		"datasets", len(snap.Catalog.Datasets),
		"models", len(snap.Catalog.Models))
	return snap, nil
}

// ReplaceModels swaps the model array of the current snapshot, keeping its
// datasets. The change lives in memory only.
func (s *Store) ReplaceModels(ctx context.Context, ms []models.Model) (*Snapshot, error) {
	if !s.editMode {
		return nil, ErrEditDisabled
	}
	ms = slices.Clone(ms)
	models.ApplyModelDefaults(ms)
	if errs := models.ValidateModels(ms); len(errs) > 0 {
		return nil, fmt.Errorf("invalid models: %w", errors.Join(errs...))
	}

	// Make sure a snapshot exists, then rebuild from whichever one is
	// current once the write lock is held.
	if _, err := s.Snapshot(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	snap := NewSnapshot(&models.Catalog{Datasets: s.current.Catalog.Datasets, Models: ms})
	s.current = snap
	s.mu.Unlock()

	s.logger.Info("models replaced", "version", snap.Version, "models", len(ms))
	return snap, nil
}

// Dataset looks up a dataset in the current snapshot.
func (s *Store) Dataset(ctx context.Context, id string) (models.Dataset, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return models.Dataset{}, err
	}
	d, ok := snap.Catalog.Dataset(id)
	if !ok {
		return models.Dataset{}, fmt.Errorf("%w: %s", ErrDatasetNotFound, id)
	}
	return d, nil
}
