package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/justinphan3110cais/cais-ai-dashboard/internal/cache"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/catalog"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/engine"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/projectconfig"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/spinner"
	"github.com/spf13/cobra"
)

// projectFlags locate the project config and optionally override the
// catalog references it names.
type projectFlags struct {
	dir      string
	datasets string
	models   string
}

func addProjectFlags(cmd *cobra.Command, f *projectFlags) {
	cmd.Flags().StringVar(&f.dir, "dir", "", "Directory to search for "+projectconfig.FileName+" (default: current directory)")
	cmd.Flags().StringVar(&f.datasets, "datasets", "", "Datasets catalog path or azblob://container/blob reference")
	cmd.Flags().StringVar(&f.models, "models", "", "Models catalog path or azblob://container/blob reference")
}

// project is a loaded config with its catalog sources resolved.
type project struct {
	cfg      *projectconfig.ProjectConfig
	datasets catalog.Source
	models   catalog.Source
}

func loadProject(f projectFlags) (*project, error) {
	dir := f.dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		dir = wd
	}

	cfg, err := projectconfig.Load(dir)
	if err != nil {
		return nil, err
	}

	datasetsRef := cfg.ResolvePath(cfg.Catalog.Datasets)
	if f.datasets != "" {
		datasetsRef = f.datasets
	}
	modelsRef := cfg.ResolvePath(cfg.Catalog.Models)
	if f.models != "" {
		modelsRef = f.models
	}

	p := &project{cfg: cfg}
	if p.datasets, err = catalog.OpenRef(datasetsRef, cfg.Blob.AccountURL); err != nil {
		return nil, fmt.Errorf("datasets catalog: %w", err)
	}
	if p.models, err = catalog.OpenRef(modelsRef, cfg.Blob.AccountURL); err != nil {
		return nil, fmt.Errorf("models catalog: %w", err)
	}
	return p, nil
}

// load reads the catalog, showing a spinner on progress when it is a
// terminal.
func (p *project) load(ctx context.Context, progress io.Writer) (*catalog.Snapshot, error) {
	stop := spinner.OnTerminal(progress, "Loading catalog")
	snap, err := catalog.Load(ctx, p.datasets, p.models)
	stop()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return snap, nil
}

func (p *project) store(editMode bool, logger *slog.Logger) *catalog.Store {
	return catalog.NewStore(p.datasets, p.models, editMode, logger)
}

// engine builds a view engine, memoizing when the config enables it.
func (p *project) engine(logger *slog.Logger) *engine.Engine {
	var memo *cache.Memo[*engine.View]
	if p.cfg.CacheEnabled() {
		memo = cache.NewMemo[*engine.View](p.cfg.Cache.MaxEntries)
	}
	return engine.New(memo, logger)
}
