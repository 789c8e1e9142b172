package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/justinphan3110cais/cais-ai-dashboard/internal/models"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/telemetry"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/webapi"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/webserver"
	"github.com/spf13/cobra"
)

type serveFlags struct {
	port int
	host string
	edit bool
	open bool
	lazy bool
}

func newServeCommand() *cobra.Command {
	var pf projectFlags
	var sf serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve computed views over a REST API",
		Long: `Serve computed views over a REST API.

The catalog is loaded on start and again on POST /api/reload. With --edit
(or server.edit_mode in the config), PUT /api/models replaces the model
array in memory; nothing is written back to the catalog files.

Endpoints:
  GET  /api/health          Health check
  GET  /api/datasets        Datasets (?section=)
  GET  /api/datasets/{id}   One dataset
  GET  /api/categories      Category groups (?section=)
  GET  /api/models          Models
  PUT  /api/models          Replace models (edit mode)
  GET  /api/view            View (?section=&select=a,b&narrow=&size=)
  POST /api/view            View from a JSON request
  GET  /api/labels          Label placements (?select=)
  POST /api/reload          Re-read the catalog
  GET  /metrics             Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := loadProject(pf)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := buildServer(ctx, p, sf, cmd.Flags().Changed("edit"), slog.Default())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dashboard API: http://%s/api/health\n", srv.Addr()) //nolint:errcheck
			return srv.ListenAndServe(ctx)
		},
	}

	addProjectFlags(cmd, &pf)
	cmd.Flags().IntVar(&sf.port, "port", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVar(&sf.host, "host", "127.0.0.1", "Interface to bind")
	cmd.Flags().BoolVar(&sf.edit, "edit", false, "Allow PUT /api/models to replace models in memory")
	cmd.Flags().BoolVar(&sf.open, "open", false, "Open the health endpoint in a browser once started")
	cmd.Flags().BoolVar(&sf.lazy, "lazy", false, "Defer loading the catalog until the first request")

	return cmd
}

// buildServer wires the catalog store, view engine, metrics and handlers.
// editSet reports whether --edit was given explicitly; otherwise the config
// decides.
func buildServer(ctx context.Context, p *project, sf serveFlags, editSet bool, logger *slog.Logger) (*webserver.Server, error) {
	cfg := p.cfg

	editMode := cfg.EditModeEnabled()
	if editSet {
		editMode = sf.edit
	}
	port := cfg.Server.Port
	if sf.port != 0 {
		port = sf.port
	}

	section, err := models.ParseSection(cfg.View.Section)
	if err != nil {
		return nil, fmt.Errorf("config view.section: %w", err)
	}
	size, err := models.ParseModelSize(cfg.View.Size)
	if err != nil {
		return nil, fmt.Errorf("config view.size: %w", err)
	}
	if err := cfg.Labels.Validate(); err != nil {
		return nil, fmt.Errorf("config labels: %w", err)
	}

	store := p.store(editMode, logger)
	metrics := telemetry.New()
	if !sf.lazy {
		_, err := store.Reload(ctx)
		metrics.ObserveReload(err)
		if err != nil {
			return nil, err
		}
	}

	handlers := webapi.NewHandlers(store, webapi.Options{
		Engine:         p.engine(logger).WithObserver(metrics),
		Labels:         cfg.Labels,
		Recorder:       metrics,
		Logger:         logger,
		DefaultSection: section,
		DefaultSize:    size,
	})

	return webserver.New(webserver.Config{
		Port:        port,
		Host:        sf.host,
		CORSOrigins: cfg.Server.CORSOrigins,
		NoBrowser:   !sf.open,
		Logger:      logger,
		Handlers:    handlers,
		Metrics:     metrics.Handler(),
	})
}
