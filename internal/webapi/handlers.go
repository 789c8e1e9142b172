package webapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/catalog"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/categories"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/engine"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/labels"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/models"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/selection"
)

// Version is set at build time or defaults to dev.
var Version = "0.1.0-dev"

// maxBodyBytes bounds request bodies accepted by POST and PUT handlers.
const maxBodyBytes = 8 << 20

// Recorder receives catalog lifecycle events. *telemetry.Metrics
// implements it.
type Recorder interface {
	ObserveReload(err error)
	ObserveModelEdit()
}

// Options configures Handlers.
type Options struct {
	Engine   *engine.Engine
	Labels   labels.Table
	Recorder Recorder
	Logger   *slog.Logger
	// DefaultSection and DefaultSize apply when a request omits them.
	DefaultSection models.Section
	DefaultSize    models.ModelSize
}

// Handlers holds the HTTP handler methods for the web API.
type Handlers struct {
	store    SnapshotStore
	engine   *engine.Engine
	labels   labels.Table
	recorder Recorder
	logger   *slog.Logger
	section  models.Section
	size     models.ModelSize
}

// NewHandlers creates a new Handlers with the given store.
func NewHandlers(store SnapshotStore, opts Options) *Handlers {
	if opts.Engine == nil {
		opts.Engine = engine.New(nil, opts.Logger)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.DefaultSection == "" {
		opts.DefaultSection = models.SectionText
	}
	if opts.DefaultSize == "" {
		opts.DefaultSize = models.SizeStandard
	}
	return &Handlers{
		store:    store,
		engine:   opts.Engine,
		labels:   opts.Labels,
		recorder: opts.Recorder,
		logger:   opts.Logger,
		section:  opts.DefaultSection,
		size:     opts.DefaultSize,
	}
}

// RegisterRoutes registers all web API routes on the given router.
func RegisterRoutes(r chi.Router, h *Handlers) {
	r.Get("/api/health", h.HandleHealth)
	r.Get("/api/datasets", h.HandleDatasets)
	r.Get("/api/datasets/{id}", h.HandleDatasetDetail)
	r.Get("/api/categories", h.HandleCategories)
	r.Get("/api/models", h.HandleModels)
	r.Put("/api/models", h.HandleReplaceModels)
	r.Get("/api/view", h.HandleView)
	r.Post("/api/view", h.HandleViewPost)
	r.Get("/api/labels", h.HandleLabels)
	r.Post("/api/reload", h.HandleReload)
}

// HandleHealth returns a simple health check response.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: Version,
	})
}

// HandleDatasets lists the catalog datasets, filtered by ?section= when set.
func (h *Handlers) HandleDatasets(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	datasets := snap.Catalog.Datasets
	if raw := r.URL.Query().Get("section"); raw != "" {
		section, err := models.ParseSection(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		datasets = snap.Catalog.DatasetsIn(section)
	}
	if datasets == nil {
		datasets = []models.Dataset{}
	}
	writeJSON(w, http.StatusOK, DatasetsResponse{CatalogInfo: info(snap), Datasets: datasets})
}

// HandleDatasetDetail returns a single dataset.
func (h *Handlers) HandleDatasetDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "dataset id is required")
		return
	}

	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	d, found := snap.Catalog.Dataset(id)
	if !found {
		writeError(w, http.StatusNotFound, catalog.ErrDatasetNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// HandleCategories returns the category groups of ?section= (default text).
func (h *Handlers) HandleCategories(w http.ResponseWriter, r *http.Request) {
	section := h.section
	if raw := r.URL.Query().Get("section"); raw != "" {
		var err error
		if section, err = models.ParseSection(raw); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	groups := categories.Group(snap.Catalog.DatasetsIn(section))
	resp := CategoriesResponse{CatalogInfo: info(snap), Section: section, Categories: []CategoryResponse{}}
	for _, g := range groups {
		resp.Categories = append(resp.Categories, CategoryResponse{
			ID:       g.ID,
			Name:     g.Name,
			Datasets: models.DatasetIDs(g.Datasets),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleModels lists every model in the catalog.
func (h *Handlers) HandleModels(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	ms := snap.Catalog.Models
	if ms == nil {
		ms = []models.Model{}
	}
	writeJSON(w, http.StatusOK, ModelsResponse{CatalogInfo: info(snap), Models: ms})
}

// HandleReplaceModels replaces the in-memory model array. The body is either
// {"models": [...]} or a bare array, validated like a models catalog file.
func (h *Handlers) HandleReplaceModels(w http.ResponseWriter, r *http.Request) {
	if !h.store.EditMode() {
		writeError(w, http.StatusForbidden, catalog.ErrEditDisabled.Error())
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("reading body: %v", err))
		return
	}
	ms, err := catalog.DecodeModels("request.json", body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := h.store.ReplaceModels(r.Context(), ms)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrEditDisabled):
			writeError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, catalog.ErrNoCatalog):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		default:
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		}
		return
	}
	if h.recorder != nil {
		h.recorder.ObserveModelEdit()
	}
	h.logger.Info("models replaced via API", "version", snap.Version, "models", len(ms))
	writeJSON(w, http.StatusOK, reloadResponse(snap))
}

// HandleView computes a view from query parameters:
// ?section=&select=a,b&narrow=&size=
func (h *Handlers) HandleView(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	vr := ViewRequest{
		Section: q.Get("section"),
		Select:  splitList(q["select"]),
		Size:    q.Get("size"),
	}
	if raw := q.Get("narrow"); raw != "" {
		narrow, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid narrow value %q", raw))
			return
		}
		vr.Narrow = narrow
	}
	h.serveView(w, r, vr)
}

// HandleViewPost computes a view from a JSON ViewRequest body.
func (h *Handlers) HandleViewPost(w http.ResponseWriter, r *http.Request) {
	var vr ViewRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&vr); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid view request: %v", err))
		return
	}
	h.serveView(w, r, vr)
}

func (h *Handlers) serveView(w http.ResponseWriter, r *http.Request, vr ViewRequest) {
	req, err := h.engineRequest(vr)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	view := h.engine.View(snap.Version, snap.Catalog, req)
	writeJSON(w, http.StatusOK, ViewResponse{
		CatalogInfo:    info(snap),
		View:           view,
		LabelPositions: h.labels.Resolve(labeledNames(view), selectedIDs(view)),
	})
}

// HandleLabels returns label placements for every model given ?select=.
func (h *Handlers) HandleLabels(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	names := make([]string, 0, len(snap.Catalog.Models))
	for _, m := range snap.Catalog.Models {
		names = append(names, m.Name)
	}
	selected := splitList(r.URL.Query()["select"])
	writeJSON(w, http.StatusOK, LabelsResponse{Positions: h.labels.Resolve(names, selected)})
}

// HandleReload re-reads the catalog sources.
func (h *Handlers) HandleReload(w http.ResponseWriter, r *http.Request) {
	snap, err := h.store.Reload(r.Context())
	if h.recorder != nil {
		h.recorder.ObserveReload(err)
	}
	if err != nil {
		h.logger.Error("catalog reload failed", "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, catalog.ErrNoCatalog) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, reloadResponse(snap))
}

func (h *Handlers) snapshot(w http.ResponseWriter, r *http.Request) (*catalog.Snapshot, bool) {
	snap, err := h.store.Snapshot(r.Context())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, catalog.ErrNoCatalog) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, err.Error())
		return nil, false
	}
	return snap, true
}

func (h *Handlers) engineRequest(vr ViewRequest) (engine.Request, error) {
	req := engine.Request{
		Section:   h.section,
		Selection: selection.Parse(vr.Select),
		Narrow:    vr.Narrow,
		Size:      h.size,
	}
	if vr.Section != "" {
		section, err := models.ParseSection(vr.Section)
		if err != nil {
			return engine.Request{}, err
		}
		req.Section = section
	}
	if vr.Size != "" {
		size, err := models.ParseModelSize(vr.Size)
		if err != nil {
			return engine.Request{}, err
		}
		req.Size = size
	}
	return req, nil
}

// labeledNames returns every model with a sampled label in the view.
func labeledNames(v *engine.View) []string {
	var names []string
	seen := make(map[string]bool)
	for _, list := range [][]models.PeriodicLabel{v.Labels.Best, v.Labels.Worst} {
		for _, l := range list {
			if !seen[l.ModelName] {
				seen[l.ModelName] = true
				names = append(names, l.ModelName)
			}
		}
	}
	return names
}

// selectedIDs returns the explicitly selected datasets. Index mode selects
// nothing in particular, so no per-dataset override applies.
func selectedIDs(v *engine.View) []string {
	if v.IndexMode {
		return nil
	}
	return v.EffectiveDatasets
}

// splitList flattens repeated and comma-separated query values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func info(s *catalog.Snapshot) CatalogInfo {
	return CatalogInfo{Version: s.Version, LoadedAt: s.LoadedAt}
}

func reloadResponse(s *catalog.Snapshot) ReloadResponse {
	return ReloadResponse{
		CatalogInfo: info(s),
		Datasets:    len(s.Catalog.Datasets),
		Models:      len(s.Catalog.Models),
	}
}

// CORSMiddleware wraps a handler with CORS headers.
// If allowedOrigins is empty, no CORS header is set (same-origin only).
// Otherwise, the request Origin is checked against the allowed list.
func CORSMiddleware(next http.Handler, allowedOrigins ...string) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if len(allowedOrigins) > 0 && origin != "" && (allowed[origin] || allowed["*"]) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, ErrorResponse{Error: msg, Code: code})
}
