package webapi

import (
	"time"

	"github.com/justinphan3110cais/cais-ai-dashboard/internal/engine"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/labels"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/models"
)

// CatalogInfo identifies the snapshot a response was computed from.
type CatalogInfo struct {
	Version  string    `json:"version"`
	LoadedAt time.Time `json:"loadedAt"`
}

// DatasetsResponse lists datasets, optionally filtered by section.
type DatasetsResponse struct {
	CatalogInfo
	Datasets []models.Dataset `json:"datasets"`
}

// CategoryResponse is one category group with the ids of its datasets.
type CategoryResponse struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Datasets []string `json:"datasets"`
}

// CategoriesResponse lists the category groups of a section.
type CategoriesResponse struct {
	CatalogInfo
	Section    models.Section     `json:"section"`
	Categories []CategoryResponse `json:"categories"`
}

// ModelsResponse lists every model in the catalog.
type ModelsResponse struct {
	CatalogInfo
	Models []models.Model `json:"models"`
}

// ModelsRequest is the body of PUT /api/models.
type ModelsRequest struct {
	Models []models.Model `json:"models"`
}

// ViewRequest is the body of POST /api/view.
type ViewRequest struct {
	Section string   `json:"section,omitempty"`
	Select  []string `json:"select,omitempty"`
	Narrow  bool     `json:"narrow,omitempty"`
	Size    string   `json:"size,omitempty"`
}

// ViewResponse is a computed view with its label placements.
type ViewResponse struct {
	CatalogInfo
	*engine.View
	LabelPositions map[string]labels.Position `json:"labelPositions"`
}

// LabelsResponse maps model names to label placements.
type LabelsResponse struct {
	Positions map[string]labels.Position `json:"positions"`
}

// ReloadResponse reports the snapshot produced by a reload or edit.
type ReloadResponse struct {
	CatalogInfo
	Datasets int `json:"datasets"`
	Models   int `json:"models"`
}

// HealthResponse is the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is returned for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
