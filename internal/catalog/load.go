// Package catalog loads the dataset and model catalogs and keeps the current
// snapshot for the dashboard.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/models"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/validation"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// ErrNoCatalog is returned when no catalog sources are configured.
var ErrNoCatalog = errors.New("no catalog configured")

// ErrDatasetNotFound is returned when a dataset id is not in the catalog.
var ErrDatasetNotFound = errors.New("dataset not found")

// SchemaError lists the schema violations found in one catalog document.
type SchemaError struct {
	Source   string
	Problems []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %d schema violation(s):\n  %s", e.Source, len(e.Problems), strings.Join(e.Problems, "\n  "))
}

// Snapshot is an immutable, versioned catalog. Every load or edit produces
// a new snapshot with a new version.
type Snapshot struct {
	Version  string
	Catalog  *models.Catalog
	LoadedAt time.Time
}

// NewSnapshot wraps c in a snapshot with a fresh version.
func NewSnapshot(c *models.Catalog) *Snapshot {
	return &Snapshot{
		Version:  uuid.NewString(),
		Catalog:  c,
		LoadedAt: time.Now().UTC(),
	}
}

type datasetsDoc struct {
	Datasets []models.Dataset `yaml:"datasets" json:"datasets"`
}

type modelsDoc struct {
	Models []models.Model `yaml:"models" json:"models"`
}

// Load reads both catalog documents concurrently, validates them against
// their schemas, applies defaults and checks cross-entry constraints.
func Load(ctx context.Context, datasetsSrc, modelsSrc Source) (*Snapshot, error) {
	if datasetsSrc == nil || modelsSrc == nil {
		return nil, ErrNoCatalog
	}

	var (
		datasets []models.Dataset
		ms       []models.Model
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := read(gctx, datasetsSrc)
		if err != nil {
			return err
		}
		datasets, err = DecodeDatasets(datasetsSrc.Name(), data)
		return err
	})
	g.Go(func() error {
		data, err := read(gctx, modelsSrc)
		if err != nil {
			return err
		}
		ms, err = DecodeModels(modelsSrc.Name(), data)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c := &models.Catalog{Datasets: datasets, Models: ms}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return NewSnapshot(c), nil
}

func read(ctx context.Context, src Source) ([]byte, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", src.Name(), err)
	}
	defer rc.Close() //nolint:errcheck

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", src.Name(), err)
	}
	return data, nil
}

// DecodeDatasets validates and decodes a datasets document. name selects
// the format and labels errors.
func DecodeDatasets(name string, data []byte) ([]models.Dataset, error) {
	if problems := validation.ValidateDatasetsBytes(data); len(problems) > 0 {
		return nil, &SchemaError{Source: name, Problems: problems}
	}
	var doc datasetsDoc
	if err := decode(name, data, &doc); err != nil {
		return nil, err
	}
	return doc.Datasets, nil
}

// DecodeModels validates and decodes a models document, which is either a
// mapping with a "models" key or a bare list.
func DecodeModels(name string, data []byte) ([]models.Model, error) {
	if problems := validation.ValidateModelsBytes(data); len(problems) > 0 {
		return nil, &SchemaError{Source: name, Problems: problems}
	}
	if isList(name, data) {
		var ms []models.Model
		if err := decode(name, data, &ms); err != nil {
			return nil, err
		}
		return ms, nil
	}
	var doc modelsDoc
	if err := decode(name, data, &doc); err != nil {
		return nil, err
	}
	return doc.Models, nil
}

func decode(name string, data []byte, v any) error {
	var err error
	if format(name) == "json" {
		err = json.Unmarshal(data, v)
	} else {
		err = yaml.Unmarshal(data, v)
	}
	if err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

func isList(name string, data []byte) bool {
	if format(name) == "json" {
		return bytes.HasPrefix(bytes.TrimSpace(data), []byte("["))
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil || len(node.Content) == 0 {
		return false
	}
	return node.Content[0].Kind == yaml.SequenceNode
}
