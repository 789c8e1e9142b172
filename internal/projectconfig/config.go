// Package projectconfig provides the ProjectConfig struct and loader for
// .dashboard.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/justinphan3110cais/cais-ai-dashboard/internal/labels"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the project configuration file.
const FileName = ".dashboard.yaml"

// Default values for project configuration. New() references them and no
// other code should duplicate them.
const (
	DefaultDatasetsPath = "data/datasets.yaml"
	DefaultModelsPath   = "data/models.yaml"

	DefaultServerPort = 3000

	DefaultSection     = "text"
	DefaultSize        = "standard"
	DefaultNarrowWidth = 100

	DefaultCacheMaxEntries = 256
)

// CatalogConfig holds the locations of the catalog documents. Each is a
// local path (optionally .gz) or an azblob://container/blob reference.
type CatalogConfig struct {
	Datasets string `yaml:"datasets,omitempty"`
	Models   string `yaml:"models,omitempty"`
}

// ServerConfig holds dashboard server settings.
type ServerConfig struct {
	Port        int      `yaml:"port,omitempty"`
	CORSOrigins []string `yaml:"cors_origins,omitempty"`
	EditMode    *bool    `yaml:"edit_mode,omitempty"`
}

// ViewConfig holds the defaults for rendered views.
type ViewConfig struct {
	Section string `yaml:"section,omitempty"`
	Size    string `yaml:"size,omitempty"`
	// NarrowWidth is the terminal width in columns below which the CLI
	// renders the narrow layout.
	NarrowWidth int `yaml:"narrow_width,omitempty"`
}

// CacheConfig holds view memoization settings.
type CacheConfig struct {
	Enabled    *bool `yaml:"enabled,omitempty"`
	MaxEntries int   `yaml:"max_entries,omitempty"`
}

// BlobConfig holds Azure Blob Storage settings for azblob:// references.
type BlobConfig struct {
	AccountURL string `yaml:"account_url,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .dashboard.yaml.
type ProjectConfig struct {
	Catalog CatalogConfig `yaml:"catalog,omitempty"`
	Server  ServerConfig  `yaml:"server,omitempty"`
	View    ViewConfig    `yaml:"view,omitempty"`
	Cache   CacheConfig   `yaml:"cache,omitempty"`
	Labels  labels.Table  `yaml:"labels,omitempty"`
	Blob    BlobConfig    `yaml:"blob,omitempty"`

	// Dir is the directory holding the loaded config file. Relative
	// catalog paths resolve against it. Empty when no file was found.
	Dir string `yaml:"-"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Catalog: CatalogConfig{
			Datasets: DefaultDatasetsPath,
			Models:   DefaultModelsPath,
		},
		Server: ServerConfig{
			Port:     DefaultServerPort,
			EditMode: boolPtr(false),
		},
		View: ViewConfig{
			Section:     DefaultSection,
			Size:        DefaultSize,
			NarrowWidth: DefaultNarrowWidth,
		},
		Cache: CacheConfig{
			Enabled:    boolPtr(true),
			MaxEntries: DefaultCacheMaxEntries,
		},
		Labels: labels.Table{},
	}
}

// Load finds .dashboard.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	path, data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	mergeConfig(cfg, &fileCfg)
	cfg.Dir = filepath.Dir(path)
	return cfg, nil
}

// ResolvePath resolves a catalog reference against the config directory.
// Absolute paths and azblob:// references are returned unchanged.
func (c *ProjectConfig) ResolvePath(ref string) string {
	if ref == "" || c.Dir == "" || filepath.IsAbs(ref) || strings.Contains(ref, "://") {
		return ref
	}
	return filepath.Join(c.Dir, ref)
}

// EditModeEnabled reports whether PUT /api/models is allowed.
func (c *ProjectConfig) EditModeEnabled() bool {
	return c.Server.EditMode != nil && *c.Server.EditMode
}

// CacheEnabled reports whether computed views are memoized.
func (c *ProjectConfig) CacheEnabled() bool {
	return c.Cache.Enabled == nil || *c.Cache.Enabled
}

// findConfigFile walks up from dir looking for .dashboard.yaml (max 10
// levels). Returns os.ErrNotExist if no config file is found.
func findConfigFile(dir string) (string, []byte, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return p, data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return "", nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	// Catalog
	if src.Catalog.Datasets != "" {
		dst.Catalog.Datasets = src.Catalog.Datasets
	}
	if src.Catalog.Models != "" {
		dst.Catalog.Models = src.Catalog.Models
	}

	// Server
	if src.Server.Port != 0 {
		dst.Server.Port = src.Server.Port
	}
	if len(src.Server.CORSOrigins) > 0 {
		dst.Server.CORSOrigins = src.Server.CORSOrigins
	}
	if src.Server.EditMode != nil {
		dst.Server.EditMode = src.Server.EditMode
	}

	// View
	if src.View.Section != "" {
		dst.View.Section = src.View.Section
	}
	if src.View.Size != "" {
		dst.View.Size = src.View.Size
	}
	if src.View.NarrowWidth != 0 {
		dst.View.NarrowWidth = src.View.NarrowWidth
	}

	// Cache
	if src.Cache.Enabled != nil {
		dst.Cache.Enabled = src.Cache.Enabled
	}
	if src.Cache.MaxEntries != 0 {
		dst.Cache.MaxEntries = src.Cache.MaxEntries
	}

	// Labels
	for name, entry := range src.Labels {
		dst.Labels[name] = entry
	}

	// Blob
	if src.Blob.AccountURL != "" {
		dst.Blob.AccountURL = src.Blob.AccountURL
	}
}

func boolPtr(b bool) *bool {
	return &b
}
