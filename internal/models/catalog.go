package models

import (
	"errors"
	"fmt"
	"time"
)

// Catalog is the full set of datasets and models the dashboard renders.
type Catalog struct {
	Datasets []Dataset `yaml:"datasets" json:"datasets"`
	Models   []Model   `yaml:"models" json:"models"`
}

// ApplyDefaults fills in the optional attributes catalogs may omit.
func (c *Catalog) ApplyDefaults() {
	for i := range c.Datasets {
		d := &c.Datasets[i]
		if d.Polarity == "" {
			d.Polarity = HigherIsBetter
		}
		if d.Section == "" {
			d.Section = SectionText
		}
		if d.Category == "" {
			d.Category = CategoryCapabilities
			if d.Section == SectionSafety {
				d.Category = CategorySafety
			}
		}
	}
	ApplyModelDefaults(c.Models)
}

// ApplyModelDefaults fills in the default size of models that omit one.
func ApplyModelDefaults(models []Model) {
	for i := range models {
		if models[i].Size == "" {
			models[i].Size = SizeStandard
		}
	}
}

// Validate checks that the catalog is well formed. It reports every
// problem found rather than stopping at the first.
func (c *Catalog) Validate() error {
	var errs []error

	seen := make(map[string]bool, len(c.Datasets))
	for i, d := range c.Datasets {
		if d.ID == "" {
			errs = append(errs, fmt.Errorf("datasets[%d]: id is required", i))
			continue
		}
		if seen[d.ID] {
			errs = append(errs, fmt.Errorf("datasets[%d]: duplicate id %q", i, d.ID))
		}
		seen[d.ID] = true
		if !d.Polarity.Valid() {
			errs = append(errs, fmt.Errorf("dataset %q: unknown polarity %q", d.ID, d.Polarity))
		}
		if !d.Section.Valid() {
			errs = append(errs, fmt.Errorf("dataset %q: unknown section %q", d.ID, d.Section))
		}
	}

	errs = append(errs, ValidateModels(c.Models)...)
	return errors.Join(errs...)
}

// ValidateModels checks a model array on its own, as submitted by edit mode.
func ValidateModels(models []Model) []error {
	var errs []error
	names := make(map[string]bool, len(models))
	for i, m := range models {
		if m.Name == "" {
			errs = append(errs, fmt.Errorf("models[%d]: name is required", i))
			continue
		}
		if names[m.Name] {
			errs = append(errs, fmt.Errorf("models[%d]: duplicate name %q", i, m.Name))
		}
		names[m.Name] = true
		if m.Size != "" && !m.Size.Valid() {
			errs = append(errs, fmt.Errorf("model %q: unknown size %q", m.Name, m.Size))
		}
		if m.ReleaseDate != "" {
			if _, err := time.Parse(DateLayout, m.ReleaseDate); err != nil {
				errs = append(errs, fmt.Errorf("model %q: release_date %q is not YYYY-MM-DD", m.Name, m.ReleaseDate))
			}
		}
	}
	return errs
}

// DatasetsIn returns the datasets belonging to section, in catalog order.
func (c *Catalog) DatasetsIn(section Section) []Dataset {
	var out []Dataset
	for _, d := range c.Datasets {
		if d.Section == section {
			out = append(out, d)
		}
	}
	return out
}

// Dataset returns the dataset with the given id.
func (c *Catalog) Dataset(id string) (Dataset, bool) {
	for _, d := range c.Datasets {
		if d.ID == id {
			return d, true
		}
	}
	return Dataset{}, false
}
