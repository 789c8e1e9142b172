// Package labels decides where a model's name label is drawn relative to
// its point on the frontier chart.
package labels

import (
	"errors"
	"fmt"
	"sort"
)

// Position is a label placement relative to its point.
type Position string

const (
	Above Position = "above"
	Below Position = "below"
	Left  Position = "left"
	Right Position = "right"
)

// DefaultPosition is used for models without an entry.
const DefaultPosition = Above

// Valid reports whether p is a known position.
func (p Position) Valid() bool {
	switch p {
	case Above, Below, Left, Right:
		return true
	}
	return false
}

// Entry holds the placement for one model.
type Entry struct {
	Default    Position            `yaml:"default,omitempty" json:"default,omitempty"`
	PerDataset map[string]Position `yaml:"per_dataset,omitempty" json:"per_dataset,omitempty"`
}

// Table maps model names to their label placement.
type Table map[string]Entry

// Position returns the placement of model's label for the given dataset
// selection. A per-dataset override applies only when exactly one dataset
// is selected.
func (t Table) Position(model string, selected []string) Position {
	entry, ok := t[model]
	if !ok {
		return DefaultPosition
	}
	if len(selected) == 1 {
		if p, ok := entry.PerDataset[selected[0]]; ok {
			return p
		}
	}
	if entry.Default != "" {
		return entry.Default
	}
	return DefaultPosition
}

// Resolve returns the placement of every named model.
func (t Table) Resolve(names []string, selected []string) map[string]Position {
	out := make(map[string]Position, len(names))
	for _, name := range names {
		out[name] = t.Position(name, selected)
	}
	return out
}

// Validate reports every unknown position in the table.
func (t Table) Validate() error {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		entry := t[name]
		if entry.Default != "" && !entry.Default.Valid() {
			errs = append(errs, fmt.Errorf("labels[%s]: unknown position %q", name, entry.Default))
		}
		datasets := make([]string, 0, len(entry.PerDataset))
		for id := range entry.PerDataset {
			datasets = append(datasets, id)
		}
		sort.Strings(datasets)
		for _, id := range datasets {
			if p := entry.PerDataset[id]; !p.Valid() {
				errs = append(errs, fmt.Errorf("labels[%s].per_dataset[%s]: unknown position %q", name, id, p))
			}
		}
	}
	return errors.Join(errs...)
}
