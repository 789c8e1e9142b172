package models

import "time"

// Selection maps dataset ids to the user's "included" toggle.
type Selection map[string]bool

// SelectionOf returns a selection with every given id included.
func SelectionOf(ids ...string) Selection {
	sel := make(Selection, len(ids))
	for _, id := range ids {
		sel[id] = true
	}
	return sel
}

// ModelResult is a model's aggregate over the effective dataset set.
// Average is nil when any required score is absent or the set is empty.
type ModelResult struct {
	Model    Model    `json:"model"`
	Average  *float64 `json:"average"`
	Included bool     `json:"included"`
}

// FrontierPoint is one step of a best-so-far sequence.
type FrontierPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
	ModelName string    `json:"model_name"`
}

// PeriodicLabel is a point chosen by the label sampler.
type PeriodicLabel struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
	ModelName string    `json:"model_name"`
}

// ShadeTier selects color intensity relative to same-provider peers.
type ShadeTier int

// MaxShadeTier is the highest tier a model can be assigned.
const MaxShadeTier ShadeTier = 2

// CategoryGroup is a display grouping of datasets under one canonical
// capability category.
type CategoryGroup struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Datasets []Dataset `json:"datasets"`
}
