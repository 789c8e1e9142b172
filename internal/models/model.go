package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// DateLayout is the layout of release dates in catalogs.
const DateLayout = "2006-01-02"

// ModelSize is the model subclass used to split frontier lines.
type ModelSize string

const (
	SizeStandard ModelSize = "standard"
	SizeMini     ModelSize = "mini"
	SizeNano     ModelSize = "nano"
)

// Sizes lists the model sizes in display order.
var Sizes = []ModelSize{SizeStandard, SizeMini, SizeNano}

// Valid reports whether s is a known model size.
func (s ModelSize) Valid() bool {
	switch s {
	case SizeStandard, SizeMini, SizeNano:
		return true
	}
	return false
}

// ParseModelSize converts a user-supplied string into a ModelSize.
func ParseModelSize(s string) (ModelSize, error) {
	size := ModelSize(s)
	if !size.Valid() {
		return "", fmt.Errorf("unknown model size %q: must be one of standard, mini, nano", s)
	}
	return size, nil
}

// Score is a benchmark score that may be absent. The zero value is absent,
// so a missing map key and an explicit null mean the same thing.
type Score struct {
	Value   float64
	Present bool
}

// ScoreOf returns a present score.
func ScoreOf(v float64) Score {
	return Score{Value: v, Present: true}
}

// MarshalJSON encodes an absent score as null.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Present {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// UnmarshalJSON decodes null as an absent score.
func (s *Score) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = Score{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("score must be a number or null: %w", err)
	}
	*s = ScoreOf(v)
	return nil
}

// MarshalYAML encodes an absent score as null.
func (s Score) MarshalYAML() (any, error) {
	if !s.Present {
		return nil, nil
	}
	return s.Value, nil
}

// UnmarshalYAML decodes null (or ~) as an absent score.
func (s *Score) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		*s = Score{}
		return nil
	}
	var v float64
	if err := node.Decode(&v); err != nil {
		return fmt.Errorf("score must be a number or null: %w", err)
	}
	*s = ScoreOf(v)
	return nil
}

// Model is a single evaluated model with its per-dataset scores.
type Model struct {
	Name        string           `yaml:"name" json:"name"`
	Provider    string           `yaml:"provider" json:"provider"`
	Size        ModelSize        `yaml:"size,omitempty" json:"size"`
	ReleaseDate string           `yaml:"release_date,omitempty" json:"release_date,omitempty"`
	Scores      map[string]Score `yaml:"scores,omitempty" json:"scores"`
}

// Released returns the parsed release date. The second result is false when
// the model has no usable release date.
func (m Model) Released() (time.Time, bool) {
	if m.ReleaseDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, m.ReleaseDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
