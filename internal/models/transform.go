package models

import (
	"encoding/json"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// TransformType identifies a score transform.
type TransformType string

const (
	// TransformInvert maps x to Max - x. It reverses the comparison direction.
	TransformInvert TransformType = "invert"
	// TransformScale maps x to Factor * x.
	TransformScale TransformType = "scale"
)

// DefaultInvertMax is the ceiling used by invert when none is configured.
const DefaultInvertMax = 100.0

// Transform is an optional value transform applied to a raw score before
// aggregation. It is declared in catalogs either as a bare type name
// ("invert") or as a map ({type: invert, max: 100}).
type Transform struct {
	Type   TransformType `mapstructure:"type" json:"type"`
	Max    float64       `mapstructure:"max" json:"max,omitempty"`
	Factor float64       `mapstructure:"factor" json:"factor,omitempty"`
}

// Apply returns the transformed value of x. A nil transform is the identity.
func (t *Transform) Apply(x float64) float64 {
	if t == nil {
		return x
	}
	switch t.Type {
	case TransformInvert:
		return t.Max - x
	case TransformScale:
		return t.Factor * x
	}
	return x
}

// Inverts reports whether the transform reverses comparison direction.
func (t *Transform) Inverts() bool {
	if t == nil {
		return false
	}
	return t.Type == TransformInvert || (t.Type == TransformScale && t.Factor < 0)
}

// ParseTransform builds a Transform from its decoded catalog form.
func ParseTransform(raw any) (*Transform, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		raw = map[string]any{"type": v}
	case map[string]any:
	default:
		return nil, fmt.Errorf("transform must be a string or a map, got %T", raw)
	}

	var t Transform
	if err := mapstructure.Decode(raw, &t); err != nil {
		return nil, fmt.Errorf("decoding transform: %w", err)
	}

	switch t.Type {
	case TransformInvert:
		// An explicit max of zero is honored; only an absent max defaults.
		if _, ok := raw.(map[string]any)["max"]; !ok {
			t.Max = DefaultInvertMax
		}
	case TransformScale:
		if t.Factor == 0 {
			return nil, fmt.Errorf("scale transform requires a non-zero factor")
		}
	default:
		return nil, fmt.Errorf("unknown transform type %q", t.Type)
	}
	return &t, nil
}

// UnmarshalYAML accepts both the shorthand and the map form.
func (t *Transform) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseTransform(raw)
	if err != nil {
		return err
	}
	if parsed != nil {
		*t = *parsed
	}
	return nil
}

// UnmarshalJSON accepts both the shorthand and the map form.
func (t *Transform) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseTransform(raw)
	if err != nil {
		return err
	}
	if parsed != nil {
		*t = *parsed
	}
	return nil
}
