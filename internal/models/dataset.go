package models

import "fmt"

// Polarity states which direction of a score counts as better.
type Polarity string

const (
	HigherIsBetter Polarity = "higher_is_better"
	LowerIsBetter  Polarity = "lower_is_better"
)

// Valid reports whether p is one of the known polarities.
func (p Polarity) Valid() bool {
	return p == HigherIsBetter || p == LowerIsBetter
}

// Flip returns the opposite polarity.
func (p Polarity) Flip() Polarity {
	if p == LowerIsBetter {
		return HigherIsBetter
	}
	return LowerIsBetter
}

// Better reports whether a strictly beats b under p.
func (p Polarity) Better(a, b float64) bool {
	if p == LowerIsBetter {
		return a < b
	}
	return a > b
}

// Section is the top-level dashboard tab a dataset renders in.
type Section string

const (
	SectionText   Section = "text"
	SectionVision Section = "vision"
	SectionSafety Section = "safety"
)

// Sections lists the sections in display order.
var Sections = []Section{SectionText, SectionVision, SectionSafety}

// Valid reports whether s is a known section.
func (s Section) Valid() bool {
	switch s {
	case SectionText, SectionVision, SectionSafety:
		return true
	}
	return false
}

// ParseSection converts a user-supplied string into a Section.
func ParseSection(s string) (Section, error) {
	sec := Section(s)
	if !sec.Valid() {
		return "", fmt.Errorf("unknown section %q: must be one of text, vision, safety", s)
	}
	return sec, nil
}

// Category separates capability benchmarks from safety benchmarks.
type Category string

const (
	CategoryCapabilities Category = "capabilities"
	CategorySafety       Category = "safety"
)

// Dataset is a single benchmark in the catalog.
type Dataset struct {
	ID          string     `yaml:"id" json:"id"`
	Name        string     `yaml:"name" json:"name"`
	Section     Section    `yaml:"section" json:"section"`
	Category    Category   `yaml:"category,omitempty" json:"category,omitempty"`
	Polarity    Polarity   `yaml:"polarity,omitempty" json:"polarity"`
	Transform   *Transform `yaml:"transform,omitempty" json:"transform,omitempty"`
	Tags        []string   `yaml:"tags,omitempty" json:"tags,omitempty"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	URL         string     `yaml:"url,omitempty" json:"url,omitempty"`
}

// PrimaryTag returns the first capability tag, which is the grouping key.
func (d Dataset) PrimaryTag() string {
	if len(d.Tags) == 0 {
		return ""
	}
	return d.Tags[0]
}

// DatasetIDs returns the ids of datasets in order.
func DatasetIDs(datasets []Dataset) []string {
	ids := make([]string, 0, len(datasets))
	for _, d := range datasets {
		ids = append(ids, d.ID)
	}
	return ids
}
