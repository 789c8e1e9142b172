// Package categories groups datasets into the capability categories the
// dashboard shows as column groups.
package categories

import (
	"strings"

	"github.com/justinphan3110cais/cais-ai-dashboard/internal/models"
)

// OtherID is the category of datasets that carry no tags.
const OtherID = "other"

// canonicalTags merges tag ids that display as one category. It is the only
// place such merges are declared.
var canonicalTags = map[string]string{
	"mathematics":       "math",
	"math-reasoning":    "math",
	"code":              "coding",
	"software":          "coding",
	"agents":            "agentic",
	"tool-use":          "agentic",
	"expert-knowledge":  "knowledge",
	"general-knowledge": "knowledge",
	"visual-reasoning":  "vision-reasoning",
	"spatial":           "vision-reasoning",
	"harmfulness":       "harmful-compliance",
	"jailbreak":         "harmful-compliance",
}

// displayNames holds the canonical display name of each category.
var displayNames = map[string]string{
	"math":               "Math",
	"coding":             "Coding",
	"agentic":            "Agentic",
	"knowledge":          "Knowledge",
	"reasoning":          "Reasoning",
	"vision-reasoning":   "Visual Reasoning",
	"harmful-compliance": "Harmful Compliance",
	"honesty":            "Honesty",
	OtherID:              "Other",
}

// Canonical returns the canonical category id of a tag.
func Canonical(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return OtherID
	}
	if c, ok := canonicalTags[tag]; ok {
		return c
	}
	return tag
}

// DisplayName returns the human-readable name of a canonical category id.
// Unknown ids are title-cased from their kebab-case form.
func DisplayName(id string) string {
	if name, ok := displayNames[id]; ok {
		return name
	}
	words := strings.Split(id, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Group buckets datasets by the canonical id of their primary tag. Groups
// appear in order of first occurrence and keep dataset order within.
func Group(datasets []models.Dataset) []models.CategoryGroup {
	var groups []models.CategoryGroup
	index := make(map[string]int)
	for _, d := range datasets {
		id := Canonical(d.PrimaryTag())
		i, ok := index[id]
		if !ok {
			i = len(groups)
			index[id] = i
			groups = append(groups, models.CategoryGroup{ID: id, Name: DisplayName(id)})
		}
		groups[i].Datasets = append(groups[i].Datasets, d)
	}
	return groups
}
