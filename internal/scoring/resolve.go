// Package scoring resolves raw benchmark scores into comparable values and
// aggregates them per model.
package scoring

import "github.com/justinphan3110cais/cais-ai-dashboard/internal/models"

// Resolve returns the model's score on d after d's transform. The second
// result is false when the model has no score for d.
func Resolve(m models.Model, d models.Dataset) (float64, bool) {
	s, ok := m.Scores[d.ID]
	if !ok || !s.Present {
		return 0, false
	}
	return d.Transform.Apply(s.Value), true
}

// ResolvedPolarity is the comparison direction of d's scores after its
// transform has been applied.
func ResolvedPolarity(d models.Dataset) models.Polarity {
	p := d.Polarity
	if !p.Valid() {
		p = models.HigherIsBetter
	}
	if d.Transform.Inverts() {
		return p.Flip()
	}
	return p
}

// AggregatePolarity returns the shared resolved polarity of datasets.
// When they disagree it falls back to higher-is-better and reports mixed.
func AggregatePolarity(datasets []models.Dataset) (p models.Polarity, mixed bool) {
	if len(datasets) == 0 {
		return models.HigherIsBetter, false
	}
	p = ResolvedPolarity(datasets[0])
	for _, d := range datasets[1:] {
		if ResolvedPolarity(d) != p {
			return models.HigherIsBetter, true
		}
	}
	return p, false
}
