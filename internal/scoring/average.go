package scoring

import (
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/metrics"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/models"
)

// Average returns the arithmetic mean of m's resolved scores over datasets.
// It returns nil when datasets is empty or when any score is absent: a model
// that is missing one required benchmark has no aggregate at all.
func Average(m models.Model, datasets []models.Dataset) *float64 {
	if len(datasets) == 0 {
		return nil
	}
	values := make([]float64, 0, len(datasets))
	for _, d := range datasets {
		v, ok := Resolve(m, d)
		if !ok {
			return nil
		}
		values = append(values, v)
	}
	avg := metrics.Mean(values)
	return &avg
}

// Evaluate computes a ModelResult for every model, in input order.
func Evaluate(ms []models.Model, datasets []models.Dataset) []models.ModelResult {
	results := make([]models.ModelResult, 0, len(ms))
	for _, m := range ms {
		avg := Average(m, datasets)
		results = append(results, models.ModelResult{
			Model:    m,
			Average:  avg,
			Included: avg != nil,
		})
	}
	return results
}

// Included returns the results that have an aggregate, in input order.
func Included(results []models.ModelResult) []models.ModelResult {
	var out []models.ModelResult
	for _, r := range results {
		if r.Included {
			out = append(out, r)
		}
	}
	return out
}

// Summarize reports the spread of the included averages.
func Summarize(results []models.ModelResult) metrics.Summary {
	var values []float64
	for _, r := range results {
		if r.Included {
			values = append(values, *r.Average)
		}
	}
	return metrics.Summarize(values, len(results)-len(values))
}
