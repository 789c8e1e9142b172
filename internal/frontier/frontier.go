// Package frontier computes the best-so-far envelope of aggregate scores
// over release time.
package frontier

import (
	"math"
	"slices"
	"sort"
	"time"

	"github.com/justinphan3110cais/cais-ai-dashboard/internal/models"
)

// Points returns the timeline points of included results whose model has
// the given size and a release date, in input order.
func Points(results []models.ModelResult, size models.ModelSize) []models.FrontierPoint {
	var points []models.FrontierPoint
	for _, r := range results {
		if !r.Included || r.Model.Size != size {
			continue
		}
		ts, ok := r.Model.Released()
		if !ok {
			continue
		}
		points = append(points, models.FrontierPoint{
			Timestamp: ts,
			Value:     *r.Average,
			ModelName: r.Model.Name,
		})
	}
	return points
}

// Build returns the points that strictly improved on every earlier point,
// in ascending timestamp order. Points with equal timestamps are visited in
// input order and collapse into one step holding the best of them. A tie
// with the running best does not start a new step.
func Build(points []models.FrontierPoint, p models.Polarity) []models.FrontierPoint {
	sorted := slices.Clone(points)
	slices.SortStableFunc(sorted, func(a, b models.FrontierPoint) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	best := math.Inf(-1)
	if p == models.LowerIsBetter {
		best = math.Inf(1)
	}

	var out []models.FrontierPoint
	for _, pt := range sorted {
		if !p.Better(pt.Value, best) {
			continue
		}
		best = pt.Value
		if n := len(out); n > 0 && out[n-1].Timestamp.Equal(pt.Timestamp) {
			out[n-1] = pt
			continue
		}
		out = append(out, pt)
	}
	return out
}

// IsOnFrontier reports whether value at ts is at least as good as the
// frontier step in effect at ts. Before the first step there is nothing to
// be dominated by, so every point is on the good side.
func IsOnFrontier(ts time.Time, value float64, frontier []models.FrontierPoint, p models.Polarity) bool {
	// First index whose timestamp is after ts; the step in effect is just before it.
	i := sort.Search(len(frontier), func(i int) bool {
		return frontier[i].Timestamp.After(ts)
	})
	if i == 0 {
		return true
	}
	ref := frontier[i-1].Value
	if p == models.LowerIsBetter {
		return value <= ref
	}
	return value >= ref
}
