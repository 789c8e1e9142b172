// Package sampling thins a dense timeline into a bounded set of best and
// worst labels.
package sampling

import (
	"fmt"
	"slices"
	"time"

	"github.com/justinphan3110cais/cais-ai-dashboard/internal/frontier"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/models"
)

// Strategy selects how best labels are chosen.
type Strategy int

const (
	// BucketExtremum labels the best and worst point of each 15-day bucket.
	BucketExtremum Strategy = iota
	// FrontierOnly labels the frontier steps as best and uses coarse
	// 60-day buckets for worst labels.
	FrontierOnly
)

const (
	// BucketWindow is the bucket width of BucketExtremum.
	BucketWindow = 15 * 24 * time.Hour
	// NarrowWorstWindow is the worst-label bucket width of FrontierOnly.
	NarrowWorstWindow = 60 * 24 * time.Hour
)

// StrategyFor maps the viewport classification onto a strategy.
func StrategyFor(narrow bool) Strategy {
	if narrow {
		return FrontierOnly
	}
	return BucketExtremum
}

func (s Strategy) String() string {
	switch s {
	case BucketExtremum:
		return "bucket_extremum"
	case FrontierOnly:
		return "frontier_only"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// MarshalText encodes the strategy by name.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Labels holds the sampled labels, each list ascending by timestamp.
type Labels struct {
	Best  []models.PeriodicLabel `json:"best"`
	Worst []models.PeriodicLabel `json:"worst"`
}

// Sample picks the labels for points under strategy s.
func Sample(points []models.FrontierPoint, p models.Polarity, s Strategy) Labels {
	if s == FrontierOnly {
		return Labels{
			Best:  toLabels(frontier.Build(points, p)),
			Worst: bucketWorst(points, p, NarrowWorstWindow),
		}
	}
	return Labels{
		Best:  bucketBest(points, p, BucketWindow),
		Worst: bucketWorst(points, p, BucketWindow),
	}
}

// buckets splits points into consecutive windows anchored at the earliest
// timestamp. Empty windows are skipped; each bucket keeps timestamp order.
func buckets(points []models.FrontierPoint, window time.Duration) [][]models.FrontierPoint {
	if len(points) == 0 {
		return nil
	}
	sorted := slices.Clone(points)
	slices.SortStableFunc(sorted, func(a, b models.FrontierPoint) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	first := sorted[0].Timestamp.UnixMilli()
	width := window.Milliseconds()

	var out [][]models.FrontierPoint
	current := int64(-1)
	for _, pt := range sorted {
		idx := (pt.Timestamp.UnixMilli() - first) / width
		if idx != current {
			out = append(out, nil)
			current = idx
		}
		out[len(out)-1] = append(out[len(out)-1], pt)
	}
	return out
}

// best returns the earliest point with the best value in bucket.
func best(bucket []models.FrontierPoint, p models.Polarity) models.FrontierPoint {
	top := bucket[0]
	for _, pt := range bucket[1:] {
		if p.Better(pt.Value, top.Value) {
			top = pt
		}
	}
	return top
}

func bucketBest(points []models.FrontierPoint, p models.Polarity, window time.Duration) []models.PeriodicLabel {
	var labels []models.PeriodicLabel
	for _, b := range buckets(points, window) {
		labels = append(labels, toLabel(best(b, p)))
	}
	return sortLabels(labels)
}

// bucketWorst labels the worst point of each bucket among the models other
// than the bucket's best model. A bucket holding only that model yields no
// worst label.
func bucketWorst(points []models.FrontierPoint, p models.Polarity, window time.Duration) []models.PeriodicLabel {
	var labels []models.PeriodicLabel
	for _, b := range buckets(points, window) {
		winner := best(b, p).ModelName

		var bottom *models.FrontierPoint
		for i := range b {
			if b[i].ModelName == winner {
				continue
			}
			if bottom == nil || p.Better(bottom.Value, b[i].Value) {
				bottom = &b[i]
			}
		}
		if bottom != nil {
			labels = append(labels, toLabel(*bottom))
		}
	}
	return sortLabels(labels)
}

func sortLabels(labels []models.PeriodicLabel) []models.PeriodicLabel {
	slices.SortStableFunc(labels, func(a, b models.PeriodicLabel) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return labels
}

func toLabel(pt models.FrontierPoint) models.PeriodicLabel {
	return models.PeriodicLabel{Timestamp: pt.Timestamp, Value: pt.Value, ModelName: pt.ModelName}
}

func toLabels(points []models.FrontierPoint) []models.PeriodicLabel {
	var labels []models.PeriodicLabel
	for _, pt := range points {
		labels = append(labels, toLabel(pt))
	}
	return labels
}
