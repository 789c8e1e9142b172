package sampling

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/justinphan3110cais/cais-ai-dashboard/internal/frontier"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func at(days int, v float64, name string) models.FrontierPoint {
	return models.FrontierPoint{Timestamp: start.AddDate(0, 0, days), Value: v, ModelName: name}
}

func names(labels []models.PeriodicLabel) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		out = append(out, l.ModelName)
	}
	return out
}

// tenPoints spans 20 days: days 0..14 fall in the first 15-day bucket and
// days 15..20 in the second.
func tenPoints() []models.FrontierPoint {
	return []models.FrontierPoint{
		at(0, 50, "m0"),
		at(2, 55, "m1"),
		at(4, 52, "m2"),
		at(6, 60, "m3"),
		at(9, 58, "m4"),
		at(12, 65, "m5"),
		at(15, 63, "m6"),
		at(17, 70, "m7"),
		at(19, 40, "m8"),
		at(20, 72, "m9"),
	}
}

func TestStrategyFor(t *testing.T) {
	assert.Equal(t, FrontierOnly, StrategyFor(true))
	assert.Equal(t, BucketExtremum, StrategyFor(false))
	assert.Equal(t, "frontier_only", FrontierOnly.String())
	assert.Equal(t, "bucket_extremum", BucketExtremum.String())
}

func TestSample_NarrowBestIsFrontier(t *testing.T) {
	points := tenPoints()
	labels := Sample(points, models.HigherIsBetter, FrontierOnly)

	want := frontier.Build(points, models.HigherIsBetter)
	require.Len(t, labels.Best, len(want))
	for i := range want {
		assert.Equal(t, want[i].ModelName, labels.Best[i].ModelName)
		assert.Equal(t, want[i].Value, labels.Best[i].Value)
		assert.Equal(t, want[i].Timestamp, labels.Best[i].Timestamp)
	}
	assert.Equal(t, []string{"m0", "m1", "m3", "m5", "m7", "m9"}, names(labels.Best))
}

func TestSample_DesktopOneBestPerBucket(t *testing.T) {
	labels := Sample(tenPoints(), models.HigherIsBetter, BucketExtremum)
	assert.Equal(t, []string{"m5", "m9"}, names(labels.Best))
	assert.Equal(t, []string{"m0", "m8"}, names(labels.Worst))
}

func TestSample_NarrowWorstUsesWideBuckets(t *testing.T) {
	labels := Sample(tenPoints(), models.HigherIsBetter, FrontierOnly)
	// All ten points share one 60-day bucket; m9 is its best, m8 its worst.
	assert.Equal(t, []string{"m8"}, names(labels.Worst))
}

func TestSample_LowerIsBetter(t *testing.T) {
	labels := Sample(tenPoints(), models.LowerIsBetter, BucketExtremum)
	assert.Equal(t, []string{"m0", "m8"}, names(labels.Best))
	assert.Equal(t, []string{"m5", "m9"}, names(labels.Worst))
}

func TestSample_WorstExcludesBestModel(t *testing.T) {
	points := []models.FrontierPoint{
		at(0, 90, "champ"),
		at(1, 10, "champ"),
		at(2, 50, "other"),
	}
	labels := Sample(points, models.HigherIsBetter, BucketExtremum)
	require.Len(t, labels.Best, 1)
	assert.Equal(t, "champ", labels.Best[0].ModelName)
	require.Len(t, labels.Worst, 1)
	assert.Equal(t, "other", labels.Worst[0].ModelName, "the best model's own weak point is not eligible")
}

func TestSample_SingleModelBucketHasNoWorst(t *testing.T) {
	points := []models.FrontierPoint{
		at(0, 70, "solo"),
		at(40, 60, "a"),
		at(41, 65, "b"),
	}
	labels := Sample(points, models.HigherIsBetter, BucketExtremum)
	assert.Equal(t, []string{"solo", "b"}, names(labels.Best))
	assert.Equal(t, []string{"a"}, names(labels.Worst))
}

func TestSample_TiesKeepEarliest(t *testing.T) {
	points := []models.FrontierPoint{
		at(0, 70, "first"),
		at(3, 70, "second"),
		at(5, 20, "low1"),
		at(6, 20, "low2"),
	}
	labels := Sample(points, models.HigherIsBetter, BucketExtremum)
	assert.Equal(t, []string{"first"}, names(labels.Best))
	assert.Equal(t, []string{"low1"}, names(labels.Worst))
}

func TestSample_Empty(t *testing.T) {
	for _, s := range []Strategy{BucketExtremum, FrontierOnly} {
		labels := Sample(nil, models.HigherIsBetter, s)
		assert.Empty(t, labels.Best)
		assert.Empty(t, labels.Worst)
	}
}

func TestSample_AnchoredAtEarliestPoint(t *testing.T) {
	// Unsorted input: anchoring must use the earliest timestamp, not the first element.
	points := []models.FrontierPoint{
		at(16, 80, "late"),
		at(1, 50, "early"),
		at(14, 60, "mid"),
	}
	labels := Sample(points, models.HigherIsBetter, BucketExtremum)
	// Anchor at day 1: days 1 and 14 share bucket 0, day 16 is bucket 1.
	assert.Equal(t, []string{"mid", "late"}, names(labels.Best))
}

func TestSample_Bounded(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 30; trial++ {
		n := 1 + rng.Intn(200)
		points := make([]models.FrontierPoint, n)
		for i := range points {
			points[i] = at(rng.Intn(400), float64(rng.Intn(100)), fmt.Sprintf("m%d", rng.Intn(30)))
		}
		first, last := points[0].Timestamp, points[0].Timestamp
		for _, p := range points {
			if p.Timestamp.Before(first) {
				first = p.Timestamp
			}
			if p.Timestamp.After(last) {
				last = p.Timestamp
			}
		}
		span := last.Sub(first)
		maxDesktop := int(span/BucketWindow) + 1
		maxNarrowWorst := int(span/NarrowWorstWindow) + 1

		desktop := Sample(points, models.HigherIsBetter, BucketExtremum)
		assert.LessOrEqual(t, len(desktop.Best), maxDesktop)
		assert.LessOrEqual(t, len(desktop.Worst), maxDesktop)

		narrow := Sample(points, models.HigherIsBetter, FrontierOnly)
		assert.LessOrEqual(t, len(narrow.Worst), maxNarrowWorst)

		for _, list := range [][]models.PeriodicLabel{desktop.Best, desktop.Worst, narrow.Best, narrow.Worst} {
			for i := 1; i < len(list); i++ {
				assert.False(t, list[i].Timestamp.Before(list[i-1].Timestamp))
			}
		}

		assert.Equal(t, desktop, Sample(points, models.HigherIsBetter, BucketExtremum), "deterministic")
	}
}
