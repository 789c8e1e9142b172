package ranking

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/justinphan3110cais/cais-ai-dashboard/internal/models"
	"github.com/stretchr/testify/assert"
)

func result(name, provider string, avg float64) models.ModelResult {
	return models.ModelResult{
		Model:    models.Model{Name: name, Provider: provider},
		Average:  &avg,
		Included: true,
	}
}

func excluded(name, provider string) models.ModelResult {
	return models.ModelResult{Model: models.Model{Name: name, Provider: provider}}
}

func TestRankShades_HigherIsBetter(t *testing.T) {
	results := []models.ModelResult{
		result("a-small", "alpha", 60),
		result("a-large", "alpha", 90),
		result("b-only", "beta", 10),
		result("a-mid", "alpha", 75),
		result("a-tiny", "alpha", 40),
		excluded("a-nodata", "alpha"),
	}

	tiers := RankShades(results, models.HigherIsBetter)
	assert.Equal(t, map[string]models.ShadeTier{
		"a-large": 0,
		"a-mid":   1,
		"a-small": 2,
		"a-tiny":  2,
		"b-only":  0,
	}, tiers)
}

func TestRankShades_LowerIsBetter(t *testing.T) {
	results := []models.ModelResult{
		result("x", "p", 30),
		result("y", "p", 10),
		result("z", "p", 20),
	}
	tiers := RankShades(results, models.LowerIsBetter)
	assert.Equal(t, models.ShadeTier(0), tiers["y"])
	assert.Equal(t, models.ShadeTier(1), tiers["z"])
	assert.Equal(t, models.ShadeTier(2), tiers["x"])
}

func TestRankShades_TiesKeepInputOrder(t *testing.T) {
	results := []models.ModelResult{
		result("second-listed-first", "p", 50),
		result("top", "p", 80),
		result("second-listed-last", "p", 50),
	}
	tiers := RankShades(results, models.HigherIsBetter)
	assert.Equal(t, models.ShadeTier(0), tiers["top"])
	assert.Equal(t, models.ShadeTier(1), tiers["second-listed-first"])
	assert.Equal(t, models.ShadeTier(2), tiers["second-listed-last"])
}

func TestRankShades_ExcludedNotRanked(t *testing.T) {
	tiers := RankShades([]models.ModelResult{excluded("gone", "p")}, models.HigherIsBetter)
	assert.Empty(t, tiers)
}

func TestRankShades_Bounded(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	var results []models.ModelResult
	for i := 0; i < 200; i++ {
		results = append(results, result(fmt.Sprintf("m%d", i), fmt.Sprintf("p%d", i%4), float64(rng.Intn(100))))
	}
	for _, p := range []models.Polarity{models.HigherIsBetter, models.LowerIsBetter} {
		tiers := RankShades(results, p)
		assert.Len(t, tiers, len(results))
		for name, tier := range tiers {
			assert.True(t, tier >= 0 && tier <= models.MaxShadeTier, "tier of %s out of range: %d", name, tier)
		}
	}
}

func TestRankShades_DoesNotReorderInput(t *testing.T) {
	results := []models.ModelResult{
		result("low", "p", 1),
		result("high", "p", 2),
	}
	RankShades(results, models.HigherIsBetter)
	assert.Equal(t, "low", results[0].Model.Name)
}
