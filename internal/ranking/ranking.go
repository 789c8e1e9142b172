// Package ranking assigns shade tiers to models relative to the other
// models of the same provider.
package ranking

import (
	"cmp"
	"slices"

	"github.com/justinphan3110cais/cais-ai-dashboard/internal/models"
)

// RankShades ranks the included results within each provider by average
// and maps each model name to min(rank, MaxShadeTier). Equal averages keep
// their input order. Results without an aggregate are not ranked.
func RankShades(results []models.ModelResult, p models.Polarity) map[string]models.ShadeTier {
	groups := make(map[string][]models.ModelResult)
	var providers []string
	for _, r := range results {
		if !r.Included || r.Average == nil {
			continue
		}
		if _, ok := groups[r.Model.Provider]; !ok {
			providers = append(providers, r.Model.Provider)
		}
		groups[r.Model.Provider] = append(groups[r.Model.Provider], r)
	}

	tiers := make(map[string]models.ShadeTier)
	for _, provider := range providers {
		group := groups[provider]
		slices.SortStableFunc(group, func(a, b models.ModelResult) int {
			if p == models.LowerIsBetter {
				return cmp.Compare(*a.Average, *b.Average)
			}
			return cmp.Compare(*b.Average, *a.Average)
		})
		for i, r := range group {
			tiers[r.Model.Name] = min(models.ShadeTier(i), models.MaxShadeTier)
		}
	}
	return tiers
}
