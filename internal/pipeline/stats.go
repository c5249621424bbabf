package pipeline

import (
	"math"

	"github.com/ppiankov/adjury/internal/model"
)

// partition splits succeeded items by consensus category, keeping input order
func partition(results []*model.ItemResult) (violating, mixed, benign []model.ItemResult) {
	violating, mixed, benign = []model.ItemResult{}, []model.ItemResult{}, []model.ItemResult{}
	for _, r := range results {
		if r == nil {
			continue
		}
		switch r.Consensus.Category {
		case model.CategoryViolating:
			violating = append(violating, *r)
		case model.CategoryBenign:
			benign = append(benign, *r)
		default:
			mixed = append(mixed, *r)
		}
	}
	return violating, mixed, benign
}

// computeStats aggregates succeeded items. The average is 0 when nothing
// succeeded; top violations are distinct by code in first-seen order.
func computeStats(results []*model.ItemResult, topN int) model.ScanStats {
	stats := model.ScanStats{
		ScamTypeDistribution: make(map[model.ScamType]int),
		TopPolicyViolations:  []model.PolicyViolation{},
	}

	seen := make(map[string]bool)
	succeeded := 0
	for _, r := range results {
		if r == nil {
			continue
		}
		succeeded++
		stats.TotalHarmScore += r.HarmScore

		for _, fp := range r.Fingerprints {
			stats.ScamTypeDistribution[fp.Type]++
		}
		for _, v := range r.Violations {
			if seen[v.Code] || len(stats.TopPolicyViolations) >= topN {
				continue
			}
			seen[v.Code] = true
			stats.TopPolicyViolations = append(stats.TopPolicyViolations, v)
		}
	}

	if succeeded > 0 {
		avg := float64(stats.TotalHarmScore) / float64(succeeded)
		stats.AvgHarmScore = math.Round(avg*10) / 10
	}
	return stats
}
