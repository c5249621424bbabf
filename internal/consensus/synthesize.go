package consensus

import (
	"github.com/ppiankov/adjury/internal/model"
)

// Badge thresholds on max tier share
const (
	majorityShare = 0.6
	splitShare    = 0.4
)

// Synthesize reduces a verdict set to its distribution, badge and category
func Synthesize(verdicts model.VerdictSet) model.ConsensusResult {
	dist := Distribution(verdicts)
	return model.ConsensusResult{
		Distribution: dist,
		Badge:        BadgeFor(dist),
		Category:     CategoryFor(dist),
		Total:        dist.Total(),
	}
}

// Distribution counts verdicts per tier; every tier is present
func Distribution(verdicts model.VerdictSet) model.Distribution {
	dist := make(model.Distribution, len(model.Tiers))
	for _, tier := range model.Tiers {
		dist[tier] = 0
	}
	for _, v := range verdicts {
		if v.Tier.Valid() {
			dist[v.Tier]++
		}
	}
	return dist
}

// BadgeFor classifies agreement from the largest tier share
func BadgeFor(dist model.Distribution) model.Badge {
	total := dist.Total()
	if total == 0 {
		return model.BadgeChaos
	}

	maxCount := 0
	for _, n := range dist {
		if n > maxCount {
			maxCount = n
		}
	}

	switch {
	case maxCount == total:
		return model.BadgeUnanimous
	case float64(maxCount) >= majorityShare*float64(total):
		return model.BadgeMajority
	case float64(maxCount) >= splitShare*float64(total):
		return model.BadgeSplit
	default:
		return model.BadgeChaos
	}
}

// CategoryFor partitions by restrictive (REMOVE, AGE_GATE) versus
// permissive (ALLOW, LABEL) majority
func CategoryFor(dist model.Distribution) model.Category {
	total := dist.Total()
	if total == 0 {
		return model.CategoryMixed
	}

	half := float64(total) / 2
	restrictive := dist[model.TierRemove] + dist[model.TierAgeGate]
	permissive := dist[model.TierAllow] + dist[model.TierLabel]

	switch {
	case float64(restrictive) > half:
		return model.CategoryViolating
	case float64(permissive) > half:
		return model.CategoryBenign
	default:
		return model.CategoryMixed
	}
}
