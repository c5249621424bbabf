package score

import (
	"math"

	"github.com/ppiankov/adjury/internal/model"
)

const (
	minHarm = 1
	maxHarm = 100

	ageGateWeight = 0.7
)

// Harm blends fingerprint severity (0-50) and verdict restrictiveness (0-50)
// into an integer in [1,100].
func Harm(fps []model.ScamFingerprint, dist model.Distribution) int {
	total := fingerprintPart(fps) + verdictPart(dist)
	if total < minHarm {
		return minHarm
	}
	if total > maxHarm {
		return maxHarm
	}
	return total
}

// fingerprintPart: round((Rmax*3 + Ravg*2) / 5 * 5)
func fingerprintPart(fps []model.ScamFingerprint) int {
	if len(fps) == 0 {
		return 0
	}

	maxRisk, sum := 0, 0
	for _, fp := range fps {
		if fp.RiskScore > maxRisk {
			maxRisk = fp.RiskScore
		}
		sum += fp.RiskScore
	}
	avg := float64(sum) / float64(len(fps))

	return int(math.Round((float64(maxRisk)*3 + avg*2) / 5 * 5))
}

// verdictPart: round((REMOVE + 0.7*AGE_GATE) / total * 50)
func verdictPart(dist model.Distribution) int {
	total := dist.Total()
	if total == 0 {
		return 0
	}

	restrictive := float64(dist[model.TierRemove]) + ageGateWeight*float64(dist[model.TierAgeGate])
	return int(math.Round(restrictive / float64(total) * 50))
}
