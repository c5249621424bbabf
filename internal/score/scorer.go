package score

import (
	"math"
	"regexp"
	"sort"

	"github.com/ppiankov/adjury/internal/model"
)

// saturation is the match count at which fingerprint confidence reaches 1.0
const saturation = 3

type compiledCategory struct {
	category
	res []*regexp.Regexp
}

// Scorer detects scam fingerprints in ad text
type Scorer struct {
	table []compiledCategory
}

// NewScorer compiles the scam pattern table
func NewScorer() *Scorer {
	table := make([]compiledCategory, len(categories))
	for i, c := range categories {
		res := make([]*regexp.Regexp, len(c.Patterns))
		for j, p := range c.Patterns {
			res[j] = regexp.MustCompile(p)
		}
		table[i] = compiledCategory{category: c, res: res}
	}
	return &Scorer{table: table}
}

var defaultScorer = NewScorer()

// Fingerprints runs the default scorer over text
func Fingerprints(text string) []model.ScamFingerprint {
	return defaultScorer.Fingerprints(text)
}

// Violations maps fingerprints to policy violations using the default table
func Violations(fps []model.ScamFingerprint) []model.PolicyViolation {
	return defaultScorer.Violations(fps)
}

// Fingerprints returns every category with at least one matching pattern,
// sorted by risk score descending (table order breaks ties).
func (s *Scorer) Fingerprints(text string) []model.ScamFingerprint {
	var fps []model.ScamFingerprint

	for _, c := range s.table {
		var matched []string
		for i, re := range c.res {
			if re.MatchString(text) {
				matched = append(matched, c.Patterns[i])
			}
		}
		if len(matched) == 0 {
			continue
		}

		fps = append(fps, model.ScamFingerprint{
			Type:            c.Type,
			Confidence:      Confidence(len(matched)),
			MatchCount:      len(matched),
			MatchedPatterns: matched,
			RiskScore:       c.RiskScore,
		})
	}

	sort.SliceStable(fps, func(i, j int) bool {
		return fps[i].RiskScore > fps[j].RiskScore
	})
	return fps
}

// Violations returns one policy per distinct code, in fingerprint order
func (s *Scorer) Violations(fps []model.ScamFingerprint) []model.PolicyViolation {
	var violations []model.PolicyViolation
	seen := make(map[string]bool)

	for _, fp := range fps {
		policy, ok := s.policyFor(fp.Type)
		if !ok || seen[policy.Code] {
			continue
		}
		seen[policy.Code] = true
		violations = append(violations, policy)
	}
	return violations
}

func (s *Scorer) policyFor(t model.ScamType) (model.PolicyViolation, bool) {
	for _, c := range s.table {
		if c.Type == t {
			return c.Policy, true
		}
	}
	return model.PolicyViolation{}, false
}

// Confidence maps a match count to [0,1], saturating at three matches
func Confidence(matches int) float64 {
	if matches <= 0 {
		return 0
	}
	return math.Min(1.0, float64(matches)/saturation)
}
