package consensus

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ppiankov/adjury/internal/model"
)

const adjacentSummary = "Models agree on general direction but differ on severity"

// Agreement classifies how closely model families agree. Fewer than two
// verdicts cannot be compared and always escalate. Two distinct tiers that
// sit next to each other are a partial agreement that needs no escalation.
func Agreement(verdicts []model.ModelVerdict) (level model.AgreementLevel, escalate bool, summary string) {
	if len(verdicts) < 2 {
		return model.AgreementDisagreement, true, "Insufficient model responses for comparison"
	}

	var distinct []model.Tier
	for _, v := range verdicts {
		if !containsTier(distinct, v.Tier) {
			distinct = append(distinct, v.Tier)
		}
	}

	switch {
	case len(distinct) == 1:
		return model.AgreementFull, false, ""
	case len(distinct) == 2 && distinct[0].Adjacent(distinct[1]):
		return model.AgreementPartial, false, adjacentSummary
	case len(distinct) == 2:
		return model.AgreementPartial, true, disagreementSummary(verdicts)
	default:
		return model.AgreementDisagreement, true, disagreementSummary(verdicts)
	}
}

func containsTier(tiers []model.Tier, t model.Tier) bool {
	for _, x := range tiers {
		if x == t {
			return true
		}
	}
	return false
}

func disagreementSummary(verdicts []model.ModelVerdict) string {
	title := cases.Title(language.English)
	parts := make([]string, 0, len(verdicts))
	for _, v := range verdicts {
		parts = append(parts, fmt.Sprintf("%s (%s): %s", title.String(v.ModelFamily), v.ModelID, v.Tier))
	}
	return "Model disagreement: " + strings.Join(parts, " vs ")
}
