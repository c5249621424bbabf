package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppiankov/adjury/internal/model"
)

// extractJSON returns the span from the first '{' to the last '}'
func extractJSON(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// decodeJSON unmarshals raw directly, then via the brace span
func decodeJSON(raw string, v any) error {
	if err := json.Unmarshal([]byte(raw), v); err == nil {
		return nil
	}
	span, ok := extractJSON(raw)
	if !ok {
		return fmt.Errorf("no JSON object in response")
	}
	if err := json.Unmarshal([]byte(span), v); err != nil {
		return fmt.Errorf("parse response JSON: %w", err)
	}
	return nil
}

type verdictPayload struct {
	JudgeID           string   `json:"judge_id"`
	Tier              string   `json:"verdict_tier"`
	Confidence        *float64 `json:"confidence_score"`
	PrimaryConcern    string   `json:"primary_policy_axis"`
	Reasoning         []string `json:"reasoning_bullets"`
	MitigatingFactors []string `json:"mitigating_factors"`
	RefusalToInstruct bool     `json:"refusal_to_instruct"`
}

// ParseVerdict decodes a judge response. The judge id is always the requested one.
func ParseVerdict(raw, judgeID string) (*model.Verdict, error) {
	var p verdictPayload
	if err := decodeJSON(raw, &p); err != nil {
		return nil, err
	}

	tier, err := model.ParseTier(p.Tier)
	if err != nil {
		return nil, err
	}
	if p.Confidence == nil {
		return nil, fmt.Errorf("missing confidence_score")
	}

	v := &model.Verdict{
		JudgeID:           judgeID,
		Tier:              tier,
		Confidence:        *p.Confidence,
		PrimaryConcern:    p.PrimaryConcern,
		Reasoning:         p.Reasoning,
		MitigatingFactors: p.MitigatingFactors,
		RefusalToInstruct: p.RefusalToInstruct,
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

type analystPayload struct {
	Tier             string   `json:"verdict_tier"`
	Confidence       *float64 `json:"confidence_score"`
	ReasoningSummary string   `json:"reasoning_summary"`
	KeyPolicyConcern string   `json:"key_policy_concern"`
}

// ParseModelVerdict decodes a neutral analyst response
func ParseModelVerdict(raw, family, modelID string) (*model.ModelVerdict, error) {
	var p analystPayload
	if err := decodeJSON(raw, &p); err != nil {
		return nil, err
	}

	tier, err := model.ParseTier(p.Tier)
	if err != nil {
		return nil, err
	}
	if p.Confidence == nil {
		return nil, fmt.Errorf("missing confidence_score")
	}
	if *p.Confidence < 0 || *p.Confidence > 1 {
		return nil, fmt.Errorf("confidence %.3f outside [0,1]", *p.Confidence)
	}

	return &model.ModelVerdict{
		ModelFamily:      family,
		ModelID:          modelID,
		Tier:             tier,
		Confidence:       *p.Confidence,
		ReasoningSummary: p.ReasoningSummary,
		KeyPolicyConcern: p.KeyPolicyConcern,
	}, nil
}
