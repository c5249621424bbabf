package model

import (
	"fmt"
	"strings"
)

// Tier is a moderation outcome, ordered from most to least restrictive
type Tier string

const (
	TierRemove      Tier = "REMOVE"       // Violates policy, take down
	TierAgeGate     Tier = "AGE_GATE"     // Restrict to adult audiences
	TierReduceReach Tier = "REDUCE_REACH" // Borderline, limit amplification
	TierLabel       Tier = "LABEL"        // Needs a context label
	TierAllow       Tier = "ALLOW"        // Within policy
)

// Tiers lists every tier in restrictiveness order
var Tiers = []Tier{TierRemove, TierAgeGate, TierReduceReach, TierLabel, TierAllow}

// Rank returns the position of the tier (0 = most restrictive), or -1 if unknown
func (t Tier) Rank() int {
	for i, tier := range Tiers {
		if tier == t {
			return i
		}
	}
	return -1
}

// Valid reports whether the tier belongs to the enumeration
func (t Tier) Valid() bool {
	return t.Rank() >= 0
}

// Adjacent reports whether two tiers sit next to each other in the ordering
func (t Tier) Adjacent(other Tier) bool {
	a, b := t.Rank(), other.Rank()
	if a < 0 || b < 0 {
		return false
	}
	d := a - b
	return d == 1 || d == -1
}

// ParseTier parses a tier name, tolerating case and surrounding whitespace
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown verdict tier: %q", s)
	}
	return t, nil
}

// Verdict is one judge's ruling on one content item
type Verdict struct {
	JudgeID           string   `json:"judge_id"`
	Tier              Tier     `json:"verdict_tier"`
	Confidence        float64  `json:"confidence_score"`    // 0.0 - 1.0
	PrimaryConcern    string   `json:"primary_policy_axis"` // Policy area triggered
	Reasoning         []string `json:"reasoning_bullets"`
	MitigatingFactors []string `json:"mitigating_factors"`
	RefusalToInstruct bool     `json:"refusal_to_instruct"`
}

// Validate checks the tier and confidence invariants
func (v Verdict) Validate() error {
	if !v.Tier.Valid() {
		return fmt.Errorf("verdict tier %q not in enumeration", v.Tier)
	}
	if v.Confidence < 0 || v.Confidence > 1 {
		return fmt.Errorf("confidence %.3f outside [0,1]", v.Confidence)
	}
	return nil
}

// VerdictSet holds the verdicts of every judge that succeeded for one item
type VerdictSet []Verdict

// JudgeFailure records a judge that produced no usable verdict
type JudgeFailure struct {
	JudgeID string `json:"judge_id"`
	Kind    string `json:"kind"` // timeout, malformed_response, transport, quota
	Reason  string `json:"reason"`
}
