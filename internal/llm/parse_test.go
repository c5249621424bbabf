package llm

import (
	"testing"

	"github.com/ppiankov/adjury/internal/model"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		desc    string
		raw     string
		wantErr bool
		tier    model.Tier
	}{
		{
			desc: "plain JSON",
			raw:  `{"judge_id":"other","verdict_tier":"REMOVE","confidence_score":0.9,"primary_policy_axis":"Fraud","reasoning_bullets":["a"],"refusal_to_instruct":true}`,
			tier: model.TierRemove,
		},
		{
			desc: "fenced with prose",
			raw:  "Here is my verdict:\n```json\n{\"verdict_tier\":\"age_gate\",\"confidence_score\":0.5}\n```\nThanks.",
			tier: model.TierAgeGate,
		},
		{desc: "unknown tier", raw: `{"verdict_tier":"BAN","confidence_score":0.5}`, wantErr: true},
		{desc: "confidence above one", raw: `{"verdict_tier":"ALLOW","confidence_score":1.5}`, wantErr: true},
		{desc: "negative confidence", raw: `{"verdict_tier":"ALLOW","confidence_score":-0.1}`, wantErr: true},
		{desc: "missing confidence", raw: `{"verdict_tier":"ALLOW"}`, wantErr: true},
		{desc: "no JSON", raw: "I cannot comply", wantErr: true},
		{desc: "broken JSON", raw: `{"verdict_tier": "ALLOW", }`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			v, err := ParseVerdict(tt.raw, "meta")
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got verdict %+v", v)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.Tier != tt.tier {
				t.Errorf("tier = %s, want %s", v.Tier, tt.tier)
			}
			if v.JudgeID != "meta" {
				t.Errorf("judge id = %s, want requested id meta", v.JudgeID)
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	span, ok := extractJSON(`noise {"a":{"b":1}} trailing`)
	if !ok || span != `{"a":{"b":1}}` {
		t.Errorf("unexpected span %q %v", span, ok)
	}
	if _, ok := extractJSON("} backwards {"); ok {
		t.Error("expected no span when braces are reversed")
	}
}
