package model

import "time"

// AgreementLevel classifies how closely independent model families agree
type AgreementLevel string

const (
	AgreementFull         AgreementLevel = "full"
	AgreementPartial      AgreementLevel = "partial"
	AgreementDisagreement AgreementLevel = "disagreement"
)

// ModelVerdict is one model family's neutral ruling on a piece of content
type ModelVerdict struct {
	ModelFamily      string  `json:"model_family"` // openai, anthropic, gemini, ...
	ModelID          string  `json:"model_id"`
	Tier             Tier    `json:"verdict_tier"`
	Confidence       float64 `json:"confidence_score"`
	ReasoningSummary string  `json:"reasoning_summary"`
	KeyPolicyConcern string  `json:"key_policy_concern"`
}

// CrossModelResult compares the same analysis across model families
type CrossModelResult struct {
	Verdicts              []ModelVerdict `json:"verdicts"`
	Failures              []JudgeFailure `json:"failures,omitempty"` // JudgeID holds the model family
	Agreement             AgreementLevel `json:"agreement_level"`
	EscalationRecommended bool           `json:"escalation_recommended"`
	DisagreementSummary   string         `json:"disagreement_summary,omitempty"`
}

// AnalyzeRequest asks for a panel ruling on one piece of content
type AnalyzeRequest struct {
	ContentText string   `json:"content_text"`
	ImageBase64 string   `json:"content_image_base64,omitempty"` // JPEG, PNG, GIF or WebP
	ContextHint string   `json:"context_hint,omitempty"`
	JudgeIDs    []string `json:"selected_judges"`
	CrossModel  bool     `json:"run_cross_model"`
}

// AnalysisResult is the ruling on a single piece of content
type AnalysisResult struct {
	RequestID      string            `json:"request_id"`
	ContentPreview string            `json:"content_preview"`
	HasImage       bool              `json:"has_image"`
	Judges         []string          `json:"judges"`
	Verdicts       VerdictSet        `json:"judge_verdicts"`
	JudgeFailures  []JudgeFailure    `json:"judge_failures,omitempty"`
	Consensus      ConsensusResult   `json:"synthesis"`
	Fingerprints   []ScamFingerprint `json:"scam_fingerprints,omitempty"`
	Violations     []PolicyViolation `json:"policy_violations,omitempty"`
	HarmScore      int               `json:"harm_score"`
	CrossModel     *CrossModelResult `json:"cross_model,omitempty"`
	AnalyzedAt     time.Time         `json:"analyzed_at"`
}
