package model

// ScamType names a known scam pattern category
type ScamType string

const (
	ScamCrypto         ScamType = "crypto_scam"
	ScamFakeCelebrity  ScamType = "fake_celebrity"
	ScamPhishing       ScamType = "phishing"
	ScamMLM            ScamType = "mlm_scheme"
	ScamFakeWeightLoss ScamType = "fake_weight_loss"
	ScamRomance        ScamType = "romance_scam"
	ScamFakeJob        ScamType = "fake_job"
	ScamUrgency        ScamType = "urgency_scam"
	ScamFakeGiveaway   ScamType = "fake_giveaway"
	ScamHealthMiracle  ScamType = "health_miracle"
	ScamGetRichQuick   ScamType = "get_rich_quick"
)

// ScamFingerprint is a detected scam category match
type ScamFingerprint struct {
	Type            ScamType `json:"type"`
	Confidence      float64  `json:"confidence"` // min(1, matches/3)
	MatchCount      int      `json:"match_count"`
	MatchedPatterns []string `json:"matched_patterns,omitempty"`
	RiskScore       int      `json:"risk_score"` // 1 - 10
}

// PolicyViolation maps a fingerprint to an advertising standard
type PolicyViolation struct {
	Code      string `json:"policy_code"` // e.g. "§4.2"
	Name      string `json:"policy_name"`
	Section   string `json:"policy_section"`
	Severity  string `json:"severity"` // critical, high, medium, low
	PolicyURL string `json:"meta_policy_url,omitempty"`
}
