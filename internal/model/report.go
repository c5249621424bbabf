package model

import "time"

// ScanRequest is the inbound trigger for one batch run
type ScanRequest struct {
	Query        string        `json:"keyword"`
	ItemLimit    int           `json:"max_ads"`
	JudgeIDs     []string      `json:"selected_judges"`
	ForceRefresh bool          `json:"refresh"`
	Items        []ContentItem `json:"ads,omitempty"` // Caller-supplied items skip the ads source
}

// ItemResult is the per-ad outcome of a run
type ItemResult struct {
	Item          ContentItem       `json:"ad"`
	Consensus     ConsensusResult   `json:"consensus"`
	Verdicts      VerdictSet        `json:"judge_verdicts"`
	JudgeFailures []JudgeFailure    `json:"judge_failures,omitempty"`
	Fingerprints  []ScamFingerprint `json:"scam_fingerprints,omitempty"`
	Violations    []PolicyViolation `json:"policy_violations,omitempty"`
	HarmScore     int               `json:"harm_score"` // 1 - 100
	LandingDomain *DomainAssessment `json:"landing_domain,omitempty"`
}

// ItemFailure records an item that was excluded from the partitions
type ItemFailure struct {
	ItemID string `json:"ad_id"`
	Reason string `json:"reason"`
}

// ScanStats aggregates a run
type ScanStats struct {
	ScamTypeDistribution map[ScamType]int  `json:"scam_type_distribution"`
	TotalHarmScore       int               `json:"total_harm_score"`
	AvgHarmScore         float64           `json:"avg_harm_score"`
	TopPolicyViolations  []PolicyViolation `json:"top_policy_violations"`
}

// Item sources
const (
	SourceApify    = "apify"
	SourceSample   = "sample"
	SourceSupplied = "supplied"
	SourceCache    = "cache" // Raw items replayed from the fetch cache
)

// BatchResult is one run's output and the unit stored in the result cache
type BatchResult struct {
	ScanID        string    `json:"scan_id"`
	Query         string    `json:"keyword"`
	Judges        []string  `json:"judges"`
	Source        string    `json:"source"`         // apify, sample, supplied, cache
	TotalItems    int       `json:"total_ads"`      // Items evaluated after dedup
	OriginalCount int       `json:"original_count"` // Items fetched before dedup
	ScanTimestamp time.Time `json:"scan_timestamp"`
	FromCache     bool      `json:"from_cache"`

	Violating []ItemResult  `json:"violating"`
	Mixed     []ItemResult  `json:"mixed"`
	Benign    []ItemResult  `json:"benign"`
	Failures  []ItemFailure `json:"failures,omitempty"`

	Stats ScanStats `json:"stats"`
}

// Succeeded returns the number of items that made it into a partition
func (b *BatchResult) Succeeded() int {
	return len(b.Violating) + len(b.Mixed) + len(b.Benign)
}
