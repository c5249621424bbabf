package model

// Badge classifies how strongly a panel agrees
type Badge string

const (
	BadgeUnanimous Badge = "UNANIMOUS"
	BadgeMajority  Badge = "MAJORITY"
	BadgeSplit     Badge = "SPLIT"
	BadgeChaos     Badge = "CHAOS"
)

// Category is the batch partition an item lands in
type Category string

const (
	CategoryViolating Category = "violating" // Restrictive majority
	CategoryMixed     Category = "mixed"     // No clear majority
	CategoryBenign    Category = "benign"    // Permissive majority
)

// Distribution counts verdicts per tier
type Distribution map[Tier]int

// Total returns the number of votes in the distribution
func (d Distribution) Total() int {
	total := 0
	for _, n := range d {
		total += n
	}
	return total
}

// ConsensusResult is derived from a VerdictSet and never mutated
type ConsensusResult struct {
	Distribution Distribution `json:"verdict_distribution"`
	Badge        Badge        `json:"consensus_badge"`
	Category     Category     `json:"category"`
	Total        int          `json:"total_verdicts"`

	Narrative string `json:"crux_narrative,omitempty"`  // Why the judges disagree
	Tension   string `json:"primary_tension,omitempty"` // Short tension axis
}
