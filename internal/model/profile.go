package model

// Tier is the strategic-value classification of a contact.
type Tier string

const (
	TierUnknown Tier = "unknown"
	TierLow     Tier = "low"
	TierMedium  Tier = "medium"
	TierHigh    Tier = "high"
)

// Rank orders tiers for sorting; higher is more valuable.
func (t Tier) Rank() int {
	switch t {
	case TierHigh:
		return 3
	case TierMedium:
		return 2
	case TierLow:
		return 1
	default:
		return 0
	}
}

// Priority orders recommended actions.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank orders priorities for sorting; higher is more urgent.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Recommendation is a single suggested next action for a contact.
type Recommendation struct {
	Action   string   `json:"action"`
	Priority Priority `json:"priority"`
}

// PositionAnalysis scores seniority and sector signals in a contact's
// role and organisation text.
type PositionAnalysis struct {
	Score     float64  `json:"score"`
	Seniority string   `json:"seniority"` // "senior", "mid", "none"
	OrgType   string   `json:"org_type"`  // sector label, or "other"
	Factors   []string `json:"factors,omitempty"`
}

// AlignmentAnalysis scores thematic and project overlap with the
// organisation's mission.
type AlignmentAnalysis struct {
	Score    float64  `json:"score"`
	Strength string   `json:"strength"` // "strong", "moderate", "weak", "none"
	Themes   []string `json:"themes,omitempty"`
	Projects []string `json:"projects,omitempty"`
	Factors  []string `json:"factors,omitempty"`
}

// NetworkAnalysis scores a contact's likely connective value.
type NetworkAnalysis struct {
	Score        float64  `json:"score"`
	Connectivity string   `json:"connectivity"` // "high", "medium", "low"
	Factors      []string `json:"factors,omitempty"`
}

// EngagementAnalysis scores how reachable the contact is and suggests an
// outreach approach.
type EngagementAnalysis struct {
	Score     float64  `json:"score"`
	Potential string   `json:"potential"` // "high-potential", "moderate", "low-touch"
	Approach  string   `json:"approach"`
	Factors   []string `json:"factors,omitempty"`
}

// CrossSourceAnalysis scores data richness across sources.
type CrossSourceAnalysis struct {
	Score       float64  `json:"score"`
	Richness    string   `json:"richness"` // "rich", "moderate", "minimal"
	SourceCount int      `json:"source_count"`
	Factors     []string `json:"factors,omitempty"`
}

// IntelligenceProfile is the full analysis output for one contact.
type IntelligenceProfile struct {
	Position        PositionAnalysis    `json:"position"`
	Alignment       AlignmentAnalysis   `json:"alignment"`
	Network         NetworkAnalysis     `json:"network"`
	Engagement      EngagementAnalysis  `json:"engagement"`
	CrossSource     CrossSourceAnalysis `json:"cross_source"`
	CompositeScore  float64             `json:"composite_score"`
	StrategicValue  Tier                `json:"strategic_value"`
	Recommendations []Recommendation    `json:"recommendations,omitempty"`
}

// ScoredMergedContact pairs a (possibly cross-source-merged) contact with
// its intelligence profile and any accepted matches.
type ScoredMergedContact struct {
	Contact CanonicalContact    `json:"contact"`
	Matches []MatchCandidate    `json:"matches,omitempty"`
	Profile IntelligenceProfile `json:"profile"`
}
