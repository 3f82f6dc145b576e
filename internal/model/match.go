package model

// MatchCandidate is an accepted cross-source identity match between a
// primary contact and a record from another source.
type MatchCandidate struct {
	PrimarySource   SourceName `json:"primary_source"`
	PrimaryID       string     `json:"primary_id"`
	CandidateSource SourceName `json:"candidate_source"`
	CandidateID     string     `json:"candidate_id"`
	CandidateName   string     `json:"candidate_name"`

	// Confidence is the additive match score; it is not capped at 1.0.
	Confidence float64  `json:"confidence"`
	Reasons    []string `json:"reasons,omitempty"`

	// SharedClaim is set when the same candidate record was claimed by
	// more than one primary contact. ClaimCount is the number of primaries
	// that claimed it.
	SharedClaim bool `json:"shared_claim,omitempty"`
	ClaimCount  int  `json:"claim_count,omitempty"`
}
