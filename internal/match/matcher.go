package match

import (
	"fmt"

	"github.com/Acurioustractor/act-placemat-sub007/internal/model"
)

// acceptThreshold is the confidence a candidate must strictly exceed to be
// accepted as a match.
const acceptThreshold = 0.3

// PairWeights carries the confidence contributions for one source pairing.
// Pairings that include the knowledge base get slightly higher weights:
// its records are curated, so agreement with it means more.
type PairWeights struct {
	EmailExact   float64
	NameStrong   float64 // name similarity > 0.8
	NameModerate float64 // name similarity > 0.6
	OrgMatch     float64 // organisation similarity > 0.7
	ProfileURL   float64 // identical normalized profile URL
}

// WeightsFor returns the confidence weights for matching records of source
// a against records of source b.
func WeightsFor(a, b model.SourceName) PairWeights {
	w := PairWeights{
		EmailExact:   0.90,
		NameStrong:   0.60,
		NameModerate: 0.30,
		OrgMatch:     0.20,
	}
	if a.KnowledgeBase() || b.KnowledgeBase() {
		w.EmailExact = 0.95
		w.NameStrong = 0.70
		w.NameModerate = 0.40
		w.OrgMatch = 0.30
	}
	if a.CarriesProfileURLs() && b.CarriesProfileURLs() {
		w.ProfileURL = 0.95
	}
	return w
}

// Score computes the additive match confidence between a primary contact
// and one candidate, with the reasons that contributed. Confidence is not
// capped; stacked evidence may exceed 1.0.
func Score(primary, candidate model.CanonicalContact, w PairWeights) (float64, []string) {
	var conf float64
	var reasons []string

	if primary.Email != "" && primary.Email == candidate.Email {
		conf += w.EmailExact
		reasons = append(reasons, "exact email match")
	}

	sim := NameSimilarity(primary.FullName, candidate.FullName)
	switch {
	case sim > 0.8:
		conf += w.NameStrong
		reasons = append(reasons, fmt.Sprintf("strong name match (%.2f)", sim))
	case sim > 0.6:
		conf += w.NameModerate
		reasons = append(reasons, fmt.Sprintf("partial name match (%.2f)", sim))
	}

	if primary.Organization != "" && candidate.Organization != "" {
		if orgSim := TextSimilarity(primary.Organization, candidate.Organization); orgSim > 0.7 {
			conf += w.OrgMatch
			reasons = append(reasons, fmt.Sprintf("organisation match (%.2f)", orgSim))
		}
	}

	if w.ProfileURL > 0 && sharedURL(primary, candidate) {
		conf += w.ProfileURL
		reasons = append(reasons, "identical profile URL")
	}

	return conf, reasons
}

func sharedURL(a, b model.CanonicalContact) bool {
	if len(a.URLs) == 0 || len(b.URLs) == 0 {
		return false
	}
	seen := make(map[string]bool, len(a.URLs))
	for _, u := range a.URLs {
		if n := normalizeURL(u); n != "" {
			seen[n] = true
		}
	}
	for _, u := range b.URLs {
		if seen[normalizeURL(u)] {
			return true
		}
	}
	return false
}

// Best returns the highest-confidence candidate for primary, or false when
// no candidate strictly exceeds the acceptance threshold. Ties keep the
// earliest candidate in slice order.
func Best(primary model.CanonicalContact, candidates []model.CanonicalContact, w PairWeights) (model.MatchCandidate, bool) {
	var best model.MatchCandidate
	found := false

	for _, cand := range candidates {
		conf, reasons := Score(primary, cand, w)
		if conf <= acceptThreshold {
			continue
		}
		if !found || conf > best.Confidence {
			best = model.MatchCandidate{
				PrimarySource:   primary.Source,
				PrimaryID:       primary.SourceID,
				CandidateSource: cand.Source,
				CandidateID:     cand.SourceID,
				CandidateName:   cand.FullName,
				Confidence:      conf,
				Reasons:         reasons,
			}
			found = true
		}
	}
	return best, found
}

// MatchPopulations matches every primary contact against one secondary
// population. The result slice is parallel to primaries, nil where no
// candidate was accepted. Candidate records claimed by more than one
// primary are flagged as shared claims; the matching itself is
// intentionally not bijective.
func MatchPopulations(primaries, candidates []model.CanonicalContact) []*model.MatchCandidate {
	out := make([]*model.MatchCandidate, len(primaries))
	if len(primaries) == 0 || len(candidates) == 0 {
		return out
	}

	w := WeightsFor(primaries[0].Source, candidates[0].Source)
	claims := make(map[string]int)

	for i, p := range primaries {
		if m, ok := Best(p, candidates, w); ok {
			out[i] = &m
			claims[m.CandidateID]++
		}
	}

	for _, m := range out {
		if m == nil {
			continue
		}
		m.ClaimCount = claims[m.CandidateID]
		m.SharedClaim = m.ClaimCount > 1
	}
	return out
}
