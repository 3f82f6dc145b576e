package intel

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Acurioustractor/act-placemat-sub007/internal/model"
)

// Scoring constants. Sub-scores are additive bonuses; the composite starts
// from a neutral base so a contact with no signal sits exactly at 0.5.
const (
	compositeBase = 0.5

	weightPosition    = 0.30
	weightAlignment   = 0.25
	weightNetwork     = 0.20
	weightEngagement  = 0.15
	weightCrossSource = 0.10

	seniorTitleBonus    = 0.30
	midTitleBonus       = 0.15
	prioritySectorBonus = 0.25
	generalSectorBonus  = 0.15
	influenceBonus      = 0.05

	themeBonus   = 0.10
	projectBonus = 0.15

	networkPositionBonus = 0.10
	networkOrgBonus      = 0.08
	crossReferenceBonus  = 0.15

	emailKnownBonus    = 0.20
	recentContactBonus = 0.15
	yearContactBonus   = 0.10

	perSourceBonus     = 0.15
	knowledgeBaseBonus = 0.20
	completenessBonus  = 0.10

	recentContactWindow = 182 * 24 * time.Hour
	yearContactWindow   = 365 * 24 * time.Hour
)

// Analyze produces the full intelligence profile for one contact. It is a
// pure function of the vocabulary, the contact, and the supplied clock.
func Analyze(v Vocab, c model.CanonicalContact, now time.Time) model.IntelligenceProfile {
	p := model.IntelligenceProfile{
		Position:    analyzePosition(v, c),
		Alignment:   analyzeAlignment(v, c),
		Network:     analyzeNetwork(v, c),
		Engagement:  analyzeEngagement(v, c, now),
		CrossSource: analyzeCrossSource(c),
	}

	composite := compositeBase +
		weightPosition*p.Position.Score +
		weightAlignment*p.Alignment.Score +
		weightNetwork*p.Network.Score +
		weightEngagement*p.Engagement.Score +
		weightCrossSource*p.CrossSource.Score
	p.CompositeScore = clamp01(composite)

	p.StrategicValue = classifyTier(p)
	p.Recommendations = recommend(p)

	return p
}

func analyzePosition(v Vocab, c model.CanonicalContact) model.PositionAnalysis {
	a := model.PositionAnalysis{Seniority: "none", OrgType: "other"}
	position := strings.ToLower(c.Position)
	combined := position + " " + strings.ToLower(c.Organization)

	if kw := matchAnyKeyword(position, v.SeniorTitles); kw != "" {
		a.Score += seniorTitleBonus
		a.Seniority = "senior"
		a.Factors = append(a.Factors, fmt.Sprintf("senior title %q", kw))
	} else if kw := matchAnyKeyword(position, v.MidTitles); kw != "" {
		a.Score += midTitleBonus
		a.Seniority = "mid"
		a.Factors = append(a.Factors, fmt.Sprintf("mid-level title %q", kw))
	}

	// Sector tables are ordered and first-match-wins; priority sectors are
	// consulted before general ones and the two bonuses never stack.
	if kw, label := matchSector(combined, v.PrioritySectors); kw != "" {
		a.Score += prioritySectorBonus
		a.OrgType = label
		a.Factors = append(a.Factors, fmt.Sprintf("priority sector %q", kw))
	} else if kw, label := matchSector(combined, v.GeneralSectors); kw != "" {
		a.Score += generalSectorBonus
		a.OrgType = label
		a.Factors = append(a.Factors, fmt.Sprintf("sector %q", kw))
	}

	for _, kw := range v.InfluenceKeywords {
		if matchKeyword(combined, kw) {
			a.Score += influenceBonus
			a.Factors = append(a.Factors, fmt.Sprintf("influence signal %q", kw))
		}
	}

	return a
}

func analyzeAlignment(v Vocab, c model.CanonicalContact) model.AlignmentAnalysis {
	a := model.AlignmentAnalysis{Strength: "none"}
	combined := strings.ToLower(c.Position + " " + c.Organization)

	for _, kw := range v.ThemeKeywords {
		if matchKeyword(combined, kw) {
			a.Score += themeBonus
			a.Themes = append(a.Themes, kw)
			a.Factors = append(a.Factors, fmt.Sprintf("theme %q", kw))
		}
	}

	seen := map[string]bool{}
	for _, pk := range v.ProjectKeywords {
		if matchKeyword(combined, pk.Keyword) && !seen[pk.Project] {
			seen[pk.Project] = true
			a.Score += projectBonus
			a.Projects = append(a.Projects, pk.Project)
			a.Factors = append(a.Factors, fmt.Sprintf("project signal %q", pk.Keyword))
		}
	}

	switch {
	case a.Score >= 0.4:
		a.Strength = "strong"
	case a.Score >= 0.2:
		a.Strength = "moderate"
	case a.Score > 0:
		a.Strength = "weak"
	}
	return a
}

func analyzeNetwork(v Vocab, c model.CanonicalContact) model.NetworkAnalysis {
	a := model.NetworkAnalysis{Connectivity: "low"}
	position := strings.ToLower(c.Position)
	org := strings.ToLower(c.Organization)

	for _, kw := range v.NetworkPositions {
		if matchKeyword(position, kw) {
			a.Score += networkPositionBonus
			a.Factors = append(a.Factors, fmt.Sprintf("connective role %q", kw))
		}
	}
	for _, kw := range v.NetworkOrgs {
		if matchKeyword(org, kw) {
			a.Score += networkOrgBonus
			a.Factors = append(a.Factors, fmt.Sprintf("connective organisation %q", kw))
		}
	}
	if len(c.CrossSources) > 0 {
		a.Score += crossReferenceBonus
		a.Factors = append(a.Factors, "appears in multiple sources")
	}

	switch {
	case a.Score >= 0.3:
		a.Connectivity = "high"
	case a.Score >= 0.15:
		a.Connectivity = "medium"
	}
	return a
}

func analyzeEngagement(v Vocab, c model.CanonicalContact, now time.Time) model.EngagementAnalysis {
	a := model.EngagementAnalysis{Potential: "low-touch"}

	if c.Email != "" {
		a.Score += emailKnownBonus
		a.Factors = append(a.Factors, "direct email known")
	}

	if c.ConnectedAt != nil {
		age := now.Sub(*c.ConnectedAt)
		switch {
		case age <= recentContactWindow:
			a.Score += recentContactBonus
			a.Factors = append(a.Factors, "connected within 6 months")
		case age <= yearContactWindow:
			a.Score += yearContactBonus
			a.Factors = append(a.Factors, "connected within 12 months")
		}
	}

	if c.ReferredBy != "" {
		referredBy := strings.ToLower(c.ReferredBy)
		for _, r := range v.Referrers {
			if strings.Contains(referredBy, r.Keyword) {
				a.Score += r.Bonus
				a.Approach = r.Approach
				a.Factors = append(a.Factors, fmt.Sprintf("trusted referrer %q", r.Keyword))
				break
			}
		}
	}

	if a.Approach == "" {
		if c.Email != "" {
			a.Approach = "direct email"
		} else {
			a.Approach = "warm introduction"
		}
	}

	switch {
	case a.Score >= 0.4:
		a.Potential = "high-potential"
	case a.Score >= 0.2:
		a.Potential = "moderate"
	}
	return a
}

func analyzeCrossSource(c model.CanonicalContact) model.CrossSourceAnalysis {
	a := model.CrossSourceAnalysis{
		Richness:    "minimal",
		SourceCount: 1 + len(c.CrossSources),
	}

	if n := len(c.CrossSources); n > 0 {
		a.Score += perSourceBonus * float64(n)
		a.Factors = append(a.Factors, fmt.Sprintf("matched in %d additional source(s)", n))
	}
	if c.InKnowledgeBase {
		a.Score += knowledgeBaseBonus
		a.Factors = append(a.Factors, "present in knowledge base")
	}
	if n := c.Completeness(); n > 0 {
		a.Score += completenessBonus * float64(n) / 4
		a.Factors = append(a.Factors, fmt.Sprintf("%d of 4 core fields populated", n))
	}

	switch {
	case a.SourceCount >= 3:
		a.Richness = "rich"
	case a.SourceCount >= 2:
		a.Richness = "moderate"
	}
	return a
}

// classifyTier maps the sub-analyses to a strategic-value tier. A contact
// with no positive signal at all stays unknown rather than low.
func classifyTier(p model.IntelligenceProfile) model.Tier {
	switch {
	case p.CompositeScore >= 0.8 ||
		p.Position.Seniority == "senior" ||
		p.Alignment.Strength == "strong" ||
		p.Network.Connectivity == "high":
		return model.TierHigh
	case p.CompositeScore >= 0.6 ||
		p.Position.Seniority == "mid" ||
		p.Alignment.Strength == "moderate" ||
		p.Network.Connectivity == "medium":
		return model.TierMedium
	case p.CompositeScore > compositeBase ||
		p.Alignment.Strength != "none" ||
		p.Engagement.Potential != "low-touch":
		return model.TierLow
	default:
		return model.TierUnknown
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// matchKeyword reports whether text contains kw. Short keywords ("mp",
// "law") must match a whole word; longer ones match as substrings so
// stemmed entries like "philanthrop" still hit.
func matchKeyword(text, kw string) bool {
	if kw == "" {
		return false
	}
	if len(kw) >= 4 {
		return strings.Contains(text, kw)
	}
	for _, word := range strings.FieldsFunc(text, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}) {
		if word == kw {
			return true
		}
	}
	return false
}

func matchAnyKeyword(text string, keywords []string) string {
	for _, kw := range keywords {
		if matchKeyword(text, kw) {
			return kw
		}
	}
	return ""
}

func matchSector(text string, sectors []SectorKeyword) (string, string) {
	for _, s := range sectors {
		if matchKeyword(text, s.Keyword) {
			return s.Keyword, s.Label
		}
	}
	return "", ""
}
