// Package intel scores canonical contacts: five sub-analyses, a weighted
// composite, a strategic-value tier, and recommended next actions. All
// scoring is pure and driven by the keyword tables in Vocab.
package intel

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// SectorKeyword maps a keyword to the organisation-type label it implies.
// Tables are ordered; the first matching keyword wins.
type SectorKeyword struct {
	Keyword string `yaml:"keyword"`
	Label   string `yaml:"label"`
}

// ProjectKeyword maps a keyword to the internal project it signals.
type ProjectKeyword struct {
	Keyword string `yaml:"keyword"`
	Project string `yaml:"project"`
}

// Referrer maps a provenance note to an outreach approach and trust bonus.
type Referrer struct {
	Keyword  string  `yaml:"keyword"`
	Bonus    float64 `yaml:"bonus"`
	Approach string  `yaml:"approach"`
}

// Vocab holds every keyword table the analyzer consults. All tables are
// ordered data so scoring stays deterministic.
type Vocab struct {
	SeniorTitles      []string         `yaml:"senior_titles"`
	MidTitles         []string         `yaml:"mid_titles"`
	PrioritySectors   []SectorKeyword  `yaml:"priority_sectors"`
	GeneralSectors    []SectorKeyword  `yaml:"general_sectors"`
	InfluenceKeywords []string         `yaml:"influence_keywords"`
	ThemeKeywords     []string         `yaml:"theme_keywords"`
	ProjectKeywords   []ProjectKeyword `yaml:"project_keywords"`
	NetworkPositions  []string         `yaml:"network_positions"`
	NetworkOrgs       []string         `yaml:"network_orgs"`
	Referrers         []Referrer       `yaml:"referrers"`
}

// DefaultVocab returns the built-in vocabulary tuned for the youth-justice
// and community-development network the engine was built around.
func DefaultVocab() Vocab {
	return Vocab{
		SeniorTitles: []string{
			"minister", "secretary", "director-general", "director general",
			"ceo", "chief executive", "chair", "commissioner", "chief",
			"president", "premier", "mp", "senator", "judge", "magistrate",
			"professor", "dean", "director", "founder", "head of",
			"executive", "partner",
		},
		MidTitles: []string{
			"manager", "lead", "coordinator", "principal", "senior",
			"adviser", "advisor", "consultant", "specialist", "officer",
		},
		PrioritySectors: []SectorKeyword{
			{Keyword: "aboriginal", Label: "indigenous"},
			{Keyword: "indigenous", Label: "indigenous"},
			{Keyword: "first nations", Label: "indigenous"},
			{Keyword: "torres strait", Label: "indigenous"},
			{Keyword: "youth justice", Label: "justice"},
			{Keyword: "juvenile justice", Label: "justice"},
			{Keyword: "justice", Label: "justice"},
			{Keyword: "corrections", Label: "justice"},
			{Keyword: "philanthrop", Label: "philanthropy"},
			{Keyword: "foundation", Label: "philanthropy"},
			{Keyword: "trust", Label: "philanthropy"},
			{Keyword: "government", Label: "government"},
			{Keyword: "department", Label: "government"},
			{Keyword: "ministry", Label: "government"},
			{Keyword: "council", Label: "government"},
		},
		GeneralSectors: []SectorKeyword{
			{Keyword: "university", Label: "education"},
			{Keyword: "school", Label: "education"},
			{Keyword: "education", Label: "education"},
			{Keyword: "research", Label: "education"},
			{Keyword: "health", Label: "health"},
			{Keyword: "hospital", Label: "health"},
			{Keyword: "community", Label: "community"},
			{Keyword: "charity", Label: "community"},
			{Keyword: "not-for-profit", Label: "community"},
			{Keyword: "nonprofit", Label: "community"},
			{Keyword: "ngo", Label: "community"},
			{Keyword: "media", Label: "media"},
			{Keyword: "journalis", Label: "media"},
			{Keyword: "legal", Label: "legal"},
			{Keyword: "law", Label: "legal"},
		},
		InfluenceKeywords: []string{
			"board", "advisory", "policy", "strategy", "strategic",
			"national", "international", "award", "fellow", "ambassador",
		},
		ThemeKeywords: []string{
			"youth", "justice", "storytelling", "community", "indigenous",
			"empowerment", "social impact", "social change", "advocacy",
			"wellbeing", "mentoring", "diversion", "reform",
		},
		ProjectKeywords: []ProjectKeyword{
			{Keyword: "youth justice", Project: "justice-reinvestment"},
			{Keyword: "detention", Project: "justice-reinvestment"},
			{Keyword: "diversion", Project: "justice-reinvestment"},
			{Keyword: "storytell", Project: "community-stories"},
			{Keyword: "film", Project: "community-stories"},
			{Keyword: "media", Project: "community-stories"},
			{Keyword: "on country", Project: "on-country-programs"},
			{Keyword: "cultural", Project: "on-country-programs"},
			{Keyword: "mentor", Project: "young-leaders"},
			{Keyword: "leadership", Project: "young-leaders"},
		},
		NetworkPositions: []string{
			"director", "chair", "board", "president", "head", "partner",
			"commissioner", "minister", "secretary",
		},
		NetworkOrgs: []string{
			"government", "department", "university", "foundation",
			"council", "peak body", "association", "network", "alliance",
		},
		Referrers: []Referrer{
			{Keyword: "founder network", Bonus: 0.10, Approach: "personal outreach"},
			{Keyword: "direct contact", Bonus: 0.10, Approach: "personal outreach"},
			{Keyword: "partner referral", Bonus: 0.08, Approach: "request introduction"},
			{Keyword: "event", Bonus: 0.08, Approach: "request introduction"},
		},
	}
}

// LoadVocabOverlay reads a yaml file and overwrites any table it names on
// top of base. Tables absent from the file keep their base values.
func LoadVocabOverlay(base Vocab, path string) (Vocab, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, eris.Wrap(err, "intel: read vocab overlay")
	}

	var overlay Vocab
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return base, eris.Wrap(err, "intel: parse vocab overlay")
	}

	merged := base
	if len(overlay.SeniorTitles) > 0 {
		merged.SeniorTitles = overlay.SeniorTitles
	}
	if len(overlay.MidTitles) > 0 {
		merged.MidTitles = overlay.MidTitles
	}
	if len(overlay.PrioritySectors) > 0 {
		merged.PrioritySectors = overlay.PrioritySectors
	}
	if len(overlay.GeneralSectors) > 0 {
		merged.GeneralSectors = overlay.GeneralSectors
	}
	if len(overlay.InfluenceKeywords) > 0 {
		merged.InfluenceKeywords = overlay.InfluenceKeywords
	}
	if len(overlay.ThemeKeywords) > 0 {
		merged.ThemeKeywords = overlay.ThemeKeywords
	}
	if len(overlay.ProjectKeywords) > 0 {
		merged.ProjectKeywords = overlay.ProjectKeywords
	}
	if len(overlay.NetworkPositions) > 0 {
		merged.NetworkPositions = overlay.NetworkPositions
	}
	if len(overlay.NetworkOrgs) > 0 {
		merged.NetworkOrgs = overlay.NetworkOrgs
	}
	if len(overlay.Referrers) > 0 {
		merged.Referrers = overlay.Referrers
	}
	return merged, nil
}
