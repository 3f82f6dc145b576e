// Package report turns a scored contact population into the run report:
// tier counts, top opportunities, sector breakdown, and ranked
// recommendations. Generation never fails; an empty population produces an
// empty but well-formed report.
package report

import (
	"sort"
	"time"

	"github.com/Acurioustractor/act-placemat-sub007/internal/model"
	"github.com/Acurioustractor/act-placemat-sub007/internal/store"
)

const (
	topOpportunities   = 15
	topRecommendations = 20
)

// RunCounts carries the bookkeeping totals the pipeline accumulated.
type RunCounts struct {
	SourcesLoaded int                  `json:"sources_loaded"`
	Rejected      int                  `json:"rejected"`
	Duplicates    int                  `json:"duplicates"`
	Persistence   *store.UpdateSummary `json:"persistence,omitempty"`
}

// Opportunity is one high-value contact surfaced by the report.
type Opportunity struct {
	Name           string     `json:"name"`
	Organization   string     `json:"organization,omitempty"`
	Position       string     `json:"position,omitempty"`
	CompositeScore float64    `json:"composite_score"`
	StrategicValue model.Tier `json:"strategic_value"`
}

// SectorBreakdown aggregates contacts by organisation-type label.
type SectorBreakdown struct {
	Sector       string  `json:"sector"`
	Count        int     `json:"count"`
	HighTier     int     `json:"high_tier"`
	AvgComposite float64 `json:"avg_composite"`
}

// RankedRecommendation is a recommendation attributed to its contact,
// ordered by priority then composite score.
type RankedRecommendation struct {
	Contact        string         `json:"contact"`
	Action         string         `json:"action"`
	Priority       model.Priority `json:"priority"`
	CompositeScore float64        `json:"composite_score"`
}

// Report is the full run output.
type Report struct {
	GeneratedAt        time.Time              `json:"generated_at"`
	TotalContacts      int                    `json:"total_contacts"`
	TierCounts         map[model.Tier]int     `json:"tier_counts"`
	AverageComposite   float64                `json:"average_composite"`
	TopOpportunities   []Opportunity          `json:"top_opportunities"`
	Sectors            []SectorBreakdown      `json:"sectors"`
	TopRecommendations []RankedRecommendation `json:"top_recommendations"`
	Counts             RunCounts              `json:"counts"`
}

// Generate builds the report for a scored population. Ordering is stable:
// equal-scoring contacts keep their input order.
func Generate(contacts []model.ScoredMergedContact, counts RunCounts, now time.Time) *Report {
	r := &Report{
		GeneratedAt:   now,
		TotalContacts: len(contacts),
		TierCounts: map[model.Tier]int{
			model.TierHigh:    0,
			model.TierMedium:  0,
			model.TierLow:     0,
			model.TierUnknown: 0,
		},
		Counts: counts,
	}

	var sum float64
	for _, c := range contacts {
		r.TierCounts[c.Profile.StrategicValue]++
		sum += c.Profile.CompositeScore
	}
	if len(contacts) > 0 {
		r.AverageComposite = sum / float64(len(contacts))
	}

	r.TopOpportunities = opportunities(contacts)
	r.Sectors = sectors(contacts)
	r.TopRecommendations = recommendations(contacts)
	return r
}

func opportunities(contacts []model.ScoredMergedContact) []Opportunity {
	high := make([]model.ScoredMergedContact, 0, len(contacts))
	for _, c := range contacts {
		if c.Profile.StrategicValue == model.TierHigh {
			high = append(high, c)
		}
	}
	sort.SliceStable(high, func(i, j int) bool {
		return high[i].Profile.CompositeScore > high[j].Profile.CompositeScore
	})
	if len(high) > topOpportunities {
		high = high[:topOpportunities]
	}

	out := make([]Opportunity, 0, len(high))
	for _, c := range high {
		out = append(out, Opportunity{
			Name:           c.Contact.FullName,
			Organization:   c.Contact.Organization,
			Position:       c.Contact.Position,
			CompositeScore: c.Profile.CompositeScore,
			StrategicValue: c.Profile.StrategicValue,
		})
	}
	return out
}

func sectors(contacts []model.ScoredMergedContact) []SectorBreakdown {
	type acc struct {
		count, high int
		sum         float64
	}
	byLabel := map[string]*acc{}
	for _, c := range contacts {
		label := c.Profile.Position.OrgType
		if label == "" {
			label = "other"
		}
		a := byLabel[label]
		if a == nil {
			a = &acc{}
			byLabel[label] = a
		}
		a.count++
		a.sum += c.Profile.CompositeScore
		if c.Profile.StrategicValue == model.TierHigh {
			a.high++
		}
	}

	out := make([]SectorBreakdown, 0, len(byLabel))
	for label, a := range byLabel {
		out = append(out, SectorBreakdown{
			Sector:       label,
			Count:        a.count,
			HighTier:     a.high,
			AvgComposite: a.sum / float64(a.count),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Sector < out[j].Sector
	})
	return out
}

func recommendations(contacts []model.ScoredMergedContact) []RankedRecommendation {
	var out []RankedRecommendation
	for _, c := range contacts {
		for _, rec := range c.Profile.Recommendations {
			out = append(out, RankedRecommendation{
				Contact:        c.Contact.FullName,
				Action:         rec.Action,
				Priority:       rec.Priority,
				CompositeScore: c.Profile.CompositeScore,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority.Rank() != out[j].Priority.Rank() {
			return out[i].Priority.Rank() > out[j].Priority.Rank()
		}
		return out[i].CompositeScore > out[j].CompositeScore
	})
	if len(out) > topRecommendations {
		out = out[:topRecommendations]
	}
	return out
}
