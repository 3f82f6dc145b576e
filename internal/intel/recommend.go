package intel

import (
	"fmt"

	"github.com/Acurioustractor/act-placemat-sub007/internal/model"
)

const maxRecommendations = 3

// recommend derives up to three next actions from the sub-analyses:
// an outreach step, a project invitation, and a network ask.
func recommend(p model.IntelligenceProfile) []model.Recommendation {
	var recs []model.Recommendation

	if p.Engagement.Approach != "" {
		priority := model.PriorityLow
		switch p.Engagement.Potential {
		case "high-potential":
			priority = model.PriorityHigh
		case "moderate":
			priority = model.PriorityMedium
		}
		recs = append(recs, model.Recommendation{
			Action:   fmt.Sprintf("Start with %s", p.Engagement.Approach),
			Priority: priority,
		})
	}

	if len(p.Alignment.Projects) > 0 {
		priority := model.PriorityMedium
		if p.Alignment.Strength == "strong" {
			priority = model.PriorityHigh
		}
		recs = append(recs, model.Recommendation{
			Action:   fmt.Sprintf("Invite to collaborate on %s", p.Alignment.Projects[0]),
			Priority: priority,
		})
	}

	switch p.Network.Connectivity {
	case "high":
		recs = append(recs, model.Recommendation{
			Action:   "Request warm introductions across their network",
			Priority: model.PriorityHigh,
		})
	case "medium":
		recs = append(recs, model.Recommendation{
			Action:   "Map their network for second-degree introductions",
			Priority: model.PriorityMedium,
		})
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}
