package intel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Acurioustractor/act-placemat-sub007/internal/model"
)

var testNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func analyzeDefault(c model.CanonicalContact) model.IntelligenceProfile {
	return Analyze(DefaultVocab(), c, testNow)
}

func TestAnalyze_SeniorIndigenousDirector(t *testing.T) {
	p := analyzeDefault(model.CanonicalContact{
		Source:       model.SourceLinkedIn,
		FullName:     "Jane Doe",
		Position:     "Director",
		Organization: "Cape York Aboriginal Corporation",
	})

	assert.Equal(t, "senior", p.Position.Seniority)
	assert.Equal(t, "indigenous", p.Position.OrgType)
	assert.GreaterOrEqual(t, p.Position.Score, 0.55)
	assert.Equal(t, model.TierHigh, p.StrategicValue)
}

func TestAnalyze_BareContactIsNeutral(t *testing.T) {
	p := analyzeDefault(model.CanonicalContact{
		Source:   model.SourceLinkedIn,
		FullName: "Jane Doe",
	})

	assert.InDelta(t, 0.5, p.CompositeScore, 1e-9)
	assert.Equal(t, model.TierUnknown, p.StrategicValue)
	assert.Equal(t, "none", p.Position.Seniority)
	assert.Equal(t, "none", p.Alignment.Strength)
	assert.Equal(t, "low-touch", p.Engagement.Potential)
}

func TestAnalyze_CompositeStaysInRange(t *testing.T) {
	loaded := model.CanonicalContact{
		Source:       model.SourceLinkedIn,
		FullName:     "Max Signal",
		Email:        "max@foundation.org",
		Position:     "Chair, Board Director and National Policy Strategy Commissioner",
		Organization: "Aboriginal Youth Justice Foundation, Government Department Alliance",
		Location:     "Brisbane",
		ReferredBy:   "Founder network",
		ConnectedAt:  func() *time.Time { ts := testNow.AddDate(0, -1, 0); return &ts }(),
		CrossSources: []model.SourceName{model.SourceNotion, model.SourceMasterXLSX, model.SourceEmailImport},
	}
	loaded.InKnowledgeBase = true

	p := analyzeDefault(loaded)
	assert.LessOrEqual(t, p.CompositeScore, 1.0)
	assert.GreaterOrEqual(t, p.CompositeScore, 0.0)
	assert.Equal(t, model.TierHigh, p.StrategicValue)
	assert.Equal(t, "rich", p.CrossSource.Richness)
}

func TestAnalyze_Deterministic(t *testing.T) {
	c := model.CanonicalContact{
		Source:       model.SourceNotion,
		FullName:     "Repeat Run",
		Position:     "Program Manager",
		Organization: "Community Health Trust",
		Email:        "repeat@example.org",
	}
	assert.Equal(t, analyzeDefault(c), analyzeDefault(c))
}

func TestAnalyze_EmailNeverLowersComposite(t *testing.T) {
	tests := []struct {
		name    string
		contact model.CanonicalContact
	}{
		{"bare", model.CanonicalContact{FullName: "A B"}},
		{"senior", model.CanonicalContact{FullName: "A B", Position: "CEO", Organization: "Youth Foundation"}},
		{"mid", model.CanonicalContact{FullName: "A B", Position: "Project Officer"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			without := analyzeDefault(tt.contact)

			with := tt.contact
			with.Email = "a@example.org"
			got := analyzeDefault(with)

			assert.Greater(t, got.CompositeScore, without.CompositeScore)
			assert.GreaterOrEqual(t, got.StrategicValue.Rank(), without.StrategicValue.Rank())
		})
	}
}

func TestAnalyzePosition_MidLevel(t *testing.T) {
	p := analyzeDefault(model.CanonicalContact{
		FullName: "Pat Lee",
		Position: "Program Coordinator",
	})

	assert.Equal(t, "mid", p.Position.Seniority)
	assert.InDelta(t, midTitleBonus, p.Position.Score, 1e-9)
}

func TestAnalyzePosition_PrioritySectorWinsOverGeneral(t *testing.T) {
	// "university" (general) and "indigenous" (priority) both appear;
	// only the priority bonus applies and it sets the label.
	p := analyzeDefault(model.CanonicalContact{
		FullName:     "Dr X",
		Organization: "Indigenous Studies Unit, Metro University",
	})

	assert.Equal(t, "indigenous", p.Position.OrgType)
	assert.InDelta(t, prioritySectorBonus, p.Position.Score, 1e-9)
}

func TestAnalyzePosition_InfluenceKeywordsStack(t *testing.T) {
	p := analyzeDefault(model.CanonicalContact{
		FullName: "Board Member",
		Position: "Board Member, National Policy Strategy",
	})

	// board + national + policy + strategy
	assert.InDelta(t, 4*influenceBonus, p.Position.Score, 1e-9)
}

func TestAnalyzeAlignment_Labels(t *testing.T) {
	tests := []struct {
		name     string
		position string
		org      string
		want     string
	}{
		{"none", "Accountant", "Ledger Pty Ltd", "none"},
		{"weak", "Youth Worker", "", "weak"},
		{"moderate", "Community Advocacy Officer", "", "moderate"},
		{"strong", "Youth Justice Storytelling Lead", "Community Reform Alliance", "strong"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := analyzeDefault(model.CanonicalContact{
				FullName: "T", Position: tt.position, Organization: tt.org,
			})
			assert.Equal(t, tt.want, p.Alignment.Strength)
		})
	}
}

func TestAnalyzeAlignment_DistinctProjectsOnly(t *testing.T) {
	// "detention" and "diversion" both signal justice-reinvestment; the
	// project bonus must count once.
	p := analyzeDefault(model.CanonicalContact{
		FullName: "T",
		Position: "Detention Diversion Specialist",
	})

	assert.Equal(t, []string{"justice-reinvestment"}, p.Alignment.Projects)
}

func TestAnalyzeNetwork_Connectivity(t *testing.T) {
	low := analyzeDefault(model.CanonicalContact{FullName: "T", Position: "Analyst"})
	assert.Equal(t, "low", low.Network.Connectivity)

	medium := analyzeDefault(model.CanonicalContact{
		FullName: "T", Position: "Analyst", Organization: "State Government Department",
	})
	assert.Equal(t, "medium", medium.Network.Connectivity)

	high := analyzeDefault(model.CanonicalContact{
		FullName: "T", Position: "Board Chair", Organization: "National Foundation Alliance",
	})
	assert.Equal(t, "high", high.Network.Connectivity)
}

func TestAnalyzeNetwork_CrossReferenceBonus(t *testing.T) {
	solo := analyzeDefault(model.CanonicalContact{FullName: "T"})
	linked := analyzeDefault(model.CanonicalContact{
		FullName:     "T",
		CrossSources: []model.SourceName{model.SourceNotion},
	})

	assert.InDelta(t, crossReferenceBonus, linked.Network.Score-solo.Network.Score, 1e-9)
}

func TestAnalyzeEngagement_Recency(t *testing.T) {
	at := func(monthsAgo int) *time.Time {
		ts := testNow.AddDate(0, -monthsAgo, 0)
		return &ts
	}

	tests := []struct {
		name      string
		connected *time.Time
		want      float64
	}{
		{"recent", at(3), recentContactBonus},
		{"within year", at(9), yearContactBonus},
		{"stale", at(24), 0},
		{"unknown", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := analyzeDefault(model.CanonicalContact{FullName: "T", ConnectedAt: tt.connected})
			assert.InDelta(t, tt.want, p.Engagement.Score, 1e-9)
		})
	}
}

func TestAnalyzeEngagement_ReferrerSetsApproach(t *testing.T) {
	p := analyzeDefault(model.CanonicalContact{
		FullName:   "T",
		Email:      "t@example.org",
		ReferredBy: "via the Founder Network dinner",
	})

	assert.Equal(t, "personal outreach", p.Engagement.Approach)
	assert.InDelta(t, emailKnownBonus+0.10, p.Engagement.Score, 1e-9)
}

func TestAnalyzeEngagement_Potential(t *testing.T) {
	recent := testNow.AddDate(0, -2, 0)

	high := analyzeDefault(model.CanonicalContact{
		FullName: "T", Email: "t@x.org", ConnectedAt: &recent, ReferredBy: "partner referral",
	})
	assert.Equal(t, "high-potential", high.Engagement.Potential)

	moderate := analyzeDefault(model.CanonicalContact{FullName: "T", Email: "t@x.org"})
	assert.Equal(t, "moderate", moderate.Engagement.Potential)

	lowTouch := analyzeDefault(model.CanonicalContact{FullName: "T"})
	assert.Equal(t, "low-touch", lowTouch.Engagement.Potential)
	assert.Equal(t, "warm introduction", lowTouch.Engagement.Approach)
}

func TestAnalyzeCrossSource(t *testing.T) {
	c := model.CanonicalContact{
		FullName:        "T",
		Email:           "t@x.org",
		Organization:    "Org",
		CrossSources:    []model.SourceName{model.SourceNotion, model.SourceMasterXLSX},
		InKnowledgeBase: true,
	}

	p := analyzeDefault(c)
	require.Equal(t, 3, p.CrossSource.SourceCount)
	assert.Equal(t, "rich", p.CrossSource.Richness)
	// two extra sources, knowledge base, 2 of 4 fields populated
	want := 2*perSourceBonus + knowledgeBaseBonus + completenessBonus*2/4
	assert.InDelta(t, want, p.CrossSource.Score, 1e-9)
}

func TestClassifyTier_LowNeedsSomeSignal(t *testing.T) {
	// Email alone lifts the composite above base, so the contact is low
	// rather than unknown.
	p := analyzeDefault(model.CanonicalContact{FullName: "T", Email: "t@x.org"})
	assert.Equal(t, model.TierLow, p.StrategicValue)
}

func TestMatchKeyword_ShortKeywordsNeedWordBoundary(t *testing.T) {
	assert.False(t, matchKeyword("company impact", "mp"))
	assert.True(t, matchKeyword("jane doe mp", "mp"))
	assert.True(t, matchKeyword("philanthropic trust", "philanthrop"))
}

func TestRecommend_CapAndPriorities(t *testing.T) {
	p := analyzeDefault(model.CanonicalContact{
		FullName:     "T",
		Email:        "t@x.org",
		Position:     "Board Chair, Youth Justice Mentor",
		Organization: "National Storytelling Foundation",
		ReferredBy:   "founder network",
	})

	require.NotEmpty(t, p.Recommendations)
	assert.LessOrEqual(t, len(p.Recommendations), maxRecommendations)
	assert.Contains(t, p.Recommendations[0].Action, "personal outreach")
	for _, r := range p.Recommendations {
		assert.NotEmpty(t, r.Action)
		assert.NotEqual(t, model.Priority(""), r.Priority)
	}
}
