package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Acurioustractor/act-placemat-sub007/internal/intel"
	"github.com/Acurioustractor/act-placemat-sub007/internal/model"
	"github.com/Acurioustractor/act-placemat-sub007/internal/source"
)

type stubSource struct {
	name    model.SourceName
	records []model.RawRecord
	err     error
}

func (s *stubSource) Name() model.SourceName { return s.name }
func (s *stubSource) Load(ctx context.Context) ([]model.RawRecord, error) {
	return s.records, s.err
}

type memStore struct {
	mu      sync.Mutex
	written []model.ScoredMergedContact
	reports map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{reports: map[string][]byte{}}
}

func (m *memStore) UpsertBatch(ctx context.Context, batch []model.ScoredMergedContact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.written = append(m.written, batch...)
	return nil
}

func (m *memStore) UpsertOne(ctx context.Context, c model.ScoredMergedContact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.written = append(m.written, c)
	return nil
}

func (m *memStore) SaveReport(ctx context.Context, runID string, report []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[runID] = report
	return nil
}

func (m *memStore) Migrate(ctx context.Context) error { return nil }
func (m *memStore) Close()                            {}

func linkedInRecord(first, last, email, company, position string) model.RawRecord {
	return model.RawRecord{
		Source: model.SourceLinkedIn,
		Fields: map[string]string{
			"First Name":    first,
			"Last Name":     last,
			"Email Address": email,
			"Company":       company,
			"Position":      position,
		},
	}
}

func notionRecord(id, name, email, org string) model.RawRecord {
	return model.RawRecord{
		Source: model.SourceNotion,
		Fields: map[string]string{
			"id":           id,
			"Name":         name,
			"Email":        email,
			"Organisation": org,
		},
	}
}

func testOptions() Options {
	return Options{
		Primary: &stubSource{
			name: model.SourceLinkedIn,
			records: []model.RawRecord{
				linkedInRecord("Jane", "Doe", "jane@acme.org", "Acme Foundation", "Director"),
				linkedInRecord("Bob", "Wilson", "", "Globex", "Analyst"),
				{Source: model.SourceLinkedIn, Fields: map[string]string{"Email Address": "noname@x.org"}},
			},
		},
		Secondaries: []source.Source{
			&stubSource{
				name: model.SourceNotion,
				records: []model.RawRecord{
					notionRecord("page-1", "Jane Doe", "jane@acme.org", "Acme Foundation"),
				},
			},
		},
		Vocab: intel.DefaultVocab(),
		Now:   func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) },
	}
}

func TestRun_MatchesAndAnnotates(t *testing.T) {
	st := newMemStore()
	opts := testOptions()
	opts.Store = st

	result, err := New(opts).Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result.Report)

	require.Len(t, result.Contacts, 2, "record without a name is rejected")
	assert.Equal(t, 1, result.Report.Counts.Rejected)
	assert.Equal(t, 2, result.Report.Counts.SourcesLoaded)

	jane := result.Contacts[0]
	require.Len(t, jane.Matches, 1)
	assert.Equal(t, model.SourceNotion, jane.Matches[0].CandidateSource)
	assert.Contains(t, jane.Matches[0].Reasons, "exact email match")
	assert.Equal(t, []model.SourceName{model.SourceNotion}, jane.Contact.CrossSources)
	assert.True(t, jane.Contact.InKnowledgeBase)

	bob := result.Contacts[1]
	assert.Empty(t, bob.Matches)
	assert.False(t, bob.Contact.InKnowledgeBase)

	// Every contact was analyzed and persisted.
	for _, c := range result.Contacts {
		assert.NotZero(t, c.Profile.CompositeScore)
		assert.NotEqual(t, model.Tier(""), c.Profile.StrategicValue)
	}
	assert.Len(t, st.written, 2)
	assert.Len(t, st.reports, 1)
	require.NotNil(t, result.Report.Counts.Persistence)
	assert.Equal(t, 2, result.Report.Counts.Persistence.Written)
}

func TestRun_Idempotent(t *testing.T) {
	opts := testOptions()
	p := New(opts)

	first, err := p.Run(context.Background())
	require.NoError(t, err)
	second, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, second.Contacts, len(first.Contacts))
	for i := range first.Contacts {
		assert.Equal(t, first.Contacts[i].Profile, second.Contacts[i].Profile)
		assert.Equal(t, first.Contacts[i].Contact, second.Contacts[i].Contact)
	}
	assert.Equal(t, first.Report.TierCounts, second.Report.TierCounts)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestRun_PrimaryFailureIsFatal(t *testing.T) {
	opts := testOptions()
	opts.Primary = &stubSource{name: model.SourceLinkedIn, err: eris.New("export missing")}

	_, err := New(opts).Run(context.Background())
	assert.Error(t, err)
}

func TestRun_SecondaryFailureIsSkipped(t *testing.T) {
	opts := testOptions()
	opts.Secondaries = []source.Source{
		&stubSource{name: model.SourceNotion, err: eris.New("api down")},
	}

	result, err := New(opts).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Report.Counts.SourcesLoaded)
	for _, c := range result.Contacts {
		assert.Empty(t, c.Matches)
	}
}

func TestRun_DryRunWithoutStore(t *testing.T) {
	result, err := New(testOptions()).Run(context.Background())
	require.NoError(t, err)

	assert.Nil(t, result.Report.Counts.Persistence)
	assert.NotEmpty(t, result.Contacts)
}

func TestRun_DedupesPrimaries(t *testing.T) {
	opts := testOptions()
	opts.Primary = &stubSource{
		name: model.SourceLinkedIn,
		records: []model.RawRecord{
			linkedInRecord("Jane", "Doe", "", "Acme Foundation", ""),
			linkedInRecord("Jane", "Doe", "jane@acme.org", "Acme Foundation", "Director"),
		},
	}

	result, err := New(opts).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Contacts, 1)
	assert.Equal(t, 1, result.Report.Counts.Duplicates)
	assert.Equal(t, "jane@acme.org", result.Contacts[0].Contact.Email)
}

func TestRun_MergeFillsMissingFields(t *testing.T) {
	opts := testOptions()
	opts.Primary = &stubSource{
		name: model.SourceLinkedIn,
		records: []model.RawRecord{
			linkedInRecord("Jane", "Doe", "jane@acme.org", "", ""),
		},
	}
	opts.Secondaries = []source.Source{
		&stubSource{
			name: model.SourceNotion,
			records: []model.RawRecord{
				notionRecord("page-1", "Jane Doe", "jane@acme.org", "Acme Foundation"),
			},
		},
	}

	result, err := New(opts).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Contacts, 1)
	assert.Equal(t, "Acme Foundation", result.Contacts[0].Contact.Organization,
		"matched source fills fields the primary was missing")
}
