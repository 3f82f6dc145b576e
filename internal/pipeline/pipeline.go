// Package pipeline orchestrates a full run: load, normalize, dedupe,
// cross-source match, analyze, persist, report.
package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Acurioustractor/act-placemat-sub007/internal/intel"
	"github.com/Acurioustractor/act-placemat-sub007/internal/match"
	"github.com/Acurioustractor/act-placemat-sub007/internal/model"
	"github.com/Acurioustractor/act-placemat-sub007/internal/normalize"
	"github.com/Acurioustractor/act-placemat-sub007/internal/report"
	"github.com/Acurioustractor/act-placemat-sub007/internal/source"
	"github.com/Acurioustractor/act-placemat-sub007/internal/store"
)

const defaultWorkers = 8

// Options configures a pipeline run.
type Options struct {
	// Primary is the population every other source is matched against.
	Primary source.Source

	// Secondaries are matched into the primary population. A secondary
	// that fails to load is logged and skipped; only a primary failure
	// aborts the run.
	Secondaries []source.Source

	// Store receives scored contacts and the report. Nil disables
	// persistence (dry run).
	Store store.Store

	Vocab   intel.Vocab
	Updater store.UpdaterConfig
	Workers int

	// Now supplies the clock; nil means time.Now.
	Now func() time.Time
}

// Result is the outcome of one run.
type Result struct {
	RunID    string                      `json:"run_id"`
	Contacts []model.ScoredMergedContact `json:"contacts"`
	Report   *report.Report              `json:"report"`
}

// Pipeline executes runs.
type Pipeline struct {
	opts Options
}

func New(opts Options) *Pipeline {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	return &Pipeline{opts: opts}
}

// Run executes the full pipeline. It always produces a report when it
// returns nil; partial persistence failure is reflected in the report
// rather than returned as an error.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	log := zap.L().With(zap.String("run_id", runID))
	started := p.opts.Now()

	primaries, counts, err := p.loadAndNormalize(ctx, log)
	if err != nil {
		return nil, err
	}

	merged := p.matchSecondaries(ctx, log, primaries, &counts)

	if err := p.analyze(ctx, merged); err != nil {
		return nil, err
	}

	if p.opts.Store != nil {
		updater := store.NewUpdater(p.opts.Store, p.opts.Updater)
		summary, err := updater.Apply(ctx, merged)
		counts.Persistence = &summary
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: persistence cancelled")
		}
	}

	rep := report.Generate(merged, counts, p.opts.Now())
	result := &Result{RunID: runID, Contacts: merged, Report: rep}

	if p.opts.Store != nil {
		if data, err := json.Marshal(rep); err != nil {
			log.Error("pipeline: marshal report", zap.Error(err))
		} else if err := p.opts.Store.SaveReport(ctx, runID, data); err != nil {
			// A lost report row is recoverable; the report is still
			// returned to the caller.
			log.Error("pipeline: save report", zap.Error(err))
		}
	}

	log.Info("pipeline: run complete",
		zap.Int("contacts", len(merged)),
		zap.Duration("elapsed", p.opts.Now().Sub(started)))
	return result, nil
}

// loadAndNormalize loads the primary source (fatal on failure), then
// normalizes and dedupes it.
func (p *Pipeline) loadAndNormalize(ctx context.Context, log *zap.Logger) ([]model.CanonicalContact, report.RunCounts, error) {
	var counts report.RunCounts

	raw, err := p.opts.Primary.Load(ctx)
	if err != nil {
		return nil, counts, eris.Wrapf(err, "pipeline: load primary source %s", p.opts.Primary.Name())
	}
	counts.SourcesLoaded = 1

	contacts, rejected := normalizeAll(raw)
	counts.Rejected += rejected

	deduped, dropped := normalize.Dedupe(contacts)
	counts.Duplicates = dropped

	log.Info("pipeline: primary population ready",
		zap.String("source", string(p.opts.Primary.Name())),
		zap.Int("contacts", len(deduped)),
		zap.Int("rejected", rejected),
		zap.Int("duplicates", dropped))
	return deduped, counts, nil
}

// matchSecondaries loads each secondary population concurrently, matches
// it into the primaries, and merges accepted matches.
func (p *Pipeline) matchSecondaries(ctx context.Context, log *zap.Logger, primaries []model.CanonicalContact, counts *report.RunCounts) []model.ScoredMergedContact {
	merged := make([]model.ScoredMergedContact, len(primaries))
	for i, c := range primaries {
		merged[i] = model.ScoredMergedContact{Contact: c}
	}

	populations := make([][]model.CanonicalContact, len(p.opts.Secondaries))
	rejects := make([]int, len(p.opts.Secondaries))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range p.opts.Secondaries {
		g.Go(func() error {
			raw, err := src.Load(gctx)
			if err != nil {
				// Secondary sources are best-effort.
				log.Warn("pipeline: skipping unavailable source",
					zap.String("source", string(src.Name())), zap.Error(err))
				return nil
			}
			populations[i], rejects[i] = normalizeAll(raw)
			return nil
		})
	}
	_ = g.Wait()

	for i, pop := range populations {
		if pop == nil {
			continue
		}
		counts.SourcesLoaded++
		counts.Rejected += rejects[i]

		results := match.MatchPopulations(primaries, pop)

		byID := make(map[string]model.CanonicalContact, len(pop))
		for _, c := range pop {
			if _, ok := byID[c.SourceID]; !ok {
				byID[c.SourceID] = c
			}
		}

		accepted := 0
		for j, m := range results {
			if m == nil {
				continue
			}
			accepted++
			merged[j].Matches = append(merged[j].Matches, *m)
			mergeContact(&merged[j].Contact, byID[m.CandidateID], m.CandidateSource)
		}
		log.Info("pipeline: source matched",
			zap.String("source", string(p.opts.Secondaries[i].Name())),
			zap.Int("candidates", len(pop)),
			zap.Int("accepted", accepted))
	}

	return merged
}

// mergeContact annotates the primary contact with the matched source and
// fills fields the primary record was missing.
func mergeContact(dst *model.CanonicalContact, src model.CanonicalContact, from model.SourceName) {
	dst.AddCrossSource(from)
	if from.KnowledgeBase() {
		dst.InKnowledgeBase = true
	}

	if dst.Email == "" {
		dst.Email = src.Email
	}
	if dst.Organization == "" {
		dst.Organization = src.Organization
	}
	if dst.Position == "" {
		dst.Position = src.Position
	}
	if dst.Location == "" {
		dst.Location = src.Location
	}
	if dst.ReferredBy == "" {
		dst.ReferredBy = src.ReferredBy
	}
	for _, u := range src.URLs {
		dst.URLs = append(dst.URLs, u)
	}
}

// analyze scores every merged contact on a bounded worker pool.
func (p *Pipeline) analyze(ctx context.Context, merged []model.ScoredMergedContact) error {
	now := p.opts.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	for i := range merged {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			merged[i].Profile = intel.Analyze(p.opts.Vocab, merged[i].Contact, now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "pipeline: analysis cancelled")
	}
	return nil
}

func normalizeAll(raw []model.RawRecord) ([]model.CanonicalContact, int) {
	contacts := make([]model.CanonicalContact, 0, len(raw))
	rejected := 0
	for _, rec := range raw {
		c, err := normalize.Normalize(rec)
		if err != nil {
			rejected++
			zap.L().Debug("pipeline: record rejected", zap.String("source", string(rec.Source)), zap.Error(err))
			continue
		}
		contacts = append(contacts, c)
	}
	return contacts, rejected
}
