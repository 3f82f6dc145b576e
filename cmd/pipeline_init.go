package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/Acurioustractor/act-placemat-sub007/internal/config"
	"github.com/Acurioustractor/act-placemat-sub007/internal/intel"
	"github.com/Acurioustractor/act-placemat-sub007/internal/pipeline"
	"github.com/Acurioustractor/act-placemat-sub007/internal/source"
	"github.com/Acurioustractor/act-placemat-sub007/internal/store"
	"github.com/Acurioustractor/act-placemat-sub007/pkg/notion"
)

// env bundles everything a command needs to run the pipeline.
type env struct {
	Pipeline *pipeline.Pipeline
	Store    store.Store
}

func (e *env) Close() {
	if e.Store != nil {
		e.Store.Close()
	}
}

// initPipeline wires sources, vocabulary and store from config. The
// LinkedIn export is the primary population; every other configured
// source is matched into it. Set dryRun to skip the database entirely.
func initPipeline(ctx context.Context, cfg *config.Config, dryRun bool) (*env, error) {
	if cfg.Sources.LinkedInCSV == "" {
		return nil, eris.New("cmd: sources.linkedin_csv is required")
	}
	primary := source.NewLinkedInCSV(cfg.Sources.LinkedInCSV)

	var secondaries []source.Source
	if cfg.Notion.Token != "" && cfg.Notion.PeopleDB != "" {
		client := notion.NewClient(cfg.Notion.Token, notion.WithRateLimit(cfg.Notion.RateLimit))
		secondaries = append(secondaries, source.NewNotionSource(client, cfg.Notion.PeopleDB))
	}
	if cfg.Sources.MasterXLSX != "" {
		secondaries = append(secondaries, source.NewMasterXLSX(cfg.Sources.MasterXLSX))
	}
	if cfg.Sources.EmailCSV != "" {
		secondaries = append(secondaries, source.NewEmailCSV(cfg.Sources.EmailCSV))
	}

	vocab := intel.DefaultVocab()
	if cfg.Analyzer.VocabOverlay != "" {
		merged, err := intel.LoadVocabOverlay(vocab, cfg.Analyzer.VocabOverlay)
		if err != nil {
			return nil, err
		}
		vocab = merged
	}

	e := &env{}
	if !dryRun {
		if cfg.Store.DatabaseURL == "" {
			return nil, eris.New("cmd: store.database_url is required (or pass --dry-run)")
		}
		pg, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		e.Store = pg
	}

	e.Pipeline = pipeline.New(pipeline.Options{
		Primary:     primary,
		Secondaries: secondaries,
		Store:       e.Store,
		Vocab:       vocab,
		Updater: store.UpdaterConfig{
			BatchSize:  cfg.Batch.Size,
			BatchDelay: cfg.Batch.Delay,
		},
		Workers: cfg.Batch.Workers,
	})
	return e, nil
}
