package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Acurioustractor/act-placemat-sub007/internal/model"
)

// DB is the subset of pgxpool.Pool the store needs. pgxmock satisfies it
// in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

const migration = `
CREATE TABLE IF NOT EXISTS contact_scores (
    source_name     TEXT        NOT NULL,
    source_id       TEXT        NOT NULL,
    full_name       TEXT        NOT NULL,
    email           TEXT        NOT NULL DEFAULT '',
    organization    TEXT        NOT NULL DEFAULT '',
    position        TEXT        NOT NULL DEFAULT '',
    composite_score DOUBLE PRECISION NOT NULL,
    strategic_value TEXT        NOT NULL,
    intelligence    JSONB       NOT NULL,
    updated_at      TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (source_name, source_id)
);

CREATE INDEX IF NOT EXISTS idx_contact_scores_tier
    ON contact_scores (strategic_value);

CREATE TABLE IF NOT EXISTS run_reports (
    run_id       TEXT        PRIMARY KEY,
    report       JSONB       NOT NULL,
    generated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

const upsertSQL = `
INSERT INTO contact_scores
    (source_name, source_id, full_name, email, organization, position,
     composite_score, strategic_value, intelligence, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (source_name, source_id) DO UPDATE SET
    full_name       = EXCLUDED.full_name,
    email           = EXCLUDED.email,
    organization    = EXCLUDED.organization,
    position        = EXCLUDED.position,
    composite_score = EXCLUDED.composite_score,
    strategic_value = EXCLUDED.strategic_value,
    intelligence    = EXCLUDED.intelligence,
    updated_at      = EXCLUDED.updated_at`

const saveReportSQL = `
INSERT INTO run_reports (run_id, report, generated_at)
VALUES ($1, $2, now())
ON CONFLICT (run_id) DO UPDATE SET
    report       = EXCLUDED.report,
    generated_at = now()`

// Postgres implements Store on a pgx connection pool.
type Postgres struct {
	db  DB
	now func() time.Time
}

// NewPostgres connects a pool to databaseURL and wraps it in a store.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "store: parse database url")
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "store: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "store: ping")
	}

	return NewPostgresWithDB(pool), nil
}

// NewPostgresWithDB wraps an existing pool (or mock) in a store.
func NewPostgresWithDB(db DB) *Postgres {
	return &Postgres{db: db, now: time.Now}
}

// Migrate creates the schema if it does not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, migration); err != nil {
		return eris.Wrap(err, "store: run migration")
	}
	zap.L().Info("store: schema ready")
	return nil
}

// UpsertBatch writes all records in a single transaction.
func (p *Postgres) UpsertBatch(ctx context.Context, batch []model.ScoredMergedContact) error {
	if len(batch) == 0 {
		return nil
	}

	tx, err := p.db.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "store: begin batch")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, c := range batch {
		if err := p.exec(ctx, tx, c); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return eris.Wrap(err, "store: commit batch")
	}
	return nil
}

// UpsertOne writes a single record outside a transaction.
func (p *Postgres) UpsertOne(ctx context.Context, c model.ScoredMergedContact) error {
	args, err := p.upsertArgs(c)
	if err != nil {
		return err
	}
	if _, err := p.db.Exec(ctx, upsertSQL, args...); err != nil {
		return eris.Wrapf(err, "store: upsert %s/%s", c.Contact.Source, c.Contact.SourceID)
	}
	return nil
}

func (p *Postgres) exec(ctx context.Context, tx pgx.Tx, c model.ScoredMergedContact) error {
	args, err := p.upsertArgs(c)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, upsertSQL, args...); err != nil {
		return eris.Wrapf(err, "store: upsert %s/%s", c.Contact.Source, c.Contact.SourceID)
	}
	return nil
}

func (p *Postgres) upsertArgs(c model.ScoredMergedContact) ([]any, error) {
	intelligence, err := json.Marshal(struct {
		Profile model.IntelligenceProfile `json:"profile"`
		Matches []model.MatchCandidate    `json:"matches,omitempty"`
	}{Profile: c.Profile, Matches: c.Matches})
	if err != nil {
		return nil, eris.Wrap(err, "store: marshal intelligence")
	}

	return []any{
		string(c.Contact.Source),
		c.Contact.SourceID,
		c.Contact.FullName,
		c.Contact.Email,
		c.Contact.Organization,
		c.Contact.Position,
		c.Profile.CompositeScore,
		string(c.Profile.StrategicValue),
		intelligence,
		p.now().UTC(),
	}, nil
}

// SaveReport stores the serialized run report under its run ID.
func (p *Postgres) SaveReport(ctx context.Context, runID string, report []byte) error {
	if _, err := p.db.Exec(ctx, saveReportSQL, runID, report); err != nil {
		return eris.Wrapf(err, "store: save report %s", runID)
	}
	return nil
}

// Close releases the underlying pool.
func (p *Postgres) Close() {
	p.db.Close()
}
