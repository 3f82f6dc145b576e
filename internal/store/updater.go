package store

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Acurioustractor/act-placemat-sub007/internal/model"
)

const (
	defaultBatchSize = 25
	maxBatchSize     = 50
)

// UpdaterConfig tunes the batch updater.
type UpdaterConfig struct {
	// BatchSize is the number of records per batch. Zero means the
	// default; values above the cap are clamped.
	BatchSize int `yaml:"batch_size" mapstructure:"batch_size"`

	// BatchDelay paces writes between batches. Zero disables pacing.
	BatchDelay time.Duration `yaml:"batch_delay" mapstructure:"batch_delay"`
}

// Updater writes scored contacts in fixed-size batches. A failed batch is
// logged and retried record-by-record; it never aborts the run. Only
// context cancellation stops the updater early, and only between batches.
type Updater struct {
	store   Store
	size    int
	limiter *rate.Limiter
}

// NewUpdater builds an updater over s.
func NewUpdater(s Store, cfg UpdaterConfig) *Updater {
	size := cfg.BatchSize
	if size <= 0 {
		size = defaultBatchSize
	}
	if size > maxBatchSize {
		size = maxBatchSize
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.BatchDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.BatchDelay), 1)
	}

	return &Updater{store: s, size: size, limiter: limiter}
}

// Apply writes all contacts and returns what happened. The returned error
// is non-nil only for context cancellation; persistence failures are
// reflected in the summary instead.
func (u *Updater) Apply(ctx context.Context, contacts []model.ScoredMergedContact) (UpdateSummary, error) {
	var summary UpdateSummary

	for start := 0; start < len(contacts); start += u.size {
		if err := ctx.Err(); err != nil {
			zap.L().Warn("updater: cancelled between batches",
				zap.Int("written", summary.Written),
				zap.Int("remaining", len(contacts)-start))
			return summary, err
		}
		if err := u.limiter.Wait(ctx); err != nil {
			return summary, err
		}

		end := min(start+u.size, len(contacts))
		batch := contacts[start:end]
		summary.Batches++

		err := u.store.UpsertBatch(ctx, batch)
		if err == nil {
			summary.Written += len(batch)
			continue
		}

		summary.FailedBatches++
		zap.L().Error("updater: batch failed, falling back to per-record writes",
			zap.Int("batch", summary.Batches),
			zap.Int("size", len(batch)),
			zap.Error(err))

		for _, c := range batch {
			if u.upsertWithRetry(ctx, c) {
				summary.Written++
			} else {
				summary.Failed++
			}
		}
	}

	zap.L().Info("updater: persistence pass complete",
		zap.Int("batches", summary.Batches),
		zap.Int("failed_batches", summary.FailedBatches),
		zap.Int("written", summary.Written),
		zap.Int("failed", summary.Failed))
	return summary, nil
}

func (u *Updater) upsertWithRetry(ctx context.Context, c model.ScoredMergedContact) bool {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if lastErr = u.store.UpsertOne(ctx, c); lastErr == nil {
			return true
		}
		if ctx.Err() != nil {
			break
		}
	}
	zap.L().Warn("updater: record dropped after retry",
		zap.String("source", string(c.Contact.Source)),
		zap.String("id", c.Contact.SourceID),
		zap.Error(lastErr))
	return false
}
