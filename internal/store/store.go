// Package store persists scored contacts and run reports to Postgres, and
// provides the fault-isolated batch updater that feeds it.
package store

import (
	"context"

	"github.com/Acurioustractor/act-placemat-sub007/internal/model"
)

// Store is the persistence contract the pipeline writes through.
type Store interface {
	// UpsertBatch writes a batch of scored contacts atomically. An error
	// means the whole batch was rolled back.
	UpsertBatch(ctx context.Context, batch []model.ScoredMergedContact) error

	// UpsertOne writes a single scored contact.
	UpsertOne(ctx context.Context, c model.ScoredMergedContact) error

	// SaveReport stores the serialized run report under its run ID.
	SaveReport(ctx context.Context, runID string, report []byte) error

	// Migrate creates the schema if it does not exist.
	Migrate(ctx context.Context) error

	Close()
}

// UpdateSummary reports the outcome of one persistence pass.
type UpdateSummary struct {
	Batches       int `json:"batches"`
	FailedBatches int `json:"failed_batches"`
	Written       int `json:"written"`
	Failed        int `json:"failed"`
}
