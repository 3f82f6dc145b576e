// Package source loads raw contact records from the places they live:
// LinkedIn connection exports, master-contact workbooks, and the Notion
// people database.
package source

import (
	"context"

	"github.com/Acurioustractor/act-placemat-sub007/internal/model"
)

// Source produces raw records for one contact source.
type Source interface {
	Name() model.SourceName
	Load(ctx context.Context) ([]model.RawRecord, error)
}
