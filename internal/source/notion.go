package source

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Acurioustractor/act-placemat-sub007/internal/model"
	"github.com/Acurioustractor/act-placemat-sub007/pkg/notion"
)

// NotionSource loads the people database from the organisation's Notion
// workspace, the pipeline's knowledge base.
type NotionSource struct {
	client notion.Client
	dbID   string
}

func NewNotionSource(client notion.Client, dbID string) *NotionSource {
	return &NotionSource{client: client, dbID: dbID}
}

func (s *NotionSource) Name() model.SourceName { return model.SourceNotion }

func (s *NotionSource) Load(ctx context.Context) ([]model.RawRecord, error) {
	pages, err := notion.QueryAll(ctx, s.client, s.dbID)
	if err != nil {
		return nil, eris.Wrap(err, "source: load people database")
	}

	records := make([]model.RawRecord, 0, len(pages))
	for _, page := range pages {
		records = append(records, model.RawRecord{
			Source: model.SourceNotion,
			Fields: notion.FlattenPage(page),
		})
	}

	zap.L().Info("source: people database loaded", zap.Int("records", len(records)))
	return records, nil
}
