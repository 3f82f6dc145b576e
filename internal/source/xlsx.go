package source

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/Acurioustractor/act-placemat-sub007/internal/model"
)

// XLSXSource loads the master-contacts workbook: first sheet, first row
// as headers.
type XLSXSource struct {
	path string
}

func NewMasterXLSX(path string) *XLSXSource {
	return &XLSXSource{path: path}
}

func (s *XLSXSource) Name() model.SourceName { return model.SourceMasterXLSX }

func (s *XLSXSource) Load(ctx context.Context) ([]model.RawRecord, error) {
	f, err := xlsx.OpenFile(s.path)
	if err != nil {
		return nil, eris.Wrapf(err, "source: open workbook %s", s.path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("source: workbook has no sheets")
	}
	sheet := f.Sheets[0]

	var header []string
	var records []model.RawRecord
	for i, row := range sheet.Rows {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "source: xlsx load cancelled")
		}

		cells := rowToStrings(row)
		if i == 0 {
			header = cells
			continue
		}

		fields := make(map[string]string, len(header))
		empty := true
		for j, v := range cells {
			if j >= len(header) || header[j] == "" {
				continue
			}
			fields[header[j]] = v
			if v != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		records = append(records, model.RawRecord{Source: model.SourceMasterXLSX, Fields: fields})
	}

	zap.L().Info("source: workbook loaded",
		zap.String("path", s.path),
		zap.Int("records", len(records)))
	return records, nil
}

func rowToStrings(row *xlsx.Row) []string {
	out := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		out[i] = strings.TrimSpace(cell.String())
	}
	return out
}
