package source

import (
	"bufio"
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Acurioustractor/act-placemat-sub007/internal/model"
)

// linkedInHeaderPrefix starts the real header row of a LinkedIn
// connections export. Everything before it is the "Notes:" preamble the
// export prepends.
const linkedInHeaderPrefix = "First Name"

// CSVSource loads a CSV export from disk. Rows are keyed by the header
// row's column names.
type CSVSource struct {
	path   string
	source model.SourceName
}

// NewLinkedInCSV reads a LinkedIn connections export.
func NewLinkedInCSV(path string) *CSVSource {
	return &CSVSource{path: path, source: model.SourceLinkedIn}
}

// NewEmailCSV reads an email-import CSV with lower-case headers.
func NewEmailCSV(path string) *CSVSource {
	return &CSVSource{path: path, source: model.SourceEmailImport}
}

func (s *CSVSource) Name() model.SourceName { return s.source }

// Load reads the whole file. For LinkedIn exports it skips the notes
// preamble by scanning forward to the header row.
func (s *CSVSource) Load(ctx context.Context) ([]model.RawRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, eris.Wrapf(err, "source: open %s", s.path)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	if s.source == model.SourceLinkedIn {
		if err := skipPreamble(br); err != nil {
			return nil, err
		}
	}

	r := csv.NewReader(br)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, eris.Wrapf(err, "source: read header of %s", s.path)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records []model.RawRecord
	for {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "source: csv load cancelled")
		}

		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A malformed row loses that row, not the file.
			zap.L().Warn("source: skipping malformed csv row",
				zap.String("path", s.path), zap.Error(err))
			continue
		}

		fields := make(map[string]string, len(header))
		for i, v := range row {
			if i < len(header) && header[i] != "" {
				fields[header[i]] = strings.TrimSpace(v)
			}
		}
		records = append(records, model.RawRecord{Source: s.source, Fields: fields})
	}

	zap.L().Info("source: csv loaded",
		zap.String("source", string(s.source)),
		zap.String("path", s.path),
		zap.Int("records", len(records)))
	return records, nil
}

// skipPreamble consumes lines until the header row is next. The header is
// not consumed.
func skipPreamble(br *bufio.Reader) error {
	for {
		peek, err := br.Peek(len(linkedInHeaderPrefix))
		if err == nil && string(peek) == linkedInHeaderPrefix {
			return nil
		}
		line, err := br.ReadString('\n')
		if err == io.EOF && line == "" {
			return eris.New("source: linkedin export has no header row")
		}
		if err != nil && err != io.EOF {
			return eris.Wrap(err, "source: scan linkedin preamble")
		}
	}
}
