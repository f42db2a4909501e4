// Package csv implements mlscrape.RowReader for comma or semicolon separated
// files.
package csv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/fwojciec/mlscrape"
)

var _ mlscrape.RowReader = (*RowReader)(nil)

var bom = []byte("\xEF\xBB\xBF")

// RowReader reads CSV rows. Ragged rows are accepted and a leading UTF-8 BOM
// is dropped. The delimiter is taken from the first line: semicolon when it
// holds more semicolons than commas, comma otherwise.
type RowReader struct{}

// NewRowReader creates a new CSV RowReader.
func NewRowReader() *RowReader {
	return &RowReader{}
}

// ReadRows reads every record of r.
func (*RowReader) ReadRows(r io.ReadSeeker) ([]mlscrape.Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, bom)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = detectDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	rows := make([]mlscrape.Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, mlscrape.Row(rec))
	}
	return rows, nil
}

func detectDelimiter(data []byte) rune {
	line, _, _ := bytes.Cut(data, []byte("\n"))
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}
