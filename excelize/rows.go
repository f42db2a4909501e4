// Package excelize implements mlscrape.RowReader for .xlsx workbooks.
package excelize

import (
	"fmt"
	"io"

	"github.com/fwojciec/mlscrape"
	"github.com/xuri/excelize/v2"
)

var _ mlscrape.RowReader = (*RowReader)(nil)

// RowReader reads the first sheet of an .xlsx workbook.
type RowReader struct{}

// NewRowReader creates a new xlsx RowReader.
func NewRowReader() *RowReader {
	return &RowReader{}
}

// ReadRows returns the formatted cell values of the first sheet. Trailing
// empty cells are not included, so rows may have different lengths.
func (*RowReader) ReadRows(r io.ReadSeeker) ([]mlscrape.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	rows := make([]mlscrape.Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, mlscrape.Row(rec))
	}
	return rows, nil
}
