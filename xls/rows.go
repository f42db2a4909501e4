// Package xls implements mlscrape.RowReader for legacy .xls workbooks.
package xls

import (
	"fmt"
	"io"

	"github.com/extrame/xls"
	"github.com/fwojciec/mlscrape"
)

var _ mlscrape.RowReader = (*RowReader)(nil)

// DefaultCharset is used for strings stored without a code page.
const DefaultCharset = "utf-8"

// maxColumns is the BIFF8 column limit. Rows whose ROW record is missing
// report no column bounds and are scanned up to it.
const maxColumns = 256

// RowReader reads the first sheet of an .xls workbook.
type RowReader struct {
	Charset string
}

// NewRowReader creates a new xls RowReader.
func NewRowReader() *RowReader {
	return &RowReader{Charset: DefaultCharset}
}

// ReadRows returns the cell values of the first sheet. Cells keep their
// column positions, so a row starting at column C has empty strings before
// it. Row indexes with no content are skipped and trailing empty cells are
// dropped.
func (rr *RowReader) ReadRows(r io.ReadSeeker) (rows []mlscrape.Row, err error) {
	// The decoder panics on some malformed files.
	defer func() {
		if p := recover(); p != nil {
			rows, err = nil, fmt.Errorf("read xls: %v", p)
		}
	}()

	wb, err := xls.OpenReader(r, rr.charset())
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	if wb.NumSheets() == 0 {
		return nil, nil
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, nil
	}

	for i := 0; i <= int(sheet.MaxRow); i++ {
		row, ok := sheetRow(sheet, i)
		if !ok {
			continue
		}
		rows = append(rows, readRow(row))
	}
	return rows, nil
}

// sheetRow returns row i of sheet. WorkSheet.Row dereferences a nil row for
// indexes without content, so a blank line would otherwise panic.
func sheetRow(sheet *xls.WorkSheet, i int) (row *xls.Row, ok bool) {
	defer func() {
		if recover() != nil {
			row, ok = nil, false
		}
	}()
	row = sheet.Row(i)
	return row, row != nil
}

func readRow(row *xls.Row) mlscrape.Row {
	width := row.LastCol()
	if width <= 0 || width > maxColumns {
		width = maxColumns
	}
	out := make(mlscrape.Row, width)
	for c := 0; c < width; c++ {
		if c < row.FirstCol() && row.LastCol() > 0 {
			continue
		}
		out[c] = row.Col(c)
	}
	end := len(out)
	for end > 0 && out[end-1] == "" {
		end--
	}
	return out[:end]
}

func (rr *RowReader) charset() string {
	if rr.Charset == "" {
		return DefaultCharset
	}
	return rr.Charset
}
