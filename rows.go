package mlscrape

import (
	"io"
	"path/filepath"
	"strings"
)

// Row is one row of an uploaded spreadsheet. Empty strings stand for empty
// or non-text cells.
type Row []string

// RowReader turns an uploaded file into rows.
type RowReader interface {
	// ReadRows reads every row of the file's first sheet.
	ReadRows(r io.ReadSeeker) ([]Row, error)
}

// RowReaders maps lower-case file extensions (".csv", ".xlsx") to readers.
type RowReaders map[string]RowReader

// For returns the reader registered for filename's extension.
// Returns EINVALID if no reader handles the extension.
func (m RowReaders) For(filename string) (RowReader, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if r, ok := m[ext]; ok && ext != "" {
		return r, nil
	}
	return nil, Errorf(EINVALID, "unsupported file format, use .xlsx, .xls or .csv")
}
