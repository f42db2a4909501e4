package mock

import (
	"io"

	"github.com/fwojciec/mlscrape"
)

var _ mlscrape.RowReader = (*RowReader)(nil)

// RowReader is a mock implementation of mlscrape.RowReader.
type RowReader struct {
	ReadRowsFn func(r io.ReadSeeker) ([]mlscrape.Row, error)
}

func (r *RowReader) ReadRows(rs io.ReadSeeker) ([]mlscrape.Row, error) {
	return r.ReadRowsFn(rs)
}
