package slog

import (
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/mlscrape"
)

// Ensure LoggingRowReader implements mlscrape.RowReader.
var _ mlscrape.RowReader = (*LoggingRowReader)(nil)

// LoggingRowReader wraps a RowReader with logging.
type LoggingRowReader struct {
	next   mlscrape.RowReader
	format string
	logger *slog.Logger
}

// NewLoggingRowReader creates a new LoggingRowReader. The format label
// (e.g. ".csv") is included in every log line.
func NewLoggingRowReader(next mlscrape.RowReader, format string, logger *slog.Logger) *LoggingRowReader {
	return &LoggingRowReader{next: next, format: format, logger: logger}
}

// ReadRows delegates to the wrapped reader and logs the row count.
func (r *LoggingRowReader) ReadRows(rs io.ReadSeeker) (rows []mlscrape.Row, err error) {
	defer func(begin time.Time) {
		r.logger.Info("read rows",
			"format", r.format,
			"rows", len(rows),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.ReadRows(rs)
}

// WrapRowReaders returns a copy of readers with every reader wrapped in a
// LoggingRowReader.
func WrapRowReaders(readers mlscrape.RowReaders, logger *slog.Logger) mlscrape.RowReaders {
	wrapped := make(mlscrape.RowReaders, len(readers))
	for ext, r := range readers {
		wrapped[ext] = NewLoggingRowReader(r, ext, logger)
	}
	return wrapped
}
