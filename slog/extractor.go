package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/mlscrape"
)

// Ensure LoggingExtractor implements mlscrape.Extractor.
var _ mlscrape.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with debug logging.
type LoggingExtractor struct {
	next   mlscrape.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next mlscrape.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs what was found.
func (e *LoggingExtractor) Extract(html string) (fields *mlscrape.Fields, err error) {
	defer func(begin time.Time) {
		var title string
		var attrs int
		if fields != nil {
			title = fields.Title
			attrs = len(fields.Characteristics)
		}
		e.logger.Debug("extract",
			"title", title,
			"characteristics", attrs,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(html)
}
