package mock

import (
	"context"

	"github.com/fwojciec/mlscrape"
)

var _ mlscrape.ScrapeService = (*ScrapeService)(nil)

// ScrapeService is a mock implementation of mlscrape.ScrapeService.
type ScrapeService struct {
	ScrapeFn      func(ctx context.Context, url string) *mlscrape.ExtractionResult
	ScrapeBatchFn func(ctx context.Context, links []string, progress mlscrape.BatchProgressFunc) (*mlscrape.BatchOutcome, error)
}

func (s *ScrapeService) Scrape(ctx context.Context, url string) *mlscrape.ExtractionResult {
	return s.ScrapeFn(ctx, url)
}

func (s *ScrapeService) ScrapeBatch(ctx context.Context, links []string, progress mlscrape.BatchProgressFunc) (*mlscrape.BatchOutcome, error) {
	return s.ScrapeBatchFn(ctx, links, progress)
}
