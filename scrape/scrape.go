// Package scrape runs listing extractions one at a time or as a rate-limited
// batch. Item failures are recorded in their results and never stop a batch.
package scrape

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/mlscrape"
	"golang.org/x/time/rate"
)

var _ mlscrape.ScrapeService = (*Scraper)(nil)

// DefaultDelay is the pause between consecutive batch requests.
const DefaultDelay = 1500 * time.Millisecond

// DefaultProgressInterval bounds how often batch progress is logged.
const DefaultProgressInterval = 5 * time.Second

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Scraper scrapes listing pages with a Fetcher and an Extractor.
type Scraper struct {
	Fetcher   mlscrape.Fetcher
	Extractor mlscrape.Extractor
	Domain    string
	Delay     time.Duration
	Logger    *slog.Logger

	// Sleep defaults to a context-aware timer wait.
	Sleep SleepFunc

	// ProgressInterval throttles the batch progress log line.
	ProgressInterval time.Duration
}

// NewScraper returns a Scraper with default domain and delay.
func NewScraper(fetcher mlscrape.Fetcher, extractor mlscrape.Extractor, logger *slog.Logger) *Scraper {
	return &Scraper{
		Fetcher:          fetcher,
		Extractor:        extractor,
		Domain:           mlscrape.DefaultDomain,
		Delay:            DefaultDelay,
		Logger:           logger,
		Sleep:            Sleep,
		ProgressInterval: DefaultProgressInterval,
	}
}

// Sleep waits for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Scrape fetches and extracts one listing. The outcome is always a result;
// failures are classified into it rather than returned.
func (s *Scraper) Scrape(ctx context.Context, url string) *mlscrape.ExtractionResult {
	return s.scrape(ctx, url, nil)
}

func (s *Scraper) scrape(ctx context.Context, url string, report func(mlscrape.ItemState)) *mlscrape.ExtractionResult {
	if report == nil {
		report = func(mlscrape.ItemState) {}
	}

	if err := mlscrape.ValidateURL(url, s.domain()); err != nil {
		return mlscrape.NewFailedResult(url, err)
	}

	report(mlscrape.ItemFetching)
	html, err := s.Fetcher.Fetch(ctx, url)
	if err != nil {
		// The cause is kept out of the result; blocked and broken pages look
		// the same to the caller.
		s.logger().Warn("fetch failed", "url", url, "error", err)
		return mlscrape.NewFailedResult(url, mlscrape.Errorf(mlscrape.EFETCH, "extraction failed or blocked"))
	}

	report(mlscrape.ItemExtracting)
	fields, err := s.Extractor.Extract(html)
	if err != nil {
		if mlscrape.ErrorCode(err) != mlscrape.ENOTFOUND {
			s.logger().Warn("extract failed", "url", url, "error", err)
			err = mlscrape.Errorf(mlscrape.EFETCH, "extraction failed or blocked")
		}
		return mlscrape.NewFailedResult(url, err)
	}

	return mlscrape.NewSuccessResult(url, fields)
}

// ScrapeBatch scrapes links sequentially in order, sleeping Delay between
// items. It returns an error only for an empty batch or a cancelled context.
func (s *Scraper) ScrapeBatch(ctx context.Context, links []string, progress mlscrape.BatchProgressFunc) (*mlscrape.BatchOutcome, error) {
	if len(links) == 0 {
		return nil, mlscrape.Errorf(mlscrape.EINVALID, "no listing links to scrape")
	}
	if progress == nil {
		progress = func(mlscrape.BatchProgress) {}
	}

	total := len(links)
	for i, link := range links {
		progress(mlscrape.BatchProgress{URL: link, Index: i, Total: total, State: mlscrape.ItemPending})
	}

	sometimes := rate.Sometimes{First: 1, Interval: s.progressInterval()}
	results := make([]*mlscrape.ExtractionResult, 0, total)

	for i, link := range links {
		if err := ctx.Err(); err != nil {
			return nil, cancelled(err)
		}

		report := func(state mlscrape.ItemState) {
			progress(mlscrape.BatchProgress{URL: link, Index: i, Total: total, State: state})
		}
		result := s.scrape(ctx, link, report)
		if err := ctx.Err(); err != nil {
			return nil, cancelled(err)
		}
		results = append(results, result)

		state := mlscrape.ItemSucceeded
		if !result.Success {
			state = mlscrape.ItemFailed
		}
		progress(mlscrape.BatchProgress{URL: link, Index: i, Total: total, State: state, Result: result})

		sometimes.Do(func() {
			s.logger().Info("batch progress", "done", i+1, "total", total, "url", link, "state", state.String())
		})

		if i < total-1 {
			if err := s.sleep(ctx); err != nil {
				return nil, cancelled(err)
			}
		}
	}

	outcome := &mlscrape.BatchOutcome{Success: true, Total: total, Results: results}
	s.logger().Info("batch finished", "total", total, "succeeded", outcome.Succeeded())
	return outcome, nil
}

func cancelled(err error) error {
	return mlscrape.Errorf(mlscrape.EINTERNAL, "batch cancelled: %v", err)
}

func (s *Scraper) sleep(ctx context.Context) error {
	sleep := s.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	return sleep(ctx, s.Delay)
}

func (s *Scraper) domain() string {
	if s.Domain == "" {
		return mlscrape.DefaultDomain
	}
	return s.Domain
}

func (s *Scraper) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

func (s *Scraper) progressInterval() time.Duration {
	if s.ProgressInterval <= 0 {
		return DefaultProgressInterval
	}
	return s.ProgressInterval
}
