package mlscrape

import "context"

// ItemState is the lifecycle position of one link within a batch.
type ItemState int

// Item states, in the order a link moves through them.
const (
	ItemPending ItemState = iota
	ItemFetching
	ItemExtracting
	ItemSucceeded
	ItemFailed
)

// String returns the lower-case state name.
func (s ItemState) String() string {
	switch s {
	case ItemPending:
		return "pending"
	case ItemFetching:
		return "fetching"
	case ItemExtracting:
		return "extracting"
	case ItemSucceeded:
		return "succeeded"
	case ItemFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// BatchProgress reports a state transition of one link in a batch.
type BatchProgress struct {
	URL   string
	Index int // zero-based position in the batch
	Total int
	State ItemState

	// Result is set once State is ItemSucceeded or ItemFailed.
	Result *ExtractionResult
}

// BatchProgressFunc is called on every item state transition.
type BatchProgressFunc func(BatchProgress)

// ScrapeService scrapes listing pages.
type ScrapeService interface {
	// Scrape fetches and extracts one listing. Failures are reported in the
	// returned result, never as an error.
	Scrape(ctx context.Context, url string) *ExtractionResult

	// ScrapeBatch scrapes links one at a time in order. Item failures are
	// recorded in their results; only batch-level faults return an error.
	ScrapeBatch(ctx context.Context, links []string, progress BatchProgressFunc) (*BatchOutcome, error)
}
