package mlscrape

import "context"

// Fetcher retrieves raw HTML from listing URLs.
type Fetcher interface {
	// Fetch performs a single GET and returns the response body as UTF-8 HTML.
	// Transport failures, non-2xx statuses and timeouts are all errors.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases idle connections.
	Close() error
}
