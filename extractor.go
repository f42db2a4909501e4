package mlscrape

// Extractor recovers listing fields from raw HTML.
type Extractor interface {
	// Extract returns the listing fields found in html.
	// Returns ENOTFOUND if the page has no description, even when title,
	// image or characteristics were found.
	Extract(html string) (*Fields, error)
}
