package mock

import "github.com/fwojciec/mlscrape"

var _ mlscrape.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of mlscrape.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*mlscrape.Fields, error)
}

func (e *Extractor) Extract(html string) (*mlscrape.Fields, error) {
	return e.ExtractFn(html)
}
