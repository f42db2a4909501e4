package main

import (
	"encoding/json"
	"fmt"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	result := deps.Scraper.Scrape(deps.Ctx, c.URL)

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	return result.Err()
}
