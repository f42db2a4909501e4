package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/mlscrape"
	"github.com/fwojciec/mlscrape/fs"
)

// Run executes the batch command.
func (c *BatchCmd) Run(deps *Dependencies) error {
	reader, err := deps.Readers.For(c.File)
	if err != nil {
		return err
	}

	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("open %s: %w", c.File, err)
	}
	rows, err := reader.ReadRows(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("failed to process batch file: %w", err)
	}

	links, err := mlscrape.Harvest(rows, deps.Domain, deps.Limit)
	if err != nil {
		return err
	}
	fmt.Fprintf(deps.Stderr, "Scraping %d links from %s\n", len(links), filepath.Base(c.File))

	outcome, err := deps.Scraper.ScrapeBatch(deps.Ctx, links, func(p mlscrape.BatchProgress) {
		switch p.State {
		case mlscrape.ItemSucceeded:
			fmt.Fprintf(deps.Stderr, "  [%d/%d] ok     %s\n", p.Index+1, p.Total, p.URL)
		case mlscrape.ItemFailed:
			fmt.Fprintf(deps.Stderr, "  [%d/%d] failed %s: %s\n", p.Index+1, p.Total, p.URL, p.Result.Error)
		}
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(outcome); err != nil {
		return fmt.Errorf("encode outcome: %w", err)
	}

	fmt.Fprintf(deps.Stderr, "Done: %d of %d succeeded\n", outcome.Succeeded(), outcome.Total)

	if c.Export != "" {
		w := fs.NewExportWriter(c.Export)
		w.Now = deps.Now
		path, err := w.WriteExport(outcome.Results)
		if err != nil {
			return err
		}
		fmt.Fprintf(deps.Stderr, "Exported %s\n", path)
	}

	return nil
}
