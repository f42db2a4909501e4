package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fwojciec/mlscrape"
	"github.com/fwojciec/mlscrape/fs"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	data, err := os.ReadFile(c.Results)
	if err != nil {
		return fmt.Errorf("read %s: %w", c.Results, err)
	}

	var outcome mlscrape.BatchOutcome
	if err := json.Unmarshal(data, &outcome); err != nil {
		return mlscrape.Errorf(mlscrape.EINVALID, "invalid results file: %v", err)
	}
	if len(outcome.Results) == 0 {
		return mlscrape.Errorf(mlscrape.EINVALID, "no results to export")
	}

	path := c.Output
	if path == "" {
		path = mlscrape.ExportFilename(deps.Now())
	}
	if err := fs.WriteExportFile(path, outcome.Results); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d results to %s\n", len(outcome.Results), path)
	return nil
}
