// Package fs writes CSV exports of batch results to the local filesystem.
package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/mlscrape"
)

// ExportWriter writes exports into a directory under timestamped names.
type ExportWriter struct {
	dir string

	// Now is used for export filenames.
	Now func() time.Time
}

// NewExportWriter creates an ExportWriter for dir.
func NewExportWriter(dir string) *ExportWriter {
	return &ExportWriter{dir: dir, Now: time.Now}
}

// WriteExport writes results to a new export file in the writer's directory
// and returns its path. The directory is created if needed.
func (w *ExportWriter) WriteExport(results []*mlscrape.ExtractionResult) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(w.dir, mlscrape.ExportFilename(w.Now()))
	if err := WriteExportFile(path, results); err != nil {
		return "", err
	}
	return path, nil
}

// WriteExportFile writes results to path. The file is written under a
// temporary name and renamed into place so readers never see a partial
// export.
func WriteExportFile(path string, results []*mlscrape.ExtractionResult) error {
	if len(results) == 0 {
		return mlscrape.Errorf(mlscrape.EINVALID, "no results to export")
	}

	f, err := os.CreateTemp(filepath.Dir(path), ".mlscrape-export-*")
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := mlscrape.NewExportTable(results).WriteCSV(f); err != nil {
		f.Close()
		return fmt.Errorf("write export: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}
