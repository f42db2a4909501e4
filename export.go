package mlscrape

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
)

// Export format constants.
const (
	ExportPrefix      = "mlscrape-export-"
	ExportPlaceholder = "-"
	ExportDelimiter   = ';'
)

// exportBOM lets spreadsheet tools detect UTF-8.
const exportBOM = "\uFEFF"

var exportFixedColumns = []string{"URL", "Status", "Title", "Description"}

var lineBreaks = regexp.MustCompile(`[\r\n]+`)

// ExportRow is one result flattened for export. Values lines up with
// ExportTable.Columns.
type ExportRow struct {
	URL         string
	Status      string
	Title       string
	Description string
	Values      []string
}

// ExportTable is a batch flattened into a fixed column set plus one column
// per characteristic key seen in any result.
type ExportTable struct {
	Columns []string
	Rows    []ExportRow
}

// NewExportTable builds the export view of results. Characteristic columns
// appear in first-encountered order; an item lacking a column gets
// ExportPlaceholder.
func NewExportTable(results []*ExtractionResult) *ExportTable {
	t := &ExportTable{}

	seen := make(map[string]bool)
	for _, r := range results {
		for _, key := range r.Characteristics.Keys() {
			if !seen[key] {
				seen[key] = true
				t.Columns = append(t.Columns, key)
			}
		}
	}

	t.Rows = make([]ExportRow, 0, len(results))
	for _, r := range results {
		row := ExportRow{
			URL:         r.URL,
			Status:      exportStatus(r),
			Title:       r.Title,
			Description: r.Description,
			Values:      make([]string, len(t.Columns)),
		}
		for i, col := range t.Columns {
			v, ok := r.Characteristics.Get(col)
			if !ok || v == "" {
				v = ExportPlaceholder
			}
			row.Values[i] = v
		}
		t.Rows = append(t.Rows, row)
	}

	return t
}

// Header returns the full column header, fixed columns first.
func (t *ExportTable) Header() []string {
	header := make([]string, 0, len(exportFixedColumns)+len(t.Columns))
	header = append(header, exportFixedColumns...)
	return append(header, t.Columns...)
}

// WriteCSV writes the table as BOM-prefixed, semicolon-delimited text with
// every field quoted. Line breaks inside fields are collapsed so each record
// stays on one line.
func (t *ExportTable) WriteCSV(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(exportBOM); err != nil {
		return err
	}

	header := t.Header()
	fields := make([]string, len(header))
	for i, h := range header {
		fields[i] = exportField(h, " ")
	}
	writeRecord(bw, fields)

	for _, row := range t.Rows {
		fields = fields[:0]
		fields = append(fields,
			exportField(row.URL, " "),
			exportField(row.Status, " "),
			exportField(row.Title, " "),
			exportField(row.Description, "  "),
		)
		for _, v := range row.Values {
			fields = append(fields, exportField(v, " "))
		}
		writeRecord(bw, fields)
	}

	return bw.Flush()
}

// ExportFilename returns the export file name for a batch exported at t.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("%s%d.csv", ExportPrefix, t.UnixMilli())
}

func exportStatus(r *ExtractionResult) string {
	if r.Success {
		return "Completed"
	}
	return "Error: " + r.Error
}

func exportField(s, lineBreak string) string {
	s = lineBreaks.ReplaceAllString(s, lineBreak)
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func writeRecord(bw *bufio.Writer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			bw.WriteByte(ExportDelimiter)
		}
		bw.WriteString(f)
	}
	bw.WriteByte('\n')
}
