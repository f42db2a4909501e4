package mlscrape

import "strings"

// DefaultBatchLimit caps the number of links a single batch may process.
const DefaultBatchLimit = 50

// Harvest picks one candidate listing URL per row, deduplicates them keeping
// first-seen order and truncates the result to limit (DefaultBatchLimit when
// limit <= 0).
//
// A row contributes its first cell containing domain. Failing that, it
// contributes its first cell when that cell looks like a URL. Other rows are
// skipped. Returns EINVALID when no row contributes a link.
func Harvest(rows []Row, domain string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultBatchLimit
	}

	seen := make(map[string]bool)
	var links []string
	for _, row := range rows {
		link, ok := harvestRow(row, domain)
		if !ok || seen[link] {
			continue
		}
		seen[link] = true
		links = append(links, link)
		if len(links) == limit {
			break
		}
	}

	if len(links) == 0 {
		return nil, Errorf(EINVALID, "no listing links found in file")
	}
	return links, nil
}

func harvestRow(row Row, domain string) (string, bool) {
	for _, cell := range row {
		if strings.Contains(cell, domain) {
			return strings.TrimSpace(cell), true
		}
	}
	if len(row) > 0 && strings.Contains(row[0], "http") {
		return strings.TrimSpace(row[0]), true
	}
	return "", false
}
