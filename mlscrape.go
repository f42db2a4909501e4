// Package mlscrape extracts structured product data from Mercado Livre
// listing pages, one URL at a time or in throttled batches harvested from
// uploaded spreadsheets, and renders the results as a spreadsheet-friendly
// export.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, excelize/, gin/).
package mlscrape

import "strings"

// DefaultDomain is the listing site every scraped URL must belong to.
const DefaultDomain = "mercadolivre.com.br"

// ValidateURL returns EINVALID if rawURL is empty or does not contain domain.
// The check is a plain substring match so that listing subdomains
// (produto., lista., www.) are all accepted.
func ValidateURL(rawURL, domain string) error {
	if strings.TrimSpace(rawURL) == "" {
		return Errorf(EINVALID, "URL is required")
	}
	if !strings.Contains(rawURL, domain) {
		return Errorf(EINVALID, "invalid URL")
	}
	return nil
}
