// Package goquery implements mlscrape.Extractor with CSS selector rules over
// listing page markup.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/mlscrape"
)

// Ensure Extractor implements mlscrape.Extractor at compile time.
var _ mlscrape.Extractor = (*Extractor)(nil)

// Rule locates one value in a document: the trimmed text of the first
// element matching Selector, or the element's Attr attribute when set.
type Rule struct {
	Selector string
	Attr     string
}

// SpecTable locates the key/value specification table of a listing.
// Each element matching Row yields one pair from its Key and Value children.
type SpecTable struct {
	Row   string
	Key   string
	Value string
}

// Default rules for Mercado Livre listing pages, most specific first.
var (
	DefaultDescriptionSelectors = []string{
		".ui-pdp-description__content",
		".item-description__text",
		".ui-pdp-description",
	}

	DefaultTitleRules = []Rule{
		{Selector: "h1.ui-pdp-title"},
		{Selector: `meta[property="og:title"]`, Attr: "content"},
	}

	DefaultImageRules = []Rule{
		{Selector: ".ui-pdp-gallery__figure__image", Attr: "src"},
		{Selector: `meta[property="og:image"]`, Attr: "content"},
	}

	DefaultSpecTable = SpecTable{
		Row:   ".andes-table__row",
		Key:   ".andes-table__header",
		Value: ".andes-table__column",
	}
)

// Extractor resolves listing fields with ordered selector rules. For every
// field the first rule producing a non-empty value wins and later rules are
// not evaluated.
type Extractor struct {
	DescriptionSelectors []string
	TitleRules           []Rule
	ImageRules           []Rule
	SpecTable            SpecTable
}

// NewExtractor creates an Extractor configured for Mercado Livre listings.
func NewExtractor() *Extractor {
	return &Extractor{
		DescriptionSelectors: DefaultDescriptionSelectors,
		TitleRules:           DefaultTitleRules,
		ImageRules:           DefaultImageRules,
		SpecTable:            DefaultSpecTable,
	}
}

// Extract parses html and returns the listing fields.
// Returns ENOTFOUND when no description selector yields text.
func (e *Extractor) Extract(html string) (*mlscrape.Fields, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, mlscrape.Errorf(mlscrape.EINTERNAL, "failed to parse HTML: %v", err)
	}

	description := e.description(doc)
	if description == "" {
		return nil, mlscrape.Errorf(mlscrape.ENOTFOUND, "description not found")
	}

	return &mlscrape.Fields{
		Title:           firstMatch(doc, e.TitleRules),
		Description:     description,
		Image:           firstMatch(doc, e.ImageRules),
		Characteristics: e.characteristics(doc),
	}, nil
}

// description returns the text of the first description selector that
// matches with non-empty text. Line breaks become newlines before the
// markup is flattened.
func (e *Extractor) description(doc *goquery.Document) string {
	for _, selector := range e.DescriptionSelectors {
		sel := doc.Find(selector)
		if sel.Length() == 0 {
			continue
		}
		sel.Find("br").ReplaceWithHtml("\n")
		if text := strings.TrimSpace(sel.Text()); text != "" {
			return text
		}
	}
	return ""
}

func (e *Extractor) characteristics(doc *goquery.Document) mlscrape.Characteristics {
	var c mlscrape.Characteristics
	doc.Find(e.SpecTable.Row).Each(func(_ int, row *goquery.Selection) {
		key := strings.TrimSpace(row.Find(e.SpecTable.Key).Text())
		value := strings.TrimSpace(row.Find(e.SpecTable.Value).Text())
		if key == "" || value == "" {
			return
		}
		c.Set(key, value)
	})
	return c
}

// firstMatch evaluates rules in order and returns the first non-empty value.
func firstMatch(doc *goquery.Document, rules []Rule) string {
	for _, rule := range rules {
		if v := rule.eval(doc); v != "" {
			return v
		}
	}
	return ""
}

func (r Rule) eval(doc *goquery.Document) string {
	sel := doc.Find(r.Selector).First()
	if sel.Length() == 0 {
		return ""
	}
	if r.Attr == "" {
		return strings.TrimSpace(sel.Text())
	}
	v, _ := sel.Attr(r.Attr)
	return strings.TrimSpace(v)
}
