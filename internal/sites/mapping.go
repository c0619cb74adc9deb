package sites

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/imotstat/go-estate-crawler/internal/domain"
)

// FieldMapping declares how one RawListing field is read from a listing
// element: a CSS selector, optionally an attribute instead of text content,
// an optional clean step and the assignment target.
type FieldMapping struct {
	Selector string
	Attr     string
	Clean    func(string) string
	Assign   func(*domain.RawListing, string)
}

// applyMappings runs every mapping against one listing element. Missing
// selectors assign the empty string; the adapter's code decides what that
// means.
func applyMappings(item *goquery.Selection, raw *domain.RawListing, mappings []FieldMapping) {
	for _, m := range mappings {
		sel := item
		if m.Selector != "" {
			sel = item.Find(m.Selector).First()
		}

		var value string
		if m.Attr != "" {
			value, _ = sel.Attr(m.Attr)
		} else {
			value = sel.Text()
		}
		value = strings.TrimSpace(value)

		if m.Clean != nil {
			value = m.Clean(value)
		}
		m.Assign(raw, value)
	}
}
