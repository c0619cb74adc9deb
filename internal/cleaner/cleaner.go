// Package cleaner strips markup from scraped listing text. Listing sites mix
// inline HTML into titles and descriptions; the normalized CSV schema wants
// plain text only.
package cleaner

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/imotstat/go-estate-crawler/internal/domain"
)

// Cleaner sanitizes listing text with a strict bluemonday policy (all tags
// removed).
type Cleaner struct {
	policy *bluemonday.Policy
}

// New creates a Cleaner.
func New() *Cleaner {
	return &Cleaner{policy: bluemonday.StrictPolicy()}
}

// Text strips all HTML, decodes entities and collapses runs of whitespace.
func (c *Cleaner) Text(s string) string {
	if s == "" {
		return ""
	}
	s = c.policy.Sanitize(s)
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}

// Listing sanitizes the free-text fields of a raw listing in place. URL and
// numeric fields are left alone.
func (c *Cleaner) Listing(raw *domain.RawListing) {
	raw.Title = c.Text(raw.Title)
	raw.Description = c.Text(raw.Description)
	raw.LocationText = c.Text(raw.LocationText)
	raw.AgencyName = c.Text(raw.AgencyName)
}
