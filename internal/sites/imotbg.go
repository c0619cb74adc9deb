package sites

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/imotstat/go-estate-crawler/internal/domain"
	"github.com/imotstat/go-estate-crawler/internal/extract"
	"github.com/imotstat/go-estate-crawler/internal/fetch"
)

const imotBgBaseURL = "https://www.imot.bg"

// imot.bg lists 24 offers per result page.
const imotBgPageSize = 24

var (
	imotBgTotalRe = regexp.MustCompile(`от\s*общо\s*(\d+)`)
	imotBgRefRe   = regexp.MustCompile(`id[a-z]?(\d+)`)
	imotBgPageRe  = regexp.MustCompile(`/p-\d+`)
)

// ImotBg scrapes imot.bg result pages.
type ImotBg struct {
	fetcher    *fetch.Fetcher
	searchURLs []string
}

// NewImotBg creates the imot.bg adapter. searchURLs defaults to the Sofia
// sales search when empty.
func NewImotBg(fetcher *fetch.Fetcher, searchURLs []string) *ImotBg {
	if len(searchURLs) == 0 {
		searchURLs = []string{"https://www.imot.bg/pcgi/imot.cgi?act=3&slink=bhcl5k&f1=1"}
	}
	return &ImotBg{fetcher: fetcher, searchURLs: searchURLs}
}

func (s *ImotBg) Name() string { return string(domain.SourceImotBg) }

func (s *ImotBg) BuildURLs() []string { return s.searchURLs }

// ExtractListings fetches one result page. The listing's title anchor carries
// the location in a nested <location> element, so the two are split before
// the field mappings run.
func (s *ImotBg) ExtractListings(ctx context.Context, pageURL string) (*Page, error) {
	doc, err := s.fetcher.HTML(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	page := &Page{
		TotalOffers: extractImotBgTotal(doc),
	}
	scrapedAt := time.Now().UTC()

	doc.Find("div.item").Each(func(_ int, item *goquery.Selection) {
		raw := &domain.RawListing{
			Site:        string(domain.SourceImotBg),
			ScrapedAt:   scrapedAt,
			SearchURL:   pageURL,
			TotalOffers: page.TotalOffers,
		}

		raw.Title, raw.LocationText = splitImotBgTitle(item)

		applyMappings(item, raw, []FieldMapping{
			{Selector: "div.price div", Assign: func(r *domain.RawListing, v string) { r.PriceText = v }},
			{Selector: "div.info", Assign: func(r *domain.RawListing, v string) {
				r.Description = v
				// area and floor live inside the same info line
				r.AreaText = v
				r.FloorText = v
				r.TotalFloorsText = extract.TotalFloorsFromDescription(v)
			}},
			{Selector: "a.title", Attr: "href", Clean: func(v string) string { return absURL(imotBgBaseURL, v) },
				Assign: func(r *domain.RawListing, v string) { r.DetailsURL = v }},
			{Selector: "div.seller div.name", Assign: func(r *domain.RawListing, v string) { r.AgencyName = v }},
			{Selector: "div.seller a", Attr: "href", Clean: func(v string) string { return absURL(imotBgBaseURL, v) },
				Assign: func(r *domain.RawListing, v string) { r.AgencyURL = v }},
			{Selector: "a.photos", Assign: func(r *domain.RawListing, v string) { r.NumPhotos = extract.PhotoCount(v) }},
			{Attr: "id", Clean: extractImotBgRef,
				Assign: func(r *domain.RawListing, v string) { r.RefNo = v }},
		})

		page.Listings = append(page.Listings, raw)
	})

	page.HasMore = len(page.Listings) > 0
	return page, nil
}

// GetNextPageURL rewrites the current URL to the /p-N form, keeping any query
// string. An empty page ends the search.
func (s *ImotBg) GetNextPageURL(page *Page, currentURL string, pageNumber int) string {
	if !page.HasMore {
		return ""
	}

	base := imotBgPageRe.ReplaceAllString(currentURL, "")

	if i := strings.Index(base, "?"); i >= 0 {
		return fmt.Sprintf("%s/p-%d?%s", base[:i], pageNumber, base[i+1:])
	}
	return fmt.Sprintf("%s/p-%d", base, pageNumber)
}

// GetTotalPages derives the page count from the total offer counter.
func (s *ImotBg) GetTotalPages(page *Page) int {
	if page.TotalOffers == 0 {
		return 0
	}
	return (page.TotalOffers + imotBgPageSize - 1) / imotBgPageSize
}

// splitImotBgTitle separates "Продава 2-стаен" from its nested location
// element ("град София, Лозенец").
func splitImotBgTitle(item *goquery.Selection) (title, location string) {
	anchor := item.Find("a.title").First()
	if anchor.Length() == 0 {
		return "", ""
	}

	clone := anchor.Clone()
	location = strings.TrimSpace(clone.Find("location").Text())
	clone.Find("location").Remove()
	title = strings.TrimSpace(clone.Text())
	return title, location
}

// extractImotBgTotal reads "Обяви 1-24 от общо 1234" from the pagination bar.
func extractImotBgTotal(doc *goquery.Document) int {
	text := doc.Find("span.pageNumbersInfo").First().Text()
	if m := imotBgTotalRe.FindStringSubmatch(text); m != nil {
		return extract.Int(m[1])
	}
	return 0
}

// extractImotBgRef pulls the listing reference out of item ids like "ida123".
func extractImotBgRef(id string) string {
	if m := imotBgRefRe.FindStringSubmatch(id); m != nil {
		return m[1]
	}
	return ""
}
