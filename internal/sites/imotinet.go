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

const imotiNetBaseURL = "https://www.imoti.net"

var imotiNetPageParamRe = regexp.MustCompile(`page=\d+`)

// ImotiNet scrapes imoti.net result pages.
type ImotiNet struct {
	fetcher    *fetch.Fetcher
	searchURLs []string
}

// NewImotiNet creates the imoti.net adapter.
func NewImotiNet(fetcher *fetch.Fetcher, searchURLs []string) *ImotiNet {
	if len(searchURLs) == 0 {
		searchURLs = []string{"https://www.imoti.net/bg/obiavi/r/prodava/sofia/dvustaen/?page=1&sid=hY044A"}
	}
	return &ImotiNet{fetcher: fetcher, searchURLs: searchURLs}
}

func (s *ImotiNet) Name() string { return string(domain.SourceImotiNet) }

func (s *ImotiNet) BuildURLs() []string { return s.searchURLs }

// ExtractListings fetches one result page. imoti.net puts the floor in the
// first parameter list item and the area in the second comma part of the
// title.
func (s *ImotiNet) ExtractListings(ctx context.Context, pageURL string) (*Page, error) {
	doc, err := s.fetcher.HTML(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	page := &Page{
		TotalPages: extractImotiNetLastPage(doc),
	}
	scrapedAt := time.Now().UTC()

	doc.Find("li.clearfix").Each(func(_ int, item *goquery.Selection) {
		raw := &domain.RawListing{
			Site:      string(domain.SourceImotiNet),
			ScrapedAt: scrapedAt,
			SearchURL: pageURL,
		}

		applyMappings(item, raw, []FieldMapping{
			{Selector: "h3", Assign: func(r *domain.RawListing, v string) {
				r.Title = v
				r.AreaText = areaFromImotiNetTitle(v)
			}},
			{Selector: "strong.price", Assign: func(r *domain.RawListing, v string) { r.PriceText = v }},
			{Selector: "span.location", Assign: func(r *domain.RawListing, v string) { r.LocationText = v }},
			{Selector: "a.box-link", Attr: "href", Clean: func(v string) string { return absURL(imotiNetBaseURL, v) },
				Assign: func(r *domain.RawListing, v string) { r.DetailsURL = v }},
			{Selector: "span.pic-video-info-number", Assign: func(r *domain.RawListing, v string) { r.NumPhotos = extract.Int(v) }},
			{Selector: "span.re-offer-type", Assign: func(r *domain.RawListing, v string) { r.AgencyName = v }},
			{Selector: "ul.parameters li", Assign: func(r *domain.RawListing, v string) { r.FloorText = v }},
		})

		raw.Description = extractImotiNetDescription(item)

		page.Listings = append(page.Listings, raw)
	})

	page.HasMore = len(page.Listings) > 0
	return page, nil
}

// GetNextPageURL swaps the page query parameter. The paginator's last-page
// link bounds the walk.
func (s *ImotiNet) GetNextPageURL(page *Page, currentURL string, pageNumber int) string {
	if page.TotalPages > 0 && pageNumber > page.TotalPages {
		return ""
	}
	if !page.HasMore {
		return ""
	}
	next := fmt.Sprintf("page=%d", pageNumber)
	if imotiNetPageParamRe.MatchString(currentURL) {
		return imotiNetPageParamRe.ReplaceAllString(currentURL, next)
	}
	if strings.Contains(currentURL, "?") {
		return currentURL + "&" + next
	}
	return currentURL + "?" + next
}

func (s *ImotiNet) GetTotalPages(page *Page) int { return page.TotalPages }

func extractImotiNetLastPage(doc *goquery.Document) int {
	return extract.Int(doc.Find("nav.paginator a.last-page").First().Text())
}

// extractImotiNetDescription takes the second paragraph of the listing card;
// the first holds agency boilerplate.
func extractImotiNetDescription(item *goquery.Selection) string {
	paragraphs := item.Find("p")
	if paragraphs.Length() < 2 {
		return ""
	}
	return strings.TrimSpace(paragraphs.Eq(1).Text())
}

// areaFromImotiNetTitle reads the area out of titles like
// "Двустаен апартамент, 65 кв.м, Лозенец".
func areaFromImotiNetTitle(title string) string {
	parts := strings.Split(title, ",")
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
