package sites

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/imotstat/go-estate-crawler/internal/domain"
	"github.com/imotstat/go-estate-crawler/internal/fetch"
)

const homesBgBaseURL = "https://homes.bg"

// homes.bg serves 100 offers per API call and caps pagination server side.
const homesBgPageSize = 100

// HomesBg reads the homes.bg JSON offers API. Unlike the HTML sources the
// fields arrive structured, so the adapter formats them back into the raw
// text fields the shared pipeline expects.
type HomesBg struct {
	fetcher    *fetch.Fetcher
	searchURLs []string
	maxPages   int
}

// NewHomesBg creates the homes.bg adapter. searchURLs defaults to the Sofia
// apartment sales and the agricultural land searches.
func NewHomesBg(fetcher *fetch.Fetcher, searchURLs []string, maxPages int) *HomesBg {
	if len(searchURLs) == 0 {
		searchURLs = []string{
			"https://www.homes.bg/api/offers?currencyId=1&filterOrderBy=0&locationId=1&typeId=ApartmentSell",
			"https://www.homes.bg/api/offers?currencyId=1&filterOrderBy=0&locationId=0&typeId=LandAgro",
		}
	}
	if maxPages <= 0 {
		maxPages = 30
	}
	return &HomesBg{fetcher: fetcher, searchURLs: searchURLs, maxPages: maxPages}
}

func (s *HomesBg) Name() string { return string(domain.SourceHomesBg) }

func (s *HomesBg) BuildURLs() []string { return s.searchURLs }

type homesBgResponse struct {
	SearchCriteria struct {
		TypeID string `json:"typeId"`
	} `json:"searchCriteria"`
	Result       []homesBgOffer `json:"result"`
	HasMoreItems bool           `json:"hasMoreItems"`
}

type homesBgOffer struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	ViewHref    string `json:"viewHref"`
	Price       struct {
		Value    float64 `json:"value"`
		Currency string  `json:"currency"`
	} `json:"price"`
	Photos []struct {
		Path string `json:"path"`
	} `json:"photos"`
}

// ExtractListings fetches one API page and maps offers onto raw listings.
func (s *HomesBg) ExtractListings(ctx context.Context, pageURL string) (*Page, error) {
	var resp homesBgResponse
	if err := s.fetcher.JSON(ctx, pageURL, &resp); err != nil {
		return nil, err
	}

	page := &Page{
		HasMore:    resp.HasMoreItems,
		TotalPages: s.maxPages,
	}
	scrapedAt := time.Now().UTC()

	for _, offer := range resp.Result {
		raw := &domain.RawListing{
			Site:         string(domain.SourceHomesBg),
			ScrapedAt:    scrapedAt,
			SearchURL:    pageURL,
			DetailsURL:   absURL(homesBgBaseURL, offer.ViewHref),
			Title:        offer.Title,
			Description:  offer.Description,
			PriceText:    formatHomesBgPrice(offer.Price.Value, offer.Price.Currency),
			LocationText: reverseHomesBgLocation(offer.Location),
			NumPhotos:    len(offer.Photos),
			RefNo:        strconv.FormatInt(offer.ID, 10),
		}
		page.Listings = append(page.Listings, raw)
	}

	return page, nil
}

// GetNextPageURL appends the startIndex/stopIndex window for page pageNumber.
// The API's hasMoreItems flag ends the walk.
func (s *HomesBg) GetNextPageURL(page *Page, currentURL string, pageNumber int) string {
	if !page.HasMore {
		return ""
	}
	base := strings.SplitN(currentURL, "&startIndex", 2)[0]
	start := (pageNumber - 1) * homesBgPageSize
	stop := pageNumber * homesBgPageSize
	return fmt.Sprintf("%s&startIndex=%d&stopIndex=%d", base, start, stop)
}

func (s *HomesBg) GetTotalPages(page *Page) int { return page.TotalPages }

// formatHomesBgPrice renders the structured price as the "value currency"
// text the shared extractors parse.
func formatHomesBgPrice(value float64, currency string) string {
	if value == 0 {
		return ""
	}
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + currency
}

// reverseHomesBgLocation flips the API's "neighborhood, city" order into the
// "city, neighborhood" form the location extractor expects.
func reverseHomesBgLocation(location string) string {
	parts := strings.SplitN(location, ",", 2)
	if len(parts) < 2 {
		return strings.TrimSpace(location)
	}
	neighborhood := strings.TrimSpace(parts[0])
	city := strings.TrimSpace(parts[1])
	if city == "" {
		return neighborhood
	}
	return city + ", " + neighborhood
}
