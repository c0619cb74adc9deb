// Package sites contains the per-source adapters. Each adapter knows one
// listing site: how to build its search URLs, pull raw listings out of a
// result page and walk its pagination. Adapters produce RawListing values
// only; all normalization happens downstream.
package sites

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/url"
	"time"

	"github.com/imotstat/go-estate-crawler/internal/domain"
)

// Page is one fetched and parsed result page.
type Page struct {
	Listings    []*domain.RawListing
	TotalOffers int
	TotalPages  int
	HasMore     bool
}

// Source is the adapter contract for one listing site.
type Source interface {
	// Name returns the source identifier.
	Name() string
	// BuildURLs returns the search URLs to start crawling from.
	BuildURLs() []string
	// ExtractListings fetches one result page and parses its listings.
	ExtractListings(ctx context.Context, pageURL string) (*Page, error)
	// GetNextPageURL returns the URL of page pageNumber, or "" when the
	// crawl of this search is done.
	GetNextPageURL(page *Page, currentURL string, pageNumber int) string
	// GetTotalPages reports the page count for the search, 0 when the site
	// does not expose one.
	GetTotalPages(page *Page) int
}

// ListingHandler is called with the raw listings of each fetched page.
type ListingHandler func(listings []*domain.RawListing) error

// Crawler walks a source's searches page by page.
type Crawler struct {
	source   Source
	maxPages int
	delay    time.Duration
	log      *slog.Logger
}

// NewCrawler creates a crawler over source, visiting at most maxPages pages
// per search URL.
func NewCrawler(source Source, maxPages int, delay time.Duration, log *slog.Logger) *Crawler {
	if maxPages <= 0 {
		maxPages = 30
	}
	if log == nil {
		log = slog.Default()
	}
	return &Crawler{
		source:   source,
		maxPages: maxPages,
		delay:    delay,
		log:      log,
	}
}

// Crawl fetches every search of the source and returns all raw listings.
func (c *Crawler) Crawl(ctx context.Context) ([]*domain.RawListing, error) {
	var all []*domain.RawListing
	err := c.CrawlWithCallback(ctx, func(listings []*domain.RawListing) error {
		all = append(all, listings...)
		return nil
	})
	return all, err
}

// CrawlWithCallback fetches page by page and hands each page's listings to
// handler, so results can be queued without buffering a whole crawl. A page
// that fails to fetch ends that search but not the crawl.
func (c *Crawler) CrawlWithCallback(ctx context.Context, handler ListingHandler) error {
	name := c.source.Name()

	for _, startURL := range c.source.BuildURLs() {
		pageURL := startURL

		for pageNum := 1; pageURL != "" && pageNum <= c.maxPages; pageNum++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			c.log.Info("crawling page", "site", name, "page", pageNum, "url", pageURL)

			page, err := c.source.ExtractListings(ctx, pageURL)
			if err != nil {
				c.log.Warn("page failed", "site", name, "url", pageURL, "err", err)
				break
			}

			if len(page.Listings) > 0 {
				if err := handler(page.Listings); err != nil {
					return fmt.Errorf("handle listings: %w", err)
				}
			}

			pageURL = c.source.GetNextPageURL(page, pageURL, pageNum+1)
			if pageURL != "" {
				c.sleep(ctx)
			}
		}
	}

	return nil
}

func (c *Crawler) sleep(ctx context.Context) {
	if c.delay <= 0 {
		return
	}
	jittered := c.delay + time.Duration(rand.Int63n(int64(c.delay)))
	select {
	case <-ctx.Done():
	case <-time.After(jittered):
	}
}

// absURL resolves href against base. Scheme-relative and already-absolute
// hrefs pass through intact.
func absURL(base, href string) string {
	if href == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}
