// Package fetch wraps Colly with the request hygiene the listing sites need:
// rotating browser profiles, per-domain rate limiting and exponential back-off
// retries.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

// Profile is a browser identity sent with each request. Sites that fingerprint
// clients see a consistent UA + Accept-Language pair, not a random mix.
type Profile struct {
	UserAgent      string
	AcceptLanguage string
}

// defaultProfiles covers current desktop Chrome, Firefox and Safari builds.
var defaultProfiles = []Profile{
	{
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36",
		AcceptLanguage: "bg-BG,bg;q=0.9,en-US;q=0.8,en;q=0.7",
	},
	{
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:128.0) Gecko/20100101 Firefox/128.0",
		AcceptLanguage: "bg,en-US;q=0.7,en;q=0.3",
	},
	{
		UserAgent:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Safari/605.1.15",
		AcceptLanguage: "bg-BG,bg;q=0.9,en;q=0.8",
	},
	{
		UserAgent:      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
		AcceptLanguage: "bg-BG,bg;q=0.8,en-US;q=0.6,en;q=0.4",
	},
}

// Config holds fetcher settings.
type Config struct {
	RequestDelay time.Duration
	MaxRetries   int
	BaseDelay    time.Duration
	ProxyURL     string
	Profiles     []Profile
}

// Fetcher retrieves listing pages. One instance may serve concurrent callers;
// each request clones the base collector.
type Fetcher struct {
	collector  *colly.Collector
	profiles   []Profile
	maxRetries int
	baseDelay  time.Duration
	log        *slog.Logger
}

// New creates a Fetcher.
func New(cfg Config, log *slog.Logger) *Fetcher {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 2 * time.Second
	}
	if len(cfg.Profiles) == 0 {
		cfg.Profiles = defaultProfiles
	}
	if log == nil {
		log = slog.Default()
	}

	c := colly.NewCollector(
		colly.AllowURLRevisit(),
	)

	if cfg.RequestDelay > 0 {
		c.Limit(&colly.LimitRule{
			DomainGlob:  "*",
			Delay:       cfg.RequestDelay,
			RandomDelay: cfg.RequestDelay / 2,
		})
	}

	if cfg.ProxyURL != "" {
		c.SetProxy(cfg.ProxyURL)
	}

	return &Fetcher{
		collector:  c,
		profiles:   cfg.Profiles,
		maxRetries: cfg.MaxRetries,
		baseDelay:  cfg.BaseDelay,
		log:        log,
	}
}

// HTML fetches url and parses the response into a goquery document.
func (f *Fetcher) HTML(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := f.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html %s: %w", url, err)
	}
	return doc, nil
}

// JSON fetches url and unmarshals the response into v.
func (f *Fetcher) JSON(ctx context.Context, url string, v any) error {
	body, err := f.fetch(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("parse json %s: %w", url, err)
	}
	return nil
}

// fetch downloads url with retries. Each attempt uses a fresh browser profile
// and the delay between attempts doubles.
func (f *Fetcher) fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	delay := f.baseDelay

	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		body, err := f.fetchOnce(url, f.profiles[rand.Intn(len(f.profiles))])
		if err == nil {
			return body, nil
		}
		lastErr = err

		if attempt < f.maxRetries {
			f.log.Warn("fetch failed, retrying",
				"url", url, "attempt", attempt, "max", f.maxRetries, "delay", delay, "err", err)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	return nil, fmt.Errorf("fetch %s failed after %d attempts: %w", url, f.maxRetries, lastErr)
}

func (f *Fetcher) fetchOnce(url string, profile Profile) ([]byte, error) {
	var body []byte
	var fetchErr error

	collector := f.collector.Clone()
	collector.UserAgent = profile.UserAgent

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept-Language", profile.AcceptLanguage)
	})

	collector.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	collector.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("request failed (status %d): %w", r.StatusCode, err)
	})

	if err := collector.Visit(url); err != nil {
		return nil, fmt.Errorf("visit: %w", err)
	}
	collector.Wait()

	if fetchErr != nil {
		return nil, fetchErr
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("empty response from %s", url)
	}
	return body, nil
}
