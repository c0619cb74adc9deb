// Package transform converts raw scraped listings into the normalized
// ListingData schema: prices in EUR, canonical city/neighborhood/type values,
// derived price-per-m2 and the duplicate-detection fingerprint.
package transform

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/imotstat/go-estate-crawler/internal/domain"
	"github.com/imotstat/go-estate-crawler/internal/extract"
	"github.com/imotstat/go-estate-crawler/internal/normalize"
)

// Config holds transformer settings.
type Config struct {
	// BGNRate is the BGN per EUR conversion rate. Defaults to the fixed peg.
	BGNRate float64
}

// Transformer is site-agnostic: one instance handles listings from every
// source. It is stateless per call apart from recording normalization misses
// into the shared tracker, so one instance may serve concurrent workers.
type Transformer struct {
	tracker *normalize.Tracker
	log     *slog.Logger
	rate    float64
}

// New creates a Transformer recording unknown values into tracker.
func New(tracker *normalize.Tracker, log *slog.Logger, cfg Config) *Transformer {
	if cfg.BGNRate <= 0 {
		cfg.BGNRate = domain.BGNToEURRate
	}
	if log == nil {
		log = slog.Default()
	}
	return &Transformer{tracker: tracker, log: log, rate: cfg.BGNRate}
}

// Transform produces one normalized listing from one raw listing. It never
// fails for a well-formed input: extractor and normalizer misses degrade to
// zero values.
func (t *Transformer) Transform(raw *domain.RawListing) *domain.ListingData {
	price := extract.Price(raw.PriceText)
	currency := normalize.Currency(raw.PriceText)
	if currency.Value == string(domain.CurrencyBGN) && price != 0 {
		price = round2(price / t.rate)
	}

	rawCity, rawNeighborhood := extract.Location(raw.LocationText)
	city := normalize.City(rawCity, t.tracker)
	neighborhood := normalize.Neighborhood(rawNeighborhood, city.Value, t.tracker)

	// API sources carry the offer type in the search URL, not the details
	// URL, so that is tried before a miss is recorded.
	offerType := normalize.OfferType(raw.Title, raw.DetailsURL, nil)
	if offerType.Value == "" {
		offerType = normalize.OfferType(raw.Title, raw.SearchURL, t.tracker)
	}
	propertyType := normalize.PropertyType(raw.Title, raw.DetailsURL, t.tracker)
	if propertyType.Value == "" && raw.Description != "" {
		// Description scan is a last resort; misses there are noise, not
		// alias-table gaps, so they bypass the tracker.
		propertyType = normalize.PropertyType(raw.Description, "", nil)
	}

	area := extract.Area(raw.AreaText)

	floor := extract.Floor(raw.FloorText)
	if floor == "" && raw.Description != "" {
		floor = extract.FloorFromDescription(raw.Description)
	}

	totalFloors := extract.TotalFloors(raw.TotalFloorsText)
	if totalFloors == "" && raw.Description != "" {
		totalFloors = extract.TotalFloorsFromDescription(raw.Description)
	}

	var pricePerM2 float64
	if price > 0 && area > 0 {
		pricePerM2 = round2(price / area)
	}

	listing := &domain.ListingData{
		Site:             raw.Site,
		SearchURL:        raw.SearchURL,
		DetailsURL:       raw.DetailsURL,
		Price:            price,
		OriginalCurrency: currency.Value,
		PricePerM2:       pricePerM2,
		WithoutVAT:       extract.WithoutVAT(raw.PriceText),
		City:             city.Value,
		Neighborhood:     neighborhood.Value,
		OfferType:        offerType.Value,
		PropertyType:     propertyType.Value,
		Area:             area,
		Floor:            floor,
		TotalFloors:      totalFloors,
		RawTitle:         raw.Title,
		RawDescription:   raw.Description,
		Agency:           normalize.Agency(raw.AgencyName, t.tracker).Value,
		AgencyURL:        raw.AgencyURL,
		NumPhotos:        raw.NumPhotos,
		RefNo:            raw.RefNo,
		DateTimeAdded:    raw.ScrapedAt,
		TotalOffers:      raw.TotalOffers,
	}
	listing.FingerprintHash = domain.HashFingerprint(listing.Fingerprint())
	return listing
}

// TransformBatch transforms a sequence of raw listings. A failing record is
// logged and skipped; the batch always continues and the method itself never
// panics.
func (t *Transformer) TransformBatch(raws []*domain.RawListing) []*domain.ListingData {
	results := make([]*domain.ListingData, 0, len(raws))
	skipped := 0
	for _, raw := range raws {
		if raw == nil {
			skipped++
			continue
		}
		listing, err := t.transformSafe(raw)
		if err != nil {
			t.log.Warn("transform failed", "site", raw.Site, "url", raw.DetailsURL, "err", err)
			skipped++
			continue
		}
		results = append(results, listing)
	}
	if skipped > 0 {
		t.log.Info("batch transformed", "in", len(raws), "out", len(results), "skipped", skipped)
	}
	return results
}

// transformSafe converts a panic during one record into an error so a single
// malformed record cannot take down the batch.
func (t *Transformer) transformSafe(raw *domain.RawListing) (listing *domain.ListingData, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("transform: %v", r)
		}
	}()
	return t.Transform(raw), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
