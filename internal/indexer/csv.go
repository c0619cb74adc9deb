package indexer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/imotstat/go-estate-crawler/internal/domain"
)

var rawHeader = []string{
	"site", "scraped_at", "search_url", "details_url",
	"price_text", "location_text", "title", "description",
	"area_text", "floor_text", "total_floors_text",
	"agency_name", "agency_url", "num_photos", "ref_no", "total_offers",
}

var processedHeader = []string{
	"site", "search_url", "details_url",
	"price", "original_currency", "price_per_m2", "without_vat",
	"city", "neighborhood", "offer_type", "property_type",
	"area", "floor", "total_floors",
	"raw_title", "raw_description",
	"agency", "agency_url", "num_photos", "ref_no",
	"date_time_added", "total_offers", "fingerprint_hash",
}

// CSVWriter appends normalized listings to a CSV file. Safe for concurrent
// use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at path and writes the
// header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(processedHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// BulkIndex appends listings as CSV rows. The ctx parameter exists to satisfy
// the Indexer interface; file writes are not cancellable mid-row.
func (c *CSVWriter) BulkIndex(_ context.Context, listings []*domain.ListingData) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range listings {
		row := []string{
			l.Site, l.SearchURL, l.DetailsURL,
			formatFloat(l.Price), l.OriginalCurrency, formatFloat(l.PricePerM2), strconv.FormatBool(l.WithoutVAT),
			l.City, l.Neighborhood, l.OfferType, l.PropertyType,
			formatFloat(l.Area), l.Floor, l.TotalFloors,
			l.RawTitle, l.RawDescription,
			l.Agency, l.AgencyURL, strconv.Itoa(l.NumPhotos), l.RefNo,
			formatTime(l.DateTimeAdded), strconv.Itoa(l.TotalOffers), l.FingerprintHash,
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

// RawCSVWriter appends raw (pre-normalization) listings to a CSV file, one
// file per crawl run. Safe for concurrent use.
type RawCSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewRawCSVWriter creates (or truncates) the raw-listings CSV file at path.
func NewRawCSVWriter(path string) (*RawCSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(rawHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &RawCSVWriter{file: f, writer: w}, nil
}

// Write appends raw listings as CSV rows.
func (c *RawCSVWriter) Write(listings []*domain.RawListing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range listings {
		row := []string{
			l.Site, formatTime(l.ScrapedAt), l.SearchURL, l.DetailsURL,
			l.PriceText, l.LocationText, l.Title, l.Description,
			l.AreaText, l.FloorText, l.TotalFloorsText,
			l.AgencyName, l.AgencyURL, strconv.Itoa(l.NumPhotos), l.RefNo, strconv.Itoa(l.TotalOffers),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *RawCSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

// ReadRawCSV loads a raw-listings CSV previously written by RawCSVWriter.
// Rows with the wrong column count are skipped.
func ReadRawCSV(path string) ([]*domain.RawListing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	get := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var listings []*domain.RawListing
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return listings, fmt.Errorf("csv: read row: %w", err)
		}
		if len(record) < 2 {
			continue
		}

		scrapedAt, _ := time.Parse(time.RFC3339, get(record, "scraped_at"))
		numPhotos, _ := strconv.Atoi(get(record, "num_photos"))
		totalOffers, _ := strconv.Atoi(get(record, "total_offers"))

		listings = append(listings, &domain.RawListing{
			Site:            get(record, "site"),
			ScrapedAt:       scrapedAt,
			SearchURL:       get(record, "search_url"),
			DetailsURL:      get(record, "details_url"),
			PriceText:       get(record, "price_text"),
			LocationText:    get(record, "location_text"),
			Title:           get(record, "title"),
			Description:     get(record, "description"),
			AreaText:        get(record, "area_text"),
			FloorText:       get(record, "floor_text"),
			TotalFloorsText: get(record, "total_floors_text"),
			AgencyName:      get(record, "agency_name"),
			AgencyURL:       get(record, "agency_url"),
			NumPhotos:       numPhotos,
			RefNo:           get(record, "ref_no"),
			TotalOffers:     totalOffers,
		})
	}

	return listings, nil
}

func formatFloat(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
