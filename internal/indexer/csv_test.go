package indexer

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/imotstat/go-estate-crawler/internal/domain"
)

func TestRawCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw", "imotbg.csv")

	scraped := time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC)
	in := []*domain.RawListing{
		{
			Site:         "imotbg",
			ScrapedAt:    scraped,
			SearchURL:    "https://www.imot.bg/search",
			DetailsURL:   "https://www.imot.bg/offer/1",
			PriceText:    "179 000 €",
			LocationText: "град София, Лозенец",
			Title:        "Продава 2-СТАЕН",
			Description:  "Тухла, южно изложение",
			AreaText:     "65 кв.м",
			FloorText:    "6-ти ет.",
			AgencyName:   "Явлена",
			NumPhotos:    12,
			RefNo:        "123456",
			TotalOffers:  1234,
		},
		{
			Site:      "imotbg",
			ScrapedAt: scraped,
			PriceText: "90 000 лв.",
			Title:     "Продава гараж",
		},
	}

	w, err := NewRawCSVWriter(path)
	if err != nil {
		t.Fatalf("NewRawCSVWriter: %v", err)
	}
	if err := w.Write(in); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	out, err := ReadRawCSV(path)
	if err != nil {
		t.Fatalf("ReadRawCSV: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("read %d listings, want 2", len(out))
	}

	got := out[0]
	if got.Site != in[0].Site || got.Title != in[0].Title || got.PriceText != in[0].PriceText {
		t.Errorf("first listing mismatch: %+v", got)
	}
	if !got.ScrapedAt.Equal(scraped) {
		t.Errorf("ScrapedAt = %v, want %v", got.ScrapedAt, scraped)
	}
	if got.NumPhotos != 12 || got.TotalOffers != 1234 {
		t.Errorf("counters = %d/%d, want 12/1234", got.NumPhotos, got.TotalOffers)
	}
	if out[1].PriceText != "90 000 лв." || out[1].NumPhotos != 0 {
		t.Errorf("second listing mismatch: %+v", out[1])
	}
}

func TestDocID(t *testing.T) {
	withRef := &domain.ListingData{Site: "imotbg", RefNo: "123", FingerprintHash: "abc"}
	if got := docID(withRef); got != "imotbg:123" {
		t.Errorf("docID = %q, want imotbg:123", got)
	}

	withoutRef := &domain.ListingData{Site: "homesbg", FingerprintHash: "abc"}
	if got := docID(withoutRef); got != "homesbg:abc" {
		t.Errorf("docID = %q, want homesbg:abc", got)
	}
}
