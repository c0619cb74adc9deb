package domain

import "time"

// RawListing holds the as-extracted fields of one listing before any
// normalization. Site adapters fill whatever they can; every text field may be
// empty, and the transformer treats empty and absent identically.
type RawListing struct {
	Site            string    `json:"site"`
	ScrapedAt       time.Time `json:"scraped_at"`
	SearchURL       string    `json:"search_url,omitempty"`
	DetailsURL      string    `json:"details_url,omitempty"`
	PriceText       string    `json:"price_text,omitempty"`
	LocationText    string    `json:"location_text,omitempty"`
	Title           string    `json:"title,omitempty"`
	Description     string    `json:"description,omitempty"`
	AreaText        string    `json:"area_text,omitempty"`
	FloorText       string    `json:"floor_text,omitempty"`
	TotalFloorsText string    `json:"total_floors_text,omitempty"`
	AgencyName      string    `json:"agency_name,omitempty"`
	AgencyURL       string    `json:"agency_url,omitempty"`
	NumPhotos       int       `json:"num_photos,omitempty"`
	RefNo           string    `json:"ref_no,omitempty"`
	TotalOffers     int       `json:"total_offers,omitempty"`
}

// ListingData is the normalized listing record emitted by the transformer.
// Prices are always EUR; the detected source currency is kept separately.
// Zero values (0, "") mean the field could not be extracted.
type ListingData struct {
	Site       string `json:"site"`
	SearchURL  string `json:"search_url"`
	DetailsURL string `json:"details_url"`

	Price            float64 `json:"price"`
	OriginalCurrency string  `json:"original_currency"`
	PricePerM2       float64 `json:"price_per_m2"`
	WithoutVAT       bool    `json:"without_vat"`

	City         string `json:"city"`
	Neighborhood string `json:"neighborhood"`
	OfferType    string `json:"offer_type"`
	PropertyType string `json:"property_type"`

	Area        float64 `json:"area"`
	Floor       string  `json:"floor"`
	TotalFloors string  `json:"total_floors"`

	RawTitle       string    `json:"raw_title"`
	RawDescription string    `json:"raw_description"`
	Agency         string    `json:"agency"`
	AgencyURL      string    `json:"agency_url"`
	NumPhotos      int       `json:"num_photos"`
	RefNo          string    `json:"ref_no"`
	DateTimeAdded  time.Time `json:"date_time_added"`
	TotalOffers    int       `json:"total_offers"`

	FingerprintHash string `json:"fingerprint_hash"`
}

// ListingSource identifies a scraped site.
type ListingSource string

const (
	SourceImotBg   ListingSource = "imotbg"
	SourceImotiNet ListingSource = "imotinet"
	SourceHomesBg  ListingSource = "homesbg"
)
