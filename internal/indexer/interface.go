package indexer

import (
	"context"

	"github.com/imotstat/go-estate-crawler/internal/domain"
)

// Indexer is a storage backend for normalized listings.
type Indexer interface {
	// BulkIndex stores multiple listings at once.
	BulkIndex(ctx context.Context, listings []*domain.ListingData) error
}

// docID identifies a listing across re-crawls: site plus the site's own
// reference number, with the fingerprint hash as a fallback for sites that
// expose none.
func docID(l *domain.ListingData) string {
	if l.RefNo != "" {
		return l.Site + ":" + l.RefNo
	}
	return l.Site + ":" + l.FingerprintHash
}
