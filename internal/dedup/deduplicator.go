// Package dedup tracks listing fingerprints in Redis so the same property
// offered on several sites (or re-scraped on the next run) is flagged instead
// of stored twice. Matching is intentionally coarse: the fingerprint collides
// for near-duplicates by design.
package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/imotstat/go-estate-crawler/internal/domain"
)

// Deduplicator checks and records seen listing fingerprints.
type Deduplicator struct {
	client     *redis.Client
	prefix     string
	defaultTTL time.Duration
}

// New creates a Redis-backed deduplicator. Keys expire after defaultTTL
// (30 days when zero) so stale listings eventually re-qualify as new.
func New(client *redis.Client, prefix string, defaultTTL time.Duration) *Deduplicator {
	if prefix == "" {
		prefix = "listings:seen"
	}
	if defaultTTL == 0 {
		defaultTTL = 30 * 24 * time.Hour
	}
	return &Deduplicator{client: client, prefix: prefix, defaultTTL: defaultTTL}
}

// IsSeen reports whether a listing with the same fingerprint has been
// recorded before.
func (d *Deduplicator) IsSeen(ctx context.Context, listing *domain.ListingData) (bool, error) {
	exists, err := d.client.Exists(ctx, d.key(listing.FingerprintHash)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return exists > 0, nil
}

// MarkSeen records the listing's fingerprint. The stored value is the source
// site and details URL, handy when inspecting collisions by hand.
func (d *Deduplicator) MarkSeen(ctx context.Context, listing *domain.ListingData) error {
	value := listing.Site + " " + listing.DetailsURL
	if err := d.client.Set(ctx, d.key(listing.FingerprintHash), value, d.defaultTTL).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// FilterNew splits a batch into unseen listings (returned) and duplicates
// (counted), marking every unseen fingerprint along the way. Within the batch
// itself later duplicates of an earlier listing are dropped too.
func (d *Deduplicator) FilterNew(ctx context.Context, listings []*domain.ListingData) ([]*domain.ListingData, int, error) {
	fresh := make([]*domain.ListingData, 0, len(listings))
	dupes := 0
	for _, l := range listings {
		seen, err := d.IsSeen(ctx, l)
		if err != nil {
			return fresh, dupes, err
		}
		if seen {
			dupes++
			continue
		}
		if err := d.MarkSeen(ctx, l); err != nil {
			return fresh, dupes, err
		}
		fresh = append(fresh, l)
	}
	return fresh, dupes, nil
}

func (d *Deduplicator) key(hash string) string {
	return fmt.Sprintf("%s:%s", d.prefix, hash)
}
