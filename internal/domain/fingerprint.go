package domain

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
)

// Fingerprint returns the coarse duplicate-detection key for a listing:
// price rounded to the nearest 100 (ties to even, so 179050 gives 179000),
// area truncated to an integer, property type and city, pipe-joined. Missing
// components stay as empty segments so the shape of the string is stable.
// Listings from different sites that describe the same property are expected
// to collide here.
func (l *ListingData) Fingerprint() string {
	price := ""
	if l.Price != 0 {
		price = strconv.Itoa(int(math.RoundToEven(l.Price/100) * 100))
	}
	area := ""
	if l.Area != 0 {
		area = strconv.Itoa(int(l.Area))
	}
	return fmt.Sprintf("%s|%s|%s|%s", price, area, l.PropertyType, l.City)
}

// FingerprintStrict extends Fingerprint with the neighborhood, for matching
// within the same part of a city.
func (l *ListingData) FingerprintStrict() string {
	return l.Fingerprint() + "|" + l.Neighborhood
}

// FingerprintLoose drops the area and rounds price to the nearest 500, for
// broader cross-site matching.
func (l *ListingData) FingerprintLoose() string {
	price := ""
	if l.Price != 0 {
		price = strconv.Itoa(int(math.RoundToEven(l.Price/500) * 500))
	}
	return fmt.Sprintf("%s|%s|%s", price, l.PropertyType, l.City)
}

// HashFingerprint returns the hex MD5 of a fingerprint string. MD5 is fine
// here: the hash is a storage-friendly key, not a security boundary.
func HashFingerprint(fp string) string {
	sum := md5.Sum([]byte(fp))
	return hex.EncodeToString(sum[:])
}
