// Package normalize maps free-text listing fields onto the canonical
// vocabularies in domain. Lookups are soft: an unrecognized non-empty input
// comes back as a cleaned form of itself (or empty for offer/property type,
// where a literal fallback has no value), never as an error. Every miss is
// recorded in the caller-owned Tracker.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/imotstat/go-estate-crawler/internal/domain"
)

// Result is the outcome of one normalization: the value to store and whether
// it is a member of the canonical vocabulary or a cleaned fallback.
type Result struct {
	Value     string
	Canonical bool
}

var (
	cityPrefixRe         = regexp.MustCompile(`^(?:гр\.|град|с\.)\s*`)
	neighborhoodPrefixRe = regexp.MustCompile(`^(?:кв\.|квартал|ж\.к\.|ж\.к|жк)\s*`)
)

// OfferType normalizes the offer kind from title text, falling back to the
// details URL. No literal fallback: unmatched input yields an empty value.
func OfferType(text, url string, tr *Tracker) Result {
	if v, ok := offerTypeAliases.substring(strings.ToLower(text)); ok {
		return Result{Value: v, Canonical: true}
	}
	if v, ok := offerTypeAliases.substring(strings.ToLower(url)); ok {
		return Result{Value: v, Canonical: true}
	}
	if original := firstNonEmpty(text, url); original != "" {
		tr.Record("offer_type", original)
	}
	return Result{}
}

// PropertyType normalizes the property kind from title text, falling back to
// the details URL. No literal fallback, same as OfferType.
func PropertyType(text, url string, tr *Tracker) Result {
	if v, ok := propertyTypeAliases.substring(strings.ToLower(text)); ok {
		return Result{Value: v, Canonical: true}
	}
	if v, ok := propertyTypeAliases.substring(strings.ToLower(url)); ok {
		return Result{Value: v, Canonical: true}
	}
	if original := firstNonEmpty(text, url); original != "" {
		tr.Record("property_type", original)
	}
	return Result{}
}

// City normalizes a location string to a canonical city. Handles "гр. София",
// "град Пловдив", "Sofia" and comma-separated location lines. Unmatched input
// falls back to the cleaned first segment.
func City(location string, tr *Tracker) Result {
	if location == "" {
		return Result{}
	}

	clean := cityPrefixRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(location)), "")
	if v, ok := cityAliases.exact(strings.TrimSpace(clean)); ok {
		return Result{Value: v, Canonical: true}
	}
	if v, ok := cityAliases.substring(strings.ToLower(location)); ok {
		return Result{Value: v, Canonical: true}
	}

	// Some sites put "City, Neighborhood" in one field.
	firstPart := strings.TrimSpace(strings.SplitN(location, ",", 2)[0])
	firstClean := cityPrefixRe.ReplaceAllString(strings.ToLower(firstPart), "")
	if v, ok := cityAliases.exact(strings.TrimSpace(firstClean)); ok {
		return Result{Value: v, Canonical: true}
	}

	if firstPart == "" {
		return Result{}
	}
	// Villages and small towns are expected here; only track plausible names.
	if len(firstPart) < 60 {
		tr.Record("city", firstPart)
	}
	fallback := strings.TrimSpace(cityPrefixRe.ReplaceAllString(firstPart, ""))
	return Result{Value: fallback}
}

// Neighborhood normalizes a neighborhood name using the city as context for
// which table to consult. An unknown city tries Sofia's table before
// Plovdiv's. Unmatched input falls back to the cleaned, title-cased name.
func Neighborhood(name, city string, tr *Tracker) Result {
	if name == "" {
		return Result{}
	}

	clean := neighborhoodPrefixRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "")
	clean = strings.TrimSpace(clean)

	cityLower := strings.ToLower(city)
	isSofia := strings.Contains(cityLower, "соф") || strings.Contains(cityLower, "sof")
	isPlovdiv := strings.Contains(cityLower, "плов") || strings.Contains(cityLower, "plov")

	var tables []*aliasTable
	switch {
	case isSofia:
		tables = []*aliasTable{sofiaNeighborhoodAliases}
	case isPlovdiv:
		tables = []*aliasTable{plovdivNeighborhoodAliases}
	default:
		tables = []*aliasTable{sofiaNeighborhoodAliases, plovdivNeighborhoodAliases}
	}

	for _, table := range tables {
		if v, ok := table.exact(clean); ok {
			return Result{Value: v, Canonical: true}
		}
	}
	for _, table := range tables {
		if v, ok := table.substring(strings.ToLower(name)); ok {
			return Result{Value: v, Canonical: true}
		}
	}

	if clean == "" {
		return Result{Value: strings.TrimSpace(name)}
	}
	if len(clean) < 100 {
		tr.Record("neighborhood", strings.TrimSpace(name))
	}
	// A cases.Caser is stateful and must not be shared across goroutines.
	return Result{Value: cases.Title(language.Bulgarian).String(clean)}
}

// Currency detects the price currency. EUR is checked before BGN because many
// sites print an EUR price with its BGN equivalent on the same line; EUR is
// authoritative in that case.
func Currency(text string) Result {
	if text == "" {
		return Result{}
	}
	lower := strings.ToLower(text)
	for _, alias := range eurAliases {
		if strings.Contains(lower, alias) {
			return Result{Value: string(domain.CurrencyEUR), Canonical: true}
		}
	}
	for _, alias := range bgnAliases {
		if strings.Contains(lower, alias) {
			return Result{Value: string(domain.CurrencyBGN), Canonical: true}
		}
	}
	return Result{}
}

// Agency canonicalizes an agency name, falling back to the trimmed original.
func Agency(name string, tr *Tracker) Result {
	if name == "" {
		return Result{}
	}
	if v, ok := knownAgencies[strings.ToLower(strings.TrimSpace(name))]; ok {
		return Result{Value: v, Canonical: true}
	}
	trimmed := strings.TrimSpace(name)
	if trimmed != "" && len(trimmed) < 100 {
		tr.Record("agency", trimmed)
	}
	return Result{Value: trimmed}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
