// Package extract contains the regex field extractors for Bulgarian listing
// text. All functions are pure, accept arbitrary (possibly empty) input and
// degrade to zero values on no match. A parse miss is routine, not an error.
package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	nonDigitRe = regexp.MustCompile(`[^\d]`)

	// "56 кв.м", "207.43 м²", "Площ: 251,01 м2"
	areaRe = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(?:кв\.?\s*)?м`)

	// "Етаж: 3", "Етаж: партер", "Етаж: последен"
	floorLabelRe = regexp.MustCompile(`(?i)етаж:\s*(\d+|партер|последен)`)
	// "6-ти ет.", "ет. 3", "3 ет."
	floorShortRe = regexp.MustCompile(`(\d+)(?:-\p{L}+)?\s*ет\.?|ет\.?\s*(\d+)`)
	// bare numeric floor text
	floorBareRe = regexp.MustCompile(`^\d+$`)

	// description fallbacks: "на 3-ти етаж", "етаж 5", "5 етаж"
	floorDescRe      = regexp.MustCompile(`(?i)(?:на\s+)?(\d+)(?:-\p{L}+)?\s*етаж`)
	floorDescLabelRe = regexp.MustCompile(`(?i)етаж\s*(\d+)`)

	// "8-ми ет. от 8", "3-ти етаж от 8"
	totalFloorsDescRe = regexp.MustCompile(`(?i)\d+(?:-\p{L}+)?\s*(?:ет\.?|етаж)\s*от\s*(\d+)`)

	// direct total-floors fields: "Етажност: 8", "от 8 етажа", "8-етажна сграда"
	totalFloorsLabelRe = regexp.MustCompile(`(?i)етажност(?:\s+на\s+сградата)?:\s*(\d+)`)
	totalFloorsFromRe  = regexp.MustCompile(`(?i)от\s*(\d+)\s*(?:етаж|ет\.)`)
	totalFloorsBuildRe = regexp.MustCompile(`(?i)(\d+)-етажна`)

	// "12 снимки"
	photoCountRe = regexp.MustCompile(`(\d+)\s*снимк`)

	intRe = regexp.MustCompile(`\d+`)

	// location formats: "гр. X, Y" / "град X, Y"
	locationCityRe = regexp.MustCompile(`(?i)(?:гр\.|град)\s*([^,/]+)[,/]\s*(.+)`)

	cityPrefixRe         = regexp.MustCompile(`(?i)^(?:гр\.|град|с\.)\s*`)
	neighborhoodPrefixRe = regexp.MustCompile(`(?i)^(?:кв\.|квартал)\s*`)
)

// Price parses the numeric price from a price line, taking only the text
// before the first currency marker so lines like "179 000 €350 093 лв."
// yield the first figure. Returns 0 when nothing numeric remains.
func Price(text string) float64 {
	if text == "" {
		return 0
	}
	first := strings.SplitN(text, "лв", 2)[0]
	first = strings.SplitN(first, "€", 2)[0]
	cleaned := nonDigitRe.ReplaceAllString(first, "")
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}

// WithoutVAT reports whether a price line is marked as excluding VAT.
func WithoutVAT(text string) bool {
	return strings.Contains(strings.ToLower(text), "ддс")
}

// Area parses square meters from texts like "56 кв.м" or "Площ: 207.43 м²".
// Comma decimals are normalized to dots. Returns 0 on no match.
func Area(text string) float64 {
	m := areaRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return 0
	}
	return v
}

// Floor extracts the floor from a dedicated floor field. The value may be
// numeric text or the special tokens "партер" (ground) and "последен" (top),
// which are kept verbatim.
func Floor(text string) string {
	if text == "" {
		return ""
	}
	if m := floorLabelRe.FindStringSubmatch(text); m != nil {
		return strings.ToLower(m[1])
	}
	if m := floorShortRe.FindStringSubmatch(text); m != nil {
		if m[1] != "" {
			return m[1]
		}
		return m[2]
	}
	if trimmed := strings.TrimSpace(text); floorBareRe.MatchString(trimmed) {
		return trimmed
	}
	return ""
}

// FloorFromDescription is the free-text fallback used when a listing has no
// floor field: "на 3-ти етаж", "етаж 5", "партерен етаж".
func FloorFromDescription(text string) string {
	if text == "" {
		return ""
	}
	if m := floorDescRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := floorDescLabelRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if strings.Contains(strings.ToLower(text), "партер") {
		return "партер"
	}
	return ""
}

// TotalFloors parses a building's floor count from a dedicated field:
// "Етажност: 8", "от 8 етажа", "8-етажна сграда" or a bare number.
func TotalFloors(text string) string {
	if text == "" {
		return ""
	}
	for _, re := range []*regexp.Regexp{totalFloorsLabelRe, totalFloorsFromRe, totalFloorsBuildRe} {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	if trimmed := strings.TrimSpace(text); floorBareRe.MatchString(trimmed) {
		return trimmed
	}
	return ""
}

// TotalFloorsFromDescription derives the floor count from a floor expression
// in free text, e.g. "8-ми ет. от 8" yields "8". Always a fallback for sites
// that do not expose the count directly.
func TotalFloorsFromDescription(text string) string {
	if m := totalFloorsDescRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// PhotoCount parses "12 снимки" style photo counters.
func PhotoCount(text string) int {
	if m := photoCountRe.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	return 0
}

// Int pulls the first integer out of arbitrary text, 0 when none.
func Int(text string) int {
	if m := intRe.FindString(text); m != "" {
		n, _ := strconv.Atoi(m)
		return n
	}
	return 0
}

// Location splits a location line into raw (city, neighborhood) candidates.
// Formats tried in order: "гр./град X, Y", "X / Y", "X, Y", then a bare city.
// Known prefixes are stripped from both parts; no alias lookup happens here.
func Location(text string) (city, neighborhood string) {
	text = strings.TrimSpace(strings.NewReplacer("\u00a0", " ", "&nbsp;", " ").Replace(text))
	if text == "" {
		return "", ""
	}

	if m := locationCityRe.FindStringSubmatch(text); m != nil {
		city = strings.TrimSpace(m[1])
		neighborhood = strings.TrimSpace(neighborhoodPrefixRe.ReplaceAllString(strings.TrimSpace(m[2]), ""))
		return city, neighborhood
	}

	if i := strings.Index(text, " / "); i >= 0 {
		city = cityPrefixRe.ReplaceAllString(text[:i], "")
		neighborhood = neighborhoodPrefixRe.ReplaceAllString(text[i+3:], "")
		return strings.TrimSpace(city), strings.TrimSpace(neighborhood)
	}

	if i := strings.Index(text, ", "); i >= 0 {
		city = cityPrefixRe.ReplaceAllString(text[:i], "")
		return strings.TrimSpace(city), strings.TrimSpace(text[i+2:])
	}

	return strings.TrimSpace(cityPrefixRe.ReplaceAllString(text, "")), ""
}
