package domain

import "testing"

func TestFingerprint(t *testing.T) {
	tests := []struct {
		name    string
		listing ListingData
		want    string
	}{
		{
			"full",
			ListingData{Price: 179120, Area: 95.3, PropertyType: "двустаен", City: "София"},
			"179100|95|двустаен|София",
		},
		{
			"price rounds down",
			ListingData{Price: 179049, Area: 95.8, PropertyType: "двустаен", City: "София"},
			"179000|95|двустаен|София",
		},
		{
			"price rounds up",
			ListingData{Price: 179051, Area: 95.8, PropertyType: "двустаен", City: "София"},
			"179100|95|двустаен|София",
		},
		{
			"exact tie rounds to even hundred",
			ListingData{Price: 179050, Area: 95.3, PropertyType: "двустаен", City: "София"},
			"179000|95|двустаен|София",
		},
		{
			"exact tie with even neighbor above",
			ListingData{Price: 179150, Area: 95.3, PropertyType: "двустаен", City: "София"},
			"179200|95|двустаен|София",
		},
		{
			"missing price and area",
			ListingData{PropertyType: "гараж", City: "Варна"},
			"||гараж|Варна",
		},
		{
			"empty listing",
			ListingData{},
			"|||",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.listing.Fingerprint(); got != tt.want {
				t.Errorf("Fingerprint() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Near-identical listings from different sites must collide: that is the
// point of the coarse key.
func TestFingerprintCollision(t *testing.T) {
	a := ListingData{Site: "imotbg", Price: 179010, Area: 95.3, PropertyType: "двустаен", City: "София"}
	b := ListingData{Site: "homesbg", Price: 179040, Area: 95.8, PropertyType: "двустаен", City: "София"}

	if a.Fingerprint() != b.Fingerprint() {
		t.Errorf("fingerprints differ: %q vs %q", a.Fingerprint(), b.Fingerprint())
	}
	if HashFingerprint(a.Fingerprint()) != HashFingerprint(b.Fingerprint()) {
		t.Error("hashes differ for equal fingerprints")
	}
}

func TestFingerprintStrict(t *testing.T) {
	l := ListingData{Price: 100000, Area: 80, PropertyType: "тристаен", City: "София", Neighborhood: "Лозенец"}
	if got, want := l.FingerprintStrict(), "100000|80|тристаен|София|Лозенец"; got != want {
		t.Errorf("FingerprintStrict() = %q, want %q", got, want)
	}
}

func TestFingerprintLoose(t *testing.T) {
	a := ListingData{Price: 179010, Area: 95, PropertyType: "двустаен", City: "София"}
	b := ListingData{Price: 179240, Area: 102, PropertyType: "двустаен", City: "София"}

	if a.FingerprintLoose() != b.FingerprintLoose() {
		t.Errorf("loose fingerprints differ: %q vs %q", a.FingerprintLoose(), b.FingerprintLoose())
	}
	if got, want := a.FingerprintLoose(), "179000|двустаен|София"; got != want {
		t.Errorf("FingerprintLoose() = %q, want %q", got, want)
	}
}

func TestHashFingerprintDeterministic(t *testing.T) {
	fp := "179000|95|двустаен|София"
	if HashFingerprint(fp) != HashFingerprint(fp) {
		t.Error("hash is not deterministic")
	}
	if got := len(HashFingerprint(fp)); got != 32 {
		t.Errorf("hash length = %d, want 32 hex chars", got)
	}
}
