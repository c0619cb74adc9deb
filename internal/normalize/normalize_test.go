package normalize

import (
	"fmt"
	"sync"
	"testing"
)

func TestOfferType(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		url           string
		want          string
		wantCanonical bool
	}{
		{"from title", "Продава 2-стаен, 65 кв.м", "", "продава", true},
		{"rent from title", "Дава под наем офис", "", "наем", true},
		{"from url slug", "", "https://www.imoti.net/bg/obiavi/r/prodava/sofia/", "продава", true},
		{"api type id", "", "https://www.homes.bg/api/offers?typeId=ApartmentSell", "продава", true},
		{"unmatched", "Изгодна оферта", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker()
			got := OfferType(tt.text, tt.url, tr)
			if got.Value != tt.want || got.Canonical != tt.wantCanonical {
				t.Errorf("OfferType(%q, %q) = %+v, want {%q %v}",
					tt.text, tt.url, got, tt.want, tt.wantCanonical)
			}
		})
	}
}

func TestOfferTypeRecordsUnknown(t *testing.T) {
	tr := NewTracker()
	OfferType("Изгодна оферта", "", tr)

	unknown := tr.Unknown()
	if len(unknown["offer_type"]) != 1 || unknown["offer_type"][0] != "Изгодна оферта" {
		t.Errorf("tracker = %v, want the unmatched title under offer_type", unknown)
	}
}

func TestPropertyType(t *testing.T) {
	tests := []struct {
		name string
		text string
		url  string
		want string
	}{
		{"two room", "Продава Двустаен апартамент, 65 кв.м", "", "двустаен"},
		{"numeric form", "Продава 3-СТАЕН, гр. София", "", "тристаен"},
		{"maisonette", "Мезонет в Лозенец", "", "мезонет"},
		{"from url", "", "https://www.imot.bg/obiavi/prodazhbi/dvustaen/sofia", "двустаен"},
		{"land", "Продава ПАРЦЕЛ", "", "земя"},
		{"unmatched", "Продава имот", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PropertyType(tt.text, tt.url, NewTracker())
			if got.Value != tt.want {
				t.Errorf("PropertyType(%q, %q) = %q, want %q", tt.text, tt.url, got.Value, tt.want)
			}
		})
	}
}

func TestCity(t *testing.T) {
	tests := []struct {
		name          string
		raw           string
		want          string
		wantCanonical bool
	}{
		{"canonical", "София", "София", true},
		{"with prefix", "гр. София", "София", true},
		{"transliterated", "Sofia", "София", true},
		{"city with neighborhood", "Пловдив, Кършияка", "Пловдив", true},
		{"village fallback", "с. Равда", "Равда", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := City(tt.raw, NewTracker())
			if got.Value != tt.want || got.Canonical != tt.wantCanonical {
				t.Errorf("City(%q) = %+v, want {%q %v}", tt.raw, got, tt.want, tt.wantCanonical)
			}
		})
	}
}

func TestNeighborhood(t *testing.T) {
	tests := []struct {
		name          string
		raw           string
		city          string
		want          string
		wantCanonical bool
	}{
		{"canonical sofia", "Лозенец", "София", "Лозенец", true},
		{"prefixed", "кв. Лозенец", "София", "Лозенец", true},
		{"zhk prefixed", "ж.к. Младост 1", "София", "Младост 1", true},
		{"abbreviated", "ив. вазов", "София", "Иван Вазов", true},
		{"plovdiv table", "Кършияка", "Пловдив", "Кършияка", true},
		{"unknown city tries both", "Капана", "", "Капана", true},
		{"fallback title case", "старата чешма", "София", "Старата Чешма", false},
		{"empty", "", "София", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Neighborhood(tt.raw, tt.city, NewTracker())
			if got.Value != tt.want || got.Canonical != tt.wantCanonical {
				t.Errorf("Neighborhood(%q, %q) = %+v, want {%q %v}",
					tt.raw, tt.city, got, tt.want, tt.wantCanonical)
			}
		})
	}
}

// A canonical value fed back through normalization must stay canonical.
func TestNeighborhoodIdempotent(t *testing.T) {
	first := Neighborhood("кв. манастирски ливади", "София", NewTracker())
	second := Neighborhood(first.Value, "София", NewTracker())
	if second.Value != first.Value || !second.Canonical {
		t.Errorf("re-normalizing %q gave %+v", first.Value, second)
	}
}

// The worker pool normalizes from several goroutines at once, so the
// title-case fallback must hold up under concurrent calls (run with -race).
func TestNeighborhoodConcurrentFallback(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				got := Neighborhood("старата чешма", "София", nil)
				if got.Value != "Старата Чешма" {
					t.Errorf("Neighborhood fallback = %q, want Старата Чешма", got.Value)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestCurrency(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"eur symbol", "179 000 €", "EUR"},
		{"eur word", "179 000 евро", "EUR"},
		{"bgn", "250 000 лв.", "BGN"},
		{"both currencies prefer eur", "179 000 €350 093.57 лв.", "EUR"},
		{"none", "Цена при запитване", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Currency(tt.raw); got.Value != tt.want {
				t.Errorf("Currency(%q) = %q, want %q", tt.raw, got.Value, tt.want)
			}
		})
	}
}

func TestAgency(t *testing.T) {
	tests := []struct {
		name          string
		raw           string
		want          string
		wantCanonical bool
	}{
		{"known spelling", "явлена", "Явлена", true},
		{"transliterated", "Yavlena", "Явлена", true},
		{"slash brand", "RE/MAX", "RE/MAX", true},
		{"unknown passes through", "  Имоти Витоша ЕООД ", "Имоти Витоша ЕООД", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Agency(tt.raw, NewTracker())
			if got.Value != tt.want || got.Canonical != tt.wantCanonical {
				t.Errorf("Agency(%q) = %+v, want {%q %v}", tt.raw, got, tt.want, tt.wantCanonical)
			}
		})
	}
}

func TestTrackerRecordAndClear(t *testing.T) {
	tr := NewTracker()
	tr.Record("city", "Равда")
	tr.Record("city", "Равда")
	tr.Record("city", "Созопол")
	tr.Record("agency", "")

	unknown := tr.Unknown()
	if got := unknown["city"]; len(got) != 2 || got[0] != "Равда" || got[1] != "Созопол" {
		t.Errorf("city values = %v, want deduplicated sorted pair", got)
	}
	if _, ok := unknown["agency"]; ok {
		t.Error("empty values must not be recorded")
	}

	tr.Clear()
	if len(tr.Unknown()) != 0 {
		t.Error("Clear must drop all recorded values")
	}
}

func TestTrackerNilReceiver(t *testing.T) {
	var tr *Tracker
	tr.Record("city", "Равда") // must not panic
}

func TestTrackerConcurrent(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tr.Record("city", fmt.Sprintf("село %d-%d", n, j))
			}
		}(i)
	}
	wg.Wait()

	if got := len(tr.Unknown()["city"]); got != 1000 {
		t.Errorf("recorded %d values, want 1000", got)
	}
}

func TestAliasTableLongestMatchWins(t *testing.T) {
	// "дава под наем" contains both the rent aliases and no sale alias;
	// ordering by length must pick the most specific one first.
	got := OfferType("Дава под наем тристаен", "", NewTracker())
	if got.Value != "наем" {
		t.Errorf("got %q, want наем", got.Value)
	}

	// "земеделска земя" is longer than "земя" and both map to the same
	// canonical value, so ordering must not change the outcome.
	prop := PropertyType("Продава земеделска земя", "", NewTracker())
	if prop.Value != "земя" {
		t.Errorf("got %q, want земя", prop.Value)
	}
}
