package extract

import "testing"

func TestPrice(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"plain eur", "179 000 €", 179000},
		{"eur with bgn equivalent", "179 000 €350 093.57 лв.", 179000},
		{"plain bgn", "250 000 лв.", 250000},
		{"bgn with vat note", "120 000 лв. без ДДС", 120000},
		{"no currency marker", "95000", 95000},
		{"price on request", "Цена при запитване", 0},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Price(tt.raw); got != tt.want {
				t.Errorf("Price(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestWithoutVAT(t *testing.T) {
	if !WithoutVAT("120 000 лв. без ДДС") {
		t.Error("expected VAT flag for price with ДДС note")
	}
	if WithoutVAT("120 000 лв.") {
		t.Error("unexpected VAT flag for plain price")
	}
}

func TestArea(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"info line", "56 кв.м, 6-ти ет.", 56},
		{"decimal comma", "Площ: 251,01 м2", 251.01},
		{"decimal dot", "207.43 м²", 207.43},
		{"no area", "гараж в центъра", 0},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Area(tt.raw); got != tt.want {
				t.Errorf("Area(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFloor(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"labeled number", "Етаж: 3", "3"},
		{"labeled ground", "Етаж: партер", "партер"},
		{"labeled top", "Етаж: последен", "последен"},
		{"ordinal short", "6-ти ет. от 8", "6"},
		{"short prefix", "ет. 3", "3"},
		{"bare number", "3", "3"},
		{"no floor", "тухла", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Floor(tt.raw); got != tt.want {
				t.Errorf("Floor(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFloorFromDescription(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"ordinal phrase", "Апартаментът е на 3-ти етаж с южно изложение", "3"},
		{"trailing label", "светъл имот, етаж 5, след ремонт", "5"},
		{"ground floor", "магазин на партерен етаж", "партер"},
		{"no mention", "панорамна гледка към Витоша", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FloorFromDescription(tt.raw); got != tt.want {
				t.Errorf("FloorFromDescription(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestTotalFloors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"labeled", "Етажност: 8", "8"},
		{"from phrase", "от 8 етажа", "8"},
		{"building form", "8-етажна сграда", "8"},
		{"bare number", "8", "8"},
		{"bare number padded", " 12 ", "12"},
		{"missing", "тухла, с асансьор", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TotalFloors(tt.raw); got != tt.want {
				t.Errorf("TotalFloors(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestTotalFloorsFromDescription(t *testing.T) {
	if got := TotalFloorsFromDescription("тристаен, 6-ти ет. от 8, тухла"); got != "8" {
		t.Errorf("got %q, want 8", got)
	}
	if got := TotalFloorsFromDescription("двустаен на 3-ти етаж"); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestPhotoCount(t *testing.T) {
	if got := PhotoCount("12 снимки"); got != 12 {
		t.Errorf("got %d, want 12", got)
	}
	if got := PhotoCount("виж на карта"); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}

func TestLocation(t *testing.T) {
	tests := []struct {
		name             string
		raw              string
		wantCity         string
		wantNeighborhood string
	}{
		{"city prefix comma", "гр. София, Лозенец", "София", "Лозенец"},
		{"city prefix slash", "град Пловдив/ Кършияка", "Пловдив", "Кършияка"},
		{"slash separated", "София / Център", "София", "Център"},
		{"comma separated", "Пловдив, кв. Кършияка", "Пловдив", "кв. Кършияка"},
		{"village only", "с. Равда", "Равда", ""},
		{"bare city", "Варна", "Варна", ""},
		{"nbsp noise", "\u0433\u0440.\u00a0София, Изток", "София", "Изток"},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			city, neighborhood := Location(tt.raw)
			if city != tt.wantCity || neighborhood != tt.wantNeighborhood {
				t.Errorf("Location(%q) = (%q, %q), want (%q, %q)",
					tt.raw, city, neighborhood, tt.wantCity, tt.wantNeighborhood)
			}
		})
	}
}
