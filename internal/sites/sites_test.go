package sites

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/imotstat/go-estate-crawler/internal/domain"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func TestApplyMappings(t *testing.T) {
	doc := docFromHTML(t, `
		<div class="item">
			<div class="price"><div>179 000 €</div></div>
			<a class="title" href="/offer/1">Продава 2-стаен</a>
		</div>`)

	raw := &domain.RawListing{}
	applyMappings(doc.Find("div.item"), raw, []FieldMapping{
		{Selector: "div.price div", Assign: func(r *domain.RawListing, v string) { r.PriceText = v }},
		{Selector: "a.title", Attr: "href", Clean: func(v string) string { return "https://example.com" + v },
			Assign: func(r *domain.RawListing, v string) { r.DetailsURL = v }},
		{Selector: "div.missing", Assign: func(r *domain.RawListing, v string) { r.AgencyName = v }},
	})

	if raw.PriceText != "179 000 €" {
		t.Errorf("PriceText = %q", raw.PriceText)
	}
	if raw.DetailsURL != "https://example.com/offer/1" {
		t.Errorf("DetailsURL = %q", raw.DetailsURL)
	}
	if raw.AgencyName != "" {
		t.Errorf("missing selector must assign empty, got %q", raw.AgencyName)
	}
}

func TestSplitImotBgTitle(t *testing.T) {
	doc := docFromHTML(t, `
		<div class="item">
			<a class="title">Продава 2-СТАЕН<location>град София, Лозенец</location></a>
		</div>`)

	title, location := splitImotBgTitle(doc.Find("div.item"))
	if title != "Продава 2-СТАЕН" {
		t.Errorf("title = %q", title)
	}
	if location != "град София, Лозенец" {
		t.Errorf("location = %q", location)
	}
}

func TestExtractImotBgTotal(t *testing.T) {
	doc := docFromHTML(t, `<span class="pageNumbersInfo">Обяви 1 - 24 от общо 1234</span>`)
	if got := extractImotBgTotal(doc); got != 1234 {
		t.Errorf("total = %d, want 1234", got)
	}
}

func TestExtractImotBgRef(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"ida123456", "123456"},
		{"id98765", "98765"},
		{"header", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := extractImotBgRef(tt.id); got != tt.want {
			t.Errorf("extractImotBgRef(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestImotBgNextPageURL(t *testing.T) {
	s := NewImotBg(nil, nil)
	page := &Page{HasMore: true}

	tests := []struct {
		name    string
		current string
		pageNum int
		want    string
	}{
		{
			"plain url",
			"https://www.imot.bg/obiavi/prodava/sofia",
			2,
			"https://www.imot.bg/obiavi/prodava/sofia/p-2",
		},
		{
			"replaces existing page",
			"https://www.imot.bg/obiavi/prodava/sofia/p-2",
			3,
			"https://www.imot.bg/obiavi/prodava/sofia/p-3",
		},
		{
			"keeps query string",
			"https://www.imot.bg/pcgi/imot.cgi?act=3&slink=abc",
			2,
			"https://www.imot.bg/pcgi/imot.cgi/p-2?act=3&slink=abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.GetNextPageURL(page, tt.current, tt.pageNum); got != tt.want {
				t.Errorf("GetNextPageURL = %q, want %q", got, tt.want)
			}
		})
	}

	if got := s.GetNextPageURL(&Page{}, "https://www.imot.bg/obiavi", 2); got != "" {
		t.Errorf("empty page must end the walk, got %q", got)
	}
}

func TestImotBgTotalPages(t *testing.T) {
	s := NewImotBg(nil, nil)
	if got := s.GetTotalPages(&Page{TotalOffers: 1234}); got != 52 {
		t.Errorf("GetTotalPages = %d, want 52", got)
	}
	if got := s.GetTotalPages(&Page{}); got != 0 {
		t.Errorf("GetTotalPages without counter = %d, want 0", got)
	}
}

func TestImotiNetNextPageURL(t *testing.T) {
	s := NewImotiNet(nil, nil)
	page := &Page{HasMore: true, TotalPages: 3}

	got := s.GetNextPageURL(page, "https://www.imoti.net/bg/obiavi/r/prodava/sofia/?page=1&sid=x", 2)
	want := "https://www.imoti.net/bg/obiavi/r/prodava/sofia/?page=2&sid=x"
	if got != want {
		t.Errorf("GetNextPageURL = %q, want %q", got, want)
	}

	if got := s.GetNextPageURL(page, "https://www.imoti.net/bg/obiavi/?page=3", 4); got != "" {
		t.Errorf("walk past last page must stop, got %q", got)
	}
}

func TestAreaFromImotiNetTitle(t *testing.T) {
	if got := areaFromImotiNetTitle("Двустаен апартамент, 65 кв.м, Лозенец"); got != "65 кв.м" {
		t.Errorf("area = %q, want 65 кв.м", got)
	}
	if got := areaFromImotiNetTitle("Гараж"); got != "" {
		t.Errorf("area = %q, want empty", got)
	}
}

func TestHomesBgNextPageURL(t *testing.T) {
	s := NewHomesBg(nil, nil, 0)

	got := s.GetNextPageURL(&Page{HasMore: true},
		"https://www.homes.bg/api/offers?currencyId=1&typeId=ApartmentSell", 2)
	want := "https://www.homes.bg/api/offers?currencyId=1&typeId=ApartmentSell&startIndex=100&stopIndex=200"
	if got != want {
		t.Errorf("GetNextPageURL = %q, want %q", got, want)
	}

	// Previous window parameters are replaced, not appended.
	got = s.GetNextPageURL(&Page{HasMore: true}, want, 3)
	want = "https://www.homes.bg/api/offers?currencyId=1&typeId=ApartmentSell&startIndex=200&stopIndex=300"
	if got != want {
		t.Errorf("GetNextPageURL = %q, want %q", got, want)
	}

	if got := s.GetNextPageURL(&Page{HasMore: false}, want, 4); got != "" {
		t.Errorf("hasMoreItems=false must stop the walk, got %q", got)
	}
}

func TestReverseHomesBgLocation(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Лозенец, София", "София, Лозенец"},
		{"Кършияка, Пловдив", "Пловдив, Кършияка"},
		{"Равда", "Равда"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := reverseHomesBgLocation(tt.raw); got != tt.want {
			t.Errorf("reverseHomesBgLocation(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestFormatHomesBgPrice(t *testing.T) {
	if got := formatHomesBgPrice(179000, "EUR"); got != "179000 EUR" {
		t.Errorf("price = %q, want 179000 EUR", got)
	}
	if got := formatHomesBgPrice(0, "EUR"); got != "" {
		t.Errorf("zero price must format empty, got %q", got)
	}
}

func TestAbsURL(t *testing.T) {
	tests := []struct {
		base string
		href string
		want string
	}{
		{"https://www.imot.bg", "/offer/1", "https://www.imot.bg/offer/1"},
		{"https://www.imot.bg", "//www.imot.bg/offer/1", "https://www.imot.bg/offer/1"},
		{"https://homes.bg", "https://other.bg/x", "https://other.bg/x"},
		{"https://homes.bg", "", ""},
	}
	for _, tt := range tests {
		if got := absURL(tt.base, tt.href); got != tt.want {
			t.Errorf("absURL(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.want)
		}
	}
}
